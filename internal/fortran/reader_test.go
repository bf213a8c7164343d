package fortran

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	records := [][]byte{
		[]byte("first"),
		[]byte("second record"),
		{},
		[]byte{0x01, 0x02, 0x03, 0x04},
	}
	for _, rec := range records {
		if err := WriteRecord(&buf, rec); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	r := NewReader(&buf)
	for i, want := range records {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("record %d: got %q, want %q", i, got, want)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at end, got %v", err)
	}
}

func TestReaderMarkerMismatch(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(4))
	buf.Write([]byte{1, 2, 3, 4})
	binary.Write(&buf, binary.LittleEndian, int32(8))

	r := NewReader(&buf)
	if _, err := r.Next(); !errors.Is(err, ErrMarkerMismatch) {
		t.Errorf("expected ErrMarkerMismatch, got %v", err)
	}
}

func TestReaderTruncated(t *testing.T) {
	tests := []struct {
		name string
		data func() []byte
	}{
		{"inside header", func() []byte { return []byte{0x04, 0x00} }},
		{"inside payload", func() []byte {
			var buf bytes.Buffer
			binary.Write(&buf, binary.LittleEndian, int32(40))
			buf.Write([]byte{1, 2, 3})
			return buf.Bytes()
		}},
		{"missing trailer", func() []byte {
			var buf bytes.Buffer
			binary.Write(&buf, binary.LittleEndian, int32(4))
			buf.Write([]byte{1, 2, 3, 4})
			return buf.Bytes()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tt.data()))
			if _, err := r.Next(); err != io.EOF {
				t.Errorf("expected io.EOF for truncated stream, got %v", err)
			}
		})
	}
}

func TestReaderNegativeLength(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(-8))

	r := NewReader(&buf)
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("expected error for negative length, got %v", err)
	}
}
