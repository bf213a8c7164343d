// Package fortran reads Fortran sequential unformatted files.
//
// CORSIKA's particle track files are written by Fortran sequential
// WRITE statements: each record is framed by a 4-byte little-endian
// length marker before and after the payload, and both markers must
// agree. The package only covers this framing; interpreting the
// payload is left to the caller.
package fortran

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMarkerMismatch indicates a record whose leading and trailing
// length markers disagree, usually a corrupt or truncated file.
var ErrMarkerMismatch = errors.New("fortran: record markers do not match")

// Reader iterates over the records of a sequential unformatted stream.
type Reader struct {
	r   io.Reader
	buf []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the payload of the next record. It returns io.EOF at a
// clean end of stream; a stream that ends inside a record also
// terminates with io.EOF, matching how CORSIKA files cut off when the
// binary is interrupted. The returned slice is reused between calls.
func (r *Reader) Next() ([]byte, error) {
	var head int32
	if err := binary.Read(r.r, binary.LittleEndian, &head); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if head < 0 {
		return nil, fmt.Errorf("fortran: negative record length %d", head)
	}

	if cap(r.buf) < int(head) {
		r.buf = make([]byte, head)
	}
	r.buf = r.buf[:head]
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}

	var tail int32
	if err := binary.Read(r.r, binary.LittleEndian, &tail); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if head != tail {
		return nil, fmt.Errorf("%w: %d vs %d", ErrMarkerMismatch, head, tail)
	}

	return r.buf, nil
}

// WriteRecord frames a payload with matching length markers. Tests and
// tooling use it to produce files in the format Next consumes.
func WriteRecord(w io.Writer, payload []byte) error {
	marker := int32(len(payload))
	if err := binary.Write(w, binary.LittleEndian, marker); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, marker)
}
