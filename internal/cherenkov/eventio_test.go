package cherenkov

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sampleEvent() *Event {
	return &Event{
		Telescopes: []Telescope{
			{XCm: 0, YCm: 0, ZCm: 500, RCm: 1500},
		},
		Photons: []Photon{
			{XCm: 120, YCm: -340, CosX: 0.01, CosY: -0.02, TimeNs: 12.5, EmissionHeightCm: 8.2e5, Bunch: 1, WavelengthNm: 420},
			{XCm: -55, YCm: 90, CosX: 0.0, CosY: 0.01, TimeNs: 13.1, EmissionHeightCm: 6.5e5, Bunch: 1, WavelengthNm: 380},
			{XCm: 5, YCm: 5, CosX: -0.01, CosY: 0.0, TimeNs: 11.9, EmissionHeightCm: 9.0e5, Bunch: 1, WavelengthNm: 505},
		},
	}
}

func TestReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvent(&buf, sampleEvent()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ev, err := Read(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(ev.Telescopes) != 1 {
		t.Fatalf("expected 1 telescope, got %d", len(ev.Telescopes))
	}
	if math.Abs(ev.Telescopes[0].RCm-1500) > 1e-3 {
		t.Errorf("telescope radius mangled: %g", ev.Telescopes[0].RCm)
	}

	if len(ev.Photons) != 3 {
		t.Fatalf("expected 3 photons, got %d", len(ev.Photons))
	}
	p := ev.Photons[0]
	if math.Abs(p.XCm-120) > 1e-3 || math.Abs(p.YCm+340) > 1e-3 {
		t.Errorf("impact point mangled: (%g, %g)", p.XCm, p.YCm)
	}
	if math.Abs(p.WavelengthNm-420) > 1e-3 {
		t.Errorf("wavelength mangled: %g", p.WavelengthNm)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim_cherenkov_iact")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteEvent(f, sampleEvent()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ev, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(ev.Photons) != 3 {
		t.Errorf("expected 3 photons, got %d", len(ev.Photons))
	}
}

func TestReadSkipsUnknownObjects(t *testing.T) {
	var buf bytes.Buffer

	// A run header the reader does not interpret.
	if err := writeObject(&buf, 1200, true, make([]byte, 32)); err != nil {
		t.Fatal(err)
	}
	if err := WriteEvent(&buf, sampleEvent()); err != nil {
		t.Fatal(err)
	}

	ev, err := Read(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(ev.Photons) != 3 {
		t.Errorf("expected 3 photons, got %d", len(ev.Photons))
	}
}

func TestReadNoPhotons(t *testing.T) {
	var buf bytes.Buffer
	if err := writeObject(&buf, 1200, true, make([]byte, 16)); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(&buf); !errors.Is(err, ErrNoPhotons) {
		t.Errorf("expected ErrNoPhotons, got %v", err)
	}
}

func TestReadBadSync(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []uint32{0xDEADBEEF, 1205, 0, 0})

	if _, err := Read(&buf); !errors.Is(err, ErrBadSync) {
		t.Errorf("expected ErrBadSync, got %v", err)
	}
}

func TestReadTruncatedObject(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvent(&buf, sampleEvent()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	if _, err := Read(bytes.NewReader(data[:len(data)-20])); err == nil {
		t.Error("expected error for truncated object")
	}
}
