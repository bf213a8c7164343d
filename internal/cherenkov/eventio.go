package cherenkov

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// syncMarker starts every top-level eventio object.
const syncMarker = 0xD41F8A37

// Object types of the IACT extension that this package understands.
const (
	typeTelescopePositions = 1201
	typeTelescopeData      = 1204
	typePhotons            = 1205
)

// lengthMask strips the flag bits of the header length field; the
// remaining bits give the payload size in bytes.
const lengthMask = 0x3FFFFFFF

var (
	// ErrNoPhotons indicates a file without any photon bunch block.
	ErrNoPhotons = errors.New("cherenkov: no photon bunches found")

	// ErrBadSync indicates a stream that does not start an object with
	// the eventio synchronization marker.
	ErrBadSync = errors.New("cherenkov: bad synchronization marker")
)

// Photon is a single Cherenkov photon bunch at ground level. The
// particletracks card sets bunch size one, so each entry is one photon.
type Photon struct {
	XCm              float64
	YCm              float64
	CosX             float64
	CosY             float64
	TimeNs           float64
	EmissionHeightCm float64
	Bunch            float64
	WavelengthNm     float64
}

// Telescope is one entry of the telescope position block. Positions
// and the fiducial sphere radius are centimetres.
type Telescope struct {
	XCm, YCm, ZCm, RCm float64
}

// Event is the extracted content of an IACT file: the telescope
// definitions and the first event's photon bunches.
type Event struct {
	Telescopes []Telescope
	Photons    []Photon
}

// ReadFile extracts the first event from an IACT output file.
func ReadFile(path string) (*Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ev, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ev, nil
}

// Read walks the object stream until the first photon block has been
// seen. Objects of unknown type are skipped by their declared length.
func Read(r io.Reader) (*Event, error) {
	ev := &Event{}

	for {
		typ, payload, err := readObject(r, true)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch typ {
		case typeTelescopePositions:
			tels, err := parseTelescopes(payload)
			if err != nil {
				return nil, err
			}
			ev.Telescopes = tels
		case typeTelescopeData:
			// Container of per-telescope sub-objects, headers without
			// the sync marker.
			photons, err := parseTelescopeData(payload)
			if err != nil {
				return nil, err
			}
			if photons != nil {
				ev.Photons = photons
				return ev, nil
			}
		case typePhotons:
			photons, err := parsePhotons(payload)
			if err != nil {
				return nil, err
			}
			ev.Photons = photons
			return ev, nil
		}
	}

	if ev.Photons == nil {
		return nil, ErrNoPhotons
	}
	return ev, nil
}

// readObject reads one object header and payload. Top-level objects
// are preceded by the sync marker, sub-objects are not.
func readObject(r io.Reader, topLevel bool) (int, []byte, error) {
	var head [4]uint32
	fields := head[:]
	if !topLevel {
		fields = head[1:]
	}
	if err := binary.Read(r, binary.LittleEndian, fields); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil, io.EOF
		}
		return 0, nil, err
	}
	if topLevel && head[0] != syncMarker {
		return 0, nil, fmt.Errorf("%w: 0x%08X", ErrBadSync, head[0])
	}

	typ := int(head[1] & 0xFFFF)
	length := int(head[3] & lengthMask)

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("cherenkov: truncated object type %d: %w", typ, err)
	}
	return typ, payload, nil
}

func parseTelescopes(payload []byte) ([]Telescope, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("cherenkov: telescope block too short")
	}
	n := int(int32(binary.LittleEndian.Uint32(payload)))
	if n < 0 || len(payload) < 4+n*16 {
		return nil, fmt.Errorf("cherenkov: telescope block truncated (n=%d)", n)
	}

	tels := make([]Telescope, n)
	off := 4
	for i := range tels {
		tels[i] = Telescope{
			XCm: f32at(payload, off),
			YCm: f32at(payload, off+4),
			ZCm: f32at(payload, off+8),
			RCm: f32at(payload, off+12),
		}
		off += 16
	}
	return tels, nil
}

func parseTelescopeData(payload []byte) ([]Photon, error) {
	r := &sliceReader{data: payload}
	for {
		typ, sub, err := readObject(r, false)
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if typ == typePhotons {
			return parsePhotons(sub)
		}
	}
}

// parsePhotons decodes a long-format photon bunch block: array and
// telescope indices, total bunch count header, then eight floats per
// bunch.
func parsePhotons(payload []byte) ([]Photon, error) {
	if len(payload) < 12 {
		return nil, fmt.Errorf("cherenkov: photon block too short")
	}
	// int16 array index, int16 telescope index, float32 photon sum.
	n := int(int32(binary.LittleEndian.Uint32(payload[8:])))
	if n < 0 || len(payload) < 12+n*32 {
		return nil, fmt.Errorf("cherenkov: photon block truncated (n=%d)", n)
	}

	photons := make([]Photon, n)
	off := 12
	for i := range photons {
		photons[i] = Photon{
			XCm:              f32at(payload, off),
			YCm:              f32at(payload, off+4),
			CosX:             f32at(payload, off+8),
			CosY:             f32at(payload, off+12),
			TimeNs:           f32at(payload, off+16),
			EmissionHeightCm: f32at(payload, off+20),
			Bunch:            f32at(payload, off+24),
			WavelengthNm:     f32at(payload, off+28),
		}
		off += 32
	}
	return photons, nil
}

func f32at(b []byte, off int) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))
}

// sliceReader is a minimal io.Reader over a byte slice that reports
// io.ErrUnexpectedEOF on short reads, matching binary.Read's needs.
type sliceReader struct {
	data []byte
	off  int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.off >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.off:])
	s.off += n
	return n, nil
}
