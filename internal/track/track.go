package track

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/showerpipe/showerpipe/internal/fortran"
)

// Channel identifies the detector channel a track file belongs to.
type Channel string

const (
	ChannelEM     Channel = "em"
	ChannelMuon   Channel = "muon"
	ChannelHadron Channel = "hadron"
)

// recordSize is ten 32-bit floats per track segment.
const recordSize = 10 * 4

// Track is one particle track segment. Positions are centimetres,
// times nanoseconds, the energy GeV.
type Track struct {
	Channel    Channel
	ParticleID int
	EnergyGeV  float64
	StartX     float64
	StartY     float64
	StartZ     float64
	StartT     float64
	EndX       float64
	EndY       float64
	EndZ       float64
	EndT       float64
}

// ErrBadRecord indicates a track record whose payload is not ten floats.
var ErrBadRecord = errors.New("track: record is not ten 32-bit floats")

// ReadFile parses a single track file and tags every segment with the
// given channel.
func ReadFile(path string, ch Channel) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tracks, err := Read(f, ch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tracks, nil
}

// Read parses track records from a Fortran sequential stream.
func Read(r io.Reader, ch Channel) ([]Track, error) {
	var tracks []Track

	fr := fortran.NewReader(r)
	for {
		payload, err := fr.Next()
		if err == io.EOF {
			return tracks, nil
		}
		if err != nil {
			return tracks, err
		}
		if len(payload) != recordSize {
			return tracks, fmt.Errorf("%w: got %d bytes", ErrBadRecord, len(payload))
		}

		var v [10]float64
		for i := range v {
			v[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:])))
		}

		tracks = append(tracks, Track{
			Channel:    ch,
			ParticleID: int(v[0]),
			EnergyGeV:  v[1],
			StartX:     v[2],
			StartY:     v[3],
			StartZ:     v[4],
			StartT:     v[5],
			EndX:       v[6],
			EndY:       v[7],
			EndZ:       v[8],
			EndT:       v[9],
		})
	}
}

// Append writes a track segment in the on-disk record format. The
// fake-output fixtures in tests and the example generator use it.
func Append(w io.Writer, tr Track) error {
	payload := make([]byte, recordSize)
	values := [10]float64{
		float64(tr.ParticleID), tr.EnergyGeV,
		tr.StartX, tr.StartY, tr.StartZ, tr.StartT,
		tr.EndX, tr.EndY, tr.EndZ, tr.EndT,
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(payload[i*4:], math.Float32bits(float32(v)))
	}
	return fortran.WriteRecord(w, payload)
}
