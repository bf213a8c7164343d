package track

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/showerpipe/showerpipe/internal/fortran"
)

func sampleTracks() []Track {
	return []Track{
		{
			Channel: ChannelEM, ParticleID: 1, EnergyGeV: 12.5,
			StartX: 100, StartY: -50, StartZ: 2.5e6, StartT: 10,
			EndX: 110, EndY: -48, EndZ: 2.4e6, EndT: 12,
		},
		{
			Channel: ChannelEM, ParticleID: 2, EnergyGeV: 0.3,
			StartX: -20, StartY: 5, StartZ: 1.1e6, StartT: 30,
			EndX: -25, EndY: 9, EndZ: 1.0e6, EndT: 33,
		},
	}
}

func TestReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	for _, tr := range sampleTracks() {
		if err := Append(&buf, tr); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	tracks, err := Read(&buf, ChannelEM)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	got := tracks[0]
	if got.ParticleID != 1 {
		t.Errorf("expected particle 1, got %d", got.ParticleID)
	}
	if math.Abs(got.EnergyGeV-12.5) > 1e-6 {
		t.Errorf("expected energy 12.5, got %g", got.EnergyGeV)
	}
	if math.Abs(got.StartZ-2.5e6) > 1 {
		t.Errorf("expected start z 2.5e6, got %g", got.StartZ)
	}
	if got.Channel != ChannelEM {
		t.Errorf("expected em channel, got %s", got.Channel)
	}
}

func TestReadEmptyStream(t *testing.T) {
	tracks, err := Read(bytes.NewReader(nil), ChannelMuon)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("expected no tracks, got %d", len(tracks))
	}
}

func TestReadBadRecordSize(t *testing.T) {
	var buf bytes.Buffer
	if err := fortran.WriteRecord(&buf, make([]byte, 12)); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(&buf, ChannelEM); !errors.Is(err, ErrBadRecord) {
		t.Errorf("expected ErrBadRecord, got %v", err)
	}
}

func writeTrackFile(t *testing.T, path string, tracks []Track) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, tr := range tracks {
		if err := Append(f, tr); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeTrackFile(t, filepath.Join(dir, "sim_track_em"), sampleTracks())
	writeTrackFile(t, filepath.Join(dir, "sim_track_mu"), nil)
	if err := os.WriteFile(filepath.Join(dir, "corsika_output.log"), []byte("log"), 0644); err != nil {
		t.Fatal(err)
	}

	ds, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if ds.EM == "" {
		t.Error("em file not found")
	}
	if ds.Muon == "" {
		t.Error("muon file not found")
	}
	if ds.Hadron != "" {
		t.Errorf("unexpected hadron file: %s", ds.Hadron)
	}
	if ds.Cherenkov != "" {
		t.Errorf("unexpected cherenkov file: %s", ds.Cherenkov)
	}
}

func TestScanEmptyDir(t *testing.T) {
	if _, err := Scan(t.TempDir()); !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err == nil || errors.Is(err, ErrNoFiles) {
		t.Errorf("expected filesystem error, got %v", err)
	}
}

func TestDatasetTracks(t *testing.T) {
	dir := t.TempDir()
	writeTrackFile(t, filepath.Join(dir, "sim_track_em"), sampleTracks())
	writeTrackFile(t, filepath.Join(dir, "sim_track_mu"), []Track{
		{Channel: ChannelMuon, ParticleID: 5, EnergyGeV: 50,
			StartZ: 3e6, EndZ: 2.9e6},
	})

	ds, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}

	tracks, err := ds.Tracks()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}

	// em first, then muon
	if tracks[0].Channel != ChannelEM {
		t.Errorf("expected em first, got %s", tracks[0].Channel)
	}
	last := tracks[len(tracks)-1]
	if last.Channel != ChannelMuon || last.ParticleID != 5 {
		t.Errorf("muon track not tagged: %+v", last)
	}
}

func TestDatasetTracks_TruncatedFileStopsAtBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim_track_em")
	writeTrackFile(t, path, sampleTracks())

	// Chop the file mid-record, as an interrupted run would.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-10], 0644); err != nil {
		t.Fatal(err)
	}

	tracks, err := ReadFile(path, ChannelEM)
	if err != nil && err != io.EOF {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("expected 1 complete track, got %d", len(tracks))
	}
}
