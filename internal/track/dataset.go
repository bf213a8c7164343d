package track

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNoFiles indicates a directory without any recognizable CORSIKA
// output.
var ErrNoFiles = errors.New("track: no CORSIKA output files found")

// Dataset holds the full paths of the output files one run produced.
// A path is empty when the run did not write that file.
type Dataset struct {
	Dir       string
	EM        string
	Muon      string
	Hadron    string
	Cherenkov string
}

// Scan locates CORSIKA output files in a directory by the suffixes the
// particletracks option uses. It fails only when nothing at all is
// found; single missing channels are normal (a gamma shower rarely
// produces hadron tracks).
func Scan(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch {
		case strings.HasSuffix(entry.Name(), "track_em"):
			ds.EM = path
		case strings.HasSuffix(entry.Name(), "track_mu"):
			ds.Muon = path
		case strings.HasSuffix(entry.Name(), "track_hd"):
			ds.Hadron = path
		case strings.HasSuffix(entry.Name(), "cherenkov_iact"):
			ds.Cherenkov = path
		}
	}

	if ds.EM == "" && ds.Muon == "" && ds.Hadron == "" && ds.Cherenkov == "" {
		return nil, ErrNoFiles
	}
	return ds, nil
}

// Tracks reads every available track file into one slice. The em file
// is read first, then muon, then hadron, so ordering is stable across
// calls.
func (ds *Dataset) Tracks() ([]Track, error) {
	var all []Track
	for _, src := range []struct {
		path string
		ch   Channel
	}{
		{ds.EM, ChannelEM},
		{ds.Muon, ChannelMuon},
		{ds.Hadron, ChannelHadron},
	} {
		if src.path == "" {
			continue
		}
		logrus.Infof("reading %s", filepath.Base(src.path))
		tracks, err := ReadFile(src.path, src.ch)
		if err != nil {
			return nil, err
		}
		all = append(all, tracks...)
	}
	return all, nil
}
