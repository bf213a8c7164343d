package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/showerpipe/showerpipe/internal/config"
	"github.com/showerpipe/showerpipe/internal/track"
)

// resetRunFlags restores the package-level flag state other tests or
// command runs may have left behind.
func resetRunFlags(t *testing.T) {
	t.Helper()
	saved := []struct {
		ptr *string
		val string
	}{
		{&dataDir, dataDir},
		{&configFile, configFile},
		{&outputDir, outputDir},
		{&corsikaBin, corsikaBin},
		{&template, template},
		{&preset, preset},
	}
	t.Cleanup(func() {
		for _, s := range saved {
			*s.ptr = s.val
		}
	})
	configFile = ""
	outputDir = ""
	corsikaBin = ""
	template = ""
	preset = ""
}

func writeFakeBinary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "corsika")
	script := `#!/bin/sh
prefix=$(awk '/^DIRECT/ {print $2}')
: > "${prefix}track_em"
`
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunUsesConfigOutputDir(t *testing.T) {
	resetRunFlags(t)
	dataDir = t.TempDir()

	cmd := &cobra.Command{}
	addRunFlags(cmd)

	wantDir := filepath.Join(t.TempDir(), "my-output")

	cfg := config.DefaultConfig()
	cfg.Seed = 1
	cfg.Paths.Executable = writeFakeBinary(t, t.TempDir())
	cfg.Paths.OutputDir = wantDir

	configFile = filepath.Join(t.TempDir(), "run.yaml")
	if err := config.Save(configFile, cfg); err != nil {
		t.Fatal(err)
	}

	if err := runSimulation(cmd, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(wantDir, "sim_track_em")); err != nil {
		t.Errorf("products not in the configured output dir: %v", err)
	}
}

func TestRunOutFlagBeatsConfigOutputDir(t *testing.T) {
	resetRunFlags(t)
	dataDir = t.TempDir()

	cmd := &cobra.Command{}
	addRunFlags(cmd)

	cfg := config.DefaultConfig()
	cfg.Seed = 1
	cfg.Paths.Executable = writeFakeBinary(t, t.TempDir())
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "from-config")

	configFile = filepath.Join(t.TempDir(), "run.yaml")
	if err := config.Save(configFile, cfg); err != nil {
		t.Fatal(err)
	}
	outputDir = filepath.Join(t.TempDir(), "from-flag")

	if err := runSimulation(cmd, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "sim_track_em")); err != nil {
		t.Errorf("products not in the --out dir: %v", err)
	}
}

func writeTrackFile(t *testing.T, path string, tracks []track.Track) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, tr := range tracks {
		if err := track.Append(f, tr); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExportJSONWritesTrackTable(t *testing.T) {
	resetRunFlags(t)
	dataDir = t.TempDir()

	runDir := t.TempDir()
	writeTrackFile(t, filepath.Join(runDir, "sim_track_em"), []track.Track{
		{ParticleID: 1, EnergyGeV: 10, StartZ: 1e5, EndZ: 0},
		{ParticleID: 2, EnergyGeV: 5},
	})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := exportJSON(cmd, []string{runDir}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var rows []trackRow
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("output is not a JSON track table: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Particle != "gamma" || rows[0].Channel != "em" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[0].ZStart != 1e5 {
		t.Errorf("expected z_start 1e5, got %g", rows[0].ZStart)
	}
	if rows[1].Particle != "electron" {
		t.Errorf("unexpected second row particle: %s", rows[1].Particle)
	}
}
