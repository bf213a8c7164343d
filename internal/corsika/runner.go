package corsika

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/showerpipe/showerpipe/internal/config"
)

// LogFileName is the name of the captured CORSIKA stdout/stderr.
const LogFileName = "corsika_output.log"

// CardFileName is the name of the generated input card kept with the run.
const CardFileName = "input_particletracks.inp"

// Runner invokes the compiled CORSIKA binary for a single run.
// CORSIKA must execute inside its own directory to find its data
// tables, and it truncates output paths beyond a fixed length, so the
// runner stages all output in a short-named scratch directory next to
// the executable and moves it to the requested output directory once
// the process has exited.
type Runner struct {
	cfg *config.Config
}

// RunResult describes a finished (or failed) invocation.
type RunResult struct {
	OutputDir string
	LogPath   string
	Card      string
	Files     []string
	Elapsed   time.Duration
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run generates the input card, starts the binary with the card on
// stdin and collects its products. The call is synchronous; cancelling
// the context kills the process.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	execPath, err := filepath.Abs(r.cfg.Paths.Executable)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(execPath); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutable, r.cfg.Paths.Executable)
	}

	outDir := r.cfg.Paths.OutputDir
	if outDir == "" {
		outDir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}

	// Short scratch name keeps the DIRECT path inside CORSIKA's limit.
	scratchName := uuid.NewString()[:8]
	scratchDir := filepath.Join(filepath.Dir(execPath), scratchName)
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, fmt.Errorf("corsika: creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	card, err := GenerateCard(r.cfg, "./"+scratchName+"/sim_")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(scratchDir, CardFileName), []byte(card), 0644); err != nil {
		return nil, fmt.Errorf("corsika: writing input card: %w", err)
	}

	logFile, err := os.Create(filepath.Join(scratchDir, LogFileName))
	if err != nil {
		return nil, fmt.Errorf("corsika: creating log file: %w", err)
	}

	cmd := exec.CommandContext(ctx, execPath)
	cmd.Dir = filepath.Dir(execPath)
	cmd.Stdin = strings.NewReader(card)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	logrus.Infof("starting CORSIKA simulation (run %d, %s at %g GeV)",
		r.cfg.RunNumber, r.cfg.Primary, r.cfg.EnergyGeV)
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	logFile.Close()

	// The log and any partial products are worth keeping even when the
	// binary failed, so collect before reporting the error.
	logrus.Infof("simulation finished after %v, collecting output", elapsed)
	files, collectErr := collect(scratchDir, outDir)

	result := &RunResult{
		OutputDir: outDir,
		LogPath:   filepath.Join(outDir, LogFileName),
		Card:      card,
		Files:     files,
		Elapsed:   elapsed,
	}

	if runErr != nil {
		wrapped := fmt.Errorf("%w: %v", ErrRunFailed, runErr)
		if collectErr != nil {
			wrapped = errors.Join(wrapped, collectErr)
		}
		return result, &RunError{
			LogPath: result.LogPath,
			Wrapped: wrapped,
		}
	}
	if collectErr != nil {
		return result, collectErr
	}
	return result, nil
}

// collect moves every regular file from the scratch directory into the
// output directory, creating it if needed.
func collect(scratchDir, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("corsika: creating output dir: %w", err)
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		return nil, fmt.Errorf("corsika: reading scratch dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(scratchDir, entry.Name())
		dst := filepath.Join(outDir, entry.Name())
		if err := moveFile(src, dst); err != nil {
			return files, fmt.Errorf("corsika: collecting %s: %w", entry.Name(), err)
		}
		files = append(files, dst)
	}
	return files, nil
}

// moveFile renames when possible and falls back to a copy across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
