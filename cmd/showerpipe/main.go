package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/showerpipe/showerpipe/internal/cherenkov"
	"github.com/showerpipe/showerpipe/internal/config"
	"github.com/showerpipe/showerpipe/internal/corsika"
	"github.com/showerpipe/showerpipe/internal/plot"
	"github.com/showerpipe/showerpipe/internal/store"
	"github.com/showerpipe/showerpipe/internal/sweep"
	"github.com/showerpipe/showerpipe/internal/table"
	"github.com/showerpipe/showerpipe/internal/track"
	"github.com/showerpipe/showerpipe/internal/watch"
)

var (
	dataDir  string
	logLevel string

	// run parameters
	particle   string
	energyGeV  float64
	zenithDeg  float64
	obsLevelM  float64
	runNumber  int
	seed       int64
	corsikaBin string
	template   string
	outputDir  string
	configFile string
	preset     string

	// plot parameters
	maxTraces  int
	plotWidth  int
	plotHeight int
	svgPath    string
	svgDots    bool
	bins       int
	vmax       float64

	// export parameters
	tracksOut  string
	photonsOut string

	// sweep parameters
	sweepEnergies []float64
	sweepWorkers  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "showerpipe",
		Short: "run and analyze CORSIKA air-shower simulations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".showerpipe", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log verbosity")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a series of simulations over an energy grid",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepEnergies, "energies", nil, "primary energies in GeV (comma separated)")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 1, "simulations to run concurrently")

	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "print the generated input card without running",
		RunE:  printCard,
	}
	addRunFlags(cardCmd)

	particlesCmd := &cobra.Command{
		Use:   "particles",
		Short: "list supported primary particles",
		RunE:  listParticles,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [primary]",
		Short: "list available presets for a primary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for primary: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	scanCmd := &cobra.Command{
		Use:   "scan [run_id|dir]",
		Short: "report which output files a run produced",
		Args:  cobra.ExactArgs(1),
		RunE:  scanRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id|dir]",
		Short: "side profile of the particle cascade",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSideProfile,
	}
	plotCmd.Flags().IntVar(&maxTraces, "max-traces", 0, "limit number of drawn tracks (0 = all)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 40, "canvas width in characters")
	plotCmd.Flags().IntVar(&plotHeight, "height", 30, "canvas height in characters")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write SVG to file instead of terminal output")
	plotCmd.Flags().BoolVar(&svgDots, "dots", false, "render the SVG from the dot canvas instead of line segments")

	groundCmd := &cobra.Command{
		Use:   "ground [run_id|dir]",
		Short: "Cherenkov photon density at observation level",
		Args:  cobra.ExactArgs(1),
		RunE:  plotGround,
	}
	groundCmd.Flags().IntVar(&bins, "bins", 60, "histogram bins per axis")
	groundCmd.Flags().Float64Var(&vmax, "vmax", 0, "colour scale cap (0 = automatic)")
	groundCmd.Flags().StringVar(&svgPath, "svg", "", "write SVG to file instead of terminal output")

	profileCmd := &cobra.Command{
		Use:   "profile [run_id|dir]",
		Short: "longitudinal shower profile",
		Args:  cobra.ExactArgs(1),
		RunE:  plotLongitudinal,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id|dir]",
		Short: "export particle tracks to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id|dir]",
		Short: "export particle tracks to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportArrowCmd := &cobra.Command{
		Use:   "export-arrow [run_id|dir]",
		Short: "export tracks and photons to Arrow IPC files",
		Args:  cobra.ExactArgs(1),
		RunE:  exportArrow,
	}
	exportArrowCmd.Flags().StringVar(&tracksOut, "tracks-out", "tracks.arrow", "output file for the track table")
	exportArrowCmd.Flags().StringVar(&photonsOut, "photons-out", "photons.arrow", "output file for the photon table")

	watchCmd := &cobra.Command{
		Use:   "watch [run_id|dir]",
		Short: "follow the CORSIKA log of a running simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  watchRun,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, cardCmd, particlesCmd, presetsCmd, listCmd, scanCmd,
		plotCmd, groundCmd, profileCmd, exportCSVCmd, exportJSONCmd, exportArrowCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&particle, "particle", config.DefaultPrimary, "primary particle name")
	cmd.Flags().Float64Var(&energyGeV, "energy", config.DefaultEnergyGeV, "primary energy (GeV)")
	cmd.Flags().Float64Var(&zenithDeg, "zenith", config.DefaultZenithDeg, "zenith angle (deg)")
	cmd.Flags().Float64Var(&obsLevelM, "obs-level", config.DefaultObsLevelM, "observation level (m a.s.l.)")
	cmd.Flags().IntVar(&runNumber, "run-number", config.DefaultRunNumber, "run number")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base seed (0 = random)")
	cmd.Flags().StringVar(&corsikaBin, "corsika", "", "path to the CORSIKA executable")
	cmd.Flags().StringVar(&template, "template", "", "input card template path")
	cmd.Flags().StringVar(&outputDir, "out", "", "output directory (default: run dir under --data)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file and CLI flags, flags winning.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(particle, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(particle))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
	}

	if cmd.Flags().Changed("particle") || cfg.Primary == "" {
		cfg.Primary = particle
	}
	if cmd.Flags().Changed("energy") {
		cfg.EnergyGeV = energyGeV
	}
	if cmd.Flags().Changed("zenith") {
		cfg.ZenithDeg = zenithDeg
	}
	if cmd.Flags().Changed("obs-level") {
		cfg.ObsLevelM = obsLevelM
	}
	if cmd.Flags().Changed("run-number") {
		cfg.RunNumber = runNumber
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if corsikaBin != "" {
		cfg.Paths.Executable = corsikaBin
	}
	if template != "" {
		cfg.Paths.Template = template
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID := st.NewRunID(cfg)
	switch {
	case outputDir != "":
		cfg.Paths.OutputDir = outputDir
	case cfg.Paths.OutputDir == "":
		cfg.Paths.OutputDir = st.RunDir(runID)
	}

	runner := corsika.NewRunner(cfg)
	result, runErr := runner.Run(context.Background())

	if result != nil {
		files := make([]string, 0, len(result.Files))
		for _, f := range result.Files {
			files = append(files, filepath.Base(f))
		}
		meta := store.RunMetadata{
			ID:             runID,
			Timestamp:      time.Now(),
			Config:         *cfg,
			ElapsedSeconds: result.Elapsed.Seconds(),
			Files:          files,
			Success:        runErr == nil,
		}
		if err := st.Save(meta); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("output: %s\n", result.OutputDir)
	fmt.Println("files:")
	for _, f := range result.Files {
		fmt.Printf("  %s\n", filepath.Base(f))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepEnergies) == 0 {
		return fmt.Errorf("no energies given (use --energies)")
	}

	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var points []sweep.Point
	for _, cfg := range sweep.Expand(base, sweepEnergies) {
		runID := st.NewRunID(cfg)
		cfg.Paths.OutputDir = st.RunDir(runID)
		points = append(points, sweep.Point{Config: cfg, RunID: runID})
	}

	outcomes := sweep.New(points, sweepWorkers).Run(context.Background())

	failed := 0
	for _, out := range outcomes {
		if out.Result != nil {
			files := make([]string, 0, len(out.Result.Files))
			for _, f := range out.Result.Files {
				files = append(files, filepath.Base(f))
			}
			meta := store.RunMetadata{
				ID:             out.Point.RunID,
				Timestamp:      time.Now(),
				Config:         *out.Point.Config,
				ElapsedSeconds: out.Result.Elapsed.Seconds(),
				Files:          files,
				Success:        out.Err == nil,
			}
			if err := st.Save(meta); err != nil {
				return err
			}
		}
		status := "ok"
		if out.Err != nil {
			failed++
			status = out.Err.Error()
		}
		fmt.Printf("%-32s %8g GeV  %s\n", out.Point.RunID, out.Point.Config.EnergyGeV, status)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sweep points failed", failed, len(outcomes))
	}
	return nil
}

func printCard(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	card, err := corsika.GenerateCard(cfg, "./output/sim_")
	if err != nil {
		return err
	}
	fmt.Print(card)
	return nil
}

func listParticles(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCORSIKA ID")
	for _, name := range corsika.Particles() {
		id, err := corsika.ParticleID(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\n", name, id)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRIMARY\tENERGY\tZENITH\tTIME\tELAPSED\tOK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.0f GeV\t%.1f°\t%s\t%.1fs\t%v\n",
			run.ID,
			run.Config.Primary,
			run.Config.EnergyGeV,
			run.Config.ZenithDeg,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ElapsedSeconds,
			run.Success,
		)
	}
	return w.Flush()
}

func resolveDataset(arg string) (*track.Dataset, error) {
	dir, err := store.New(dataDir).Resolve(arg)
	if err != nil {
		return nil, err
	}
	return track.Scan(dir)
}

func scanRun(cmd *cobra.Command, args []string) error {
	dir, err := store.New(dataDir).Resolve(args[0])
	if err != nil {
		return err
	}

	ds, err := track.Scan(dir)
	if err != nil && !errors.Is(err, track.ErrNoFiles) {
		return err
	}

	fmt.Printf("looking for CORSIKA files in %s:\n", dir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	report := func(kind, path string) {
		status := "not found"
		if path != "" {
			status = filepath.Base(path)
		}
		fmt.Fprintf(w, "  %s\t%s\n", kind, status)
	}
	if ds == nil {
		ds = &track.Dataset{}
	}
	report("em tracks", ds.EM)
	report("muon tracks", ds.Muon)
	report("hadron tracks", ds.Hadron)
	report("cherenkov", ds.Cherenkov)
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func plotSideProfile(cmd *cobra.Command, args []string) error {
	ds, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	tracks, err := ds.Tracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks to plot")
	}

	if svgPath != "" {
		var svg string
		if svgDots {
			canvas := plot.SideProfile(tracks, plot.SideProfileOptions{
				MaxTraces: maxTraces,
				Width:     plotWidth,
				Height:    plotHeight,
			})
			svg = plot.CanvasToSVG(canvas, 4)
		} else {
			svg = plot.SideProfileSVG(tracks, 300, 800, maxTraces)
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
		return nil
	}

	fmt.Printf("tracks: %d\n", len(tracks))
	fmt.Printf("shower start: %.0f km\n\n", plot.ShowerStartKm(tracks))
	canvas := plot.SideProfile(tracks, plot.SideProfileOptions{
		MaxTraces: maxTraces,
		Width:     plotWidth,
		Height:    plotHeight,
	})
	fmt.Print(canvas.String())
	return nil
}

func plotGround(cmd *cobra.Command, args []string) error {
	ds, err := resolveDataset(args[0])
	if err != nil {
		return err
	}
	if ds.Cherenkov == "" {
		return fmt.Errorf("no cherenkov file in %s", ds.Dir)
	}

	ev, err := cherenkov.ReadFile(ds.Cherenkov)
	if err != nil {
		return err
	}

	h := plot.GroundHistogram(ev.Photons, bins)
	if svgPath != "" {
		svg := plot.GroundMapSVG(h, vmax, 600)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
		return nil
	}

	fmt.Printf("photons: %d\n", len(ev.Photons))
	fmt.Printf("extent: x [%.2f, %.2f] km, y [%.2f, %.2f] km\n\n",
		h.XMin, h.XMax, h.YMin, h.YMax)
	fmt.Print(plot.GroundMap(h, vmax))
	return nil
}

func plotLongitudinal(cmd *cobra.Command, args []string) error {
	ds, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	tracks, err := ds.Tracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks to plot")
	}

	profile := plot.LongitudinalProfile(tracks)
	graph := asciigraph.Plot(profile,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("track starts per km altitude (0 = ground)"),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	ds, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	tracks, err := ds.Tracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks to export")
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	defer w.Flush()

	header := []string{"channel", "particle", "particle_id", "energy_gev",
		"x_start", "y_start", "z_start", "t_start",
		"x_end", "y_end", "z_end", "t_end"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, tr := range tracks {
		row := []string{
			string(tr.Channel),
			corsika.ParticleName(tr.ParticleID),
			strconv.Itoa(tr.ParticleID),
		}
		for _, v := range []float64{tr.EnergyGeV,
			tr.StartX, tr.StartY, tr.StartZ, tr.StartT,
			tr.EndX, tr.EndY, tr.EndZ, tr.EndT} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// trackRow is the JSON shape of one exported track, mirroring the CSV
// columns.
type trackRow struct {
	Channel    string  `json:"channel"`
	Particle   string  `json:"particle"`
	ParticleID int     `json:"particle_id"`
	EnergyGeV  float64 `json:"energy_gev"`
	XStart     float64 `json:"x_start"`
	YStart     float64 `json:"y_start"`
	ZStart     float64 `json:"z_start"`
	TStart     float64 `json:"t_start"`
	XEnd       float64 `json:"x_end"`
	YEnd       float64 `json:"y_end"`
	ZEnd       float64 `json:"z_end"`
	TEnd       float64 `json:"t_end"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	ds, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	tracks, err := ds.Tracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks to export")
	}

	rows := make([]trackRow, len(tracks))
	for i, tr := range tracks {
		rows[i] = trackRow{
			Channel:    string(tr.Channel),
			Particle:   corsika.ParticleName(tr.ParticleID),
			ParticleID: tr.ParticleID,
			EnergyGeV:  tr.EnergyGeV,
			XStart:     tr.StartX,
			YStart:     tr.StartY,
			ZStart:     tr.StartZ,
			TStart:     tr.StartT,
			XEnd:       tr.EndX,
			YEnd:       tr.EndY,
			ZEnd:       tr.EndZ,
			TEnd:       tr.EndT,
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func exportArrow(cmd *cobra.Command, args []string) error {
	ds, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	tracks, err := ds.Tracks()
	if err != nil {
		return err
	}
	if len(tracks) > 0 {
		rec := table.TracksRecord(tracks)
		err := table.WriteIPCFile(tracksOut, rec)
		rec.Release()
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d tracks)\n", tracksOut, len(tracks))
	}

	if ds.Cherenkov != "" {
		ev, err := cherenkov.ReadFile(ds.Cherenkov)
		if err != nil {
			return err
		}
		rec := table.PhotonsRecord(ev.Photons)
		err = table.WriteIPCFile(photonsOut, rec)
		rec.Release()
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d photons)\n", photonsOut, len(ev.Photons))
	}
	return nil
}

func watchRun(cmd *cobra.Command, args []string) error {
	dir, err := store.New(dataDir).Resolve(args[0])
	if err != nil {
		return err
	}

	m, err := watch.New(filepath.Join(dir, corsika.LogFileName))
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}
