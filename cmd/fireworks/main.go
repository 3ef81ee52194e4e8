package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-isatty"
	"github.com/san-kum/fireworks/internal/bench"
	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/export"
	"github.com/san-kum/fireworks/internal/logging"
	"github.com/san-kum/fireworks/internal/show"
	"github.com/san-kum/fireworks/internal/surface"
	"github.com/san-kum/fireworks/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	seed       int64
	theme      string
	fps        int
	logFile    string
	logLevel   string
	// headless runs
	frames      int
	cols        int
	rows        int
	launchEvery int
	csvOut      bool
	plot        bool
	color       bool
	svgPath     string
	pngPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fireworks",
		Short: "ascii fireworks in the terminal",
		RunE:  runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "yaml config file")
	pf.StringVar(&preset, "preset", "", "configuration preset")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	pf.StringVar(&theme, "theme", "cyberpunk", "hud theme")
	pf.IntVar(&fps, "fps", 60, "target frame rate")
	pf.StringVar(&logFile, "log-file", "", "log file (interactive mode logs nowhere without it)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run the show headlessly and report frame cost",
		RunE:  runBench,
	}
	addHeadlessFlags(benchCmd)
	benchCmd.Flags().BoolVar(&csvOut, "csv", false, "write per-frame records as csv")
	benchCmd.Flags().BoolVar(&plot, "plot", true, "plot particles and frame cost")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "print the ascii frame after N headless frames",
		RunE:  runSnapshot,
	}
	addHeadlessFlags(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&color, "color", false, "emit ansi colors")
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the ascii frame as svg")
	snapshotCmd.Flags().StringVar(&pngPath, "png", "", "also write the logical raster as png")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	rootCmd.AddCommand(benchCmd, snapshotCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addHeadlessFlags(cmd *cobra.Command) {
	def := bench.DefaultOptions()
	cmd.Flags().IntVar(&frames, "frames", def.Frames, "frames to simulate")
	cmd.Flags().IntVar(&cols, "cols", def.Cols, "virtual terminal columns")
	cmd.Flags().IntVar(&rows, "rows", def.Rows, "virtual terminal rows")
	cmd.Flags().IntVar(&launchEvery, "launch-every", def.LaunchEvery, "launch a shell every N frames (0 = never)")
}

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.Ticker.TargetFPS = fps
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRand(cfg *config.Config) *rand.Rand {
	s := cfg.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(s))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("%w: stdout is not a terminal (try `fireworks snapshot`)", surface.ErrSurfaceInit)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File, true)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := show.New(cfg, newRand(cfg))
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(cfg, s), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func headless(cmd *cobra.Command) (*config.Config, *bench.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File, false)
	if err != nil {
		return nil, nil, err
	}
	defer closeLog()

	opts := bench.Options{
		Cols:        cols,
		Rows:        rows,
		Frames:      frames,
		FPS:         cfg.Ticker.TargetFPS,
		LaunchEvery: launchEvery,
	}
	res, err := bench.Run(cfg, newRand(cfg), opts)
	return cfg, res, err
}

func runBench(cmd *cobra.Command, args []string) error {
	_, res, err := headless(cmd)
	if err != nil {
		return err
	}
	if csvOut {
		return bench.WriteCSV(os.Stdout, res.Records)
	}

	sum := res.Summary
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", sum.Frames)
	fmt.Fprintf(w, "grid\t%dx%d\n", cols, rows)
	fmt.Fprintf(w, "peak particles\t%d\n", res.Peak)
	fmt.Fprintf(w, "mean\t%v\n", sum.Mean)
	fmt.Fprintf(w, "stddev\t%v\n", sum.StdDev)
	fmt.Fprintf(w, "min / max\t%v / %v\n", sum.Min, sum.Max)
	fmt.Fprintf(w, "p50 / p95 / p99\t%v / %v / %v\n", sum.P50, sum.P95, sum.P99)
	fmt.Fprintf(w, "max fps\t%.0f\n", sum.FPS())
	w.Flush()

	if plot && len(res.Records) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Particles(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("live particles"),
		))
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.CostsMicros(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("frame cost (µs)"),
		))
	}
	slog.Debug("bench done", "frames", sum.Frames)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, res, err := headless(cmd)
	if err != nil {
		return err
	}
	if svgPath != "" {
		cellW, cellH := float64(cfg.ASCII.TermCellWidth), float64(cfg.ASCII.TermCellHeight)
		svg := export.FrameToSVG(res.Screen, cellW, cellH)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
	}
	if pngPath != "" {
		f, err := os.Create(pngPath)
		if err != nil {
			return err
		}
		if err := export.RasterToPNG(f, res.Raster); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if color {
		fmt.Println(res.Screen.Render())
		return nil
	}
	fmt.Println(res.Screen.Plain())
	return nil
}
