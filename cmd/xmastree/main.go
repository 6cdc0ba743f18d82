package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/san-kum/xmastree/internal/config"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	logFile    string

	feed       string
	scriptFile string
	outFile    string
	progress   float64
	atTime     float64
	width      int
	height     int
	category   string
	limit      int
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	numSeeds   int
)

// main registers the commands and runs the root command. With no subcommand
// the GUI opens.
func main() {
	rootCmd := &cobra.Command{
		Use:           "xmastree",
		Short:         "gesture-driven particle christmas tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".xmastree", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "layout seed")
	pf.StringVar(&logFile, "log", "", "write logs to this file")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D window; the mouse is your hand",
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&feed, "feed", "", "read hand samples from a JSON file instead of the mouse")
	rootCmd.Flags().AddFlagSet(guiCmd.Flags())

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "render the tree in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&feed, "feed", "", "read hand samples from a JSON file instead of the keyboard")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "choose a preset and tune it before going live",
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "replay a gesture scenario headlessly and store the trace",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&scriptFile, "script", "", "scenario file (yaml)")
	_ = runCmd.MarkFlagRequired("script")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "replay a scenario across smoothing rates",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&scriptFile, "script", "", "scenario file (yaml)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "lowest smoothing rate")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5, "highest smoothing rate")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of rates")
	_ = sweepCmd.MarkFlagRequired("script")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "replay a scenario over many layout seeds",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().StringVar(&scriptFile, "script", "", "scenario file (yaml)")
	ensembleCmd.Flags().IntVar(&numSeeds, "runs", 8, "number of seeds")
	_ = ensembleCmd.MarkFlagRequired("script")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&outFile, "svg", "", "also write the progress curve as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write the tree at a given progress as SVG",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().Float64Var(&progress, "progress", 0, "0 is the formed tree, 1 full chaos")
	snapshotCmd.Flags().Float64Var(&atTime, "time", 0, "animation clock in seconds")
	snapshotCmd.Flags().StringVar(&outFile, "out", "tree.svg", "output file")
	snapshotCmd.Flags().IntVar(&width, "width", 1024, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 768, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "print the generated layout of one category",
		RunE:  printLayout,
	}
	layoutCmd.Flags().StringVar(&category, "category", "ornaments", "particles, ornaments, photos or star")
	layoutCmd.Flags().IntVar(&limit, "limit", 20, "rows to print, 0 for all")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the resolved configuration as yaml",
			Args:  cobra.ExactArgs(1),
			RunE:  configInit,
		},
		&cobra.Command{
			Use:   "show",
			Short: "print the resolved configuration",
			RunE:  configShow,
		},
	)

	rootCmd.AddCommand(guiCmd, liveCmd, tuiCmd, runCmd, sweepCmd, ensembleCmd, listCmd, plotCmd, exportJSONCmd, snapshotCmd, presetsCmd, layoutCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "xmastree:", err)
		os.Exit(1)
	}
}

// loadConfig resolves preset, then file, then environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Lookup("feed") != nil && cmd.Flags().Changed("feed") {
		cfg.Feed = feed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to --log when set. Terminal views pass quiet so log lines
// do not tear the screen.
func newLogger(quiet bool) (*log.Logger, func(), error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		return log.New(f, "xmastree: ", log.LstdFlags), func() { f.Close() }, nil
	}
	if quiet {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	return log.New(os.Stderr, "xmastree: ", log.LstdFlags), func() {}, nil
}

// openSource returns the gesture source for cfg. A feed that cannot be opened
// is reported and replaced by manual input, so the tree still renders.
func openSource(cfg *config.Config, logger *log.Logger) (gesture.Source, *gesture.ManualSource) {
	if cfg.Feed != "" {
		src, err := gesture.OpenFile(cfg.Feed)
		if err == nil {
			return src, nil
		}
		logger.Printf("gesture feed unavailable, using manual input: %v", err)
	}
	manual := gesture.NewManual(32)
	return manual, manual
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
