package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/automation"
	"github.com/san-kum/xmastree/internal/config"
	"github.com/san-kum/xmastree/internal/export"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/san-kum/xmastree/internal/gui"
	"github.com/san-kum/xmastree/internal/imagery"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/scene"
	"github.com/san-kum/xmastree/internal/storage"
	"github.com/san-kum/xmastree/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// newSculpture builds the animated tree described by cfg.
func newSculpture(cfg *config.Config, logger *log.Logger) (*scene.Sculpture, *anim.State) {
	state := anim.New(cfg.SmoothingRate)
	tables := cfg.Tables()
	logger.Printf("layout: %d particles, %d ornaments, %d photos (seed %d)",
		len(tables.Particles), len(tables.Ornaments), len(tables.Photos), cfg.Seed)
	return scene.New(tables, state, cfg.NewCamera(), cfg.Policy()), state
}

// runGUI opens the raylib window on the main goroutine while the gesture
// bridge runs alongside it. Closing the window cancels the bridge.
func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	sculpt, state := newSculpture(cfg, logger)
	src, manual := openSource(cfg, logger)
	bridge := gesture.NewBridge(state, logger)

	sigCtx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// A failed source leaves the tree at its last mode; that is not fatal.
		_ = bridge.Run(gctx, src)
		return nil
	})

	err = gui.Run(gctx, sculpt, bridge, manual, gui.Options{FPS: cfg.FPS, Seed: cfg.Seed}, logger)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	viz.SetTheme(cfg.Theme)
	sculpt, state := newSculpture(cfg, logger)
	src, manual := openSource(cfg, logger)
	bridge := gesture.NewBridge(state, logger)

	sigCtx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_ = bridge.Run(gctx, src)
		return nil
	})

	p := tea.NewProgram(viz.NewModel(sculpt, bridge, manual, cfg.FPS), tea.WithAltScreen(), tea.WithContext(gctx))
	_, err = p.Run()
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if errors.Is(err, tea.ErrProgramKilled) && sigCtx.Err() != nil {
		return nil
	}
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()
	_, err = tea.NewProgram(viz.NewInteractiveApp(logger), tea.WithAltScreen()).Run()
	return err
}

// scenarioConfig applies the scenario's preset unless one was given on the
// command line.
func scenarioConfig(cmd *cobra.Command, sc *automation.Scenario) (*config.Config, error) {
	if preset == "" && configFile == "" && sc.Preset != "" {
		preset = sc.Preset
	}
	return loadConfig(cmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(scriptFile)
	if err != nil {
		return err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(scriptFile), filepath.Ext(scriptFile))
	}
	cfg, err := scenarioConfig(cmd, sc)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()
	result, err := automation.RunScenario(ctx, sc, cfg, logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	rc := sc.Resolve(cfg)
	id, err := st.Save(storage.RunMetadata{
		Scenario:    sc.Name,
		Description: sc.Description,
		Preset:      preset,
		Seed:        cfg.Seed,
		Dt:          rc.Dt,
		Duration:    rc.Duration,
		Overshoot:   cfg.OrnamentOvershoot,
		Config:      cfg,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", id)
	fmt.Printf("steps: %d\n", result.Steps)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range []string{"settle_time", "overshoot", "mode_switches", "camera_sway", "spread", "stability"} {
		if v, ok := m[name]; ok {
			fmt.Fprintf(w, "  %s\t%.4f\n", name, v)
		}
	}
	w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(scriptFile)
	if err != nil {
		return err
	}
	cfg, err := scenarioConfig(cmd, sc)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()
	results, err := automation.RunSweep(ctx, sc, cfg, automation.RateSweep{Min: sweepMin, Max: sweepMax, NumSteps: sweepSteps}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RATE\tSETTLE\tOVERSHOOT")
	for _, r := range results {
		settle := "-"
		if r.SettleTime >= 0 {
			settle = fmt.Sprintf("%.3fs", r.SettleTime)
		}
		fmt.Fprintf(w, "%.3f\t%s\t%.2f\n", r.Rate, settle, r.Overshoot)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(scriptFile)
	if err != nil {
		return err
	}
	cfg, err := scenarioConfig(cmd, sc)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()
	res, err := automation.Ensemble{NumRuns: numSeeds, SeedStart: cfg.Seed}.Run(ctx, sc, cfg, logger)
	if err != nil {
		return err
	}

	names := []string{"settle_time", "overshoot", "spread", "stability"}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range res.Runs {
		fmt.Fprintf(w, "%d", r.Seed)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, "mean")
	for _, n := range names {
		fmt.Fprintf(w, "\t%.4f±%.4f", res.Mean[n], res.StdDev[n])
	}
	fmt.Fprintln(w)
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tOVERSHOOT\tSETTLE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.3fs\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Overshoot,
			run.Metrics["settle_time"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(tr.Progress) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(tr.Progress))

	fmt.Println(asciigraph.Plot(tr.Progress,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("progress (0 formed, 1 chaos)"),
	))
	fmt.Println()

	ox := make([]float64, len(tr.Offsets))
	for i, o := range tr.Offsets {
		ox[i] = o.X
	}
	fmt.Println(asciigraph.Plot(ox,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("hand offset x"),
	))
	fmt.Println()

	end := tr.Times[len(tr.Times)-1]
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1} {
		t := frac * end
		fmt.Printf("  t=%6.2fs  %s\n", t, tr.ModeAt(t))
	}

	if outFile != "" {
		svg := export.ProgressToSVG(tr.Times, tr.Progress, 800, 240, string(viz.ThemeEvergreen.Primary))
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		return st.ExportJSONFile(outFile, args[0])
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	sculpt, _ := newSculpture(cfg, logger)
	frame := sculpt.Pose(progress, atTime)

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	err = export.FrameToSVG(f, frame, export.FrameOptions{
		Width:  width,
		Height: height,
		Theme:  viz.GetTheme(cfg.Theme),
		Photos: imagery.NewCache(32, cfg.Seed),
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (progress %.2f)\n", outFile, frame.Snapshot.Progress)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s %6d particles %4d ornaments %3d photos  overshoot=%s\n",
			name, cfg.Counts.Particles, cfg.Counts.Ornaments, cfg.Counts.Photos, cfg.OrnamentOvershoot)
	}
	return nil
}

func printLayout(cmd *cobra.Command, args []string) error {
	cat, err := layout.ParseCategory(category)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tables := cfg.Tables()
	n := tables.Len(cat)
	rows := n
	if limit > 0 && limit < rows {
		rows = limit
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	switch cat {
	case layout.Particles:
		fmt.Fprintln(w, "#\tANGLE\tRADIUS\tFORMED\tCHAOS\tSIZE")
		for i, p := range tables.Particles[:rows] {
			fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%s\t%s\t%.2f\n", i, layout.FormedAngle(cat, i, n),
				math.Hypot(p.Formed.X, p.Formed.Z), fmtVec(p.Formed.X, p.Formed.Y, p.Formed.Z), fmtVec(p.Chaos.X, p.Chaos.Y, p.Chaos.Z), p.Size)
		}
	case layout.Ornaments:
		fmt.Fprintln(w, "#\tKIND\tANGLE\tRADIUS\tFORMED\tWEIGHT\tSCALE\tCOLOR")
		for i, o := range tables.Ornaments[:rows] {
			fmt.Fprintf(w, "%d\t%s[%d]\t%.3f\t%.3f\t%s\t%.2f\t%.2f\t%s\n", i, o.Kind, o.KindIndex, layout.FormedAngle(cat, i, n),
				math.Hypot(o.Formed.X, o.Formed.Z), fmtVec(o.Formed.X, o.Formed.Y, o.Formed.Z), o.Weight, o.Scale, o.Color)
		}
	case layout.Photos:
		fmt.Fprintln(w, "#\tANGLE\tRADIUS\tFORMED\tYAW\tIMAGE")
		for i, p := range tables.Photos[:rows] {
			fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%s\t%.3f\t%d\n", i, layout.FormedAngle(cat, i, n),
				math.Hypot(p.Formed.X, p.Formed.Z), fmtVec(p.Formed.X, p.Formed.Y, p.Formed.Z), p.BaseRotation.Yaw, p.ImageIndex)
		}
	case layout.StarCategory:
		fmt.Fprintln(w, "FORMED_Y\tCHAOS_Y")
		fmt.Fprintf(w, "%.3f\t%.3f\n", tables.Star.FormedY, tables.Star.ChaosY)
	}
	return w.Flush()
}

func fmtVec(x, y, z float64) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", x, y, z)
}

func configInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func configShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
