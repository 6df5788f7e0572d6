package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/frame"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/store"
	"github.com/san-kum/ballsim/internal/tui"
)

var (
	dataDir string

	ndim            int
	numBalls        int
	ballRadius      float64
	domainFlag      string
	simulationTime  float64
	gravity         bool
	ballRestitution float64
	wallRestitution float64
	outputRate      float64
	seed            int64
	verbose         bool
	configFile      string
	preset          string
	runID           string

	replayFrame int
)

// main registers the ballsim command tree and executes it, exiting with
// status 1 if the invoked command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ballsim",
		Short: "event-driven hard-sphere molecular dynamics engine",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "run registry directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and write frames",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&ndim, "ndim", config.DefaultNDim, "dimensionality (2 or 3)")
	runCmd.Flags().IntVar(&numBalls, "balls", config.DefaultNumBalls, "number of balls")
	runCmd.Flags().Float64Var(&ballRadius, "radius", config.DefaultBallRadius, "ball radius")
	runCmd.Flags().StringVar(&domainFlag, "domain", "10,10", "comma-separated domain size per axis")
	runCmd.Flags().Float64Var(&simulationTime, "time", config.DefaultSimulationTime, "simulation duration")
	runCmd.Flags().BoolVar(&gravity, "gravity", false, "enable uniform gravity along axis 1")
	runCmd.Flags().Float64Var(&ballRestitution, "ball-restitution", config.DefaultRestitution, "ball-ball restitution")
	runCmd.Flags().Float64Var(&wallRestitution, "wall-restitution", config.DefaultRestitution, "ball-wall restitution")
	runCmd.Flags().Float64Var(&outputRate, "output-rate", config.DefaultOutputRate, "seconds between exported frames")
	runCmd.Flags().Int64Var(&seed, "seed", config.DefaultRandomSeed, "random seed")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "log progress and discard detail")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a named scenario preset")
	runCmd.Flags().StringVar(&runID, "id", "", "run id (defaults to a timestamp)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "render an ASCII scatter of ball positions from a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&replayFrame, "frame", -1, "frame index to render (default: last)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal viewer",
		RunE:  liveRun,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "head_on_pair", "scenario preset")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides --preset")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "FFT power spectrum of the run's kinetic-energy time series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, replayCmd, liveCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig applies preset < config file < CLI-flag precedence, the
// same layering cmd/dynsim/main.go's runSimulation uses.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd == nil {
		return cfg, nil
	}

	if cmd.Flags().Changed("ndim") {
		cfg.NDim = ndim
	}
	if cmd.Flags().Changed("balls") {
		cfg.NumBalls = numBalls
	}
	if cmd.Flags().Changed("radius") {
		cfg.BallRadius = ballRadius
	}
	if cmd.Flags().Changed("domain") {
		domain, err := parseDomain(domainFlag)
		if err != nil {
			return nil, err
		}
		cfg.DomainSize = domain
	}
	if cmd.Flags().Changed("time") {
		cfg.SimulationTime = simulationTime
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("ball-restitution") {
		cfg.BallRestitution = ballRestitution
	}
	if cmd.Flags().Changed("wall-restitution") {
		cfg.WallRestitution = wallRestitution
	}
	if cmd.Flags().Changed("output-rate") {
		cfg.OutputRate = outputRate
	}
	if cmd.Flags().Changed("seed") {
		cfg.RandomSeed = seed
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	return cfg, nil
}

func parseDomain(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	domain := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid domain component %q: %w", p, err)
		}
		domain[i] = v
	}
	return domain, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if runID == "" {
		runID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	}

	w, err := frame.NewWriter(st.FramesDir(runID))
	if err != nil {
		return err
	}

	d, err := sim.NewDriver(cfg, w)
	if err != nil {
		return err
	}

	summary, err := d.Run()
	if err != nil {
		return err
	}

	meta := store.RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		NDim:            cfg.NDim,
		NumBalls:        cfg.NumBalls,
		BallRadius:      cfg.BallRadius,
		DomainSize:      cfg.DomainSize,
		SimulationTime:  cfg.SimulationTime,
		Gravity:         cfg.Gravity,
		BallRestitution: cfg.BallRestitution,
		WallRestitution: cfg.WallRestitution,
		RandomSeed:      cfg.RandomSeed,
		FramesWritten:   summary.FramesWritten,
		EventsProcessed: summary.EventsProcessed,
		EventsDiscarded: summary.EventsDiscarded,
		FinalTime:       summary.FinalTime,
		OutputDir:       st.FramesDir(runID),
	}
	if _, err := st.Save(meta); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tBALLS\tEVENTS\tDISCARDED\tFRAMES\tFINAL TIME")
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.3fs\n", runID, cfg.NumBalls, summary.EventsProcessed, summary.EventsDiscarded, summary.FramesWritten, summary.FinalTime)
	return tw.Flush()
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
	fmt.Fprintln(w, "ID\tBALLS\tNDIM\tTIME\tEVENTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2fs\t%d\n", run.ID, run.NumBalls, run.NDim, run.FinalTime, run.EventsProcessed)
	}
	return w.Flush()
}

// replayRun renders an ASCII scatter of ball x/y positions for one frame
// of a recorded run, adapted from cmd/dynsim/main.go's phasePlot canvas.
func replayRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := frame.ReadDir(st.FramesDir(runID))
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded for run %s", runID)
	}

	idx := replayFrame
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}
	fr := frames[idx]

	fmt.Printf("replay: %s (frame %d/%d, t=%.3f)\n\n", meta.ID, idx, len(frames)-1, fr.Time)

	xMin, xMax := 0.0, meta.DomainSize[0]
	yMin, yMax := 0.0, meta.DomainSize[1]

	width, height := 70, 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pos := range fr.Positions {
		px := int(float64(width-1) * (pos[0] - xMin) / (xMax - xMin))
		py := int(float64(height-1) * (pos[1] - yMin) / (yMax - yMin))
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			canvas[py][px] = '●'
		}
	}

	fmt.Printf("  %.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │%s│\n", (yMax+yMin)/2, string(canvas[i]))
		} else {
			fmt.Printf("       │%s│\n", string(canvas[i]))
		}
	}
	fmt.Printf("  %.2f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("       %.2f%s%.2f\n", xMin, strings.Repeat(" ", width-16), xMax)

	return nil
}

func liveRun(cmd *cobra.Command, args []string) error {
	factory := func() (*sim.Driver, error) {
		cfg, err := resolveConfig(nil)
		if err != nil {
			return nil, err
		}
		liveDir, err := os.MkdirTemp("", "ballsim-live-")
		if err != nil {
			return nil, err
		}
		w, err := frame.NewWriter(liveDir)
		if err != nil {
			return nil, err
		}
		return sim.NewDriver(cfg, w)
	}

	cfg, err := resolveConfig(nil)
	if err != nil {
		return err
	}

	m, err := tui.NewModel(cfg, factory)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m).Run()
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := frame.ReadDir(st.FramesDir(runID))
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded for run %s", runID)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("balls: %d, final time: %.3fs\n\n", meta.NumBalls, meta.FinalTime)

	series := frame.KineticEnergySeries(frames)

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, series)

	ps := analysis.PowerSpectrum(padded)
	plotData := ps
	if len(ps) > 4 {
		plotData = ps[:len(ps)/4]
	}

	graph := asciigraph.Plot(plotData, asciigraph.Height(15), asciigraph.Width(70), asciigraph.Caption("power spectrum (kinetic energy)"))
	fmt.Println(graph)

	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower = plotData[i]
			maxIdx = i
		}
	}
	if meta.FinalTime > 0 {
		freq := float64(maxIdx) / meta.FinalTime
		fmt.Printf("\ndominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.3f s\n", 1.0/freq)
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tNDIM\tBALLS\tGRAVITY\tTIME")
	for _, name := range names {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.2fs\n", name, p.NDim, p.NumBalls, p.Gravity, p.SimulationTime)
	}
	return w.Flush()
}
