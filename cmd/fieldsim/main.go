package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldsim/internal/analysis"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/export"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/integrators"
	"github.com/san-kum/fieldsim/internal/physics"
	"github.com/san-kum/fieldsim/internal/sim"
	"github.com/san-kum/fieldsim/internal/storage"
	"github.com/san-kum/fieldsim/internal/sweep"
	"github.com/san-kum/fieldsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	quiet     bool
	dataDir   string
	planFile  string
	sweepDir  string
	jobs      int
	ks        []float64
	sigmas    []float64
	withRows  bool
	frameRate int
	every     int
	saveWatch bool
	svgOut    string
	svgField  string
	svgCell   float64
	svgNodal  bool
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fieldsim: ")

	rootCmd := &cobra.Command{
		Use:           "fieldsim",
		Short:         "damped 2D wave field simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and log output")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and save its archive and metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	bindParamFlags(runCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the damping / source width grid and write a summary",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&planFile, "plan", "", "sweep plan file (yaml)")
	sweepCmd.Flags().StringVar(&sweepDir, "dir", ".", "output directory")
	sweepCmd.Flags().IntVar(&jobs, "jobs", 1, "cases to run concurrently")
	sweepCmd.Flags().Float64SliceVar(&ks, "ks", nil, "damping values")
	sweepCmd.Flags().Float64SliceVar(&sigmas, "sigmas", nil, "gaussian source widths")

	plotCmd := &cobra.Command{
		Use:   "plot [out]",
		Short: "plot the diagnostics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [file.npz]",
		Short: "print an archive's parameters and final diagnostics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectArchive,
	}
	inspectCmd.Flags().BoolVar(&withRows, "rows", false, "include every diagnostics row")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archives in a directory",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&dataDir, "dir", ".", "directory to scan")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	bindParamFlags(watchCmd)
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	watchCmd.Flags().IntVar(&every, "every", 10, "steps per frame")
	watchCmd.Flags().BoolVar(&saveWatch, "save", false, "save the archive if the run completes")

	exportCmd := &cobra.Command{
		Use:   "export [file.npz]",
		Short: "render an archived field to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "output path (default <archive>_<field>.svg)")
	exportCmd.Flags().StringVar(&svgField, "field", "u", "field to render (u|v)")
	exportCmd.Flags().Float64Var(&svgCell, "cell", 4, "pixels per grid cell")
	exportCmd.Flags().BoolVar(&svgNodal, "nodal", false, "render nodal lines instead of the heatmap")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same parameters",
		RunE:  compareIntegrators,
	}
	bindParamFlags(compareCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, plotCmd, inspectCmd, listCmd, watchCmd, exportCmd, presetsCmd, compareCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(p)
	if err != nil {
		return err
	}

	var progress *viz.Progress
	if !quiet {
		progress = viz.NewProgress(os.Stderr, p.Steps, 10)
		s.AddObserver(progress)
	}
	if cfl := physics.Courant(p.C, p.Dt, p.Dx); cfl > physics.MaxCourant {
		log.Printf("warning: courant number %.4f exceeds %.4f, the run may diverge", cfl, physics.MaxCourant)
	}

	result, err := s.Run(cmd.Context())
	if progress != nil {
		progress.Done()
	}
	if err != nil {
		return err
	}
	log.Printf("completed %d steps in %v", result.StepsTaken, result.Elapsed.Round(time.Millisecond))
	if frac := result.Metrics["finite_fraction"]; frac < 1 {
		log.Printf("warning: %.0f%% of samples held NaN or Inf", 100*(1-frac))
	}

	paths, err := storage.New(".").Save(result)
	if err != nil {
		return fmt.Errorf("save %s: %w", p.Out, err)
	}
	fmt.Printf("saved %s and %s\n", paths.Archive, paths.Metrics)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	plan := sweep.DefaultPlan()
	if planFile != "" {
		var err error
		if plan, err = sweep.LoadPlan(planFile); err != nil {
			return err
		}
	}
	f := cmd.Flags()
	if f.Changed("dir") || planFile == "" {
		plan.Dir = sweepDir
	}
	if f.Changed("jobs") {
		plan.Jobs = jobs
	}
	if f.Changed("ks") {
		plan.Ks = ks
	}
	if f.Changed("sigmas") {
		plan.Sigmas = sigmas
	}

	log.Printf("sweeping %d cases in %s (jobs=%d)", len(plan.Ks)*len(plan.Sigmas), plan.Dir, max(1, plan.Jobs))
	summary, err := sweep.Run(cmd.Context(), plan)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OUT\tK\tSIGMA\tFINAL_ENERGY\tFINAL_COH")
	for _, e := range summary.Entries {
		fmt.Fprintf(w, "%s\t%.3f\t%.1f\t%.6g\t%.6g\n", e.Out, e.K, e.Sigma, e.FinalEnergy, e.FinalCoh)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("summary: %s\n", summary.Path)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.HasSuffix(path, ".csv") {
		path = strings.TrimSuffix(path, ".npz") + "_metrics.csv"
	}
	rows, err := storage.ReadMetricsCSV(path)
	if err != nil {
		return err
	}

	energy := make([]float64, len(rows))
	coh := make([]float64, len(rows))
	for i, r := range rows {
		energy[i], coh[i] = r.Energy, r.Coherence
	}

	fmt.Printf("metrics: %s\n", path)
	fmt.Printf("samples: %d (steps %d..%d)\n\n", len(rows), rows[0].Step, rows[len(rows)-1].Step)
	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"energy_like", energy},
		{"coherence_proxy", coh},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	if len(rows) > 3 {
		ps := analysis.PowerSpectrum(detrend(energy))
		peak := 1
		for i := 2; i < len(ps); i++ {
			if ps[i] > ps[peak] {
				peak = i
			}
		}
		if ps[peak] > 0 {
			n := 2 * len(ps)
			stride := float64(rows[len(rows)-1].Step-rows[0].Step) / float64(len(rows)-1)
			fmt.Printf("dominant energy oscillation: period %.1f steps\n", float64(n)/float64(peak)*stride)
		}
	}
	return nil
}

// detrend removes the mean so the spectrum peak is not the DC bin.
func detrend(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

func inspectArchive(cmd *cobra.Command, args []string) error {
	a, err := storage.ReadArchive(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, a, withRows)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	a, err := storage.ReadArchive(args[0])
	if err != nil {
		return err
	}

	var g *field.Grid
	switch svgField {
	case "u":
		g = a.U
	case "v":
		g = a.V
	default:
		return fmt.Errorf("unknown field %q (want u|v)", svgField)
	}

	var svg string
	if svgNodal {
		canvas := viz.NewCanvas((g.NX+1)/2, (g.NY+3)/4)
		canvas.DrawNodal(g)
		svg = export.CanvasToSVG(canvas, svgCell)
	} else {
		svg = export.FieldSVG(g, svgCell)
	}

	out := svgOut
	if out == "" {
		out = fmt.Sprintf("%s_%s.svg", strings.TrimSuffix(args[0], ".npz"), svgField)
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODIFIED\tGRID\tSTEPS\tK\tSOURCE\tENERGY\tCOH")
	for _, run := range runs {
		p := run.Params
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%.3f\t%s\t%.6g\t%.6g\n",
			run.Name,
			run.Modified.Format("2006-01-02 15:04:05"),
			p.NY, p.NX,
			p.Steps,
			p.K,
			p.Source,
			run.Final.Energy,
			run.Final.Coherence,
		)
	}
	return w.Flush()
}

func runWatch(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(p)
	if err != nil {
		return err
	}

	program := tea.NewProgram(viz.NewModel(s, every, frameRate), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := program.Run()
	if err != nil {
		return err
	}

	m := final.(viz.Model)
	if m.Err() != nil {
		return m.Err()
	}
	if !saveWatch {
		return nil
	}
	if !m.Session().Done() {
		log.Printf("run stopped at step %d, nothing saved", m.Session().Step())
		return nil
	}
	paths, err := storage.New(".").Save(m.Session().Result())
	if err != nil {
		return err
	}
	fmt.Printf("saved %s and %s\n", paths.Archive, paths.Metrics)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tSTEPS\tDT\tK\tSOURCE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%g\t%g\t%s\n", name, p.NY, p.NX, p.Steps, p.Dt, p.K, p.Source)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = []string{integrators.Default, "euler"}
	}

	fmt.Printf("comparing integrators on %dx%d (dt=%g, steps=%d, k=%g)\n\n", p.NY, p.NX, p.Dt, p.Steps, p.K)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_ENERGY\tFINAL_COH\tENERGY_DRIFT\tFINITE\tTIME_MS")
	for _, name := range names {
		s, err := sim.New(p, sim.WithIntegrator(name))
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		result, err := s.Run(cmd.Context())
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		final, _ := result.Final()
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.2e\t%.2f\t%.2f\n",
			name, final.Energy, final.Coherence, result.Metrics["energy_drift"], result.Metrics["finite_fraction"],
			float64(result.Elapsed.Microseconds())/1000)
	}
	return w.Flush()
}
