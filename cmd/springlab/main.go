package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/coilworks/springlab/internal/config"
	"github.com/coilworks/springlab/internal/engines"
	"github.com/coilworks/springlab/internal/export"
	"github.com/coilworks/springlab/internal/metric"
	"github.com/coilworks/springlab/internal/pareto"
	"github.com/coilworks/springlab/internal/search"
	"github.com/coilworks/springlab/internal/spring"
	"github.com/coilworks/springlab/internal/store"
	"github.com/coilworks/springlab/internal/viz"
)

var (
	dataDir       string
	configFile    string
	preset        string
	materialName  string
	workers       int
	maxCandidates int
	curveSamples  int
	setParams     []string
	atCases       []string
	targetSpec    string
	tolerance     float64
	outPath       string
	showSketch    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "springlab",
		Short: "spring design space search and ranking lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springlab", "data directory")

	searchCmd := &cobra.Command{
		Use:   "search [topology]",
		Short: "enumerate and rank candidate springs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().StringVar(&configFile, "config", "", "search job file (yaml)")
	searchCmd.Flags().StringVar(&preset, "preset", "", "use preset job")
	searchCmd.Flags().StringVar(&materialName, "material", "", "override material")
	searchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "evaluation goroutines")
	searchCmd.Flags().IntVar(&maxCandidates, "max", 0, "candidate cap override")
	searchCmd.Flags().StringVar(&outPath, "out", "", "also export the run as JSON")

	calcCmd := &cobra.Command{
		Use:   "calc [topology]",
		Short: "evaluate one geometry",
		Args:  cobra.ExactArgs(1),
		RunE:  runCalc,
	}
	calcCmd.Flags().StringArrayVar(&setParams, "set", nil, "geometry parameter, key=value")
	calcCmd.Flags().StringArrayVar(&atCases, "at", nil, "load case, mode:value")
	calcCmd.Flags().StringVar(&materialName, "material", "music_wire", "material name")
	calcCmd.Flags().IntVar(&curveSamples, "samples", config.DefaultCurveSamples, "curve samples")
	calcCmd.Flags().BoolVar(&showSketch, "sketch", false, "draw the coil silhouette")

	solveCmd := &cobra.Command{
		Use:   "solve [topology]",
		Short: "solve free parameters for a target point",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringArrayVar(&setParams, "set", nil, "fixed parameter, key=value")
	solveCmd.Flags().StringVar(&targetSpec, "target", "", "target point, mode:input=output")
	solveCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "relative target tolerance")
	solveCmd.Flags().StringVar(&materialName, "material", "music_wire", "material name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a run's candidate table",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [candidate_id]",
		Short: "plot a stored candidate's characteristics",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotCandidate,
	}
	plotCmd.Flags().IntVar(&curveSamples, "samples", config.DefaultCurveSamples, "curve samples")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outPath, "out", "", "output path (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id] [candidate_id]",
		Short: "export a candidate's load curve as SVG",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&outPath, "out", "curve.svg", "output path")

	tuiCmd := &cobra.Command{
		Use:   "tui [run_id]",
		Short: "browse a run's candidates interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  browseRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [topology]",
		Short: "list preset jobs for a topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for topology: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list the material catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tG [MPa]\tE [MPa]\tALLOW SHEAR\tALLOW BEND")
			for _, name := range config.MaterialNames() {
				m, _ := config.MaterialByName(name)
				fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\n",
					name, m.G, m.E, m.AllowableShear, m.AllowableBending)
			}
			return w.Flush()
		},
	}

	topologiesCmd := &cobra.Command{
		Use:   "topologies",
		Short: "list supported spring topologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := engines.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOPOLOGY\tREVERSE SOLVER")
			for _, topo := range reg.Topologies() {
				solver := "no"
				if _, ok := reg.Solver(topo); ok {
					solver = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\n", topo, solver)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [topology]",
		Short: "benchmark candidate generation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSearch,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "", "use preset job")

	rootCmd.AddCommand(searchCmd, calcCmd, solveCmd, listCmd, showCmd, plotCmd,
		exportCmd, svgCmd, tuiCmd, presetsCmd, materialsCmd, topologiesCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig builds the job from preset, file and flags, in that
// precedence order.
func resolveConfig(topology string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if topology != "" {
		cfg.Topology = topology
	}

	if preset != "" {
		if topology == "" {
			return nil, fmt.Errorf("--preset needs a topology argument")
		}
		p := config.GetPreset(topology, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(topology))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if topology != "" {
			cfg.Topology = topology
		}
	}

	if materialName != "" {
		cfg.Material = materialName
	}
	if maxCandidates > 0 {
		cfg.Search.MaxCandidates = maxCandidates
	}
	return cfg, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	topology := ""
	if len(args) > 0 {
		topology = args[0]
	}

	cfg, err := resolveConfig(topology)
	if err != nil {
		return err
	}
	space, err := cfg.Space()
	if err != nil {
		return err
	}
	mat, err := cfg.SpringMaterial()
	if err != nil {
		return err
	}

	reg := engines.NewRegistry()
	engine, ok := reg.Engine(space.Topology)
	if !ok {
		return fmt.Errorf("no engine for topology %s", space.Topology)
	}
	solver, _ := reg.Solver(space.Topology)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("searching %s designs...\n", space.Topology)
	start := time.Now()

	cands, err := search.Generate(context.Background(), search.Context{
		Engine:   engine,
		Solver:   solver,
		Material: mat,
		Space:    space,
	}, search.Options{
		MaxCandidates: cfg.Search.MaxCandidates,
		Workers:       workers,
		Flags:         spring.Flags{Findings: true},
	})
	if err != nil {
		return err
	}
	pareto.Rank(cands)
	elapsed := time.Since(start)

	runID, err := st.Save(string(space.Topology), cfg.Material, space.Targets, cands)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("candidates: %d\n\n", len(cands))

	front := pareto.Front(cands, 1)
	if len(front) == 0 {
		fmt.Println("no candidates matched the targets")
		return nil
	}
	fmt.Println("front 1:")
	return printCandidateTable(front)
}

func printCandidateTable(cands []search.Candidate) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRANK\tSOURCE\tRATE\tMASS\tSTRESS\tMARGIN")
	for _, c := range cands {
		if !c.Visible {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.4g\t%.1f\t%.2f\t%.2f\n",
			c.ID, c.Rank, c.Source, c.Result.Rate,
			c.Metrics.MassProxy, c.Metrics.StressRatio, c.Metrics.SolidMargin)
	}
	return w.Flush()
}

func runCalc(cmd *cobra.Command, args []string) error {
	topo := spring.Topology(args[0])
	reg := engines.NewRegistry()
	engine, ok := reg.Engine(topo)
	if !ok {
		return fmt.Errorf("no engine for topology %s", topo)
	}

	mat, ok := config.MaterialByName(materialName)
	if !ok {
		return fmt.Errorf("unknown material: %s (available: %v)", materialName, config.MaterialNames())
	}

	params, err := parseSets(setParams)
	if err != nil {
		return err
	}
	geom, err := engine.FromParams(params)
	if err != nil {
		return fmt.Errorf("bad geometry: %w", err)
	}

	cases := make([]spring.LoadCase, 0, len(atCases))
	for _, spec := range atCases {
		lc, err := parseCase(spec)
		if err != nil {
			return err
		}
		cases = append(cases, lc)
	}

	flags := spring.Flags{Curves: true, CurveSamples: curveSamples, Findings: true}
	res := engine.Calculate(geom, mat, cases, flags)

	fmt.Printf("topology: %s\n", topo)
	fmt.Printf("material: %s\n", materialName)
	fmt.Printf("rate: %.5g\n", res.Rate)
	if res.Index > 0 {
		fmt.Printf("index: %.2f  wahl: %.3f\n", res.Index, res.WahlFactor)
	}
	if res.FreeLength > 0 {
		fmt.Printf("free length: %.4g  solid height: %.4g\n", res.FreeLength, res.SolidHeight)
	}
	fmt.Printf("valid: %t\n\n", res.Valid)

	if len(res.Cases) > 0 {
		fmt.Print(viz.CaseTable(res))
		fmt.Println()
	}
	if len(res.Findings) > 0 {
		fmt.Print(viz.Findings(res))
		fmt.Println()
	}
	if plot := viz.PlotCurves(res); plot != "" {
		fmt.Print(plot)
	}

	if showSketch {
		sketch := viz.SketchHelical(
			params[engines.ParamWireDiameter],
			params[engines.ParamMeanDiameter],
			params[engines.ParamActiveCoils],
			params[engines.ParamFreeLength],
			30, 12,
		)
		if sketch != "" {
			fmt.Println()
			fmt.Print(sketch)
		}
	}
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	topo := spring.Topology(args[0])
	reg := engines.NewRegistry()
	solver, ok := reg.Solver(topo)
	if !ok {
		return fmt.Errorf("topology %s has no reverse solver", topo)
	}

	mat, ok := config.MaterialByName(materialName)
	if !ok {
		return fmt.Errorf("unknown material: %s", materialName)
	}

	fixed, err := parseSets(setParams)
	if err != nil {
		return err
	}
	target, err := parseTarget(targetSpec)
	if err != nil {
		return err
	}
	target.Tolerance = tolerance

	outcome := solver.SolveForTarget(engines.SolveContext{
		Material: mat,
		Fixed:    fixed,
	}, target)

	if !outcome.OK {
		fmt.Println("no solution:")
		for _, e := range outcome.Errors {
			fmt.Printf("  %s\n", e)
		}
		return fmt.Errorf("solve failed")
	}

	fmt.Println("solution:")
	for _, key := range sortedKeys(outcome.Params) {
		fmt.Printf("  %s = %.6g\n", key, outcome.Params[key])
	}
	if len(outcome.Derived) > 0 {
		fmt.Println("derived:")
		for _, key := range sortedKeys(outcome.Derived) {
			fmt.Printf("  %s = %.6g\n", key, outcome.Derived[key])
		}
	}
	for _, warn := range outcome.Warnings {
		fmt.Printf("warning: %s\n", warn)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTOPOLOGY\tMATERIAL\tTIME\tCANDIDATES\tFRONT 1")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID, run.Topology, run.Material,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Candidates, run.FrontOne)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadCandidates(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("topology: %s  material: %s\n", meta.Topology, meta.Material)
	for _, t := range meta.Targets {
		fmt.Printf("target: %s %.4g -> %.4g (tol %.0f%%)\n", t.Mode, t.Input, t.Output, t.Tol()*100)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRANK\tSOURCE\tRATE\tMASS\tSTRESS\tMARGIN")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.4g\t%.1f\t%.2f\t%.2f\n",
			r.ID, r.Rank, r.Source, r.Rate,
			r.Metrics.MassProxy, r.Metrics.StressRatio, r.Metrics.SolidMargin)
	}
	return w.Flush()
}

// reevaluate rebuilds full candidates from a stored run by running the
// engine again on the persisted parameters.
func reevaluate(st *store.Store, runID string, samples int) (*store.RunMetadata, []search.Candidate, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadCandidates(runID)
	if err != nil {
		return nil, nil, err
	}

	topo := spring.Topology(meta.Topology)
	reg := engines.NewRegistry()
	engine, ok := reg.Engine(topo)
	if !ok {
		return nil, nil, fmt.Errorf("no engine for stored topology %s", topo)
	}
	mat, ok := config.MaterialByName(meta.Material)
	if !ok {
		return nil, nil, fmt.Errorf("unknown stored material %s", meta.Material)
	}

	cases := make([]spring.LoadCase, len(meta.Targets))
	for i, t := range meta.Targets {
		cases[i] = spring.LoadCase{Mode: t.Mode, Value: t.Input}
	}
	flags := spring.Flags{Curves: true, CurveSamples: samples, Findings: true}

	cands := make([]search.Candidate, 0, len(rows))
	for _, r := range rows {
		geom, err := engine.FromParams(r.Params)
		if err != nil {
			continue
		}
		res := engine.Calculate(geom, mat, cases, flags)
		cands = append(cands, search.Candidate{
			ID:       r.ID,
			Topology: topo,
			Source:   search.Source(r.Source),
			Rank:     r.Rank,
			Params:   r.Params,
			Result:   res,
			Metrics:  metric.Compute(topo, r.Params, res),
			Visible:  true,
		})
	}
	return meta, cands, nil
}

func pickCandidate(cands []search.Candidate, args []string) (*search.Candidate, error) {
	if len(cands) == 0 {
		return nil, fmt.Errorf("run has no candidates")
	}
	if len(args) < 2 {
		return &cands[0], nil
	}
	for i := range cands {
		if cands[i].ID == args[1] {
			return &cands[i], nil
		}
	}
	return nil, fmt.Errorf("no candidate %s in run %s", args[1], args[0])
}

func plotCandidate(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	_, cands, err := reevaluate(st, args[0], curveSamples)
	if err != nil {
		return err
	}
	c, err := pickCandidate(cands, args)
	if err != nil {
		return err
	}

	fmt.Printf("candidate: %s  rank: %d\n", c.ID, c.Rank)
	for _, key := range sortedKeys(c.Params) {
		fmt.Printf("  %s = %.6g\n", key, c.Params[key])
	}
	fmt.Println()
	if plot := viz.PlotCurves(c.Result); plot != "" {
		fmt.Print(plot)
	}
	if plot := viz.PlotEnergy(c.Result); plot != "" {
		fmt.Println()
		fmt.Print(plot)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, cands, err := reevaluate(st, args[0], config.DefaultCurveSamples)
	if err != nil {
		return err
	}
	if outPath != "" {
		return store.ExportJSON(outPath, meta.Topology, meta.Material, meta.Targets, cands)
	}
	return store.ExportJSONStdout(meta.Topology, meta.Material, meta.Targets, cands)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	_, cands, err := reevaluate(st, args[0], config.DefaultCurveSamples)
	if err != nil {
		return err
	}
	c, err := pickCandidate(cands, args)
	if err != nil {
		return err
	}
	if err := export.WriteCurveSVG(outPath, c.Result.Curves, 640, 400); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func browseRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, cands, err := reevaluate(st, args[0], config.DefaultCurveSamples)
	if err != nil {
		return err
	}
	return viz.RunBrowser(meta.Topology, cands)
}

func benchSearch(cmd *cobra.Command, args []string) error {
	topology := "compression"
	if len(args) > 0 {
		topology = args[0]
	}
	cfg, err := resolveConfig(topology)
	if err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		// Bench needs a target; a loose one keeps most of the grid alive.
		cfg.Targets = []config.TargetConfig{
			{Input: 10, Mode: "deflection", Output: 20, Tolerance: 0.9},
		}
	}

	space, err := cfg.Space()
	if err != nil {
		return err
	}
	mat, err := cfg.SpringMaterial()
	if err != nil {
		return err
	}

	reg := engines.NewRegistry()
	engine, ok := reg.Engine(space.Topology)
	if !ok {
		return fmt.Errorf("no engine for topology %s", space.Topology)
	}
	solver, _ := reg.Solver(space.Topology)

	fmt.Printf("benchmarking %s search\n\n", space.Topology)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tCANDIDATES\tTIME")

	for _, n := range []int{1, 2, 4, 8} {
		start := time.Now()
		cands, err := search.Generate(context.Background(), search.Context{
			Engine: engine, Solver: solver, Material: mat, Space: space,
		}, search.Options{Workers: n})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%d\t%v\n", n, len(cands), time.Since(start))
	}
	return w.Flush()
}

func parseSets(specs []string) (map[string]float64, error) {
	params := make(map[string]float64, len(specs))
	for _, spec := range specs {
		key, val, found := strings.Cut(spec, "=")
		if !found {
			return nil, fmt.Errorf("bad --set %q, want key=value", spec)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("bad --set %q: %w", spec, err)
		}
		params[strings.TrimSpace(key)] = v
	}
	return params, nil
}

func parseCase(spec string) (spring.LoadCase, error) {
	mode, val, found := strings.Cut(spec, ":")
	if !found {
		return spring.LoadCase{}, fmt.Errorf("bad --at %q, want mode:value", spec)
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return spring.LoadCase{}, fmt.Errorf("bad --at %q: %w", spec, err)
	}
	return spring.LoadCase{Mode: spring.InputMode(mode), Value: v}, nil
}

func parseTarget(spec string) (spring.Target, error) {
	if spec == "" {
		return spring.Target{}, fmt.Errorf("--target is required, want mode:input=output")
	}
	mode, rest, found := strings.Cut(spec, ":")
	if !found {
		return spring.Target{}, fmt.Errorf("bad --target %q, want mode:input=output", spec)
	}
	in, out, found := strings.Cut(rest, "=")
	if !found {
		return spring.Target{}, fmt.Errorf("bad --target %q, want mode:input=output", spec)
	}
	input, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return spring.Target{}, fmt.Errorf("bad --target input: %w", err)
	}
	output, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return spring.Target{}, fmt.Errorf("bad --target output: %w", err)
	}
	return spring.Target{Mode: spring.InputMode(mode), Input: input, Output: output}, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
