package cmd

import (
	"fmt"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/bank"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/report"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/scenario"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/simulator"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted adaptive exam",
	Long: "Run a scripted adaptive exam over a generated or file-defined item bank.\n\n" +
		"With --scenario the file describes the bank and the script, and only --format and " +
		"--replications apply. Replications re-run the exam over banks generated from " +
		"consecutive seeds.",
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.String("scenario", "", "YAML or JSON scenario file")
	f.Int("count", 100, "Number of items in the generated bank")
	f.Int64("seed", 42, "Seed for the generated bank")
	f.Float64("initial-theta", 0, "Ability estimate before the first item")
	f.Float64("theta-min", irt.DefaultBounds.Min, "Lower ability bound (overrides CATSIM_THETA_MIN)")
	f.Float64("theta-max", irt.DefaultBounds.Max, "Upper ability bound (overrides CATSIM_THETA_MAX)")
	f.Int("total", simulator.DefaultTotalQuestions, "Number of items to administer")
	f.IntSlice("wrong", nil, "1-based positions answered incorrectly (e.g. 2,5)")
	f.IntSlice("force-correct", nil, "Positions forced correct")
	f.IntSlice("force-incorrect", nil, "Positions forced incorrect; wins over --force-correct")
	f.String("format", string(report.FormatTable), "Output format: table, csv or json")
	f.Int("replications", 1, "Number of runs over consecutive bank seeds")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	reps, _ := cmd.Flags().GetInt("replications")
	if reps < 1 {
		return fmt.Errorf("--replications must be at least 1, got %d", reps)
	}

	var jobs []simulator.Job
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		jobs, err = scenarioJobs(path, reps)
	} else {
		jobs, err = flagJobs(cmd, reps)
	}
	if err != nil {
		return err
	}

	sim := simulator.New(simulator.Options{
		MaxIterations: settings.MaxIterations,
		GradTol:       settings.GradTol,
		Logger:        appLog,
	})
	opts := report.Options{
		Styled:       styledOutput(cmd),
		InitialTheta: jobs[0].Config.InitialTheta,
	}
	out := cmd.OutOrStdout()

	if len(jobs) == 1 {
		res, err := sim.Run(cmd.Context(), jobs[0].Bank, jobs[0].Config)
		if err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
		return report.Write(out, format, res, opts)
	}

	results, err := sim.Batch(cmd.Context(), jobs, settings.Workers)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	rows := make([]report.BatchRow, len(jobs))
	for i, job := range jobs {
		rows[i] = report.BatchRow{Name: job.Name, Result: results[i]}
	}
	return report.WriteBatch(out, format, rows, opts)
}

// flagJobs builds runs from command-line flags.
func flagJobs(cmd *cobra.Command, reps int) ([]simulator.Job, error) {
	f := cmd.Flags()
	count, _ := f.GetInt("count")
	seed, _ := f.GetInt64("seed")
	initial, _ := f.GetFloat64("initial-theta")
	total, _ := f.GetInt("total")
	wrong, _ := f.GetIntSlice("wrong")
	forceCorrect, _ := f.GetIntSlice("force-correct")
	forceIncorrect, _ := f.GetIntSlice("force-incorrect")

	bounds := settings.Bounds
	if f.Changed("theta-min") {
		bounds.Min, _ = f.GetFloat64("theta-min")
	}
	if f.Changed("theta-max") {
		bounds.Max, _ = f.GetFloat64("theta-max")
	}

	cfg := simulator.Config{
		InitialTheta:   initial,
		Bounds:         bounds,
		TotalQuestions: total,
		WrongPositions: wrong,
		ForceCorrect:   forceCorrect,
		ForceIncorrect: forceIncorrect,
	}

	jobs := make([]simulator.Job, 0, reps)
	for i := 0; i < reps; i++ {
		s := seed + int64(i)
		b, err := bank.Generate(count, s)
		if err != nil {
			return nil, fmt.Errorf("generate bank: %w", err)
		}
		jobs = append(jobs, simulator.Job{Name: fmt.Sprintf("seed-%d", s), Bank: b, Config: cfg})
	}
	return jobs, nil
}

// scenarioJobs builds runs from a scenario file. Replicating a scenario
// needs a generated bank, since explicit items would repeat the same run.
func scenarioJobs(path string, reps int) ([]simulator.Job, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	cfg := sc.RunConfig(settings.Bounds)
	name := sc.Name
	if name == "" {
		name = "scenario"
	}

	if reps == 1 {
		b, err := sc.BuildBank()
		if err != nil {
			return nil, fmt.Errorf("build bank: %w", err)
		}
		return []simulator.Job{{Name: name, Bank: b, Config: cfg}}, nil
	}

	gen := sc.Bank.Generate
	if gen == nil {
		return nil, fmt.Errorf("--replications needs a scenario with a generated bank")
	}
	jobs := make([]simulator.Job, 0, reps)
	for i := 0; i < reps; i++ {
		s := gen.Seed + int64(i)
		b, err := bank.Generate(gen.Count, s)
		if err != nil {
			return nil, fmt.Errorf("generate bank: %w", err)
		}
		jobs = append(jobs, simulator.Job{Name: fmt.Sprintf("%s/seed-%d", name, s), Bank: b, Config: cfg})
	}
	return jobs, nil
}
