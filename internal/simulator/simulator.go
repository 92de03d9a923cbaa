// Package simulator replays a scripted exam through the adaptive loop:
// select the most informative item, score it from the script and its
// overrides, re-estimate ability on the full history, record the step and
// retire the item.
package simulator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/bank"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/logger"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/selector"
)

// Options configures a Simulator. Zero values use the estimator defaults.
type Options struct {
	MaxIterations int
	GradTol       float64
	Logger        *logger.Logger
}

// Simulator runs CAT simulations. It holds no per-run state, so one
// Simulator may serve concurrent runs.
type Simulator struct {
	maxIterations int
	gradTol       float64
	selector      *selector.Selector
	log           *logger.Logger
}

// New creates a Simulator.
func New(opts Options) *Simulator {
	log := logger.OrNop(opts.Logger)
	return &Simulator{
		maxIterations: opts.MaxIterations,
		gradTol:       opts.GradTol,
		selector:      selector.New(log),
		log:           log,
	}
}

// Result is the output of one run.
type Result struct {
	RunID       uuid.UUID   `json:"run_id"`
	Steps       []Step      `json:"steps"`
	Termination Termination `json:"termination"`
	// Requested is the configured run length; Effective is the length
	// after truncation to the bank size.
	Requested int `json:"requested"`
	Effective int `json:"effective"`
}

// FinalTheta returns the ability estimate after the last step, or the
// initial theta when nothing was administered.
func (r *Result) FinalTheta(initial float64) float64 {
	if len(r.Steps) == 0 {
		return initial
	}
	return r.Steps[len(r.Steps)-1].ThetaAfter
}

// Summary aggregates a run for reporting.
type Summary struct {
	Administered int         `json:"administered"`
	Correct      int         `json:"correct"`
	FellBack     int         `json:"fell_back"`
	FinalTheta   float64     `json:"final_theta"`
	Termination  Termination `json:"termination"`
}

// Summary aggregates the steps of r. initial is the theta reported when no
// step was taken.
func (r *Result) Summary(initial float64) Summary {
	s := Summary{
		Administered: len(r.Steps),
		FinalTheta:   r.FinalTheta(initial),
		Termination:  r.Termination,
	}
	for _, st := range r.Steps {
		if st.Correct {
			s.Correct++
		}
		if st.Estimate == irt.StatusFellBack {
			s.FellBack++
		}
	}
	return s
}

// run is the mutable state of a single simulation. It is never shared.
type run struct {
	id      uuid.UUID
	state   State
	pool    *bank.Pool
	history []irt.Response
	theta   float64
	log     *logger.Logger
}

func (r *run) transition(to State) {
	r.log.Debug("state transition", "from", r.state, "to", to)
	r.state = to
}

// Run simulates one exam over a private pool drawn from b. The bank
// itself is not modified. Invalid configuration is returned as an
// *irt.ValidationError; numerical trouble during the run is logged and
// never aborts it. Cancelling ctx stops the run between steps and returns
// the steps taken so far together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, b *bank.Bank, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	cfg = cfg.withDefaults()

	id := uuid.New()
	r := &run{
		id:    id,
		state: StateReady,
		pool:  b.Pool(),
		theta: cfg.InitialTheta,
		log:   s.log.With("run_id", id.String()),
	}
	estimator := irt.NewEstimator(irt.EstimatorConfig{
		Bounds:        cfg.Bounds,
		MaxIterations: s.maxIterations,
		GradTol:       s.gradTol,
	}, r.log)
	sc := newScript(cfg)

	effective := cfg.TotalQuestions
	if effective > r.pool.Len() {
		r.log.Warn("requested more questions than the bank holds; truncating",
			"requested", cfg.TotalQuestions,
			"bank_size", r.pool.Len(),
		)
		effective = r.pool.Len()
	}

	res := &Result{
		RunID:       id,
		Steps:       make([]Step, 0, effective),
		Termination: Completed,
		Requested:   cfg.TotalQuestions,
		Effective:   effective,
	}

	for qn := 1; qn <= effective; qn++ {
		if err := ctx.Err(); err != nil {
			r.transition(StateTerminated)
			return res, err
		}

		r.transition(StateAdministering)
		itemID, ok := s.selector.Next(r.theta, r.pool)
		if !ok {
			r.log.Warn("no item selected; stopping early", "question_number", qn)
			res.Termination = StoppedEarly
			break
		}
		item, _ := r.pool.Get(itemID)
		correct := sc.correct(qn)

		r.history = append(r.history, irt.Response{A: item.A, B: item.B, C: item.C, Correct: correct})

		r.transition(StateUpdating)
		est := estimator.Estimate(r.history, r.theta)

		res.Steps = append(res.Steps, Step{
			QuestionNumber: qn,
			ItemID:         item.ID,
			A:              item.A,
			B:              item.B,
			C:              item.C,
			Correct:        correct,
			ThetaBefore:    r.theta,
			ThetaAfter:     est.Theta,
			Estimate:       est.Status,
		})
		r.theta = est.Theta
		r.pool.Remove(itemID)
	}

	r.transition(StateTerminated)
	r.log.Info("run finished",
		"termination", res.Termination,
		"administered", len(res.Steps),
		"final_theta", res.FinalTheta(cfg.InitialTheta),
	)
	return res, nil
}

// Simulate runs a single simulation with default estimator settings.
func Simulate(ctx context.Context, b *bank.Bank, cfg Config, log *logger.Logger) (*Result, error) {
	return New(Options{Logger: log}).Run(ctx, b, cfg)
}
