package irt

import (
	"math"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/logger"
)

// Response is one scored item in an examinee's history.
type Response struct {
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	C       float64 `json:"c"`
	Correct bool    `json:"answered_correctly"`
}

// NegLogLikelihood returns -log L(theta | history): -log P for each correct
// response and -log(1-P) for each incorrect one, with P clipped into
// [ProbEpsilon, 1-ProbEpsilon]. A malformed entry yields a *ValidationError
// naming its index; a non-finite total yields a *ComputationError.
func NegLogLikelihood(theta float64, history []Response) (float64, error) {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0, invalid("theta", theta, "must be a finite number")
	}

	total := 0.0
	for i, r := range history {
		if err := validateResponse(i, r); err != nil {
			return 0, err
		}
		p := clamp(probability(theta, r.A, r.B, r.C), ProbEpsilon, 1-ProbEpsilon)
		if r.Correct {
			total -= math.Log(p)
		} else {
			total -= math.Log(1 - p)
		}
	}

	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, &ComputationError{Op: "negative log-likelihood", Value: total}
	}
	return total, nil
}

func validateResponse(i int, r Response) error {
	for _, f := range []struct {
		name  string
		value float64
	}{{"a", r.A}, {"b", r.B}, {"c", r.C}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Index: i, Value: f.value, Reason: "must be a finite number"}
		}
	}
	if r.C < 0 || r.C > 1 {
		return &ValidationError{Field: "c", Index: i, Value: r.C, Reason: "guessing parameter must be in [0,1]"}
	}
	return nil
}

// Status tells a caller how much to trust an Estimate.
type Status int

const (
	// StatusPrior means there was no data; Theta is the initial guess.
	StatusPrior Status = iota
	// StatusConverged means the optimiser converged; Theta is the MLE
	// clipped into bounds.
	StatusConverged
	// StatusFellBack means estimation failed and Theta is the initial
	// guess carried forward.
	StatusFellBack
)

func (s Status) String() string {
	switch s {
	case StatusPrior:
		return "prior"
	case StatusConverged:
		return "converged"
	case StatusFellBack:
		return "fell-back"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Estimate is the outcome of one ability estimation.
type Estimate struct {
	Theta      float64
	Status     Status
	Iterations int
	// Reason explains a fallback; empty otherwise.
	Reason string
}

// Converged reports whether Theta came from a converged optimisation.
func (e Estimate) Converged() bool { return e.Status == StatusConverged }

const (
	// DefaultMaxIterations caps optimiser iterations per estimate.
	DefaultMaxIterations = 100

	// DefaultGradTol is the projected-gradient convergence threshold.
	DefaultGradTol = 1e-6

	// DefaultFuncTol is the relative objective-reduction convergence
	// threshold (factr=1e7 times machine epsilon).
	DefaultFuncTol = 2.220446049250313e-09
)

// EstimatorConfig configures an Estimator.
// Zero values are replaced with defaults.
type EstimatorConfig struct {
	Bounds        Bounds  `json:"bounds"`
	MaxIterations int     `json:"max_iterations"`
	GradTol       float64 `json:"grad_tol"`
	FuncTol       float64 `json:"func_tol"`
}

// Estimator fits theta to a response history by bounded maximum likelihood.
// It is stateless between calls and safe for concurrent use.
type Estimator struct {
	bounds Bounds
	opts   minimizeOptions
	log    *logger.Logger
}

// NewEstimator creates an Estimator. Zero-valued fields receive defaults:
// Bounds=[-4,4], MaxIterations=100, GradTol=1e-6, FuncTol=2.2e-9.
// A nil logger discards diagnostics.
func NewEstimator(cfg EstimatorConfig, log *logger.Logger) *Estimator {
	e := &Estimator{
		bounds: cfg.Bounds,
		opts: minimizeOptions{
			maxIterations: cfg.MaxIterations,
			gradTol:       cfg.GradTol,
			funcTol:       cfg.FuncTol,
		},
		log: logger.OrNop(log),
	}
	if e.bounds.IsZero() {
		e.bounds = DefaultBounds
	}
	if e.opts.maxIterations <= 0 {
		e.opts.maxIterations = DefaultMaxIterations
	}
	if e.opts.gradTol <= 0 {
		e.opts.gradTol = DefaultGradTol
	}
	if e.opts.funcTol <= 0 {
		e.opts.funcTol = DefaultFuncTol
	}
	return e
}

// Bounds returns the interval estimates are clipped to.
func (e *Estimator) Bounds() Bounds { return e.bounds }

// Estimate returns the maximum-likelihood theta for history, starting the
// search at initial. An empty history returns initial unchanged. Failures
// never propagate: the estimate falls back to initial and a warning is
// logged.
func (e *Estimator) Estimate(history []Response, initial float64) Estimate {
	if len(history) == 0 {
		return Estimate{Theta: initial, Status: StatusPrior}
	}

	if _, err := NegLogLikelihood(e.bounds.Clip(initial), history); err != nil {
		return e.fallBack(initial, len(history), 0, err.Error())
	}

	objective := func(theta float64) float64 {
		v, err := NegLogLikelihood(theta, history)
		if err != nil {
			return math.Inf(1)
		}
		return v
	}

	res := minimizeBounded(objective, initial, e.bounds.Min, e.bounds.Max, e.opts)
	if !res.converged {
		return e.fallBack(initial, len(history), res.iterations, res.reason)
	}

	return Estimate{
		Theta:      e.bounds.Clip(res.x),
		Status:     StatusConverged,
		Iterations: res.iterations,
	}
}

func (e *Estimator) fallBack(initial float64, n, iterations int, reason string) Estimate {
	e.log.Warn("theta estimation did not converge; keeping previous estimate",
		"theta", initial,
		"responses", n,
		"iterations", iterations,
		"reason", reason,
	)
	return Estimate{
		Theta:      initial,
		Status:     StatusFellBack,
		Iterations: iterations,
		Reason:     reason,
	}
}

// EstimateTheta is a convenience wrapper around an Estimator with default
// settings and the given bounds.
func EstimateTheta(history []Response, initial float64, bounds Bounds, log *logger.Logger) Estimate {
	return NewEstimator(EstimatorConfig{Bounds: bounds}, log).Estimate(history, initial)
}
