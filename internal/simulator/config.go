package simulator

import (
	"fmt"
	"math"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
)

// DefaultTotalQuestions is the run length used when none is configured.
const DefaultTotalQuestions = 10

// Config describes one scripted run.
type Config struct {
	// InitialTheta seeds the ability estimate before any response.
	InitialTheta float64 `json:"initial_theta"`

	// Bounds clips every estimate. Zero value means irt.DefaultBounds.
	Bounds irt.Bounds `json:"bounds"`

	// TotalQuestions is the requested run length. It is reduced to the
	// bank size when the bank is smaller.
	TotalQuestions int `json:"total_questions"`

	// WrongPositions lists the 1-based question numbers answered
	// incorrectly in the baseline script.
	WrongPositions []int `json:"wrong_positions"`

	// ForceCorrect marks 1-based positions correct regardless of script.
	ForceCorrect []int `json:"force_correct"`

	// ForceIncorrect marks 1-based positions incorrect regardless of
	// script. It wins over ForceCorrect.
	ForceIncorrect []int `json:"force_incorrect"`
}

// DefaultConfig returns a Config with theta starting at 0, default bounds,
// DefaultTotalQuestions items and every answer correct.
func DefaultConfig() Config {
	return Config{
		InitialTheta:   0,
		Bounds:         irt.DefaultBounds,
		TotalQuestions: DefaultTotalQuestions,
	}
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Bounds.IsZero() {
		c.Bounds = irt.DefaultBounds
	}
	return c
}

// Validate checks the run configuration.
func (c Config) Validate() error {
	c = c.withDefaults()
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.InitialTheta) || math.IsInf(c.InitialTheta, 0) {
		return &irt.ValidationError{Field: "initial_theta", Index: -1, Value: c.InitialTheta, Reason: "must be a finite number"}
	}
	if !c.Bounds.Contains(c.InitialTheta) {
		return &irt.ValidationError{Field: "initial_theta", Index: -1, Value: c.InitialTheta, Reason: fmt.Sprintf("must lie within %s", c.Bounds)}
	}
	if c.TotalQuestions <= 0 {
		return &irt.ValidationError{Field: "total_questions", Index: -1, Value: float64(c.TotalQuestions), Reason: "must be a positive integer"}
	}
	for _, set := range []struct {
		name      string
		positions []int
	}{
		{"wrong_positions", c.WrongPositions},
		{"force_correct", c.ForceCorrect},
		{"force_incorrect", c.ForceIncorrect},
	} {
		for i, pos := range set.positions {
			if pos < 1 {
				return &irt.ValidationError{Field: fmt.Sprintf("%s[%d]", set.name, i), Index: -1, Value: float64(pos), Reason: "positions are 1-based"}
			}
		}
	}
	return nil
}

// script resolves the correctness of each question number.
type script struct {
	wrong          map[int]bool
	forceCorrect   map[int]bool
	forceIncorrect map[int]bool
}

func newScript(c Config) script {
	return script{
		wrong:          positionSet(c.WrongPositions),
		forceCorrect:   positionSet(c.ForceCorrect),
		forceIncorrect: positionSet(c.ForceIncorrect),
	}
}

// correct applies the baseline script and then the overrides;
// force-incorrect is applied last so it wins a conflict.
func (s script) correct(questionNumber int) bool {
	ok := !s.wrong[questionNumber]
	if s.forceCorrect[questionNumber] {
		ok = true
	}
	if s.forceIncorrect[questionNumber] {
		ok = false
	}
	return ok
}

func positionSet(positions []int) map[int]bool {
	set := make(map[int]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}
	return set
}
