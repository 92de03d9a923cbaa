package irt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/logger"
)

// mixedHistory answers easy items correctly and hard items incorrectly,
// with one miss and one hit out of order.
func mixedHistory() []Response {
	return []Response{
		{A: 1.2, B: -2.0, C: 0.15, Correct: true},
		{A: 0.9, B: -1.0, C: 0.20, Correct: true},
		{A: 1.4, B: -0.5, C: 0.12, Correct: false},
		{A: 1.1, B: 0.0, C: 0.18, Correct: true},
		{A: 0.8, B: 0.5, C: 0.22, Correct: true},
		{A: 1.3, B: 1.0, C: 0.10, Correct: false},
		{A: 1.0, B: 2.0, C: 0.15, Correct: false},
	}
}

func TestNegLogLikelihood_SingleResponse(t *testing.T) {
	// theta == b with c == 0 gives P = 0.5 either way.
	nll, err := NegLogLikelihood(0, []Response{{A: 1, B: 0, C: 0, Correct: true}})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), nll, epsilon)

	nll, err = NegLogLikelihood(0, []Response{{A: 1, B: 0, C: 0, Correct: false}})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), nll, epsilon)
}

func TestNegLogLikelihood_EmptyHistoryIsZero(t *testing.T) {
	nll, err := NegLogLikelihood(1.5, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, nll)
}

func TestNegLogLikelihood_ClipsCertainOutcomes(t *testing.T) {
	// c == 1 makes P == 1; an incorrect answer would be -log(0) without clipping.
	nll, err := NegLogLikelihood(0, []Response{{A: 1, B: 0, C: 1, Correct: false}})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(ProbEpsilon), nll, 1e-6)
}

func TestNegLogLikelihood_NamesOffendingIndex(t *testing.T) {
	history := mixedHistory()
	history[4].B = math.NaN()

	_, err := NegLogLikelihood(0, history)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 4, verr.Index)
	assert.Equal(t, "b", verr.Field)
	assert.Contains(t, err.Error(), "history[4]")
}

func TestNegLogLikelihood_RejectsGuessingOutOfRange(t *testing.T) {
	_, err := NegLogLikelihood(0, []Response{{A: 1, B: 0, C: 1.5, Correct: true}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Index)
	assert.Equal(t, "c", verr.Field)
}

func TestComputationError_Unwraps(t *testing.T) {
	err := error(&ComputationError{Op: "negative log-likelihood", Value: math.Inf(1)})
	assert.True(t, errors.Is(err, ErrNonFinite))
	assert.Contains(t, err.Error(), "negative log-likelihood")
}

func TestEstimate_EmptyHistoryReturnsInitial(t *testing.T) {
	est := NewEstimator(EstimatorConfig{}, nil)
	for _, x0 := range []float64{-4, -1.25, 0, 0.3, 4} {
		got := est.Estimate(nil, x0)
		assert.Equal(t, x0, got.Theta)
		assert.Equal(t, StatusPrior, got.Status)
	}
}

func TestEstimate_MultiStartAgreement(t *testing.T) {
	est := NewEstimator(EstimatorConfig{}, nil)
	history := mixedHistory()

	var thetas []float64
	for _, x0 := range []float64{-3, -1, 0, 1.5, 3} {
		got := est.Estimate(history, x0)
		require.True(t, got.Converged(), "start %v: %s", x0, got.Reason)
		thetas = append(thetas, got.Theta)
	}
	for _, th := range thetas[1:] {
		assert.InDelta(t, thetas[0], th, 1e-3)
	}
	assert.True(t, DefaultBounds.Contains(thetas[0]))
}

func TestEstimate_IsLocalMinimum(t *testing.T) {
	history := mixedHistory()
	got := NewEstimator(EstimatorConfig{}, nil).Estimate(history, 0)
	require.True(t, got.Converged())

	at, err := NegLogLikelihood(got.Theta, history)
	require.NoError(t, err)
	for _, d := range []float64{-0.01, 0.01} {
		near, err := NegLogLikelihood(got.Theta+d, history)
		require.NoError(t, err)
		assert.LessOrEqual(t, at, near)
	}
}

func TestEstimate_AllCorrectHitsUpperBound(t *testing.T) {
	history := []Response{
		{A: 1.0, B: -1, C: 0.2, Correct: true},
		{A: 1.2, B: 0, C: 0.2, Correct: true},
		{A: 0.8, B: 1, C: 0.2, Correct: true},
	}
	got := NewEstimator(EstimatorConfig{Bounds: Bounds{Min: -3, Max: 3}}, nil).Estimate(history, 0)
	require.True(t, got.Converged(), got.Reason)
	assert.InDelta(t, 3.0, got.Theta, 1e-9)
}

func TestEstimate_AllIncorrectHitsLowerBound(t *testing.T) {
	history := []Response{
		{A: 1.0, B: -1, C: 0.2, Correct: false},
		{A: 1.2, B: 0, C: 0.2, Correct: false},
		{A: 0.8, B: 1, C: 0.2, Correct: false},
	}
	got := EstimateTheta(history, 0, DefaultBounds, nil)
	require.True(t, got.Converged(), got.Reason)
	assert.InDelta(t, -4.0, got.Theta, 1e-9)
}

func TestEstimate_MalformedHistoryFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	est := NewEstimator(EstimatorConfig{}, logger.FromCore(core))

	history := mixedHistory()
	history[2].C = -0.5

	got := est.Estimate(history, 0.7)
	assert.Equal(t, StatusFellBack, got.Status)
	assert.Equal(t, 0.7, got.Theta)
	assert.Contains(t, got.Reason, "history[2]")
	assert.Equal(t, 1, logs.FilterMessageSnippet("did not converge").Len())
}

func TestEstimate_IterationLimitFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	est := NewEstimator(EstimatorConfig{MaxIterations: 1}, logger.FromCore(core))

	got := est.Estimate(mixedHistory(), 3.5)
	assert.Equal(t, StatusFellBack, got.Status)
	assert.Equal(t, 3.5, got.Theta)
	assert.Equal(t, "iteration limit reached", got.Reason)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestEstimate_ClipsIntoBounds(t *testing.T) {
	b := Bounds{Min: -0.5, Max: 0.25}
	got := NewEstimator(EstimatorConfig{Bounds: b}, nil).Estimate(mixedHistory(), 0)
	require.True(t, got.Converged())
	assert.True(t, b.Contains(got.Theta))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "prior", StatusPrior.String())
	assert.Equal(t, "converged", StatusConverged.String())
	assert.Equal(t, "fell-back", StatusFellBack.String())
	assert.Equal(t, "unknown", Status(9).String())
}
