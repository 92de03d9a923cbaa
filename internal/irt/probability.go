// Package irt implements the three-parameter logistic (3PL) response model:
// response probability, Fisher information, the response-history
// likelihood, and a bounded maximum-likelihood ability estimator.
package irt

import "math"

const (
	// ProbEpsilon keeps probabilities away from 0 and 1 before they reach
	// a logarithm or a P·Q product.
	ProbEpsilon = 1e-9

	// guessingOne is how close to 1 the guessing parameter may get before
	// an item is treated as carrying no information.
	guessingOne = 1e-12
)

// ProbabilityCorrect returns P(correct | theta) under the 3PL model:
// c + (1-c)·sigmoid(a·(theta-b)), clipped to [0,1].
func ProbabilityCorrect(theta, a, b, c float64) (float64, error) {
	if err := checkFinite(theta, a, b, c); err != nil {
		return 0, err
	}
	if c < 0 || c > 1 {
		return 0, invalid("c", c, "guessing parameter must be in [0,1]")
	}
	return probability(theta, a, b, c), nil
}

// ItemInformation returns the Fisher information of an item at theta,
// a²·P·Q/(1-c)². It is exactly 0 when c is (numerically) 1 or more.
func ItemInformation(theta, a, b, c float64) (float64, error) {
	if err := checkFinite(theta, a, b, c); err != nil {
		return 0, err
	}
	if c < 0 {
		return 0, invalid("c", c, "guessing parameter must be non-negative")
	}
	if c >= 1-guessingOne {
		return 0, nil
	}
	p := clamp(probability(theta, a, b, c), ProbEpsilon, 1-ProbEpsilon)
	q := 1 - p
	return a * a * p * q / ((1 - c) * (1 - c)), nil
}

func probability(theta, a, b, c float64) float64 {
	return clamp(c+(1-c)*sigmoid(a*(theta-b)), 0, 1)
}

// sigmoid is the logistic function, evaluated without overflow for large |x|.
func sigmoid(x float64) float64 {
	if x >= 0 {
		z := math.Exp(-x)
		return 1.0 / (1.0 + z)
	}
	z := math.Exp(x)
	return z / (1.0 + z)
}

func checkFinite(theta, a, b, c float64) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"theta", theta}, {"a", a}, {"b", b}, {"c", c}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return invalid(v.name, v.value, "must be a finite number")
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
