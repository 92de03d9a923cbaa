package irt

import "math"

const (
	// armijo is the sufficient-decrease constant for the line search.
	armijo = 1e-4

	// maxLineSearch bounds step halvings per iteration.
	maxLineSearch = 40

	// gradStep is the relative central-difference step.
	gradStep = 1e-6
)

type minimizeOptions struct {
	maxIterations int
	gradTol       float64
	funcTol       float64
}

type minimizeResult struct {
	x          float64
	f          float64
	iterations int
	converged  bool
	reason     string
}

// minimizeBounded minimises a scalar function on [lo, hi] with a projected
// quasi-Newton method: the curvature is a secant estimate (one-dimensional
// BFGS), every trial point is projected back into the box, and steps are
// accepted by Armijo backtracking. The gradient is a central difference,
// one-sided at the bounds.
func minimizeBounded(f func(float64) float64, x0, lo, hi float64, opts minimizeOptions) minimizeResult {
	x := clamp(x0, lo, hi)
	if math.IsNaN(x) {
		return minimizeResult{x: x0, reason: "starting point is not a number"}
	}
	fx := f(x)
	if !finite(fx) {
		return minimizeResult{x: x, f: fx, reason: "objective is not finite at the starting point"}
	}
	g := gradient(f, x, fx, lo, hi)
	if !finite(g) {
		return minimizeResult{x: x, f: fx, reason: "gradient is not finite at the starting point"}
	}

	curvature := 1.0
	for iter := 1; iter <= opts.maxIterations; iter++ {
		if math.Abs(projectedGradient(x, g, lo, hi)) <= opts.gradTol {
			return minimizeResult{x: x, f: fx, iterations: iter - 1, converged: true}
		}

		dir := -g / curvature
		xn, fn, ok := lineSearch(f, x, fx, g, dir, lo, hi)
		if !ok {
			// No representable decrease left near a stationary point.
			if math.Abs(projectedGradient(x, g, lo, hi)) <= math.Sqrt(opts.gradTol) {
				return minimizeResult{x: x, f: fx, iterations: iter, converged: true}
			}
			return minimizeResult{x: x, f: fx, iterations: iter, reason: "line search found no decrease"}
		}

		gn := gradient(f, xn, fn, lo, hi)
		if !finite(gn) {
			return minimizeResult{x: xn, f: fn, iterations: iter, reason: "gradient is not finite"}
		}

		s, y := xn-x, gn-g
		if s*y > 1e-12 {
			curvature = y / s
		}

		reduction := (fx - fn) / math.Max(math.Max(math.Abs(fx), math.Abs(fn)), 1)
		x, fx, g = xn, fn, gn
		if reduction <= opts.funcTol {
			return minimizeResult{x: x, f: fx, iterations: iter, converged: true}
		}
	}

	if math.Abs(projectedGradient(x, g, lo, hi)) <= opts.gradTol {
		return minimizeResult{x: x, f: fx, iterations: opts.maxIterations, converged: true}
	}
	return minimizeResult{x: x, f: fx, iterations: opts.maxIterations, reason: "iteration limit reached"}
}

// lineSearch halves the step along dir until the projected point satisfies
// the Armijo condition.
func lineSearch(f func(float64) float64, x, fx, g, dir, lo, hi float64) (float64, float64, bool) {
	t := 1.0
	for i := 0; i < maxLineSearch; i++ {
		xn := clamp(x+t*dir, lo, hi)
		if xn == x {
			return x, fx, false
		}
		fn := f(xn)
		if finite(fn) && fn <= fx+armijo*g*(xn-x) {
			return xn, fn, true
		}
		t *= 0.5
	}
	return x, fx, false
}

// projectedGradient is the step a unit gradient move would actually take
// inside the box; it is zero at a bound the gradient pushes against.
func projectedGradient(x, g, lo, hi float64) float64 {
	return x - clamp(x-g, lo, hi)
}

func gradient(f func(float64) float64, x, fx, lo, hi float64) float64 {
	h := gradStep * math.Max(1, math.Abs(x))
	switch {
	case x+h > hi:
		return (fx - f(x-h)) / h
	case x-h < lo:
		return (f(x+h) - fx) / h
	default:
		return (f(x+h) - f(x-h)) / (2 * h)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
