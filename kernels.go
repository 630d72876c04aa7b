package glove

import "math"

// reciprocalAlpha and e are the fixed constants of the reciprocal
// forcing cost; they are not configurable, unlike the GloVe weighting
// function's alpha and x_max.
const (
	reciprocalAlpha = 0.5
)

var reciprocalE = Real(math.Exp(1))

// Dot is the plain inner product of two equal-length vectors.
func Dot(a, b []Real) Real {
	var sum Real
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// DotAtomic computes the inner product of the first n cells of a and
// b, loading each cell with a relaxed atomic load. Used by the
// Trainer's hot path, where row data lives in shared AtomicReal cells
// rather than plain slices.
func DotAtomic(a, b []*AtomicReal, n int) Real {
	var sum Real
	for i := 0; i < n; i++ {
		sum += a[i].Load() * b[i].Load()
	}
	return sum
}

// Weight is the GloVe weighting function f(x): it caps the
// contribution of very frequent co-occurrences.
func Weight(x, xMax, alpha Real) Real {
	if x >= xMax {
		return 1
	}
	return Real(math.Pow(float64(x/xMax), float64(alpha)))
}

// Phi is the reciprocal forcing cost for one (dimension, word) pair:
// it grows as the forced coordinate v moves away from its polarity p.
func Phi(v, p, k Real) Real {
	x := v * p
	if x < reciprocalAlpha {
		return k * reciprocalAlpha * Real(math.Exp(float64(-x/reciprocalAlpha)))
	}
	return (k / reciprocalE) * reciprocalAlpha * reciprocalAlpha / x
}

// PhiDerivative is Phi's derivative with respect to v.
//
// Note: unlike Phi, this does not multiply through by the chain-rule
// factor p — that asymmetry is present in the reference implementation
// and is reproduced here byte-for-byte rather than "fixed", since
// downstream regression vectors depend on it. See DESIGN.md.
func PhiDerivative(v, p, k Real) Real {
	x := v * p
	if x < reciprocalAlpha {
		return -k * Real(math.Exp(float64(-x/reciprocalAlpha)))
	}
	return -(k / reciprocalE) * reciprocalAlpha * reciprocalAlpha / (x * x)
}
