package glove

import (
	"math"
	"testing"
)

func TestDot(t *testing.T) {
	a := []Real{1, 2, 3}
	b := []Real{4, 5, 6}
	got := Dot(a, b)
	want := Real(1*4 + 2*5 + 3*6)
	if got != want {
		t.Errorf("Dot(%v, %v) = %v, want %v", a, b, got, want)
	}
}

func TestDotAtomic(t *testing.T) {
	a := newAtomicReals(4, 0)
	b := newAtomicReals(4, 0)
	for i, v := range []Real{1, 2, 3, 9999} {
		a[i].Store(v)
	}
	for i, v := range []Real{4, 5, 6, -9999} {
		b[i].Store(v)
	}

	got := DotAtomic(a, b, 3) // deliberately excludes the 4th (bias) cell
	want := Real(1*4 + 2*5 + 3*6)
	if got != want {
		t.Errorf("DotAtomic = %v, want %v", got, want)
	}
}

func TestWeight(t *testing.T) {
	cases := []struct {
		x, xMax, alpha Real
		want           Real
	}{
		{100, 100, 0.75, 1},
		{200, 100, 0.75, 1}, // clamped at and beyond xMax
		{0, 100, 0.75, 0},
	}
	for _, c := range cases {
		got := Weight(c.x, c.xMax, c.alpha)
		if got != c.want {
			t.Errorf("Weight(%v,%v,%v) = %v, want %v", c.x, c.xMax, c.alpha, got, c.want)
		}
	}

	// Below xMax, Weight must equal the power-law formula exactly.
	x, xMax, alpha := Real(10), Real(100), Real(0.75)
	want := Real(math.Pow(float64(x/xMax), float64(alpha)))
	if got := Weight(x, xMax, alpha); got != want {
		t.Errorf("Weight(%v,%v,%v) = %v, want %v", x, xMax, alpha, got, want)
	}
}

func TestPhiContinuousAtBoundary(t *testing.T) {
	// Both branches of Phi must agree at x = v*p = reciprocalAlpha,
	// or the forced-dimension cost has a jump discontinuity at that
	// constant.
	k := Real(0.1)
	p := Real(1)
	v := reciprocalAlpha / p

	below := Phi(v-1e-4, p, k)
	above := Phi(v+1e-4, p, k)
	at := Phi(v, p, k)

	if math.Abs(float64(below-at)) > 1e-3 {
		t.Errorf("Phi discontinuous approaching boundary from below: %v vs %v", below, at)
	}
	if math.Abs(float64(above-at)) > 1e-3 {
		t.Errorf("Phi discontinuous approaching boundary from above: %v vs %v", above, at)
	}
}

func TestPhiGrowsAwayFromPolarity(t *testing.T) {
	k := Real(1)
	p := Real(1)

	// As v moves further negative (away from its +1 polarity), cost
	// must strictly increase.
	costs := []Real{Phi(1.0, p, k), Phi(0.0, p, k), Phi(-1.0, p, k), Phi(-5.0, p, k)}
	for i := 1; i < len(costs); i++ {
		if costs[i] <= costs[i-1] {
			t.Errorf("Phi not monotone moving away from polarity: %v", costs)
		}
	}
}

func TestPhiDerivativeSign(t *testing.T) {
	// With a positive polarity and v below the reciprocalAlpha
	// threshold, the derivative must be negative: moving v down
	// increases cost, so the gradient step (w -= eta*grad) should push
	// v up, toward its polarity.
	k := Real(1)
	p := Real(1)
	v := Real(0)

	if d := PhiDerivative(v, p, k); d >= 0 {
		t.Errorf("PhiDerivative(%v,%v,%v) = %v, want negative", v, p, k, d)
	}
}

func TestAtomicRealRoundTrip(t *testing.T) {
	cells := newAtomicReals(3, 7)
	for _, c := range cells {
		if got := c.Load(); got != 7 {
			t.Errorf("newAtomicReals default = %v, want 7", got)
		}
	}
	cells[1].Store(42)
	if got := cells[1].Load(); got != 42 {
		t.Errorf("Store/Load round trip = %v, want 42", got)
	}
	if got := cells[0].Load(); got != 7 {
		t.Errorf("unrelated cell mutated: got %v, want 7", got)
	}
}
