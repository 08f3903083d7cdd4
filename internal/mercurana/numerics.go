package mercurana

import "math"

// cubeRootIterations is fixed so the cube-root routine below is
// deterministic across platforms, per spec.md §6's bit-for-bit
// reproducibility requirement: "the cube-root routine must be
// evaluated with the same deterministic iteration on all platforms."
const cubeRootIterations = 200

// cubeRoot computes a^(1/3) via Newton's method on x^3 = a, seeded from
// math.Cbrt so the iteration count needed to converge is tiny in
// practice; the fixed iteration count is what makes the result
// reproducible, not the speed of convergence.
func cubeRoot(a float64) float64 {
	if a == 0 {
		return 0
	}
	sign := 1.0
	if a < 0 {
		sign = -1.0
		a = -a
	}
	x := math.Cbrt(a)
	if x == 0 {
		x = 1
	}
	for i := 0; i < cubeRootIterations; i++ {
		x = x - (x*x*x-a)/(3*x*x)
	}
	return sign * x
}

// Switch is the smooth 0->1 partition of unity spec.md §4.1 describes,
// used to weight which shell owns a pairwise force contribution. A host
// may supply an alternative via a capability interface; DefaultSwitch
// implements the specified f(x)=exp(-1/x) construction.
type Switch interface {
	L(d, rInner, rOuter float64) float64
	DLdr(d, rInner, rOuter float64) float64
}

// DefaultSwitch is the infinitely differentiable switching function
// spec.md §4.1 specifies as the required default.
type DefaultSwitch struct{}

func bump(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Exp(-1.0 / x)
}

func bumpDeriv(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Exp(-1.0/x) / (x * x)
}

// L implements spec.md §4.1: L(d)=0 for y<=0, L(d)=1 for y>=1, and
// f(y)/(f(y)+f(1-y)) in between, where y=(d-rInner)/(rOuter-rInner).
func (DefaultSwitch) L(d, rInner, rOuter float64) float64 {
	if rOuter == rInner {
		if d < rInner {
			return 0
		}
		return 1
	}
	y := (d - rInner) / (rOuter - rInner)
	if y <= 0 {
		return 0
	}
	if y >= 1 {
		return 1
	}
	fy := bump(y)
	f1y := bump(1 - y)
	return fy / (fy + f1y)
}

// DLdr is the quotient-rule derivative of L with respect to d; it is 0
// at and beyond the boundaries.
func (DefaultSwitch) DLdr(d, rInner, rOuter float64) float64 {
	if rOuter == rInner {
		return 0
	}
	y := (d - rInner) / (rOuter - rInner)
	if y <= 0 || y >= 1 {
		return 0
	}
	fy := bump(y)
	f1y := bump(1 - y)
	dfy := bumpDeriv(y)
	df1y := -bumpDeriv(1 - y)
	denom := fy + f1y
	dydr := 1.0 / (rOuter - rInner)
	return ((dfy*denom - fy*(dfy+df1y)) / (denom * denom)) * dydr
}
