package mercurana

import (
	"math"

	"mercurana/internal/eos"
)

// subStepCount returns n(s): the sub-step count governing the recursion
// from shell s-1 into shell s, per spec.md §4.2/§4.4 ("n0 for the
// outermost recursion, else n1 if set else n0").
func (it *Integrator) subStepCount(s int) int {
	if s <= 1 {
		return it.cfg.N0
	}
	if it.cfg.N1 > 0 {
		return it.cfg.N1
	}
	return it.cfg.N0
}

// phiAt returns the composition scheme installed at shell s (phi0 at
// shell 0, phi1 at every deeper shell) and the cascade depth to resolve
// it at.
func (it *Integrator) phiAt(s int) (eos.Name, int) {
	if s == 0 {
		return it.cfg.Phi0, 0
	}
	return it.cfg.Phi1, s - 1
}

// subStepLength computes Δt_s for shell s given the global (outermost)
// step length dt0, by propagating Δt_{s-1} inward via the longest
// drift-substep coefficient of phi(s) divided by n(s), per spec.md §4.2.
func (it *Integrator) subStepLength(s int, dt0 float64) (float64, error) {
	dt := dt0
	for k := 1; k <= s; k++ {
		name, depth := it.phiAt(k)
		coeff, err := eos.LongestDriftCoefficient(name, depth)
		if err != nil {
			return 0, err
		}
		n := it.subStepCount(k)
		if n <= 0 {
			n = 1
		}
		dt = dt * coeff / float64(n)
	}
	return dt, nil
}

// recomputeDcrit fills dcrit[s][i] for every shell and particle per
// spec.md §4.2, given the outermost timestep dt0 of the step about to
// run.
func (it *Integrator) recomputeDcrit(dt0 float64) error {
	if dt0 == 0 {
		return nil
	}
	for s := 0; s < it.shells; s++ {
		dts, err := it.subStepLength(s, dt0)
		if err != nil {
			return err
		}
		ratio := dts / dt0
		for i := 0; i < it.n; i++ {
			m := float64(it.particles[i].Mass)
			dgrav := cubeRoot(it.g * dt0 * dt0 * m / it.cfg.Kappa)
			if it.cfg.Gm0r0 > 0 {
				relArg := it.g * it.g * dt0 * dt0 * m * m / (it.cfg.Gm0r0 * it.cfg.Kappa)
				dgravRel := math.Sqrt(math.Sqrt(relArg))
				if dgravRel > dgrav {
					dgrav = dgravRel
				}
			}
			var scaled float64
			if it.cfg.Alpha == 0.5 {
				scaled = math.Sqrt(ratio) * dgrav
			} else {
				scaled = math.Pow(ratio, it.cfg.Alpha) * dgrav
			}
			it.setDcrit(s, i, scaled)
		}
	}
	it.recalcDcritNext = false
	return nil
}
