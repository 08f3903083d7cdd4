package mercurana

import "mercurana/internal/eos"

// D is the drift operator of spec.md §4.4, specialized to shell s. It
// runs the predictor, advances the positions of every particle resident
// at exactly s (skipping encounter residents whose subdominant depth is
// s or deeper, since the subdominant class drifts those, per step 2's
// double-drift guard),
// and recurses into shell s+1 when the predictor promoted anyone there.
func (it *Integrator) D(a float64, s int) error {
	if it.cancelled != nil && it.cancelled() {
		return nil
	}

	if err := it.runPredictor(s, a); err != nil {
		return err
	}

	for _, i := range it.dom.residents(s) {
		it.advance(i, a)
	}
	for _, i := range it.sub.residents(s) {
		it.advance(i, a)
	}
	for _, i := range it.enc.residents(s) {
		if int(it.sub.inshell[i]) < s {
			it.advance(i, a)
		}
	}

	if s+1 >= it.shells {
		it.simClock += a
		return nil
	}

	promoted := len(it.dom.residents(s+1)) > 0 || len(it.enc.residents(s+1)) > 0
	if !promoted {
		it.simClock += a
		return nil
	}

	n := it.subStepCount(s + 1)
	if n <= 0 {
		n = 1
	}
	aSub := a / float64(n)

	name, depth := it.phiAt(s + 1)
	resolved, err := eos.ResolveForDepth(name, depth)
	if err != nil {
		return err
	}
	scheme, err := eos.Get(resolved)
	if err != nil {
		return err
	}

	dFunc := func(sub float64) error { return it.D(sub, s+1) }
	kFunc := func(y, jerk float64) error { return it.K(y, jerk, s+1) }

	if err := scheme.RunPre(aSub, dFunc, kFunc); err != nil {
		return err
	}
	for step := 0; step < n; step++ {
		if err := scheme.RunStep(aSub, dFunc, kFunc); err != nil {
			return err
		}
	}
	if err := scheme.RunPost(aSub, dFunc, kFunc); err != nil {
		return err
	}

	if s+2 > it.nMaxShellsUsed {
		it.nMaxShellsUsed = s + 2
	}
	return nil
}

func (it *Integrator) advance(i int, a float64) {
	p := it.particles[i]
	p.Position = p.Position.Add(p.Velocity.Scale(a))
	it.tDrifted[i] += a
}
