package mercurana

import "mercurana/internal/physics"

// K is the kick operator of spec.md §4.5, specialized to shell s. It
// installs the MERCURANA gravity backend for the duration of the
// evaluation, applies y*acceleration (and, when jerk != 0, the jerk
// contribution scaled by jerk) to every resident of s across the three
// classes, taking care not to double-kick a subdominant particle
// already accounted for through the encounter class at this shell.
func (it *Integrator) K(y, jerk float64, s int) error {
	domIDs := it.dom.residents(s)
	encIDs := it.enc.residents(s)

	var unkickedSub []int
	if s > 0 {
		subIDs := it.sub.residents(s)
		unkickedSub = make([]int, 0, len(subIDs))
		for _, i := range subIDs {
			if int(it.enc.inshell[i]) < s {
				unkickedSub = append(unkickedSub, i)
			}
		}
	}

	ids := make([]int, 0, len(domIDs)+len(encIDs)+len(unkickedSub))
	ids = append(ids, domIDs...)
	ids = append(ids, encIDs...)
	ids = append(ids, unkickedSub...)
	if len(ids) == 0 {
		return nil
	}

	restore := it.gravMgr.EnterKick(s)
	defer restore()

	acc, err := it.gravEval.Accelerate(it, it.particles, ids, s)
	if err != nil {
		return err
	}

	var jrk []physics.Vec3
	if jerk != 0 {
		j, jerkErr := it.gravEval.Jerk(it, it.particles, ids, s)
		if jerkErr == nil {
			jrk = j
		}
	}

	for k, i := range ids {
		it.particles[i].Velocity = it.particles[i].Velocity.Add(acc[k].Scale(y))
		if jrk != nil {
			it.particles[i].Velocity = it.particles[i].Velocity.Add(jrk[k].Scale(jerk))
		}
	}
	return nil
}
