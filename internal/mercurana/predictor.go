package mercurana

import "math"

// minSquaredSeparation returns the minimum of |r0 + v*t|^2 over t in the
// closed interval bounded by 0 and dt, under linear motion: the endpoints
// plus, when it falls strictly inside the interval, the analytic time of
// closest approach.
func minSquaredSeparation(r0, v vec3, dt float64) float64 {
	lo, hi := 0.0, dt
	if lo > hi {
		lo, hi = hi, lo
	}
	best := sepSq(r0, v, lo)
	if s2 := sepSq(r0, v, hi); s2 < best {
		best = s2
	}
	if denom := v.dot(v); denom > 0 {
		tStar := -r0.dot(v) / denom
		if tStar > lo && tStar < hi {
			if s2 := sepSq(r0, v, tStar); s2 < best {
				best = s2
			}
		}
	}
	return best
}

func sepSq(r0, v vec3, t float64) float64 {
	r := vec3{r0.x + v.x*t, r0.y + v.y*t, r0.z + v.z*t}
	return r.dot(r)
}

// vec3 is a minimal local value type so the predictor's hot loop does not
// depend on physics.Vec3's method set; it is built/discarded per call.
type vec3 struct{ x, y, z float64 }

func (v vec3) dot(o vec3) float64 { return v.x*o.x + v.y*o.y + v.z*o.z }

func sub3(a, b [3]float64) vec3 { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func pos3(i int, it *Integrator) [3]float64 {
	p := it.particles[i].Position
	return [3]float64{p.X, p.Y, p.Z}
}

func vel3(i int, it *Integrator) [3]float64 {
	v := it.particles[i].Velocity
	return [3]float64{v.X, v.Y, v.Z}
}

// predictRmin2 estimates the minimum squared separation between
// particles i and j over a drift of length dt, under linear motion.
func (it *Integrator) predictRmin2(i, j int, dt float64) float64 {
	r0 := sub3(pos3(j, it), pos3(i, it))
	v := sub3(vel3(j, it), vel3(i, it))
	return minSquaredSeparation(r0, v, dt)
}

// predictRmin2Drifted first advances particle j by delta*v_j (accounting
// for j's pending, uncommitted drift) before applying the same test.
func (it *Integrator) predictRmin2Drifted(i, j int, dt, delta float64) float64 {
	pj := pos3(j, it)
	vj := vel3(j, it)
	pjAdj := [3]float64{pj[0] + vj[0]*delta, pj[1] + vj[1]*delta, pj[2] + vj[2]*delta}
	r0 := sub3(pjAdj, pos3(i, it))
	v := sub3(vj, vel3(i, it))
	return minSquaredSeparation(r0, v, dt)
}

// seedShellZero implements predictor step 1: class maps reset, dominants
// are 0..N_dominant, subdominant and encounter both start as the rest,
// maxdrift is reset to +Inf for every particle, the collision buffer is
// cleared.
func (it *Integrator) seedShellZero() {
	it.dom.clearMembership()
	it.sub.clearMembership()
	it.enc.clearMembership()

	nDom := it.cfg.NDominant
	if nDom > it.n {
		nDom = it.n
	}
	domIDs := make([]int, nDom)
	for i := 0; i < nDom; i++ {
		domIDs[i] = i
	}
	restIDs := make([]int, 0, it.n-nDom)
	for i := nDom; i < it.n; i++ {
		restIDs = append(restIDs, i)
	}
	it.dom.seed(domIDs)
	it.sub.seed(restIDs)
	it.enc.seed(restIDs)

	for i := 0; i < it.n; i++ {
		it.maxdriftEnc[i] = math.Inf(1)
		it.maxdriftDom[i] = math.Inf(1)
	}
	it.collisions = it.collisions[:0]
}

// promote moves particle i one level deeper in class c, unless doing so
// would exceed Nmaxshells, in which case the promotion is truncated per
// spec.md §4.3's termination rule and a warning is recorded.
func (it *Integrator) promote(c classID, i, target int) {
	if target >= it.shells {
		it.warn("mercurana: particle %d truncated at max shell depth %d", i, it.shells)
		return
	}
	it.classOf(c).promote(i, target)
}

func dist(d2 float64) float64 { return math.Sqrt(d2) }

// runPredictor implements spec.md §4.3 in full: shell-0 seeding, the
// maxdrift-violation recheck for s>0, the three pair sweeps, and the
// collision hand-off (including the same-shell restart it can trigger).
func (it *Integrator) runPredictor(s int, a float64) error {
	if s == 0 {
		it.seedShellZero()
	} else {
		if err := it.recheckMaxdriftViolations(s, a); err != nil {
			return err
		}
	}

	if err := it.sweepPairs(classDominant, classDominant, s, a, it.maxdriftDom); err != nil {
		return err
	}
	if err := it.sweepDominantSubdominant(s, a); err != nil {
		return err
	}
	if err := it.sweepPairs(classEncounter, classEncounter, s, a, it.maxdriftEnc); err != nil {
		return err
	}

	if len(it.collisions) == 0 {
		return nil
	}
	return it.handOffCollisions(s, a)
}

// recheckMaxdriftViolations implements spec.md §4.3 step 2.
func (it *Integrator) recheckMaxdriftViolations(s int, a float64) error {
	residents := append([]int(nil), it.enc.residents(s)...)
	for _, i := range residents {
		pi := it.particles[i].Position
		p0i := it.p0[i]
		driftDist := math.Hypot(math.Hypot(pi.X-p0i.X, pi.Y-p0i.Y), pi.Z-p0i.Z)
		if driftDist <= it.maxdriftEnc[i] {
			continue
		}
		for _, j := range it.enc.members {
			if j == i || int(it.enc.inshell[j]) >= s {
				continue
			}
			rmin2 := it.predictRmin2Drifted(i, j, a, it.tDrifted[i]-it.tDrifted[j])
			sum := it.DCrit(s, i) + it.DCrit(s, j)
			if rmin2 < sum*sum {
				for target := 1; target <= s; target++ {
					if int(it.enc.inshell[j]) < target {
						it.promote(classEncounter, j, target)
					}
				}
				delta := it.tDrifted[i] - it.tDrifted[j]
				vj := it.particles[j].Velocity
				it.particles[j].Position = it.particles[j].Position.Add(vj.Scale(delta))
				it.tDrifted[j] = it.tDrifted[i]
				it.maxdriftEnc[j] = math.Inf(1)
			} else {
				bound := (dist(rmin2) - sum) / 2
				if bound < it.maxdriftDom[i] {
					it.maxdriftDom[i] = bound
				}
			}
		}
	}
	return nil
}

// sweepPairs implements one of the same-class all-pairs sweeps (i<j) of
// spec.md §4.3 step 3: dominant x dominant, or encounter x encounter.
func (it *Integrator) sweepPairs(classA, classB classID, s int, a float64, maxdrift []float64) error {
	ids := append([]int(nil), it.classOf(classA).residents(s)...)
	for ai := 0; ai < len(ids); ai++ {
		for bi := ai + 1; bi < len(ids); bi++ {
			i, j := ids[ai], ids[bi]
			if err := it.considerPair(classA, classA, i, j, s, a, maxdrift, maxdrift); err != nil {
				return err
			}
		}
	}
	return nil
}

// sweepDominantSubdominant implements the dominant x subdominant sweep.
func (it *Integrator) sweepDominantSubdominant(s int, a float64) error {
	domIDs := it.dom.residents(s)
	subIDs := it.sub.residents(s)
	for _, i := range domIDs {
		for _, j := range subIDs {
			if err := it.considerPair(classDominant, classSubdominant, i, j, s, a, it.maxdriftDom, it.maxdriftDom); err != nil {
				return err
			}
		}
	}
	return nil
}

// considerPair runs the collision check and the promotion/maxdrift-tighten
// decision shared by every sweep kind in spec.md §4.3 step 3.
func (it *Integrator) considerPair(classA, classB classID, i, j, s int, a float64, maxdriftA, maxdriftB []float64) error {
	rmin2 := it.predictRmin2(i, j, a)

	ri := float64(it.particles[i].Radius)
	rj := float64(it.particles[j].Radius)
	rsum := ri + rj
	if it.cfg.DirectCollisionSearch && rmin2 < rsum*rsum {
		it.collisions = append(it.collisions, [2]int{i, j})
	}

	sum := it.DCrit(s, i) + it.DCrit(s, j)
	if rmin2 < sum*sum {
		if int(it.classOf(classA).inshell[i]) == s {
			it.promote(classA, i, s+1)
		}
		if int(it.classOf(classB).inshell[j]) == s {
			it.promote(classB, j, s+1)
		}
		return nil
	}

	bound := (dist(rmin2) - sum) / 2
	if bound < maxdriftA[i] {
		maxdriftA[i] = bound
	}
	if bound < maxdriftB[j] {
		maxdriftB[j] = bound
	}
	return nil
}

// handOffCollisions implements spec.md §4.7/§4.3 step 4. A resolved
// collision restarts the predictor at the same shell s: this is a
// structural invalidation (N may have changed), not a return to shell
// 0, since §4.3 only reseeds class membership from scratch at s==0.
// The common case — a resolver that only removes particles, as
// MergeResolver does — reindexes every surviving particle's dcrit,
// drift bookkeeping, and class membership onto its new index instead
// of wiping it, so the restarted pass resumes with the state the
// predictor already built for this step. A resolver that also
// introduces particles (outside anything bundled here) cannot be
// reindexed from removed alone, since the new particles have no prior
// bookkeeping to carry forward; that case still falls back to a full
// resize.
func (it *Integrator) handOffCollisions(s int, a float64) error {
	if it.resolver == nil {
		it.collisions = it.collisions[:0]
		return nil
	}
	before := len(it.particles)
	removed, err := it.resolver.Resolve(&it.particles, it.collisions)
	it.collisions = it.collisions[:0]
	if err != nil {
		return err
	}
	after := len(it.particles)
	if len(removed) == 0 && after == before {
		return nil
	}
	if after == before-len(removed) {
		if err := it.reindexAfterCollision(removed); err != nil {
			return err
		}
	} else if err := it.resize(after); err != nil {
		return err
	}
	return it.runPredictor(s, a)
}
