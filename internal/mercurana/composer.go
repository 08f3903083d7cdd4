package mercurana

import (
	"context"

	"mercurana/internal/config"
	"mercurana/internal/eos"
	"mercurana/internal/gravity"
	"mercurana/internal/physics"
)

// Part1 validates configuration, (re)allocates state for len(particles),
// and installs the defaults a host did not supply. It is the host-facing
// operation spec.md §6 describes; a configuration error leaves no state
// mutated and makes the next Part2 call a no-op.
func (it *Integrator) Part1(cfg config.Config, particles []*physics.Particle) error {
	if err := cfg.Mercurana.Validate(); err != nil {
		it.configValid = false
		return err
	}

	it.cfg = cfg.Mercurana
	it.g = cfg.GravitationalConstant
	it.shells = it.cfg.Nmaxshells

	if err := it.Bind(particles); err != nil {
		it.configValid = false
		return err
	}

	if it.gravMgr == nil {
		it.gravMgr = gravity.NewManager()
	}
	if wasOverridden := it.gravMgr.Override(gravity.NONE); wasOverridden {
		it.warn("mercurana: gravity backend override forced to NONE outside a kick")
	}
	if it.sw == nil {
		it.sw = DefaultSwitch{}
	}
	if it.gravEval == nil {
		it.gravEval = gravity.NewDirectEvaluator(it.g, gravity.MERCURANA)
	}

	it.warn("mercurana: variational equations are unsupported")
	it.warn("mercurana: non-direct collision detection is unsupported")

	it.recalcDcritNext = true
	it.configValid = true
	return nil
}

// Part2 performs one global timestep, per spec.md §4.6.
func (it *Integrator) Part2(ctx context.Context, dt float64) error {
	if !it.configValid {
		return nil
	}

	if it.recalcDcritNext && !it.isSynchronized {
		it.warn("mercurana: recalculating dcrit while unsynchronized; synchronizing first")
		syncDt := it.dtLast
		if syncDt == 0 {
			syncDt = dt
		}
		if err := it.synchronizeWith(syncDt); err != nil {
			return err
		}
	}
	if it.recalcDcritNext {
		if err := it.recomputeDcrit(dt); err != nil {
			return err
		}
	}

	for i := range it.p0 {
		it.p0[i] = it.particles[i].Position
		it.tDrifted[i] = 0
	}
	it.nMaxShellsUsed = 1

	it.cancelled = func() bool { return ctx.Err() != nil }
	defer func() { it.cancelled = nil }()

	scheme0, d0, k0, err := it.phi0Callbacks()
	if err != nil {
		return err
	}

	if it.isSynchronized {
		if err := scheme0.RunPre(dt, d0, k0); err != nil {
			return err
		}
	}
	if err := scheme0.RunStep(dt, d0, k0); err != nil {
		return err
	}
	it.isSynchronized = false

	if it.cfg.SafeMode {
		if err := it.synchronizeWith(dt); err != nil {
			return err
		}
	}

	it.dtLast = dt
	return nil
}

// Synchronize applies the outermost post-processor if it has not
// already been applied for the most recently completed step, and sets
// is_synchronized. It is idempotent: a second call in a row is a no-op.
func (it *Integrator) Synchronize() error {
	return it.synchronizeWith(it.dtLast)
}

func (it *Integrator) synchronizeWith(dt float64) error {
	if it.isSynchronized {
		return nil
	}
	scheme0, d0, k0, err := it.phi0Callbacks()
	if err != nil {
		return err
	}
	if err := scheme0.RunPost(dt, d0, k0); err != nil {
		return err
	}
	it.isSynchronized = true
	return nil
}

func (it *Integrator) phi0Callbacks() (*eos.Scheme, eos.DriftFunc, eos.KickFunc, error) {
	name, depth := it.phiAt(0)
	resolved, err := eos.ResolveForDepth(name, depth)
	if err != nil {
		return nil, nil, nil, err
	}
	scheme, err := eos.Get(resolved)
	if err != nil {
		return nil, nil, nil, err
	}
	d0 := func(a float64) error { return it.D(a, 0) }
	k0 := func(y, jerk float64) error { return it.K(y, jerk, 0) }
	return scheme, d0, k0, nil
}

// Reset frees all buffers and restores the §6 defaults.
func (it *Integrator) Reset() {
	it.cfg = config.MercuranaConfig{
		Nmaxshells: 10,
		N0:         2,
		N1:         0,
		Kappa:      1e-3,
		Alpha:      0.5,
		Gm0r0:      0,
		Phi0:       eos.LF,
		Phi1:       eos.LF,
		SafeMode:   true,
		NDominant:  0,
	}
	it.shells = it.cfg.Nmaxshells
	it.g = 0
	it.particles = nil
	it.n = 0
	it.dcrit = nil
	it.dom = classState{}
	it.sub = classState{}
	it.enc = classState{}
	it.p0 = nil
	it.tDrifted = nil
	it.maxdriftEnc = nil
	it.maxdriftDom = nil
	it.collisions = nil
	it.resolver = nil
	it.sw = nil
	it.gravEval = nil
	it.gravMgr = nil
	it.isSynchronized = true
	it.nMaxShellsUsed = 1
	it.dtLast = 0
	it.simClock = 0
	it.recalcDcritNext = true
	it.warnings = nil
	it.cancelled = nil
	it.configValid = false
}
