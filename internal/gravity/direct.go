package gravity

import (
	"math"

	"mercurana/internal/physics"
)

// Softening guards the direct evaluator against a formal singularity
// when two particles coincide; it is not a substitute for promoting a
// close pair into a deeper shell.
const defaultSoftening = 1e-9

// DirectEvaluator computes Newtonian pairwise gravity between every
// requested particle and every other particle in the array. It backs
// both BASIC (flat, unweighted) and MERCURANA (L-weighted by the shell's
// dcrit boundary) gravity modes.
type DirectEvaluator struct {
	G          float64
	Softening  float64
	Backend    Backend
	Background Background // optional; nil disables the mesh background field
}

// Background is the optional long-range contribution a DirectEvaluator
// adds on top of direct summation, e.g. a particle-mesh field for bodies
// far outside any encounter (see mesh.go).
type Background interface {
	Accelerate(particles []*physics.Particle, ids []int) ([]physics.Vec3, error)
}

// NewDirectEvaluator returns a DirectEvaluator for the given backend.
func NewDirectEvaluator(g float64, backend Backend) *DirectEvaluator {
	return &DirectEvaluator{G: g, Softening: defaultSoftening, Backend: backend}
}

func (e *DirectEvaluator) softening() float64 {
	if e.Softening > 0 {
		return e.Softening
	}
	return defaultSoftening
}

// Accelerate implements Evaluator.
func (e *DirectEvaluator) Accelerate(ctx ShellContext, particles []*physics.Particle, ids []int, shell int) ([]physics.Vec3, error) {
	out := make([]physics.Vec3, len(ids))
	eps2 := e.softening() * e.softening()

	for k, i := range ids {
		var acc physics.Vec3
		pi := particles[i]
		for j, pj := range particles {
			if j == i {
				continue
			}
			rel := pj.Position.Sub(pi.Position)
			d2 := rel.Dot(rel) + eps2
			d := math.Sqrt(d2)
			invD3 := 1.0 / (d2 * d)
			raw := rel.Scale(e.G * float64(pj.Mass) * invD3)

			weight := 1.0
			if e.Backend == MERCURANA && ctx != nil {
				rIn := ctx.DCrit(shell, i)
				rOut := rIn
				if shell > 0 {
					rOut = ctx.DCrit(shell-1, i)
				} else {
					rOut = math.Inf(1)
				}
				weight = ctx.Switch(d, rIn, rOut)
			}
			acc = acc.Add(raw.Scale(weight))
		}
		out[k] = acc
	}

	if e.Background != nil {
		bg, err := e.Background.Accelerate(particles, ids)
		if err != nil {
			return nil, err
		}
		for k := range out {
			out[k] = out[k].Add(bg[k])
		}
	}

	return out, nil
}

// Jerk implements Evaluator using the closed-form time derivative of the
// pairwise Newtonian acceleration.
func (e *DirectEvaluator) Jerk(ctx ShellContext, particles []*physics.Particle, ids []int, shell int) ([]physics.Vec3, error) {
	out := make([]physics.Vec3, len(ids))
	eps2 := e.softening() * e.softening()

	for k, i := range ids {
		var jerk physics.Vec3
		pi := particles[i]
		for j, pj := range particles {
			if j == i {
				continue
			}
			rel := pj.Position.Sub(pi.Position)
			relv := pj.Velocity.Sub(pi.Velocity)
			d2 := rel.Dot(rel) + eps2
			d := math.Sqrt(d2)
			invD3 := 1.0 / (d2 * d)
			invD5 := invD3 / d2

			term1 := relv.Scale(e.G * float64(pj.Mass) * invD3)
			term2 := rel.Scale(3.0 * e.G * float64(pj.Mass) * rel.Dot(relv) * invD5)
			jerk = jerk.Add(term1).Sub(term2)
		}
		out[k] = jerk
	}
	return out, nil
}
