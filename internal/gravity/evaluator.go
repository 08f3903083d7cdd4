package gravity

import (
	"errors"

	"mercurana/internal/physics"
)

// ErrJerkUnsupported is returned by an Evaluator.Jerk implementation that
// does not provide a jerk term; the mercurana kick operator treats this
// as "no jerk contribution" rather than a hard failure.
var ErrJerkUnsupported = errors.New("gravity: jerk not supported by this evaluator")

// ShellContext is the slice of mercurana.Integrator state an Evaluator is
// allowed to see: per-shell critical radii and the switching function.
// The mercurana package implements this interface; gravity never imports
// mercurana, so the dependency only runs one way.
type ShellContext interface {
	// DCrit returns dcrit[shell][particle].
	DCrit(shell, particle int) float64
	// Switch evaluates the switching function L at separation d for the
	// inner/outer radii the caller has already selected.
	Switch(d, rInner, rOuter float64) float64
}

// Evaluator computes gravitational accelerations (and, optionally,
// jerk) for a set of particle indices. spec.md treats this as an
// external collaborator; BASIC and MERCURANA modes are both backed by
// DirectEvaluator in this repo, with MeshBackground optionally added
// beneath MERCURANA for far-field bodies.
type Evaluator interface {
	// Accelerate returns the acceleration of each particle in ids, given
	// the full particle array for context, at the given shell.
	Accelerate(ctx ShellContext, particles []*physics.Particle, ids []int, shell int) ([]physics.Vec3, error)

	// Jerk returns the time-derivative of acceleration for each particle
	// in ids. Returns ErrJerkUnsupported if unavailable.
	Jerk(ctx ShellContext, particles []*physics.Particle, ids []int, shell int) ([]physics.Vec3, error)
}
