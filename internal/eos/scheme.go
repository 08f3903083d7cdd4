// Package eos provides the named symplectic operator-splitting schemes
// (Embedded Operator Splitting) that the mercurana core composes at each
// shell. It knows nothing about particles, shells, or gravity: it only
// knows how to interleave drift and kick callbacks with the coefficients
// a named scheme prescribes.
package eos

import "fmt"

// DriftFunc advances position by velocity over a signed sub-step a.
type DriftFunc func(a float64) error

// KickFunc advances velocity by acceleration (weight y) and, when jerk is
// non-zero, by the jerk contribution scaled by jerk.
type KickFunc func(y, jerk float64) error

// OpKind distinguishes a drift stage from a kick stage in a composed
// sequence.
type OpKind uint8

const (
	OpDrift OpKind = iota
	OpKick
)

// Stage is one element of a composed operator sequence: a drift of the
// given weight, or a kick of the given weight (optionally carrying a
// jerk coefficient, used by the processed schemes' correctors).
type Stage struct {
	Kind   OpKind
	Weight float64
	Jerk   float64
}

// Scheme is a named, fixed sequence of drift/kick stages plus an optional
// symplectic corrector (Preprocessor/Postprocessor) applied once around
// repeated invocations of Stages. This is the "(pre-processor, step,
// post-processor) triple parameterised by sub-step coefficients" that
// spec.md describes as owned by the operator-splitting kernel library.
type Scheme struct {
	Name          Name
	Order         int
	Stages        []Stage
	Preprocessor  []Stage
	Postprocessor []Stage

	// LongestDrift is the longest drift-substep coefficient of Stages,
	// used to propagate Δt_s inward when computing dcrit (spec.md §4.2).
	LongestDrift float64

	// DepthSchemes, when non-empty, makes this scheme a cascade: shell
	// depth d (0-indexed from where the scheme is installed) resolves to
	// DepthSchemes[min(d, len(DepthSchemes)-1)] instead of this scheme's
	// own Stages. LF8_6_4 and PLF7_6_4 are cascades.
	DepthSchemes []Name
}

// RunPre applies the preprocessor stage sequence scaled by a.
func (s *Scheme) RunPre(a float64, d DriftFunc, k KickFunc) error {
	return runStages(s.Preprocessor, a, d, k)
}

// RunPost applies the postprocessor stage sequence scaled by a.
func (s *Scheme) RunPost(a float64, d DriftFunc, k KickFunc) error {
	return runStages(s.Postprocessor, a, d, k)
}

// RunStep applies the scheme's repeatable step sequence scaled by a.
func (s *Scheme) RunStep(a float64, d DriftFunc, k KickFunc) error {
	return runStages(s.Stages, a, d, k)
}

func runStages(stages []Stage, a float64, d DriftFunc, k KickFunc) error {
	for _, st := range stages {
		switch st.Kind {
		case OpDrift:
			if err := d(st.Weight * a); err != nil {
				return err
			}
		case OpKick:
			if err := k(st.Weight*a, st.Jerk*a); err != nil {
				return err
			}
		default:
			return fmt.Errorf("eos: unknown stage kind %d", st.Kind)
		}
	}
	return nil
}
