package eos

import "math"

// strang is the 2nd order Strang splitting D(1/2) K(1) D(1/2) that every
// higher pure-LF scheme is built from.
func strang() []Stage {
	return []Stage{
		{Kind: OpDrift, Weight: 0.5},
		{Kind: OpKick, Weight: 1},
		{Kind: OpDrift, Weight: 0.5},
	}
}

// tripleJump raises a symmetric composition of order `order` to order
// order+2 via Yoshida's recursive triple-jump construction:
//
//	S_{n+2}(t) = S_n(x1 t) S_n(x2 t) S_n(x1 t),  x1 = 1/(2-2^(1/(n+1))), x2 = 1-2x1
//
// Adjacent stages of the same kind at the seams between the three copies
// are merged (drifts/kicks commute additively), so a base sequence of L
// stages composes to 3L-2 stages rather than the 3L of a naive
// concatenation.
func tripleJump(seq []Stage, order int) []Stage {
	k := 1.0 / float64(order+1)
	x1 := 1.0 / (2.0 - math.Pow(2.0, k))
	x2 := 1.0 - 2.0*x1

	var out []Stage
	out = appendScaled(out, seq, x1)
	out = appendScaled(out, seq, x2)
	out = appendScaled(out, seq, x1)
	return mergeAdjacent(out)
}

func appendScaled(dst, seq []Stage, scale float64) []Stage {
	for _, s := range seq {
		s.Weight *= scale
		dst = append(dst, s)
	}
	return dst
}

func mergeAdjacent(seq []Stage) []Stage {
	if len(seq) == 0 {
		return seq
	}
	out := make([]Stage, 0, len(seq))
	out = append(out, seq[0])
	for _, s := range seq[1:] {
		last := &out[len(out)-1]
		if last.Kind == s.Kind {
			last.Weight += s.Weight
			last.Jerk += s.Jerk
			continue
		}
		out = append(out, s)
	}
	return out
}

// longestDriftWeight returns the largest drift-stage weight in seq, the
// "longest drift-substep coefficient" spec.md §4.2 requires.
func longestDriftWeight(seq []Stage) float64 {
	longest := 0.0
	for _, s := range seq {
		if s.Kind == OpDrift && s.Weight > longest {
			longest = s.Weight
		}
	}
	return longest
}

// buildYoshida builds the pure LF family (LF, LF4, LF6, LF8) by repeated
// triple-jump composition from the 2nd order Strang base.
func buildYoshida(targetOrder int) []Stage {
	seq := strang()
	order := 2
	for order < targetOrder {
		seq = tripleJump(seq, order)
		order += 2
	}
	return seq
}

// forestRuth4 is the Forest-Ruth / Candy-Rozmus 4th order scheme with
// three kicks. Its coefficients (w1 = 1/(2-2^(1/3)), w0 = 1-2*w1) are
// the x1/x2 of the Yoshida triple jump, so its stage sequence is the
// same as LF4's. Used as LF4_2.
func forestRuth4() []Stage {
	w1 := 1.0 / (2.0 - math.Pow(2.0, 1.0/3.0))
	w0 := 1.0 - 2.0*w1
	return []Stage{
		{Kind: OpDrift, Weight: w1 / 2},
		{Kind: OpKick, Weight: w1},
		{Kind: OpDrift, Weight: (w1 + w0) / 2},
		{Kind: OpKick, Weight: w0},
		{Kind: OpDrift, Weight: (w1 + w0) / 2},
		{Kind: OpKick, Weight: w1},
		{Kind: OpDrift, Weight: w1 / 2},
	}
}

// processedCorrector builds a one-sided symplectic corrector for the
// "processed" schemes (PMLF4, PMLF6, PLF7_6_4): a single kick stage of
// weight 0 that carries only a jerk coefficient, applied once
// before/after the cheap kernel, following
// McLachlan & Atela's processing technique (a corrector raises the
// *effective* order of a low-stage-count kernel without adding force
// evaluations to the repeated step). coeff is the corrector's jerk
// weight; the stage has no drift, so the corrector only touches
// velocity.
func processedCorrector(coeff float64) []Stage {
	return []Stage{
		{Kind: OpKick, Weight: 0, Jerk: coeff},
	}
}
