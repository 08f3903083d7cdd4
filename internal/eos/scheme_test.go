package eos

import (
	"math"
	"testing"
)

func sumDrift(s *Scheme) float64 {
	total := 0.0
	for _, st := range s.Stages {
		if st.Kind == OpDrift {
			total += st.Weight
		}
	}
	return total
}

func sumKick(s *Scheme) float64 {
	total := 0.0
	for _, st := range s.Stages {
		if st.Kind == OpKick {
			total += st.Weight
		}
	}
	return total
}

func TestPureSchemesConserveTotalWeight(t *testing.T) {
	for _, name := range []Name{LF, LF4, LF6, LF8, LF4_2} {
		s, err := Get(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := sumDrift(s); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s: drift weights sum to %v, want 1", name, got)
		}
		if got := sumKick(s); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s: kick weights sum to %v, want 1", name, got)
		}
	}
}

func TestYoshidaOrdersIncreaseStageCount(t *testing.T) {
	lf, _ := Get(LF)
	lf4, _ := Get(LF4)
	lf6, _ := Get(LF6)
	lf8, _ := Get(LF8)

	if len(lf4.Stages) <= len(lf.Stages) {
		t.Errorf("LF4 should have more stages than LF")
	}
	if len(lf6.Stages) <= len(lf4.Stages) {
		t.Errorf("LF6 should have more stages than LF4")
	}
	if len(lf8.Stages) <= len(lf6.Stages) {
		t.Errorf("LF8 should have more stages than LF6")
	}
}

func TestProcessedSchemesHaveOppositeCorrectors(t *testing.T) {
	for _, name := range []Name{PMLF4, PMLF6} {
		s, err := Get(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(s.Preprocessor) != 1 || len(s.Postprocessor) != 1 {
			t.Fatalf("%s: expected single-stage correctors", name)
		}
		if s.Preprocessor[0].Jerk != -s.Postprocessor[0].Jerk {
			t.Errorf("%s: pre/post correctors should be time-reverses of each other", name)
		}
	}
}

func TestCascadeResolution(t *testing.T) {
	cases := []struct {
		name  Name
		depth int
		want  Name
	}{
		{LF8_6_4, 0, LF8},
		{LF8_6_4, 1, LF6},
		{LF8_6_4, 2, LF4},
		{LF8_6_4, 99, LF4},
		{PLF7_6_4, 0, PMLF6},
		{LF, 5, LF},
	}
	for _, c := range cases {
		got, err := ResolveForDepth(c.name, c.depth)
		if err != nil {
			t.Fatalf("%s depth %d: %v", c.name, c.depth, err)
		}
		if got != c.want {
			t.Errorf("ResolveForDepth(%s, %d) = %s, want %s", c.name, c.depth, got, c.want)
		}
	}
}

func TestLongestDriftCoefficientPositive(t *testing.T) {
	for _, name := range []Name{LF, LF4, LF6, LF8, PMLF4, PMLF6, LF4_2, LF8_6_4, PLF7_6_4} {
		d, err := LongestDriftCoefficient(name, 0)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if d <= 0 || d > 1 {
			t.Errorf("%s: longest drift coefficient %v out of (0,1]", name, d)
		}
	}
}

func TestUnknownSchemeErrors(t *testing.T) {
	if _, err := Get(Name("bogus")); err == nil {
		t.Fatal("expected error for unknown scheme")
	}
}

func TestRunStepAppliesWeightedCallbacks(t *testing.T) {
	s, _ := Get(LF)
	var drifts, kicks []float64
	d := func(a float64) error { drifts = append(drifts, a); return nil }
	k := func(y, jerk float64) error { kicks = append(kicks, y); return nil }

	if err := s.RunStep(2.0, d, k); err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 2 || len(kicks) != 1 {
		t.Fatalf("LF step: got %d drifts, %d kicks", len(drifts), len(kicks))
	}
	if math.Abs(drifts[0]-1.0) > 1e-12 {
		t.Errorf("first LF drift = %v, want 1.0 (0.5*2.0)", drifts[0])
	}
	if math.Abs(kicks[0]-2.0) > 1e-12 {
		t.Errorf("LF kick = %v, want 2.0 (1.0*2.0)", kicks[0])
	}
}
