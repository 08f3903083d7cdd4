package eos

import "fmt"

// Name identifies one of the composition schemes the shell composer can
// install at a shell. These are the external constants spec.md §6 says
// the composer library defines.
type Name string

const (
	LF       Name = "LF"
	LF4      Name = "LF4"
	LF6      Name = "LF6"
	LF8      Name = "LF8"
	PMLF4    Name = "PMLF4"
	PMLF6    Name = "PMLF6"
	LF4_2    Name = "LF4_2"
	LF8_6_4  Name = "LF8_6_4"
	PLF7_6_4 Name = "PLF7_6_4"
)

var registry = map[Name]func() *Scheme{
	LF:    func() *Scheme { return buildPure(LF, 2, strang()) },
	LF4:   func() *Scheme { return buildPure(LF4, 4, buildYoshida(4)) },
	LF6:   func() *Scheme { return buildPure(LF6, 6, buildYoshida(6)) },
	LF8:   func() *Scheme { return buildPure(LF8, 8, buildYoshida(8)) },
	LF4_2: func() *Scheme { return buildPure(LF4_2, 4, forestRuth4()) },
	PMLF4: func() *Scheme { return buildProcessed(PMLF4, 4, buildYoshida(2), 1.0/24.0) },
	PMLF6: func() *Scheme { return buildProcessed(PMLF6, 6, buildYoshida(4), 1.0/120.0) },
	LF8_6_4: func() *Scheme {
		return &Scheme{Name: LF8_6_4, Order: 8, DepthSchemes: []Name{LF8, LF6, LF4}}
	},
	PLF7_6_4: func() *Scheme {
		return &Scheme{Name: PLF7_6_4, Order: 7, DepthSchemes: []Name{PMLF6, LF6, LF4}}
	},
}

func buildPure(name Name, order int, stages []Stage) *Scheme {
	return &Scheme{
		Name:         name,
		Order:        order,
		Stages:       stages,
		LongestDrift: longestDriftWeight(stages),
	}
}

func buildProcessed(name Name, order int, kernel []Stage, correctorCoeff float64) *Scheme {
	return &Scheme{
		Name:          name,
		Order:         order,
		Stages:        kernel,
		Preprocessor:  processedCorrector(correctorCoeff),
		Postprocessor: processedCorrector(-correctorCoeff),
		LongestDrift:  longestDriftWeight(kernel),
	}
}

// Get resolves a scheme by name. Every call returns a fresh *Scheme so
// callers may freely inspect or, in tests, mutate the result.
func Get(name Name) (*Scheme, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("eos: unknown scheme %q", name)
	}
	return build(), nil
}

// ResolveForDepth returns the scheme that should actually run at
// recursion depth d (0-indexed from the shell where name was installed
// as phi0/phi1). Cascade schemes (LF8_6_4, PLF7_6_4) pick a different,
// cheaper scheme at deeper shells; non-cascade schemes resolve to
// themselves at every depth.
func ResolveForDepth(name Name, d int) (Name, error) {
	s, err := Get(name)
	if err != nil {
		return "", err
	}
	if len(s.DepthSchemes) == 0 {
		return name, nil
	}
	if d >= len(s.DepthSchemes) {
		d = len(s.DepthSchemes) - 1
	}
	return s.DepthSchemes[d], nil
}

// LongestDriftCoefficient returns the longest drift-substep coefficient
// for the scheme that actually executes at depth d, per spec.md §4.2.
func LongestDriftCoefficient(name Name, d int) (float64, error) {
	resolved, err := ResolveForDepth(name, d)
	if err != nil {
		return 0, err
	}
	s, err := Get(resolved)
	if err != nil {
		return 0, err
	}
	return s.LongestDrift, nil
}
