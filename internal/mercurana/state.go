// Package mercurana implements the adaptive symplectic multi-step
// integrator this repository builds around: a recursive composition of
// drift and kick operators that promotes only the particles in a close
// encounter into proportionally finer-stepped nested shells.
package mercurana

import (
	"fmt"
	"math"

	"mercurana/internal/collision"
	"mercurana/internal/config"
	"mercurana/internal/gravity"
	"mercurana/internal/physics"
)

// classID names one of the three shell partitions spec.md §3 describes.
type classID int

const (
	classDominant classID = iota
	classSubdominant
	classEncounter
)

// classState is one (map_c, shellN_c, inshell_c) triple from spec.md
// §3: map_c[s] lists the members resident at exactly shell s, inshell_c
// tracks each member's current depth, and members is the static set this
// class owns for the running global step (a particle's class membership
// does not change mid-step; only its depth does, per the Design Notes).
// map_c is addressed as a jagged array of per-shell slices rather than
// the flat S*N buffer the Design Notes also mention, since promotion
// requires removing an index from its old shell's list, not merely
// appending to a new one.
type classState struct {
	members []int
	shell   [][]int // len S; shell[s] are the members resident at exactly s
	inshell []int8  // size N; -1 means "not a member of this class"
	n, s    int
}

func newClassState(n, s int) classState {
	c := classState{shell: make([][]int, s), inshell: make([]int8, n), n: n, s: s}
	for i := range c.inshell {
		c.inshell[i] = -1
	}
	return c
}

func (c *classState) reset() {
	for i := range c.inshell {
		c.inshell[i] = -1
	}
	for s := range c.shell {
		c.shell[s] = c.shell[s][:0]
	}
	c.members = c.members[:0]
}

// clearMembership drops every particle from the class (used when
// reinitializing membership at the top of a global step).
func (c *classState) clearMembership() {
	c.reset()
}

// seed makes every index in ids a resident of shell 0 and the class's
// static membership set for this global step.
func (c *classState) seed(ids []int) {
	c.shell[0] = append(c.shell[0][:0], ids...)
	c.members = append(c.members[:0], ids...)
	for _, i := range ids {
		c.inshell[i] = 0
	}
}

// residents returns the particle indices resident at exactly shell s.
func (c *classState) residents(s int) []int {
	return c.shell[s]
}

// isMember reports whether particle i belongs to this class at all.
func (c *classState) isMember(i int) bool {
	return c.inshell[i] >= 0
}

// reindex builds the classState a surviving particle set maps to under
// remap (remap[oldI] is the new index, or -1 if oldI was removed),
// preserving each survivor's current shell depth rather than dropping
// it back to unassigned. Used by reindexAfterCollision so a collision
// resolved mid-recursion does not erase the class membership the
// predictor already computed for this global step.
func (c *classState) reindex(remap []int, newN int) classState {
	out := newClassState(newN, c.s)
	for oldI, newI := range remap {
		if newI < 0 {
			continue
		}
		depth := c.inshell[oldI]
		if depth < 0 {
			continue
		}
		out.inshell[newI] = depth
		out.shell[depth] = append(out.shell[depth], newI)
		out.members = append(out.members, newI)
	}
	return out
}

// promote moves particle i from its current shell to shell target
// (target > current depth). Callers are responsible for checking the
// Nmaxshells bound before calling.
func (c *classState) promote(i, target int) {
	cur := int(c.inshell[i])
	if cur >= 0 {
		list := c.shell[cur]
		for k, v := range list {
			if v == i {
				list[k] = list[len(list)-1]
				c.shell[cur] = list[:len(list)-1]
				break
			}
		}
	}
	c.shell[target] = append(c.shell[target], i)
	c.inshell[i] = int8(target)
}

// Integrator is the core state spec.md §3 describes: per-shell critical
// radii, the three shell partitions, drift bookkeeping, and the
// configuration that governs them.
type Integrator struct {
	cfg config.MercuranaConfig
	g   float64 // gravitational constant, installed at part1

	particles []*physics.Particle
	n         int
	shells    int // Nmaxshells

	dcrit []float64 // size S*N, dcrit[s*N+i]

	dom, sub, enc classState

	p0          []physics.Vec3
	tDrifted    []float64
	maxdriftEnc []float64
	maxdriftDom []float64

	collisions [][2]int
	resolver   collision.Resolver

	sw       Switch
	gravEval gravity.Evaluator
	gravMgr  *gravity.Manager

	isSynchronized bool
	nMaxShellsUsed int
	dtLast         float64
	simClock       float64

	recalcDcritNext bool
	configValid     bool

	warnings []string

	// cancelled is polled at the top of D; nil means never cancelled.
	// Part2 installs it from the context.Context it was called with.
	cancelled func() bool
}

// New creates an Integrator with §6 `reset` defaults installed.
func New() *Integrator {
	it := &Integrator{}
	it.Reset()
	return it
}

// Warnings returns the warnings accumulated since the last call to
// Warnings or Reset, per spec.md §7's "observed at well-defined
// boundaries" error policy.
func (it *Integrator) Warnings() []string {
	w := it.warnings
	it.warnings = nil
	return w
}

func (it *Integrator) warn(format string, args ...any) {
	it.warnings = append(it.warnings, fmt.Sprintf(format, args...))
}

// NMaxShellsUsed returns the deepest shell actually used by the most
// recent global step (spec.md §4.4 step 5 / §8 invariant).
func (it *Integrator) NMaxShellsUsed() int {
	return it.nMaxShellsUsed
}

// DtLastDone returns the Δt of the most recently completed Part2 call.
func (it *Integrator) DtLastDone() float64 {
	return it.dtLast
}

// IsSynchronized reports whether the postprocessor of phi0 has already
// been applied to the current state.
func (it *Integrator) IsSynchronized() bool {
	return it.isSynchronized
}

// Bind attaches the externally-owned particle array. resize is called
// automatically when the array's length differs from the last bound
// length.
func (it *Integrator) Bind(particles []*physics.Particle) error {
	it.particles = particles
	if len(particles) != it.n {
		return it.resize(len(particles))
	}
	return nil
}

// SetResolver installs the collision resolver used for the collision
// hand-off (spec.md §4.7). MergeResolver is a reasonable default but
// never installed implicitly, since resolving collisions is explicitly
// a host decision.
func (it *Integrator) SetResolver(r collision.Resolver) {
	it.resolver = r
}

// SetEvaluator installs the gravity backend's acceleration/jerk
// evaluator. part1 installs gravity.NewDirectEvaluator by default when
// none has been set.
func (it *Integrator) SetEvaluator(e gravity.Evaluator) {
	it.gravEval = e
}

// SetSwitch installs a non-default switching function L.
func (it *Integrator) SetSwitch(s Switch) {
	it.sw = s
}

// Particles returns the bound particle array, which part1's Bind call
// may have reallocated.
func (it *Integrator) Particles() []*physics.Particle {
	return it.particles
}

// ShellDepths returns, for each particle, the deepest shell it currently
// occupies across the three partitions (dominant, subdominant,
// encounter), per the most recently completed predictor pass. Hosts use
// this to color particles by encounter depth; it carries no meaning
// before the first Part2 call.
func (it *Integrator) ShellDepths() []int8 {
	depths := make([]int8, it.n)
	for i := 0; i < it.n; i++ {
		depths[i] = maxInt8(it.dom.inshell[i], it.sub.inshell[i], it.enc.inshell[i])
	}
	return depths
}

func maxInt8(vs ...int8) int8 {
	best := int8(-1)
	for _, v := range vs {
		if v > best {
			best = v
		}
	}
	return best
}

// GravityManager returns the backend state machine installed by part1,
// or nil if part1 has not run yet. Hosts running their own BASIC-mode
// gravity calls outside a kick can use this to query the currently
// installed backend.
func (it *Integrator) GravityManager() *gravity.Manager {
	return it.gravMgr
}

func (it *Integrator) resize(n int) error {
	if n < 0 {
		return fmt.Errorf("mercurana: cannot resize to negative N (%d)", n)
	}
	it.n = n
	it.dcrit = make([]float64, it.shells*n)
	it.dom = newClassState(n, it.shells)
	it.sub = newClassState(n, it.shells)
	it.enc = newClassState(n, it.shells)
	it.p0 = make([]physics.Vec3, n)
	it.tDrifted = make([]float64, n)
	it.maxdriftEnc = make([]float64, n)
	it.maxdriftDom = make([]float64, n)
	it.collisions = it.collisions[:0]
	it.recalcDcritNext = true
	return nil
}

// reindexAfterCollision compacts every per-particle buffer (dcrit, p0,
// tDrifted, the two maxdrift arrays, and the three classStates) onto
// the surviving indices named by removed, in place of the full resize
// a pure collision hand-off used to force. dcrit values carry over
// unchanged: DCrit(s, i) depends only on particle i's own mass and the
// step's dt0/config (recomputeDcrit), never on N, so a surviving
// particle's critical radii from earlier in this same global step are
// still valid at its new index. Class membership and shell depth carry
// over the same way, so a restart at shell s after a collision resumes
// the predictor exactly where it left off for every particle that
// survived, instead of silently treating them as unclassified.
func (it *Integrator) reindexAfterCollision(removed []int) error {
	oldN := it.n
	newN := oldN - len(removed)
	if newN < 0 {
		return fmt.Errorf("mercurana: collision resolver removed more particles than existed")
	}

	dead := make(map[int]bool, len(removed))
	for _, i := range removed {
		dead[i] = true
	}
	remap := make([]int, oldN)
	next := 0
	for i := 0; i < oldN; i++ {
		if dead[i] {
			remap[i] = -1
			continue
		}
		remap[i] = next
		next++
	}
	if next != newN {
		return fmt.Errorf("mercurana: collision resolver's removed indices do not match the new particle count")
	}

	newDcrit := make([]float64, it.shells*newN)
	newP0 := make([]physics.Vec3, newN)
	newTDrifted := make([]float64, newN)
	newMaxdriftEnc := make([]float64, newN)
	newMaxdriftDom := make([]float64, newN)
	for oldI, newI := range remap {
		if newI < 0 {
			continue
		}
		for s := 0; s < it.shells; s++ {
			newDcrit[s*newN+newI] = it.dcrit[s*oldN+oldI]
		}
		newP0[newI] = it.p0[oldI]
		newTDrifted[newI] = it.tDrifted[oldI]
		newMaxdriftEnc[newI] = it.maxdriftEnc[oldI]
		newMaxdriftDom[newI] = it.maxdriftDom[oldI]
	}

	it.dom = it.dom.reindex(remap, newN)
	it.sub = it.sub.reindex(remap, newN)
	it.enc = it.enc.reindex(remap, newN)
	it.dcrit = newDcrit
	it.p0 = newP0
	it.tDrifted = newTDrifted
	it.maxdriftEnc = newMaxdriftEnc
	it.maxdriftDom = newMaxdriftDom
	it.n = newN
	return nil
}

func (it *Integrator) dcritAt(shell, i int) float64 {
	return it.dcrit[shell*it.n+i]
}

func (it *Integrator) setDcrit(shell, i int, v float64) {
	it.dcrit[shell*it.n+i] = v
}

// DCrit implements gravity.ShellContext.
func (it *Integrator) DCrit(shell, i int) float64 {
	if shell < 0 {
		return math.Inf(1)
	}
	return it.dcritAt(shell, i)
}

// Switch implements gravity.ShellContext.
func (it *Integrator) Switch(d, rInner, rOuter float64) float64 {
	return it.sw.L(d, rInner, rOuter)
}

// classOf returns the classState for a classID.
func (it *Integrator) classOf(c classID) *classState {
	switch c {
	case classDominant:
		return &it.dom
	case classSubdominant:
		return &it.sub
	default:
		return &it.enc
	}
}
