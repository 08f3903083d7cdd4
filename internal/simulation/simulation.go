package simulation

import (
	"context"
	"fmt"

	"mercurana/internal/collision"
	"mercurana/internal/config"
	"mercurana/internal/gpu"
	"mercurana/internal/gravity"
	"mercurana/internal/mercurana"
	"mercurana/internal/physics"
)

// Simulation holds the entire state of the N-body simulation: the
// particle array, its mercurana integrator, and the compute-mode
// manager driving the optional mesh background field's FFT solve and
// the UI's GPU/CPU toggle.
type Simulation struct {
	Config     *config.Config
	Particles  []*physics.Particle
	Integrator *mercurana.Integrator

	gravMgr  *gravity.Manager
	fallback *gpu.FallbackManager
}

// NewSimulation creates and initializes a new simulation instance:
// particles, the direct (plus optional mesh-background) gravity
// evaluator, the merge collision resolver, and part1 of the
// integrator.
func NewSimulation(cfg *config.Config) (*Simulation, error) {
	particles := physics.InitializeParticlesWithCentralMass(
		cfg.NumParticles, float64(cfg.SimulationWidth), float64(cfg.SimulationDepth), 1000.0)

	sim := &Simulation{
		Config:     cfg,
		Particles:  particles,
		Integrator: mercurana.New(),
		fallback:   gpu.NewFallbackManager(),
	}
	if cfg.UseGPU {
		sim.fallback.SetMode(gpu.ModeGPU)
	} else {
		sim.fallback.SetMode(gpu.ModeCPU)
	}

	evaluator := gravity.NewDirectEvaluator(cfg.GravitationalConstant, gravity.MERCURANA)
	if cfg.Mercurana.MeshBackground.Enabled {
		mesh := gravity.NewMeshBackground(
			cfg.GravitationalConstant,
			cfg.Mercurana.MeshBackground.Width,
			cfg.Mercurana.MeshBackground.Height,
		)
		mesh.SetFallback(sim.fallback)
		evaluator.Background = mesh
	}

	sim.Integrator.SetEvaluator(evaluator)
	sim.Integrator.SetResolver(collision.MergeResolver{})

	if err := sim.Integrator.Part1(*cfg, sim.Particles); err != nil {
		return nil, fmt.Errorf("simulation: part1 failed: %w", err)
	}
	// Particles may have been reallocated into a fresh backing slice
	// inside Bind; keep our reference in sync for the renderer.
	sim.Particles = sim.Integrator.Particles()
	sim.gravMgr = sim.Integrator.GravityManager()

	return sim, nil
}

// SetUseGPU flips the shared compute-mode manager between ModeGPU and
// ModeCPU, driven by the UI's GPU toggle key. GetProcessor still
// resolves to CPU while no GPU backend reports itself available (see
// DESIGN.md), but the manager's mode and performance history reflect
// the toggle either way.
func (s *Simulation) SetUseGPU(use bool) {
	if use {
		s.fallback.SetMode(gpu.ModeGPU)
	} else {
		s.fallback.SetMode(gpu.ModeCPU)
	}
}

// Fallback returns the compute-mode manager backing the mesh
// background field's FFT solve, so a host can read its performance
// stats for the UI overlay.
func (s *Simulation) Fallback() *gpu.FallbackManager {
	return s.fallback
}

// Step advances the simulation by dt seconds, driving the mercurana
// integrator's part2 operation for one global step.
func (s *Simulation) Step(ctx context.Context, dt float64) error {
	if err := s.Integrator.Part2(ctx, dt); err != nil {
		return fmt.Errorf("simulation: part2 failed: %w", err)
	}
	s.Particles = s.Integrator.Particles()
	return nil
}

// GravityBackend reports the backend installed outside of any kick;
// used by the UI overlay to show whether MERCURANA weighting is active.
func (s *Simulation) GravityBackend() gravity.Backend {
	return s.gravMgr.Backend()
}

// GetParticles returns the current particles
func (s *Simulation) GetParticles() []*physics.Particle {
	return s.Particles
}

// GetConfig returns the simulation configuration
func (s *Simulation) GetConfig() *config.Config {
	return s.Config
}
