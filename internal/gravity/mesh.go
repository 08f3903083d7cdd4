package gravity

import (
	"math"
	"time"

	"mercurana/internal/gpu"
	"mercurana/internal/physics"
	"mercurana/pkg/fft"
)

// MeshBackground is an optional particle-mesh long-range contribution
// layered beneath the direct pairwise evaluator, for bodies far outside
// any encounter where a coarse Poisson solve is cheaper than summing
// every pair. Adapted from the teacher's Cloud-in-Cell deposition and
// FFT Poisson solver (internal/physics/force_calculation.go), projected
// onto the X/Z plane exactly as that solver did.
type MeshBackground struct {
	G             float64
	Width, Height int
	processor     fft.FFTProcessor
	fallback      *gpu.FallbackManager
}

// NewMeshBackground creates a mesh background field over a Width x
// Height grid centered on the origin, backed by its own compute-mode
// manager. Use SetFallback to share a single manager (and therefore a
// single performance history) across every mesh field a simulation
// owns.
func NewMeshBackground(g float64, width, height int) *MeshBackground {
	return &MeshBackground{
		G:         g,
		Width:     width,
		Height:    height,
		processor: fft.NewFFTProcessor(),
		fallback:  gpu.NewFallbackManager(),
	}
}

// SetFallback installs the compute-mode manager this field records its
// Poisson-solve timings against. Hosts that also expose a GPU toggle in
// their UI should share one manager between every mesh field and that
// toggle, per internal/simulation.Simulation.
func (m *MeshBackground) SetFallback(f *gpu.FallbackManager) {
	m.fallback = f
}

// Fallback returns the compute-mode manager backing this field's solve.
func (m *MeshBackground) Fallback() *gpu.FallbackManager {
	return m.fallback
}

// Accelerate computes the mesh-derived acceleration for each requested
// particle: deposit every particle's mass to the grid, solve the
// Poisson equation in Fourier space, take the gradient, then
// bilinearly interpolate back onto each particle's position. The solve
// is timed and recorded against the fallback manager's processor type
// so a UI driving ModeGPU/ModeCPU sees real performance history; the
// solve itself always runs on the CPU FFT processor today, since no
// GPU FFT backend exists to switch to (see DESIGN.md).
func (m *MeshBackground) Accelerate(particles []*physics.Particle, ids []int) ([]physics.Vec3, error) {
	massGrid := m.depositMass(particles)

	start := time.Now()
	potential := m.solvePoisson(massGrid)
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0
	m.fallback.RecordPerformance(m.fallback.GetProcessor().GetType(), elapsedMs)

	ax, az := m.gradient(potential)

	out := make([]physics.Vec3, len(ids))
	for k, i := range ids {
		gx, gz := ax.interpolate(particles[i].Position), az.interpolate(particles[i].Position)
		out[k] = physics.NewVec3(gx, 0, gz)
	}
	return out, nil
}

func (m *MeshBackground) depositMass(particles []*physics.Particle) [][]float64 {
	grid := make([][]float64, m.Width)
	for i := range grid {
		grid[i] = make([]float64, m.Height)
	}
	for _, p := range particles {
		gx := p.Position.X + float64(m.Width)/2.0
		gz := p.Position.Z + float64(m.Height)/2.0
		i, j := int(gx), int(gz)
		fx, fz := gx-float64(i), gz-float64(j)
		if i >= 0 && i < m.Width-1 && j >= 0 && j < m.Height-1 {
			grid[i][j] += float64(p.Mass) * (1 - fx) * (1 - fz)
			grid[i+1][j] += float64(p.Mass) * fx * (1 - fz)
			grid[i][j+1] += float64(p.Mass) * (1 - fx) * fz
			grid[i+1][j+1] += float64(p.Mass) * fx * fz
		}
	}
	return grid
}

func (m *MeshBackground) solvePoisson(massGrid [][]float64) [][]float64 {
	complexGrid := make([][]complex128, m.Width)
	for i := range complexGrid {
		complexGrid[i] = make([]complex128, m.Height)
		for j := range complexGrid[i] {
			complexGrid[i][j] = complex(massGrid[i][j], 0)
		}
	}

	fftGrid := m.processor.FFT2D(complexGrid)

	kxFactor := 2.0 * math.Pi / float64(m.Width)
	kzFactor := 2.0 * math.Pi / float64(m.Height)
	for u := 0; u < m.Width; u++ {
		for v := 0; v < m.Height; v++ {
			kx := float64(u)
			if u > m.Width/2 {
				kx = float64(u - m.Width)
			}
			kz := float64(v)
			if v > m.Height/2 {
				kz = float64(v - m.Height)
			}
			kSquared := (kx*kxFactor)*(kx*kxFactor) + (kz*kzFactor)*(kz*kzFactor)
			if kSquared == 0 {
				fftGrid[u][v] = 0
				continue
			}
			scale := -4.0 * math.Pi * m.G / kSquared
			fftGrid[u][v] *= complex(scale, 0)
		}
	}

	potentialComplex := m.processor.IFFT2D(fftGrid)
	potential := make([][]float64, m.Width)
	for i := range potential {
		potential[i] = make([]float64, m.Height)
		for j := range potential[i] {
			potential[i][j] = real(potentialComplex[i][j])
		}
	}
	return potential
}

type scalarField struct {
	grid          [][]float64
	width, height int
}

func (f scalarField) interpolate(pos physics.Vec3) float64 {
	gx := pos.X + float64(f.width)/2.0
	gz := pos.Z + float64(f.height)/2.0
	i, j := int(gx), int(gz)
	if i < 0 || i >= f.width-1 || j < 0 || j >= f.height-1 {
		return 0
	}
	fx, fz := gx-float64(i), gz-float64(j)
	v1 := f.grid[i][j]*(1-fz) + f.grid[i][j+1]*fz
	v2 := f.grid[i+1][j]*(1-fz) + f.grid[i+1][j+1]*fz
	return v1*(1-fx) + v2*fx
}

func (m *MeshBackground) gradient(potential [][]float64) (ax, az scalarField) {
	axGrid := make([][]float64, m.Width)
	azGrid := make([][]float64, m.Width)
	for i := range axGrid {
		axGrid[i] = make([]float64, m.Height)
		azGrid[i] = make([]float64, m.Height)
	}
	for i := 0; i < m.Width; i++ {
		for j := 0; j < m.Height; j++ {
			prevI := (i - 1 + m.Width) % m.Width
			nextI := (i + 1) % m.Width
			prevJ := (j - 1 + m.Height) % m.Height
			nextJ := (j + 1) % m.Height
			axGrid[i][j] = -(potential[nextI][j] - potential[prevI][j]) / 2.0
			azGrid[i][j] = -(potential[i][nextJ] - potential[i][prevJ]) / 2.0
		}
	}
	return scalarField{axGrid, m.Width, m.Height}, scalarField{azGrid, m.Width, m.Height}
}
