package main

import (
	"context"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mercurana/internal/config"
	"mercurana/internal/gpu"
	"mercurana/internal/gravity"
	"mercurana/internal/input"
	"mercurana/internal/renderer"
	"mercurana/internal/simulation"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sim, err := simulation.NewSimulation(cfg)
	if err != nil {
		log.Fatalf("failed to start simulation: %v", err)
	}
	for _, w := range sim.Integrator.Warnings() {
		log.Printf("mercurana: %s", w)
	}

	rl.InitWindow(int32(cfg.ScreenWidth), int32(cfg.ScreenHeight), "mercurana N-body integrator")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	camera := rl.Camera3D{
		Position:   rl.NewVector3(0, 40, 80),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	loop := renderer.NewRenderLoop()
	loop.SetTargetFPS(60)
	ui := renderer.NewUIRenderer(cfg.ScreenWidth, cfg.ScreenHeight)
	ui.SetTargetFPS(60)

	controller := input.NewInputController()
	inputCfg := &input.InputConfig{
		MoveSpeed:        cfg.MoveSpeed,
		MouseSensitivity: cfg.MouseSensitivity,
		ScreenWidth:      cfg.ScreenWidth,
		ScreenHeight:     cfg.ScreenHeight,
	}
	state := &input.SimulationState{
		Pause:  cfg.StartPaused,
		UseGPU: cfg.UseGPU,
		Yaw:    cfg.InitialYaw,
		Pitch:  cfg.InitialPitch,
	}

	loop.Start()
	for !rl.WindowShouldClose() {
		loop.BeginFrame()
		dt := rl.GetFrameTime()

		controller.UpdateFromRaylib()
		controller.ProcessInput(&camera, state, inputCfg)

		sim.SetUseGPU(state.UseGPU)

		if !state.Pause {
			if err := sim.Step(context.Background(), float64(dt)); err != nil {
				log.Printf("simulation step failed: %v", err)
				state.Pause = true
			}
			for _, w := range sim.Integrator.Warnings() {
				log.Printf("mercurana: %s", w)
			}
		}

		ui.SetPaused(state.Pause)
		ui.SetParticleCount(len(sim.GetParticles()))
		mode := renderer.ModeCPU
		if sim.Fallback().GetProcessor().GetType() == gpu.ProcessorTypeGPU {
			mode = renderer.ModeGPU
		}
		ui.SetMode(mode, sim.GravityBackend() == gravity.NONE && state.UseGPU)
		ui.SetActualFPS(int(rl.GetFPS()))
		ui.SetFrameTime(float64(dt))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.BeginMode3D(camera)
		drawParticles(sim)
		rl.DrawGrid(40, 5.0)
		rl.EndMode3D()

		drawUI(ui)

		rl.EndDrawing()
		loop.EndFrame()
	}
	loop.Stop()
}

// drawParticles renders each particle as a sphere, shaded by its
// mass-derived color from internal/renderer warmed by its current
// mercurana shell depth (particles in a deeper encounter shell render
// hotter), sized by the cube root of its mass.
func drawParticles(sim *simulation.Simulation) {
	pr := renderer.NewParticleRenderer()
	pr.SetParticles(sim.GetParticles())
	pr.SetShellDepths(sim.Integrator.ShellDepths())
	for i, p := range pr.GetVisibleParticles() {
		col := pr.GetParticleColorAt(i)
		size := pr.GetScaledParticleSize(p)
		rl.DrawSphere(p.Position.ToRaylib(), size, rl.NewColor(
			uint8(col.R*255), uint8(col.G*255), uint8(col.B*255), uint8(col.A*255)))
	}
}

func drawUI(ui *renderer.UIRenderer) {
	tx, ty := ui.GetTitlePosition()
	rl.DrawText(ui.GetTitle(), int32(tx), int32(ty), int32(ui.GetFontSize()), rl.Lime)

	px, py := ui.GetParticleCountPosition()
	rl.DrawText(ui.GetParticleCountText(), int32(px), int32(py), int32(ui.GetFontSize()-4), rl.White)

	mx, my := ui.GetModePosition()
	rl.DrawText(ui.GetModeString(), int32(mx), int32(my), int32(ui.GetFontSize()-4), rl.White)

	fx, fy := ui.GetFPSPosition()
	rl.DrawText(ui.GetActualFPSText(), int32(fx), int32(fy), int32(ui.GetFontSize()-4), rl.White)

	for i, line := range ui.GetControlInstructions() {
		cx, cy := ui.GetControlPosition(i)
		rl.DrawText(line, int32(cx), int32(cy), int32(ui.GetFontSize()-6), rl.Gray)
	}

	if ui.IsPaused() {
		px, py := ui.GetPausePosition()
		rl.DrawText(ui.GetPauseText(), int32(px), int32(py), int32(ui.GetFontSize()), rl.Yellow)
	}
}
