package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
)

const (
	maxStepsPerUpdate = 20

	panelW = 220
	panelH = 130
)

var panelBG = rl.Color{R: 0, G: 0, B: 0, A: 180}

// Draw renders the game.
func (g *Game) Draw() {
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 20, A: 255})

	g.drawArena()
	if g.showTargets {
		g.drawTargets()
	}
	g.drawCreatures()
	g.drawHUD()
	g.drawControls()
	if g.hasSelection {
		g.drawInspector()
	}

	rl.EndDrawing()
}

// drawArena outlines the arena bounds and the wander ring.
func (g *Game) drawArena() {
	cfg := g.config()
	half := float32(cfg.Arena.HalfExtent)
	x0, y0 := g.camera.WorldToScreen(-half, -half)
	x1, y1 := g.camera.WorldToScreen(half, half)
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), rl.DarkGray)

	cx, cy := g.camera.WorldToScreen(0, 0)
	ring := float32(cfg.Arena.WanderRadius) * g.camera.Zoom
	rl.DrawCircleLines(int32(cx), int32(cy), ring, rl.Color{R: 60, G: 60, B: 70, A: 255})
}

// drawTargets draws a line from every engaged creature to its target.
func (g *Game) drawTargets() {
	query := g.filter.Query()
	for query.Next() {
		pos, beh, _, _, _, _ := query.Get()
		target, ok := beh.EngagedWith()
		if !ok || !g.world.Alive(target) {
			continue
		}
		tp := g.posMap.Get(target)
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		tx, ty := g.camera.WorldToScreen(tp.X, tp.Y)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: tx, Y: ty}, rl.Color{R: 255, G: 80, B: 80, A: 160})
	}
}

// drawCreatures renders creatures as circles colored by fingerprint, each
// with a vigor bar.
func (g *Game) drawCreatures() {
	radius := float32(g.config().Arena.BodyRadius)
	screenR := max(radius*g.camera.Zoom, 2)

	query := g.filter.Query()
	for query.Next() {
		pos, beh, vigor, genes, _, _ := query.Get()
		if !g.camera.IsVisible(pos.X, pos.Y, radius) {
			continue
		}
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)

		r, gr, b, a := genome.ColorFromFingerprint(genes.Fingerprint).RGBA8()
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, screenR, rl.Color{R: r, G: gr, B: b, A: a})
		if beh.State == components.Engaging {
			rl.DrawCircleLines(int32(sx), int32(sy), screenR+1, rl.Red)
		}
		if g.hasSelection && query.Entity() == g.selected {
			rl.DrawCircleLines(int32(sx), int32(sy), screenR+4, rl.Yellow)
		}

		barW := screenR * 2
		barX := sx - screenR
		barY := sy - screenR - 5
		rl.DrawRectangleV(rl.Vector2{X: barX, Y: barY}, rl.Vector2{X: barW, Y: 3}, rl.DarkGray)
		rl.DrawRectangleV(rl.Vector2{X: barX, Y: barY}, rl.Vector2{X: barW * vigor.Fraction(), Y: 3}, rl.Green)
	}
}

// drawHUD renders the run counters.
func (g *Game) drawHUD() {
	rl.DrawText(fmt.Sprintf("Tick: %d  Time: %.1fs", g.tick, g.now), 10, 10, 20, rl.White)
	speed := 0.0
	if g.pop.Count() > 0 {
		speed = g.pop.SpeedMultiplier()
	}
	rl.DrawText(fmt.Sprintf("Population: %d/%d  Speed: %.1fx", g.pop.Count(), g.pop.Ceiling(), speed), 10, 35, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Steps: %d  [</>]  Targets [T]", g.stepsPerUpdate), 10, 60, 20, rl.White)
	if g.extinct {
		rl.DrawText("EXTINCT", 10, 85, 20, rl.Red)
	} else if g.paused {
		rl.DrawText("PAUSED", 10, 85, 20, rl.Yellow)
	}
}

// panelRect returns the control panel bounds in screen space.
func (g *Game) panelRect() rl.Rectangle {
	return rl.Rectangle{X: g.screenW - panelW - 10, Y: 10, Width: panelW, Height: panelH}
}

// overPanel reports whether a screen point lies on the control panel.
func (g *Game) overPanel(x, y float32) bool {
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, g.panelRect())
}

// drawControls renders the pause button and the steps slider.
func (g *Game) drawControls() {
	p := g.panelRect()
	rl.DrawRectangleRec(p, panelBG)

	label := "Pause"
	if g.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: p.X + 10, Y: p.Y + 10, Width: 95, Height: 28}, label) {
		g.paused = !g.paused
	}
	if gui.Button(rl.Rectangle{X: p.X + 115, Y: p.Y + 10, Width: 95, Height: 28}, "Step") && g.paused {
		g.Step(g.config().Physics.DT)
	}

	rl.DrawText("Steps per frame", int32(p.X+10), int32(p.Y+50), 14, rl.LightGray)
	steps := gui.SliderBar(
		rl.Rectangle{X: p.X + 20, Y: p.Y + 70, Width: p.Width - 60, Height: 18},
		"1", fmt.Sprint(maxStepsPerUpdate),
		float32(g.stepsPerUpdate), 1, maxStepsPerUpdate,
	)
	g.stepsPerUpdate = max(1, int(steps+0.5))

	stats := g.perf.Stats()
	rl.DrawText(fmt.Sprintf("TPS: %.0f  FPS: %d", stats.TicksPerSecond, rl.GetFPS()), int32(p.X+10), int32(p.Y+100), 14, rl.White)
}

// drawInspector lists the selected creature's fields.
func (g *Game) drawInspector() {
	if !g.world.Alive(g.selected) {
		g.hasSelection = false
		return
	}
	beh := g.behMap.Get(g.selected)
	vigor := g.vigorMap.Get(g.selected)
	genes := g.genesMap.Get(g.selected)
	org := g.orgMap.Get(g.selected)

	fields := components.CreatureFieldDescriptors()
	x := g.screenW - panelW - 10
	y := float32(panelH + 20)
	h := float32(30 + 20*len(fields))
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: panelW, Height: h}, panelBG)
	rl.DrawText(fmt.Sprintf("Creature #%d", org.ID), int32(x+10), int32(y+8), 16, rl.Yellow)

	row := y + 30
	for _, f := range fields {
		var text string
		switch f.ID {
		case "vigor":
			text = fmt.Sprintf(f.Format, vigor.Current, vigor.Max)
		case "state":
			text = beh.State.String()
		case "fingerprint":
			text = fmt.Sprintf(f.Format, genes.Fingerprint)
		case "attack_power":
			text = fmt.Sprintf(f.Format, genes.Traits.AttackPower)
		case "move_speed":
			text = fmt.Sprintf(f.Format, genes.Traits.MoveSpeed)
		case "hit_cooldown":
			text = fmt.Sprintf(f.Format, genes.Traits.HitCooldown)
		case "reproduce_cooldown":
			text = fmt.Sprintf(f.Format, genes.Traits.ReproduceCooldown)
		case "generation":
			text = fmt.Sprintf(f.Format, org.Generation)
		}
		rl.DrawText(f.Label, int32(x+10), int32(row), 14, rl.LightGray)
		if f.IsBar {
			bar := rl.Rectangle{X: x + 100, Y: row + 2, Width: 70, Height: 10}
			rl.DrawRectangleRec(bar, rl.DarkGray)
			bar.Width *= vigor.Fraction()
			rl.DrawRectangleRec(bar, rl.Green)
			rl.DrawText(text, int32(x+175), int32(row), 12, rl.White)
		} else {
			rl.DrawText(text, int32(x+100), int32(row), 14, rl.White)
		}
		row += 20
	}
}
