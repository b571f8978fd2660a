package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Logical screen size. The window may scale it; Layout keeps it fixed so
// world coordinates always map to the same pixels.
const (
	screenWidth  = 960
	screenHeight = 540
)

// hudScale is the integer upscale factor applied to all HUD text (3 = 3× larger).
const hudScale = 3

const (
	// pixelsPerUnit maps world units to logical pixels at base zoom. The
	// arena spans ±10 units, so the full stage fits with a small margin.
	pixelsPerUnit = 44.0
	// cameraCenterY is the world-space y at the screen centre. Stages sit
	// mostly above y=0, so the camera looks slightly upward.
	cameraCenterY = 2.8

	goBannerTicks = 40
	fadeStep      = 0.05
	toastTicks    = 180
	starCount     = 150
)

// menuFace is the bitmap face used for all menu and banner text. It is
// scaled with GeoM rather than rasterised per size, which keeps the chunky
// pixel look consistent across the UI.
var menuFace = text.NewGoXFace(basicfont.Face7x13)

// bgStar is one cosmetic background star.
type bgStar struct {
	x, y  float32
	size  float32
	shade uint8
}

// keyMap binds one keyboard player to pad buttons.
type keyMap struct {
	up, down, left, right ebiten.Key
	jump, shoot, melee    ebiten.Key
	start                 []ebiten.Key
}

// Two keyboard players share the board: WASD cluster and arrow cluster.
var keyMaps = [2]keyMap{
	{
		up: ebiten.KeyW, down: ebiten.KeyS, left: ebiten.KeyA, right: ebiten.KeyD,
		jump: ebiten.KeyJ, shoot: ebiten.KeyK, melee: ebiten.KeyL,
		start: []ebiten.Key{ebiten.KeyEnter, ebiten.KeyEscape},
	},
	{
		up: ebiten.KeyArrowUp, down: ebiten.KeyArrowDown, left: ebiten.KeyArrowLeft, right: ebiten.KeyArrowRight,
		jump: ebiten.KeyComma, shoot: ebiten.KeyPeriod, melee: ebiten.KeySlash,
		start: []ebiten.Key{ebiten.KeyShiftRight},
	},
}

// Game is the ebiten shell around a Simulation: input sampling, rendering
// and presentation effects. It owns no gameplay state of its own beyond
// cosmetics; everything it draws is read back out of the simulation after
// Advance.
type Game struct {
	sim *Simulation
	fx  *Effects

	width  int
	height int

	// Offscreen buffer for the arena — zoom and shake applied on blit.
	worldBuf *ebiten.Image
	// Offscreen buffer for melee arc fans — filled white, tinted on composite.
	arcBuf *ebiten.Image
	// Offscreen buffer for HUD text — rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image

	prevKeys map[ebiten.Key]bool
	padIDs   []ebiten.GamepadID

	prevPhase Phase
	goBanner  int     // ticks left on the round-start banner
	fadeAlpha float64 // black overlay on phase transitions, eases to 0

	// Debug overlay state.
	showDebug bool
	debugSlot int

	// Transient status line, bottom-left.
	toast      string
	toastTimer int

	// Deterministic cosmetic starfield, generated once.
	stars []bgStar
}

// NewGame wraps a simulation in the interactive shell and installs the
// effects sink. The audio sink is the caller's to provide.
func NewGame(sim *Simulation) *Game {
	g := &Game{
		sim:       sim,
		fx:        NewEffects(&sim.options),
		width:     screenWidth,
		height:    screenHeight,
		prevKeys:  make(map[ebiten.Key]bool),
		prevPhase: sim.Phase(),
	}
	sim.SetFxSink(g.fx)
	g.worldBuf = ebiten.NewImage(g.width, g.height)
	g.arcBuf = ebiten.NewImage(g.width, g.height)
	// HUD buffer: 1/hudScale of screen so it renders crisply when scaled up.
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.initStars()
	return g
}

// initStars generates the fixed background starfield.
func (g *Game) initStars() {
	rng := rand.New(rand.NewSource(54321)) // #nosec G404 -- cosmetic only
	g.stars = make([]bgStar, 0, starCount)
	for i := 0; i < starCount; i++ {
		g.stars = append(g.stars, bgStar{
			x:     float32(rng.Intn(g.width)),
			y:     float32(rng.Intn(g.height)),
			size:  float32(1 + rng.Intn(2)),
			shade: uint8(60 + rng.Intn(140)),
		})
	}
}

func (g *Game) Update() error {
	g.handleKeys()

	frames := g.readInputs()
	g.sim.Advance(frames)

	phase := g.sim.Phase()
	if phase == PhasePlaying && g.prevPhase == PhaseCountdown {
		g.goBanner = goBannerTicks
	}
	if (phase == PhaseTitle || phase == PhaseLobby) && g.prevPhase != phase {
		g.fx.Reset()
	}
	if phase != g.prevPhase {
		g.fadeAlpha = 1
	}
	g.prevPhase = phase

	g.fx.Update()
	if g.fadeAlpha > 0 {
		g.fadeAlpha -= fadeStep
		if g.fadeAlpha < 0 {
			g.fadeAlpha = 0
		}
	}
	if g.goBanner > 0 {
		g.goBanner--
	}
	if g.toastTimer > 0 {
		g.toastTimer--
	}
	return nil
}

// handleKeys processes shell-level keypresses (edge-triggered). Gameplay
// input goes through readInputs instead.
func (g *Game) handleKeys() {
	currentKeys := map[ebiten.Key]bool{}

	currentKeys[ebiten.KeyF3] = ebiten.IsKeyPressed(ebiten.KeyF3)
	if currentKeys[ebiten.KeyF3] && !g.prevKeys[ebiten.KeyF3] {
		g.showDebug = !g.showDebug
		g.sim.EnableTrace(g.showDebug)
	}

	currentKeys[ebiten.KeyF4] = ebiten.IsKeyPressed(ebiten.KeyF4)
	if currentKeys[ebiten.KeyF4] && !g.prevKeys[ebiten.KeyF4] {
		g.debugSlot = (g.debugSlot + 1) % MaxPlayers
	}

	currentKeys[ebiten.KeyF9] = ebiten.IsKeyPressed(ebiten.KeyF9)
	if currentKeys[ebiten.KeyF9] && !g.prevKeys[ebiten.KeyF9] {
		report := g.sim.PlayerDebugReport(g.debugSlot, traceCap)
		if err := copyText(report); err != nil {
			g.setToast(fmt.Sprintf("copy failed: %v", err))
		} else {
			g.setToast(fmt.Sprintf("debug report for P%d copied", g.debugSlot+1))
		}
	}

	currentKeys[ebiten.KeyF11] = ebiten.IsKeyPressed(ebiten.KeyF11)
	if currentKeys[ebiten.KeyF11] && !g.prevKeys[ebiten.KeyF11] {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	g.prevKeys = currentKeys
}

func (g *Game) setToast(msg string) {
	g.toast = msg
	g.toastTimer = toastTicks
}

// readInputs samples the keyboard players and any connected gamepads into
// one frame per slot. Gamepads stack onto the keyboard slots in ID order,
// so pad 1 and the WASD cluster both drive P1.
func (g *Game) readInputs() [MaxPlayers]InputFrame {
	var frames [MaxPlayers]InputFrame
	for slot := range keyMaps {
		frames[slot] = mergeFrames(frames[slot], keyboardFrame(keyMaps[slot]))
	}

	g.padIDs = ebiten.AppendGamepadIDs(g.padIDs[:0])
	for i, id := range g.padIDs {
		if i >= MaxPlayers {
			break
		}
		frames[i] = mergeFrames(frames[i], gamepadFrame(id))
	}
	return frames
}

func keyboardFrame(km keyMap) InputFrame {
	var f InputFrame
	if ebiten.IsKeyPressed(km.up) {
		f.Buttons |= ButtonUp
	}
	if ebiten.IsKeyPressed(km.down) {
		f.Buttons |= ButtonDown
	}
	if ebiten.IsKeyPressed(km.left) {
		f.Buttons |= ButtonLeft
	}
	if ebiten.IsKeyPressed(km.right) {
		f.Buttons |= ButtonRight
	}
	if ebiten.IsKeyPressed(km.jump) {
		f.Buttons |= ButtonA
	}
	if ebiten.IsKeyPressed(km.shoot) {
		f.Buttons |= ButtonB
	}
	if ebiten.IsKeyPressed(km.melee) {
		f.Buttons |= ButtonX
	}
	for _, k := range km.start {
		if ebiten.IsKeyPressed(k) {
			f.Buttons |= ButtonStart
		}
	}
	return f
}

// gamepadFrame samples one pad through the standard layout. Pads without a
// standard mapping are ignored rather than guessed at.
func gamepadFrame(id ebiten.GamepadID) InputFrame {
	var f InputFrame
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return f
	}

	type mapping struct {
		btn  ebiten.StandardGamepadButton
		mask uint16
	}
	for _, m := range []mapping{
		{ebiten.StandardGamepadButtonLeftTop, ButtonUp},
		{ebiten.StandardGamepadButtonLeftBottom, ButtonDown},
		{ebiten.StandardGamepadButtonLeftLeft, ButtonLeft},
		{ebiten.StandardGamepadButtonLeftRight, ButtonRight},
		{ebiten.StandardGamepadButtonRightBottom, ButtonA},
		{ebiten.StandardGamepadButtonRightRight, ButtonB},
		{ebiten.StandardGamepadButtonRightLeft, ButtonX},
		{ebiten.StandardGamepadButtonCenterRight, ButtonStart},
	} {
		if ebiten.IsStandardGamepadButtonPressed(id, m.btn) {
			f.Buttons |= m.mask
		}
	}

	h := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	v := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	f.AxisX = RescaleDeadzone(h, 0.25)
	// Stick up reads negative on the standard layout; frames use y-up.
	f.AxisY = RescaleDeadzone(-v, 0.25)
	return f
}

// mergeFrames ORs the buttons and keeps the stronger axis per direction.
func mergeFrames(a, b InputFrame) InputFrame {
	out := a
	out.Buttons |= b.Buttons
	if math.Abs(b.AxisX) > math.Abs(out.AxisX) {
		out.AxisX = b.AxisX
	}
	if math.Abs(b.AxisY) > math.Abs(out.AxisY) {
		out.AxisY = b.AxisY
	}
	return out
}

// --- Coordinate mapping ---

// sx/sy map world coordinates (y-up, origin at arena centre) to worldBuf
// pixels. Zoom and shake are applied on the blit, not here.
func (g *Game) sx(wx float64) float32 {
	return float32(float64(g.width)/2 + wx*pixelsPerUnit)
}

func (g *Game) sy(wy float64) float32 {
	return float32(float64(g.height)/2 - (wy-cameraCenterY)*pixelsPerUnit)
}

// px converts a world-space length to pixels.
func px(units float64) float32 {
	return float32(units * pixelsPerUnit)
}

// rgba unpacks the packed 0xRRGGBBAA colours used by the simulation layer.
func rgba(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 6, G: 7, B: 12, A: 255})

	// Render the arena to worldBuf at (0,0) origin, then blit with the
	// kill-cam zoom about the screen centre plus the shake offset.
	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	zoom := baseFov / g.fx.Fov()
	shakeX, shakeY := g.fx.Offset()
	var cam ebiten.GeoM
	cam.Translate(-float64(g.width)/2, -float64(g.height)/2)
	cam.Scale(zoom, zoom)
	cam.Translate(float64(g.width)/2+shakeX*pixelsPerUnit, float64(g.height)/2-shakeY*pixelsPerUnit)

	var blit ebiten.DrawImageOptions
	blit.GeoM = cam
	screen.DrawImage(g.worldBuf, &blit)

	if a := g.fx.FlashAlpha(); a > 0 {
		vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height),
			color.RGBA{R: 255, G: 255, B: 255, A: uint8(a * 255)}, false)
	}

	g.drawVignette(screen)

	switch g.sim.Phase() {
	case PhaseTitle:
		g.drawTitle(screen)
	case PhaseLobby:
		g.drawLobby(screen)
	case PhaseCountdown:
		g.drawCountdown(screen)
		g.drawPlayingHUD(screen)
	case PhasePlaying:
		g.drawPlayingHUD(screen)
	case PhasePaused:
		g.drawPlayingHUD(screen)
		g.drawPaused(screen)
	case PhaseFinalKo:
		g.drawFinalKo(screen)
	case PhaseMatchEnd:
		g.drawMatchEnd(screen)
	}

	if g.sim.Demo() {
		g.drawDemoBadge(screen)
	}
	if g.showDebug {
		g.drawDebugOverlay(screen)
	}
	if g.toastTimer > 0 {
		ebitenutil.DebugPrintAt(screen, g.toast, 6, g.height-16)
	}
	if g.fadeAlpha > 0 {
		vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height),
			color.RGBA{A: uint8(g.fadeAlpha * 255)}, false)
	}
}

// drawWorld renders everything that lives in world space: the starfield,
// the stage, fighters, projectiles and particles.
func (g *Game) drawWorld(buf *ebiten.Image) {
	vector.FillRect(buf, 0, 0, float32(g.width), float32(g.height),
		color.RGBA{R: 10, G: 12, B: 24, A: 255}, false)

	for _, st := range g.stars {
		vector.FillRect(buf, st.x, st.y, st.size, st.size,
			color.RGBA{R: st.shade, G: st.shade, B: st.shade + st.shade>>2, A: 255}, false)
	}

	switch g.sim.Phase() {
	case PhaseTitle, PhaseLobby:
		return
	}

	g.drawStage(buf)
	g.drawBullets(buf)
	g.drawPlayers(buf)
	g.drawMeleeArcs(buf)
	g.drawParticles(buf)
	g.drawLights(buf)
	g.drawPopups(buf)
}

// drawStage renders the platforms and, during overtime, the closing walls.
func (g *Game) drawStage(buf *ebiten.Image) {
	s := g.sim

	if s.overtime || s.arenaLeft > arenaLeftBound+1e-9 {
		pulse := float32(0.6 + 0.4*math.Sin(float64(s.tick)*0.15))
		wallCol := color.RGBA{R: 255, G: 60, B: 60, A: uint8(40 + 50*pulse)}
		edgeCol := color.RGBA{R: 255, G: 90, B: 90, A: uint8(150 + 80*pulse)}

		lx := g.sx(s.arenaLeft)
		rx := g.sx(s.arenaRight)
		top := g.sy(9.5)
		bottom := g.sy(-4.5)
		vector.FillRect(buf, 0, top, lx, bottom-top, wallCol, false)
		vector.FillRect(buf, rx, top, float32(g.width)-rx, bottom-top, wallCol, false)
		vector.StrokeLine(buf, lx, top, lx, bottom, 3.0, edgeCol, false)
		vector.StrokeLine(buf, rx, top, rx, bottom, 3.0, edgeCol, false)
	}

	for i := range s.platforms {
		p := &s.platforms[i]
		if !p.active {
			continue
		}
		x := g.sx(p.x)
		y := g.sy(p.top())
		w := px(p.width)
		h := px(p.height)

		if p.thin {
			// Drop-through ledges: bright lit top edge over a glassy body.
			bodyCol := color.RGBA{R: 40, G: 120, B: 140, A: 110}
			if p.moving {
				bodyCol = color.RGBA{R: 90, G: 70, B: 160, A: 130}
			}
			vector.FillRect(buf, x, y, w, h, bodyCol, false)
			vector.StrokeLine(buf, x, y, x+w, y, 2.0, color.RGBA{R: 140, G: 240, B: 255, A: 230}, false)
			if p.moving {
				vector.StrokeLine(buf, x, y+h, x+w, y+h, 1.0, color.RGBA{R: 180, G: 140, B: 255, A: 140}, false)
			}
		} else {
			// Solid ground: dark slab with a faint grid.
			vector.FillRect(buf, x, y, w, h, color.RGBA{R: 34, G: 40, B: 56, A: 255}, false)
			vector.StrokeRect(buf, x, y, w, h, 1.0, color.RGBA{R: 90, G: 110, B: 150, A: 200}, false)
			step := px(1.0)
			for gx := x + step; gx < x+w; gx += step {
				vector.StrokeLine(buf, gx, y+2, gx, y+h-2, 1.0, color.RGBA{R: 60, G: 72, B: 100, A: 90}, false)
			}
		}
	}
}

// drawBullets renders each live projectile as a hot core inside a bloom
// tinted by the owner's colour.
func (g *Game) drawBullets(buf *ebiten.Image) {
	s := g.sim
	for i := range s.bullets {
		b := &s.bullets[i]
		if !b.active {
			continue
		}
		bx := g.sx(b.x)
		by := g.sy(b.y)
		tint := rgba(playerColors[b.owner])

		fade := float32(1.0)
		if b.lifetime < 20 {
			fade = float32(b.lifetime) / 20
		}
		vector.FillCircle(buf, bx, by, px(0.34)*fade,
			color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: uint8(40 * fade)}, false)
		vector.FillCircle(buf, bx, by, px(0.2)*fade,
			color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: uint8(90 * fade)}, false)
		vector.FillCircle(buf, bx, by, px(0.1),
			color.RGBA{R: 255, G: 255, B: 240, A: uint8(200 * fade)}, false)
	}
}

// drawPlayers renders the fighter bodies along with their motion trails,
// spawn/shoot flashes and melee windup tells.
func (g *Game) drawPlayers(buf *ebiten.Image) {
	s := g.sim
	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		tint := rgba(playerColors[i])

		if p.dead {
			// Body is gone; a faint ring marks the upcoming respawn spot.
			if p.respawnTimer > 0 && p.respawnTimer < 30 {
				rxw, ryw := s.spawnPosition(i)
				cx := g.sx(rxw + playerWidth/2)
				cy := g.sy(ryw + playerHeight/2)
				a := uint8(30 + 60*(30-p.respawnTimer)/30)
				vector.FillCircle(buf, cx, cy, px(0.7), color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: a / 3}, false)
				vector.FillCircle(buf, cx, cy, px(0.45), color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: a}, false)
			}
			continue
		}

		speed := math.Hypot(p.vx, p.vy)
		if speed > trailMinSpeed {
			// trailIdx points at the oldest sample; walk oldest to newest.
			for k := 0; k < trailCount; k++ {
				t := p.trail[(p.trailIdx+k)%trailCount]
				a := uint8(10 + 12*k)
				vector.FillRect(buf,
					g.sx(t[0]), g.sy(t[1]+playerHeight),
					px(playerWidth), px(playerHeight),
					color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: a}, false)
			}
		}

		// Invulnerable fighters strobe instead of rendering solid.
		dimmed := p.invulnTimer > 0 && (s.tick/3)%2 == 1

		sq := p.squashStretch
		bw := playerWidth * (1 - 0.25*sq)
		bh := playerHeight * (1 + 0.25*sq)
		bx := g.sx(p.centerX() - bw/2)
		by := g.sy(p.y + bh)
		w := px(bw)
		h := px(bh)

		bodyCol := color.RGBA{R: tint.R / 2, G: tint.G / 2, B: tint.B / 2, A: 255}
		lineCol := tint
		if dimmed {
			bodyCol.A = 90
			lineCol.A = 120
		}
		vector.FillRect(buf, bx, by, w, h, bodyCol, false)
		vector.StrokeRect(buf, bx, by, w, h, 2.0, lineCol, false)

		// Visor block marks the facing direction.
		eyeW := px(0.22)
		eyeY := g.sy(p.y+bh*0.72) - px(0.08)
		var eyeX float32
		if p.facingRight {
			eyeX = bx + w - eyeW - px(0.08)
		} else {
			eyeX = bx + px(0.08)
		}
		eyeCol := color.RGBA{R: 255, G: 255, B: 255, A: 230}
		if dimmed {
			eyeCol.A = 120
		}
		vector.FillRect(buf, eyeX, eyeY, eyeW, px(0.16), eyeCol, false)

		if p.meleeWindup > 0 {
			// Blade pulled back behind the fighter, brightening as it arms.
			charge := float32(meleeWindupDuration-p.meleeWindup+1) / float32(meleeWindupDuration)
			armX := bx - px(0.3)
			if p.facingRight {
				armX = bx + w + px(0.3) - px(0.2)
			}
			vector.FillRect(buf, armX, by+h*0.35, px(0.2), px(0.35),
				color.RGBA{R: 255, G: 255, B: 255, A: uint8(80 + 150*charge)}, false)
		}

		if p.shootFlash > 0 {
			fl := float32(p.shootFlash) / shootFlashTicks
			mx := bx - px(0.15)
			if p.facingRight {
				mx = bx + w + px(0.15)
			}
			my := g.sy(p.centerY())
			vector.FillCircle(buf, mx, my, px(0.3)*fl,
				color.RGBA{R: 255, G: 240, B: 180, A: uint8(160 * fl)}, false)
		}

		if p.spawnFlash > 0 {
			prog := 1 - float32(p.spawnFlash)/spawnFlashTicks
			cx := g.sx(p.centerX())
			cy := g.sy(p.centerY())
			vector.FillCircle(buf, cx, cy, px(0.5)+px(1.2)*prog,
				color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: uint8(90 * (1 - prog))}, false)
		}
	}
}

// drawMeleeArcs renders active strike fans. Each fan is drawn solid white
// into arcBuf and composited with the striker's tint, which keeps
// overlapping fans from blowing out additively.
func (g *Game) drawMeleeArcs(buf *ebiten.Image) {
	s := g.sim
	for i := range s.players {
		p := &s.players[i]
		if !p.active || p.dead || p.meleeTimer <= 0 {
			continue
		}

		cx := g.sx(p.centerX())
		cy := g.sy(p.centerY())
		facing := math.Pi // left
		if p.facingRight {
			facing = 0
		}
		const halfSweep = 55 * math.Pi / 180
		radius := px(meleeRange)

		g.arcBuf.Clear()
		var path vector.Path
		path.MoveTo(cx, cy)
		const steps = 18
		for k := 0; k <= steps; k++ {
			a := facing - halfSweep + (2*halfSweep/steps)*float64(k)
			// Screen y grows downward, world angles are y-up.
			path.LineTo(cx+radius*float32(math.Cos(a)), cy-radius*float32(math.Sin(a)))
		}
		path.Close()
		vector.FillPath(g.arcBuf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})

		// Leading edge sweeps top to bottom over the active window.
		prog := 1 - float64(p.meleeTimer)/meleeDuration
		edge := facing + halfSweep - 2*halfSweep*prog
		if !p.facingRight {
			edge = facing - halfSweep + 2*halfSweep*prog
		}
		vector.StrokeLine(g.arcBuf, cx, cy,
			cx+radius*float32(math.Cos(edge)), cy-radius*float32(math.Sin(edge)),
			2.0, color.RGBA{R: 255, G: 255, B: 255, A: 255}, false)

		opts := &ebiten.DrawImageOptions{}
		opts.ColorScale.ScaleWithColor(rgba(playerColors[i]))
		opts.ColorScale.ScaleAlpha(float32(0.15 + 0.35*float64(p.meleeTimer)/meleeDuration))
		buf.DrawImage(g.arcBuf, opts)
	}
}

func (g *Game) drawParticles(buf *ebiten.Image) {
	for i := range g.fx.particles {
		p := &g.fx.particles[i]
		if p.life <= 0 {
			continue
		}
		fade := float32(p.life) / float32(p.maxLife)
		c := rgba(p.color)
		c.A = uint8(float32(c.A) * fade)
		size := px(p.size)
		if size < 1 {
			size = 1
		}
		vector.FillRect(buf, g.sx(p.x)-size/2, g.sy(p.y)-size/2, size, size, c, false)
	}
}

// drawLights renders transient blooms: three concentric rings of
// decreasing opacity plus a hot white core.
func (g *Game) drawLights(buf *ebiten.Image) {
	for i := range g.fx.lights {
		l := &g.fx.lights[i]
		if l.intensity <= 0 {
			continue
		}
		lx := g.sx(l.x)
		ly := g.sy(l.y)
		c := rgba(l.color)
		in := float32(l.intensity)
		vector.FillCircle(buf, lx, ly, px(1.3)*in, color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(30 * in)}, false)
		vector.FillCircle(buf, lx, ly, px(0.8)*in, color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(55 * in)}, false)
		vector.FillCircle(buf, lx, ly, px(0.4)*in, color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(85 * in)}, false)
		vector.FillCircle(buf, lx, ly, px(0.15)*in, color.RGBA{R: 255, G: 255, B: 230, A: uint8(130 * in)}, false)
	}
}

func (g *Game) drawPopups(buf *ebiten.Image) {
	s := g.sim
	for i := range s.players {
		a := g.fx.PopupAlpha(i)
		if a <= 0 {
			continue
		}
		p := &s.players[i]
		op := &text.DrawOptions{}
		op.PrimaryAlign = text.AlignCenter
		op.GeoM.Translate(float64(g.sx(p.centerX())), float64(g.sy(p.y+playerHeight+0.5+0.4*(1-a))))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 255, B: 160, A: 255})
		op.ColorScale.ScaleAlpha(float32(a))
		text.Draw(buf, "DEFLECT!", menuFace, op)
	}
}

// --- Screen-space UI ---

// drawText renders menu text at an integer-ish scale with the bitmap face.
// centered=true treats x as the centre instead of the left edge.
func drawText(dst *ebiten.Image, str string, x, y, scale float64, clr color.Color, centered bool) {
	op := &text.DrawOptions{}
	if centered {
		op.PrimaryAlign = text.AlignCenter
	}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, str, menuFace, op)
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	cx := float64(g.width) / 2
	// Offset shadow pass first, then the face colour over it.
	drawText(screen, "ARC ARENA", cx+4, 124, 8, color.RGBA{R: 180, G: 0, B: 180, A: 200}, true)
	drawText(screen, "ARC ARENA", cx, 120, 8, color.RGBA{R: 80, G: 255, B: 255, A: 255}, true)
	drawText(screen, "one hit is all it takes", cx, 240, 2, color.RGBA{R: 150, G: 160, B: 190, A: 255}, true)

	if (g.sim.tick/30)%2 == 0 {
		drawText(screen, "PRESS START", cx, 360, 3, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	}
	drawText(screen, "P1: WASD + J K L    P2: arrows + , . /    pads: standard layout",
		cx, 480, 1, color.RGBA{R: 110, G: 115, B: 140, A: 255}, true)
}

// lobbySettingValue formats the value column for one rules row.
func lobbySettingValue(cfg GameConfig, row int) string {
	switch row {
	case 0:
		switch cfg.StageSelect {
		case PolicyFixedGrid, PolicyFixedScatter, PolicyFixedRing:
			return stageNames[int(cfg.StageSelect)]
		case PolicyRandom:
			return "Random"
		default:
			return "Rotate"
		}
	case 1:
		return fmt.Sprintf("%d kills", cfg.KillsToWin)
	case 2:
		if cfg.RoundTimeSeconds == 0 {
			return "no limit"
		}
		return fmt.Sprintf("%ds", cfg.RoundTimeSeconds)
	case 3:
		if cfg.FillBots {
			return "ON"
		}
		return "OFF"
	default:
		return [3]string{"EASY", "NORMAL", "HARD"}[cfg.BotDifficulty]
	}
}

var lobbySettingNames = [lobbySettingCount]string{
	"STAGE", "KILL TARGET", "ROUND TIME", "CPU FILL", "CPU LEVEL",
}

func (g *Game) drawLobby(screen *ebiten.Image) {
	s := g.sim
	cx := float64(g.width) / 2
	drawText(screen, "LOBBY", cx, 40, 4, color.RGBA{R: 80, G: 255, B: 255, A: 255}, true)

	// Slot cards across the top half.
	cardW := float32(200)
	cardH := float32(110)
	gap := (float32(g.width) - 4*cardW) / 5
	for i := 0; i < MaxPlayers; i++ {
		x := gap + float32(i)*(cardW+gap)
		y := float32(110)
		p := &s.players[i]
		tint := rgba(playerColors[i])

		vector.FillRect(screen, x, y, cardW, cardH, color.RGBA{R: 14, G: 16, B: 28, A: 230}, false)
		border := color.RGBA{R: 50, G: 55, B: 80, A: 255}
		if p.active {
			border = tint
		}
		vector.StrokeRect(screen, x, y, cardW, cardH, 2.0, border, false)

		drawText(screen, fmt.Sprintf("P%d", i+1), float64(x)+12, float64(y)+10, 2, tint, false)
		switch {
		case p.active && p.ready:
			drawText(screen, "READY", float64(x+cardW/2), float64(y)+58, 2, color.RGBA{R: 90, G: 255, B: 120, A: 255}, true)
		case p.active:
			drawText(screen, "STANDBY", float64(x+cardW/2), float64(y)+58, 2, color.RGBA{R: 255, G: 210, B: 90, A: 255}, true)
		default:
			if (s.tick/40)%2 == 0 {
				drawText(screen, "PRESS A", float64(x+cardW/2), float64(y)+58, 1.5, color.RGBA{R: 120, G: 125, B: 150, A: 255}, true)
			}
			if s.config.FillBots {
				drawText(screen, "cpu fills", float64(x+cardW/2), float64(y)+86, 1, color.RGBA{R: 90, G: 95, B: 120, A: 255}, true)
			}
		}
	}

	// Rules rows, P1-adjustable.
	rowY := 280.0
	for row := 0; row < lobbySettingCount; row++ {
		nameCol := color.RGBA{R: 150, G: 160, B: 190, A: 255}
		valCol := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if row == s.lobbyCursor {
			nameCol = color.RGBA{R: 80, G: 255, B: 255, A: 255}
			drawText(screen, ">", cx-260, rowY, 2, nameCol, false)
		}
		drawText(screen, lobbySettingNames[row], cx-230, rowY, 2, nameCol, false)
		val := lobbySettingValue(s.config, row)
		if row == s.lobbyCursor {
			val = "< " + val + " >"
		}
		drawText(screen, val, cx+150, rowY, 2, valCol, true)
		rowY += 34
	}

	drawText(screen, "START: fight    A: join / ready    B: back    P1 arrows: rules",
		cx, 500, 1, color.RGBA{R: 110, G: 115, B: 140, A: 255}, true)
}

func (g *Game) drawCountdown(screen *ebiten.Image) {
	s := g.sim
	cx := float64(g.width) / 2

	drawText(screen, fmt.Sprintf("ROUND %d", s.roundNumber), cx, 60, 3, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	drawText(screen, StageName(s.currentStage), cx, 104, 2, color.RGBA{R: 150, G: 160, B: 190, A: 255}, true)

	n := (s.countdownTimer + ticksPerSecond - 1) / ticksPerSecond
	if n > 0 {
		// Number pops in at full alpha and fades as its second drains.
		frac := float32(s.countdownTimer%ticksPerSecond) / ticksPerSecond
		if s.countdownTimer%ticksPerSecond == 0 {
			frac = 1
		}
		a := uint8(90 + 165*frac)
		drawText(screen, fmt.Sprintf("%d", n), cx, 200, 10, color.RGBA{R: 255, G: 255, B: 255, A: a}, true)
	}
}

func (g *Game) drawPlayingHUD(screen *ebiten.Image) {
	s := g.sim

	// Score cards render into hudBuf at 1x and blit up at hudScale.
	g.hudBuf.Clear()
	bufW := g.width / hudScale
	cardW := float32(70)
	gap := (float32(bufW) - 4*cardW) / 5
	for i := 0; i < MaxPlayers; i++ {
		p := &s.players[i]
		if !p.active {
			continue
		}
		x := gap + float32(i)*(cardW+gap)
		y := float32(3)
		tint := rgba(playerColors[i])

		vector.FillRect(g.hudBuf, x, y, cardW, 30, color.RGBA{R: 8, G: 10, B: 18, A: 200}, false)
		vector.StrokeRect(g.hudBuf, x, y, cardW, 30, 1.0, tint, false)

		label := fmt.Sprintf("P%d", i+1)
		if p.kind == PlayerBot {
			label += " CPU"
		}
		if p.dead {
			label += " KO"
		}
		ebitenutil.DebugPrintAt(g.hudBuf, label, int(x)+4, int(y)+1)
		ebitenutil.DebugPrintAt(g.hudBuf, fmt.Sprintf("%d/%d", p.kills, s.config.KillsToWin), int(x)+4, int(y)+14)

		// Ammo pips.
		for a := 0; a < maxAmmo; a++ {
			pipCol := color.RGBA{R: 50, G: 55, B: 80, A: 255}
			if a < p.ammo {
				pipCol = tint
			}
			vector.FillRect(g.hudBuf, x+cardW-26+float32(a)*8, y+17, 6, 8, pipCol, false)
		}
	}
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)

	cx := float64(g.width) / 2
	switch {
	case s.overtime:
		if (s.tick/15)%2 == 0 {
			drawText(screen, "OVERTIME", cx, 100, 4, color.RGBA{R: 255, G: 80, B: 80, A: 255}, true)
		}
	case s.roundTimer > 0:
		secs := (s.roundTimer + ticksPerSecond - 1) / ticksPerSecond
		clockCol := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if secs <= 10 && (s.tick/20)%2 == 0 {
			clockCol = color.RGBA{R: 255, G: 90, B: 90, A: 255}
		}
		drawText(screen, fmt.Sprintf("%d", secs), cx, 100, 3, clockCol, true)
	}

	if g.goBanner > 0 {
		a := uint8(255 * g.goBanner / goBannerTicks)
		drawText(screen, "GO!", cx, 180, 8, color.RGBA{R: 255, G: 255, B: 120, A: a}, true)
	}
}

var pauseMainItems = [pauseMainCount]string{
	"RESUME", "RESTART ROUND", "RESTART MATCH", "QUIT TO LOBBY", "OPTIONS",
}

func (g *Game) drawPaused(screen *ebiten.Image) {
	s := g.sim
	vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height),
		color.RGBA{R: 0, G: 0, B: 0, A: 160}, false)

	cx := float64(g.width) / 2
	drawText(screen, "PAUSED", cx, 90, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)

	switch s.pausePage {
	case PauseMain:
		y := 220.0
		for i := 0; i < pauseMainCount; i++ {
			col := color.RGBA{R: 150, G: 160, B: 190, A: 255}
			if i == s.pauseCursor {
				col = color.RGBA{R: 80, G: 255, B: 255, A: 255}
				drawText(screen, ">", cx-160, y, 2, col, false)
			}
			drawText(screen, pauseMainItems[i], cx, y, 2, col, true)
			y += 40
		}
		drawText(screen, "A: select    START/B: resume", cx, 470, 1, color.RGBA{R: 110, G: 115, B: 140, A: 255}, true)
	case PauseOptions:
		names := [pauseOptionCount]string{"MUSIC", "SFX", "SHAKE", "FLASH"}
		y := 220.0
		for i := 0; i < pauseOptionCount; i++ {
			col := color.RGBA{R: 150, G: 160, B: 190, A: 255}
			if i == s.pauseCursor {
				col = color.RGBA{R: 80, G: 255, B: 255, A: 255}
				drawText(screen, ">", cx-220, y, 2, col, false)
			}
			drawText(screen, names[i], cx-180, y, 2, col, false)

			switch i {
			case 0, 1:
				vol := s.options.MusicVolume
				if i == 1 {
					vol = s.options.SfxVolume
				}
				bx := float32(cx + 20)
				by := float32(y) + 6
				vector.FillRect(screen, bx, by, 160, 12, color.RGBA{R: 30, G: 34, B: 50, A: 255}, false)
				vector.FillRect(screen, bx, by, 160*float32(vol), 12, color.RGBA{R: 80, G: 255, B: 255, A: 255}, false)
				vector.StrokeRect(screen, bx, by, 160, 12, 1.0, color.RGBA{R: 90, G: 110, B: 150, A: 255}, false)
			case 2, 3:
				on := s.options.ScreenShake
				if i == 3 {
					on = s.options.ScreenFlash
				}
				v := "OFF"
				vc := color.RGBA{R: 150, G: 160, B: 190, A: 255}
				if on {
					v = "ON"
					vc = color.RGBA{R: 90, G: 255, B: 120, A: 255}
				}
				drawText(screen, v, cx+100, y, 2, vc, true)
			}
			y += 40
		}
		drawText(screen, "LEFT/RIGHT: adjust    B: back", cx, 470, 1, color.RGBA{R: 110, G: 115, B: 140, A: 255}, true)
	}
}

func (g *Game) drawFinalKo(screen *ebiten.Image) {
	s := g.sim
	cx := float64(g.width) / 2
	drawText(screen, "K.O.", cx+5, 165, 12, color.RGBA{R: 255, G: 40, B: 40, A: 220}, true)
	drawText(screen, "K.O.", cx, 160, 12, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	if s.winner >= 0 {
		drawText(screen, fmt.Sprintf("P%d WINS", s.winner+1), cx, 340, 4, rgba(playerColors[s.winner]), true)
	}
}

func (g *Game) drawMatchEnd(screen *ebiten.Image) {
	s := g.sim
	vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height),
		color.RGBA{R: 0, G: 0, B: 0, A: 170}, false)

	cx := float64(g.width) / 2
	if s.winner >= 0 {
		drawText(screen, fmt.Sprintf("P%d WINS THE MATCH", s.winner+1), cx, 60, 4, rgba(playerColors[s.winner]), true)
		if s.wonInOvertime {
			drawText(screen, "decided in overtime", cx, 116, 2, color.RGBA{R: 255, G: 120, B: 120, A: 255}, true)
		}
	}

	header := fmt.Sprintf("%-6s %5s %5s %6s %5s %6s %5s", "", "KILL", "DIED", "SHOTS", "DEFL", "BLADE", "WALL")
	drawText(screen, header, cx, 180, 2, color.RGBA{R: 150, G: 160, B: 190, A: 255}, true)
	y := 216.0
	for i := 0; i < MaxPlayers; i++ {
		p := &s.players[i]
		if !p.active {
			continue
		}
		st := s.stats[i]
		label := fmt.Sprintf("P%d", i+1)
		if p.kind == PlayerBot {
			label += "*"
		}
		row := fmt.Sprintf("%-6s %5d %5d %6d %5d %6d %5d",
			label, st.Kills, st.Deaths, st.Shots, st.Deflections, st.MeleeKills, st.WallDeaths)
		col := rgba(playerColors[i])
		if i == s.winner && (s.tick/20)%2 == 0 {
			col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		drawText(screen, row, cx, y, 2, col, true)
		y += 34
	}

	if !s.demo {
		drawText(screen, "START: rematch    B: lobby", cx, 480, 2, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	}
}

func (g *Game) drawDemoBadge(screen *ebiten.Image) {
	drawText(screen, "DEMO", float64(g.width)-70, 14, 2, color.RGBA{R: 255, G: 210, B: 90, A: 255}, true)
	if (g.sim.tick/40)%2 == 0 {
		drawText(screen, "press any button", float64(g.width)/2, float64(g.height)-46, 1.5,
			color.RGBA{R: 150, G: 160, B: 190, A: 255}, true)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	s := g.sim
	lines := []string{
		fmt.Sprintf("tick=%d phase=%s stage=%s round=%d", s.tick, s.phase, StageName(s.currentStage), s.roundNumber),
		fmt.Sprintf("arena=[%.2f %.2f] overtime=%t bullets=%d", s.arenaLeft, s.arenaRight, s.overtime, s.activeBulletCount()),
		fmt.Sprintf("trace slot=P%d (F4 cycles, F9 copies report)", g.debugSlot+1),
	}
	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		mark := " "
		if i == g.debugSlot {
			mark = ">"
		}
		lines = append(lines, fmt.Sprintf("%sP%d pos=(%.2f,%.2f) v=(%.3f,%.3f) gnd=%t dead=%t ammo=%d",
			mark, i+1, p.x, p.y, p.vx, p.vy, p.onGround, p.dead, p.ammo))
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 6, 110+i*14)
	}
}

// drawVignette darkens the screen edges for atmosphere.
// Two-layer: inner soft band + outer hard strip for depth.
func (g *Game) drawVignette(screen *ebiten.Image) {
	w := float32(g.width)
	h := float32(g.height)

	outer := float32(26)
	outerDark := color.RGBA{R: 0, G: 0, B: 0, A: 70}
	vector.FillRect(screen, 0, 0, w, outer, outerDark, false)
	vector.FillRect(screen, 0, h-outer, w, outer, outerDark, false)
	vector.FillRect(screen, 0, 0, outer, h, outerDark, false)
	vector.FillRect(screen, w-outer, 0, outer, h, outerDark, false)

	inner := float32(80)
	innerDark := color.RGBA{R: 0, G: 0, B: 0, A: 25}
	vector.FillRect(screen, 0, 0, w, inner, innerDark, false)
	vector.FillRect(screen, 0, h-inner, w, inner, innerDark, false)
	vector.FillRect(screen, 0, 0, inner, h, innerDark, false)
	vector.FillRect(screen, w-inner, 0, inner, h, innerDark, false)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
