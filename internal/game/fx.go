package game

import (
	"math"
	"math/rand"
	"time"
)

const (
	maxEffectParticles = 128
	maxEffectLights    = 4
	particleGravity    = 0.005
	particleFriction   = 0.98
	shakeDecay         = 0.85
	flashFrames        = 3
	popupFrames        = 45
	baseFov            = 50.0
	killFov            = 40.0
	fovLerp            = 0.15
	zoomHoldFrames     = 20
)

type effectParticle struct {
	x, y    float64
	vx, vy  float64
	life    int
	maxLife int
	color   uint32
	size    float64
}

type effectLight struct {
	x, y      float64
	color     uint32
	intensity float64
	decay     float64
}

var confettiColors = [6]uint32{
	0x00FFFFFF, 0xFF00FFFF, 0xFFFF00FF, 0x00FF00FF, 0xFF8800FF, 0x8888FFFF,
}

// Effects is the presentation-side implementation of FxSink: particle
// bursts, transient lights, screen shake, impact flash and the kill-cam
// zoom. It consumes triggers from the simulation and is advanced once per
// rendered frame; nothing here feeds back into the simulation.
type Effects struct {
	particles [maxEffectParticles]effectParticle
	lights    [maxEffectLights]effectLight
	popups    [MaxPlayers]int

	shake            float64
	offsetX, offsetY float64
	flash            int
	fov              float64
	zoomTimer        int

	opts *Options
	rng  *rand.Rand
}

// NewEffects creates an effects layer honoring the given option toggles.
func NewEffects(opts *Options) *Effects {
	return &Effects{
		fov:  baseFov,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- cosmetic jitter only
	}
}

var _ FxSink = (*Effects)(nil)

// SpawnParticles implements FxSink.
func (e *Effects) SpawnParticles(kind ParticleKind, x, y float64, rgba uint32, dir float64) {
	switch kind {
	case ParticlesDeath:
		for n := 0; n < 12; n++ {
			ang := e.rng.Float64() * 2 * math.Pi
			sp := 0.05 + e.rng.Float64()*0.15
			e.spawnParticle(x, y, math.Cos(ang)*sp, math.Sin(ang)*sp, 30+e.rng.Intn(20), rgba, 0.18)
		}
	case ParticlesLandingDust:
		for n := 0; n < 4; n++ {
			vx := (e.rng.Float64() - 0.5) * 0.08
			e.spawnParticle(x, y, vx, 0.02+e.rng.Float64()*0.02, 10+e.rng.Intn(8), 0xAAAAAAFF, 0.12)
		}
	case ParticlesConfetti:
		for n := 0; n < 40; n++ {
			ang := e.rng.Float64() * 2 * math.Pi
			sp := 0.08 + e.rng.Float64()*0.18
			c := confettiColors[e.rng.Intn(len(confettiColors))]
			e.spawnParticle(x, y, math.Cos(ang)*sp, math.Abs(math.Sin(ang))*sp+0.1, 60+e.rng.Intn(60), c, 0.15)
		}
	case ParticlesBulletTrail:
		e.spawnParticle(x, y, 0, 0, 8+e.rng.Intn(4), rgba, 0.08)
	case ParticlesWallSparks:
		for n := 0; n < 2; n++ {
			vx := -dir * (0.03 + e.rng.Float64()*0.05)
			e.spawnParticle(x, y, vx, -0.02+e.rng.Float64()*0.06, 8+e.rng.Intn(6), 0xFFDD66FF, 0.08)
		}
	}
}

func (e *Effects) spawnParticle(x, y, vx, vy float64, life int, color uint32, size float64) {
	for i := range e.particles {
		p := &e.particles[i]
		if p.life > 0 {
			continue
		}
		*p = effectParticle{x: x, y: y, vx: vx, vy: vy, life: life, maxLife: life, color: color, size: size}
		return
	}
}

// Shake implements FxSink: kicks are max-merged, never stacked.
func (e *Effects) Shake(intensity float64) {
	if !e.opts.ScreenShake {
		return
	}
	if intensity > e.shake {
		e.shake = intensity
	}
}

// ImpactFlash implements FxSink.
func (e *Effects) ImpactFlash() {
	if !e.opts.ScreenFlash {
		return
	}
	e.flash = flashFrames
}

// CameraZoom implements FxSink.
func (e *Effects) CameraZoom() {
	e.zoomTimer = zoomHoldFrames
}

// SpawnLight implements FxSink: the dimmest light is evicted when the
// pool is full.
func (e *Effects) SpawnLight(x, y float64, rgba uint32, intensity, decay float64) {
	slot := 0
	dimmest := math.MaxFloat64
	for i := range e.lights {
		if e.lights[i].intensity < dimmest {
			dimmest = e.lights[i].intensity
			slot = i
		}
	}
	if intensity > dimmest {
		e.lights[slot] = effectLight{x: x, y: y, color: rgba, intensity: intensity, decay: decay}
	}
}

// DeflectPopup implements FxSink.
func (e *Effects) DeflectPopup(player int) {
	if player < 0 || player >= MaxPlayers {
		return
	}
	e.popups[player] = popupFrames
}

// Update advances every envelope one frame: particle physics, light
// fade, shake decay, flash countdown and the kill-cam zoom ease.
func (e *Effects) Update() {
	for i := range e.particles {
		p := &e.particles[i]
		if p.life <= 0 {
			continue
		}
		p.life--
		p.x += p.vx
		p.y += p.vy
		p.vy -= particleGravity
		p.vx *= particleFriction
		p.vy *= particleFriction
	}
	for i := range e.lights {
		l := &e.lights[i]
		if l.intensity <= 0 {
			continue
		}
		l.intensity *= l.decay
		if l.intensity < 0.05 {
			l.intensity = 0
		}
	}
	for i := range e.popups {
		if e.popups[i] > 0 {
			e.popups[i]--
		}
	}

	e.shake *= shakeDecay
	if e.shake < 0.01 {
		e.shake = 0
	}
	e.offsetX = (e.rng.Float64()*2 - 1) * e.shake
	e.offsetY = (e.rng.Float64()*2 - 1) * e.shake

	if e.flash > 0 {
		e.flash--
	}

	if e.zoomTimer > 0 {
		e.zoomTimer--
		e.fov += (killFov - e.fov) * fovLerp
	} else {
		e.fov += (baseFov - e.fov) * fovLerp
	}
}

// Fov returns the current camera field of view; the renderer divides the
// base value by this for the punch-in scale.
func (e *Effects) Fov() float64 { return e.fov }

// FlashAlpha returns the white overlay strength for this frame, 0..1.
func (e *Effects) FlashAlpha() float64 {
	if e.flash <= 0 {
		return 0
	}
	return float64(e.flash) / flashFrames * 0.6
}

// Offset returns the shake displacement in world units for this frame.
func (e *Effects) Offset() (float64, float64) { return e.offsetX, e.offsetY }

// PopupAlpha returns the parry callout strength for a slot, 0..1.
func (e *Effects) PopupAlpha(player int) float64 {
	if player < 0 || player >= MaxPlayers || e.popups[player] <= 0 {
		return 0
	}
	return float64(e.popups[player]) / popupFrames
}

// Reset clears every transient effect. Called on phase jumps that should
// not carry shake or confetti across (demo exit, match restart).
func (e *Effects) Reset() {
	for i := range e.particles {
		e.particles[i].life = 0
	}
	for i := range e.lights {
		e.lights[i].intensity = 0
	}
	for i := range e.popups {
		e.popups[i] = 0
	}
	e.shake = 0
	e.offsetX, e.offsetY = 0, 0
	e.flash = 0
	e.fov = baseFov
	e.zoomTimer = 0
}
