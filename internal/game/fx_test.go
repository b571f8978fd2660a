package game

import (
	"math"
	"testing"
)

func liveParticles(e *Effects) int {
	n := 0
	for i := range e.particles {
		if e.particles[i].life > 0 {
			n++
		}
	}
	return n
}

func TestFx_ShakeMergesAndDecays(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	e.Shake(5)
	e.Shake(3)
	if e.shake != 5 {
		t.Fatalf("a weaker kick should not replace a stronger one: %v", e.shake)
	}
	e.Shake(10)
	if e.shake != 10 {
		t.Fatalf("a stronger kick should take over: %v", e.shake)
	}

	e.Update()
	if math.Abs(e.shake-10*shakeDecay) > 1e-12 {
		t.Errorf("shake after one frame = %v, want %v", e.shake, 10*shakeDecay)
	}
	ox, oy := e.Offset()
	if math.Abs(ox) > e.shake || math.Abs(oy) > e.shake {
		t.Errorf("offset (%v,%v) exceeds the shake envelope %v", ox, oy, e.shake)
	}

	for i := 0; i < 60; i++ {
		e.Update()
	}
	if e.shake != 0 {
		t.Errorf("shake should decay to rest, got %v", e.shake)
	}

	still := DefaultOptions()
	still.ScreenShake = false
	quiet := NewEffects(&still)
	quiet.Shake(8)
	if quiet.shake != 0 {
		t.Error("the shake toggle should drop kicks entirely")
	}
}

func TestFx_FlashLifecycleAndGate(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	e.ImpactFlash()
	if got := e.FlashAlpha(); math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("fresh flash alpha = %v, want 0.6", got)
	}
	e.Update()
	if got := e.FlashAlpha(); math.Abs(got-2.0/3.0*0.6) > 1e-9 {
		t.Errorf("second frame alpha = %v", got)
	}
	e.Update()
	e.Update()
	if got := e.FlashAlpha(); got != 0 {
		t.Errorf("flash should be spent after %d frames, got %v", flashFrames, got)
	}

	dark := DefaultOptions()
	dark.ScreenFlash = false
	gated := NewEffects(&dark)
	gated.ImpactFlash()
	if gated.FlashAlpha() != 0 {
		t.Error("the flash toggle should suppress the overlay")
	}
}

func TestFx_ParticlePoolRecycles(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	// Trails spawn exactly one particle each; oversubscribe the pool.
	for i := 0; i < maxEffectParticles+50; i++ {
		e.SpawnParticles(ParticlesBulletTrail, 0, 0, 0xFFFFFFFF, 0)
	}
	if got := liveParticles(e); got != maxEffectParticles {
		t.Fatalf("pool should saturate at %d, got %d", maxEffectParticles, got)
	}

	// Trail lifetimes top out at 11 frames.
	for i := 0; i < 12; i++ {
		e.Update()
	}
	if got := liveParticles(e); got != 0 {
		t.Fatalf("all trails should have expired, got %d", got)
	}

	e.SpawnParticles(ParticlesBulletTrail, 1, 1, 0xFFFFFFFF, 0)
	if got := liveParticles(e); got != 1 {
		t.Errorf("expired slots should be reusable, got %d", got)
	}
}

func TestFx_LightPoolEvictsTheDimmest(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	for i := 1; i <= maxEffectLights; i++ {
		e.SpawnLight(0, 0, 0xFFFFFFFF, float64(i), 0.9)
	}

	e.SpawnLight(0, 0, 0xFFFFFFFF, 0.5, 0.9)
	for i := range e.lights {
		if e.lights[i].intensity == 0.5 {
			t.Fatal("a light dimmer than the whole pool should be rejected")
		}
	}

	e.SpawnLight(0, 0, 0xFFFFFFFF, 10, 0.9)
	var have10, have1 bool
	for i := range e.lights {
		switch e.lights[i].intensity {
		case 10:
			have10 = true
		case 1:
			have1 = true
		}
	}
	if !have10 || have1 {
		t.Errorf("the bright light should replace the dimmest: %+v", e.lights)
	}
}

func TestFx_PopupCountsDown(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	e.DeflectPopup(2)
	if got := e.PopupAlpha(2); got != 1 {
		t.Fatalf("fresh popup alpha = %v, want 1", got)
	}
	for i := 0; i < popupFrames; i++ {
		e.Update()
	}
	if got := e.PopupAlpha(2); got != 0 {
		t.Errorf("popup should be gone after %d frames, got %v", popupFrames, got)
	}

	e.DeflectPopup(-1)
	e.DeflectPopup(MaxPlayers)
	if e.PopupAlpha(-1) != 0 || e.PopupAlpha(MaxPlayers) != 0 {
		t.Error("out-of-range slots should stay silent")
	}
}

func TestFx_KillCamZoomEases(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	e.CameraZoom()
	e.Update()
	want := baseFov + (killFov-baseFov)*fovLerp
	if math.Abs(e.Fov()-want) > 1e-12 {
		t.Fatalf("first eased fov = %v, want %v", e.Fov(), want)
	}
	for i := 0; i < zoomHoldFrames; i++ {
		e.Update()
	}
	zoomed := e.Fov()
	if zoomed >= 45 {
		t.Errorf("the hold should pull fov well toward %v, got %v", killFov, zoomed)
	}

	for i := 0; i < 120; i++ {
		e.Update()
	}
	if e.Fov() <= zoomed || math.Abs(e.Fov()-baseFov) > 1 {
		t.Errorf("fov should ease back out to %v, got %v", baseFov, e.Fov())
	}
}

func TestFx_ResetClearsEverything(t *testing.T) {
	opts := DefaultOptions()
	e := NewEffects(&opts)

	e.SpawnParticles(ParticlesConfetti, 0, 2, 0, 0)
	e.SpawnLight(0, 0, 0xFF0000FF, 3, 0.9)
	e.DeflectPopup(1)
	e.Shake(6)
	e.ImpactFlash()
	e.CameraZoom()
	e.Update()

	e.Reset()
	if liveParticles(e) != 0 {
		t.Error("particles should be cleared")
	}
	if e.FlashAlpha() != 0 || e.PopupAlpha(1) != 0 {
		t.Error("flash and popups should be cleared")
	}
	if ox, oy := e.Offset(); ox != 0 || oy != 0 {
		t.Error("shake offset should be cleared")
	}
	if e.Fov() != baseFov {
		t.Errorf("fov should snap home, got %v", e.Fov())
	}
	for i := range e.lights {
		if e.lights[i].intensity != 0 {
			t.Error("lights should be dark")
		}
	}
}
