package game

import "math"

// --- Bot tuning ---

// botProfile holds the per-difficulty knobs. Higher difficulty closes
// distance harder, fires faster, and demands tighter alignment before
// pulling the trigger (loose alignment is what makes easy bots miss).
type botProfile struct {
	engageDist    float64 // preferred horizontal standoff
	shootCooldown int
	meleeCooldown int
	aimSlop       float64 // max perpendicular offset that still counts as lined up
}

var botProfiles = [3]botProfile{
	{engageDist: 3.5, shootCooldown: 50, meleeCooldown: 100, aimSlop: 2.5}, // easy
	{engageDist: 2.5, shootCooldown: 40, meleeCooldown: 80, aimSlop: 1.2},  // normal
	{engageDist: 1.8, shootCooldown: 30, meleeCooldown: 60, aimSlop: 0.5},  // hard
}

const (
	botJumpCooldown  = 30
	botJumpHoldTicks = 20  // hold jump this long for a full-height arc
	botStrafePeriod  = 60  // ticks per strafe phase
	botChaseHeight   = 1.0 // target this much higher triggers a jump
	botDropHeight    = 1.5 // target this much lower triggers a drop-through
)

// BotState is the scripted controller's private state for one slot. It
// lives outside Player so round resets can preserve it.
type BotState struct {
	seed uint32 // xorshift32 state; zero means "derive on next spawn"

	shootCooldown int
	meleeCooldown int
	jumpCooldown  int
	jumpHold      int
}

func (b *BotState) resetCooldowns() {
	b.shootCooldown = 0
	b.meleeCooldown = 0
	b.jumpCooldown = 0
	b.jumpHold = 0
}

// roll advances the xorshift32 stream. Each bot owns its own stream so
// adding or removing a bot never perturbs the others' decisions.
func (b *BotState) roll() uint32 {
	x := b.seed
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	b.seed = x
	return x
}

// botSeed derives a nonzero stream seed from slot and spawn tick.
func botSeed(slot, tick int) uint32 {
	s := uint32(slot+1)*2654435761 ^ uint32(tick+1)*40503
	if s == 0 {
		s = 0x9E3779B9
	}
	return s
}

func (s *Simulation) botProfile() botProfile {
	d := s.config.BotDifficulty
	if d < 0 {
		d = 0
	}
	if d > 2 {
		d = 2
	}
	return botProfiles[d]
}

// botFrame produces the input frame for bot slot i this tick. Called exactly
// once per tick per bot while a round is live, so cooldowns count down here.
func (s *Simulation) botFrame(i int) InputFrame {
	p := &s.players[i]
	b := p.bot
	var f InputFrame

	if p.dead {
		return f
	}

	if b.shootCooldown > 0 {
		b.shootCooldown--
	}
	if b.meleeCooldown > 0 {
		b.meleeCooldown--
	}
	if b.jumpCooldown > 0 {
		b.jumpCooldown--
	}
	if b.jumpHold > 0 {
		b.jumpHold--
		f.Buttons |= ButtonA
	}

	prof := s.botProfile()

	ti := s.nearestLivingOther(i)
	if ti == i {
		// Nobody to fight: pace back and forth so the slot reads as alive.
		if (s.tick/botStrafePeriod+i)%2 == 0 {
			f.AxisX = 0.5
		} else {
			f.AxisX = -0.5
		}
		return f
	}
	t := &s.players[ti]

	dx := t.centerX() - p.centerX()
	dy := t.centerY() - p.centerY()
	dist := math.Hypot(dx, dy)

	// --- Movement ---
	switch {
	case math.Abs(dx) > prof.engageDist:
		f.AxisX = sign(dx)
	case math.Abs(dx) < prof.engageDist*0.6:
		f.AxisX = -sign(dx)
	default:
		// In the pocket: strafe, reversing one phase in four.
		dir := sign(dx)
		if (s.tick/botStrafePeriod+i)%4 == 3 {
			dir = -dir
		}
		f.AxisX = dir * 0.5
	}

	// --- Vertical intent ---
	if p.onGround && b.jumpCooldown == 0 {
		switch {
		case dy > botChaseHeight:
			f.Buttons |= ButtonA
			b.jumpCooldown = botJumpCooldown
			b.jumpHold = botJumpHoldTicks
		case dy < -botDropHeight:
			// Drop through the floor instead of jumping.
			f.Buttons |= ButtonA
			f.AxisY = -1
			b.jumpCooldown = botJumpCooldown
		case f.AxisX != 0 && math.Abs(p.vx) < 0.01:
			// Shoving a wall: hop over it.
			f.Buttons |= ButtonA
			b.jumpCooldown = botJumpCooldown
			b.jumpHold = botJumpHoldTicks
		case f.AxisX != 0 && b.roll()%64 == 0:
			f.Buttons |= ButtonA
			b.jumpCooldown = botJumpCooldown
			b.jumpHold = botJumpHoldTicks
		}
	}

	// --- Shoot ---
	if b.shootCooldown == 0 && p.ammo > 0 && p.meleeTimer == 0 && p.meleeWindup == 0 {
		alignedH := math.Abs(dy) < prof.aimSlop
		alignedV := math.Abs(dx) < prof.aimSlop
		if alignedH || alignedV {
			f.Buttons |= ButtonB
			if math.Abs(dx) > 0.4 {
				f.AxisX = sign(dx)
			}
			if math.Abs(dy) > 0.6 {
				f.AxisY = sign(dy)
			}
			b.shootCooldown = prof.shootCooldown
		}
	}

	// --- Melee ---
	if b.meleeCooldown == 0 && p.meleeTimer == 0 && p.meleeWindup == 0 {
		if dist < meleeRange*0.9 {
			f.Buttons |= ButtonX
			b.meleeCooldown = prof.meleeCooldown
		} else if s.bulletThreat(i, meleeRange*1.15) {
			// Defensive swing: try to deflect an incoming shot.
			f.Buttons |= ButtonX
			b.meleeCooldown = prof.meleeCooldown
		}
	}

	return f
}

// bulletThreat reports whether any hostile bullet inside radius is closing
// on slot i.
func (s *Simulation) bulletThreat(i int, radius float64) bool {
	p := &s.players[i]
	for j := range s.bullets {
		bl := &s.bullets[j]
		if !bl.active || bl.owner == i {
			continue
		}
		ox := p.centerX() - bl.x
		oy := p.centerY() - bl.y
		if ox*ox+oy*oy > radius*radius {
			continue
		}
		if bl.vx*ox+bl.vy*oy > 0 {
			return true
		}
	}
	return false
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}
