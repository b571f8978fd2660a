package game

import "math"

// --- Player constants ---

const (
	MaxPlayers = 4

	playerWidth  = 0.8
	playerHeight = 1.2

	gravity        = 0.025
	jumpForce      = 0.5
	moveSpeed      = 0.15
	groundFriction = 0.85
	airFriction    = 0.95

	groundAccel = moveSpeed * 0.15
	airAccel    = moveSpeed * 0.08

	facingDeadzone   = 0.3 // horizontal input below this never flips facing
	wallProbe        = 0.1 // distance past the side face checked for wall jumps
	landingTolerance = 0.2 // how far feet may sink into a top surface and still land
	deathY           = -8.0

	maxAmmo             = 3
	meleeWindupDuration = 3  // anticipation ticks before the hitbox arms
	meleeDuration       = 12 // ticks the hitbox stays active
	meleeRange          = 1.8
	meleeDash           = 0.15

	respawnDelay       = 90 // 1.5s
	respawnInvulnTicks = 60 // grace period after a mid-round respawn

	jumpBufferTicks    = 6
	coyoteTicks        = 6
	dropThroughTicks   = 10
	fastFallThreshold  = 0.5 // downward axis magnitude that engages fast-fall
	fastFallGravityMul = 2.0

	// Cosmetic timers. The simulation ticks them but never branches on them.
	spawnFlashTicks = 30
	shootFlashTicks = 6
	squashDecay     = 0.85
	trailCount      = 5
	trailMinSpeed   = 0.1 // shell draws trails only above this speed
)

// playerColors are the slot tints (RGBA) passed to the effects layer.
var playerColors = [MaxPlayers]uint32{
	0x00FFFFFF, // cyan
	0xFF00FFFF, // magenta
	0xFFFF00FF, // yellow
	0x00FF00FF, // green
}

// PlayerKind distinguishes who drives a slot's inputs.
type PlayerKind int

const (
	PlayerHuman PlayerKind = iota
	PlayerBot
)

func (k PlayerKind) String() string {
	switch k {
	case PlayerHuman:
		return "human"
	case PlayerBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Player is one fighter slot. The array of four is fixed for the process
// lifetime; slots are field-mutated, never reallocated.
type Player struct {
	x, y   float64
	vx, vy float64

	onGround    bool
	facingRight bool
	active      bool
	ready       bool // lobby ready flag

	// Combat
	ammo         int
	meleeTimer   int // > 0: hitbox active
	meleeWindup  int // > 0: anticipation, blocks shoot and re-trigger
	dead         bool
	respawnTimer int
	invulnTimer  int // post-respawn grace: cannot be killed, can still deflect

	// Movement grace windows
	jumpBuffer  int
	coyoteTimer int
	dropTimer   int // thin platforms are not landable while > 0

	// Control
	kind        PlayerKind
	bot         *BotState // non-nil only for bot slots
	prevButtons uint16    // previous tick's held mask, for edge detection

	// Score
	kills int

	// Cosmetic only: decayed here for determinism, read only by the shell.
	spawnFlash    int
	shootFlash    int
	squashStretch float64 // -1 squash .. +1 stretch
	trail         [trailCount][2]float64
	trailIdx      int
}

func (p *Player) pressed(f InputFrame, b uint16) bool {
	return f.Buttons&b != 0 && p.prevButtons&b == 0
}

func (p *Player) centerX() float64 { return p.x + playerWidth/2 }
func (p *Player) centerY() float64 { return p.y + playerHeight/2 }

func (p *Player) resetTrail() {
	for i := range p.trail {
		p.trail[i] = [2]float64{p.x, p.y}
	}
	p.trailIdx = 0
}

// spawnPlayers places every active slot at its fixed stage spawn point for a
// round start. Kill counts and control kind survive; everything else resets.
func (s *Simulation) spawnPlayers() {
	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		x, y := s.spawnPosition(i)
		kills := p.kills
		kind := p.kind
		bot := p.bot
		ready := p.ready

		*p = Player{}
		p.active = true
		p.ready = ready
		p.kind = kind
		p.bot = bot
		p.kills = kills
		p.x, p.y = x, y
		p.facingRight = i%2 == 0
		p.ammo = maxAmmo
		p.spawnFlash = spawnFlashTicks
		p.resetTrail()

		if p.kind == PlayerBot {
			if p.bot == nil {
				p.bot = &BotState{}
			}
			// A zero seed is re-derived; a surviving nonzero seed is kept.
			if p.bot.seed == 0 {
				p.bot.seed = botSeed(i, s.tick)
			}
			p.bot.resetCooldowns()
		}

		s.audio.PlaySound(CueSpawn, 0.8, x/10)
	}
}

// respawnPlayer brings a dead slot back mid-round at a threat-scored point.
func (s *Simulation) respawnPlayer(i int) {
	p := &s.players[i]
	x, y := s.pickRespawnPoint(i)

	p.x, p.y = x, y
	p.vx, p.vy = 0, 0
	p.dead = false
	p.onGround = false
	p.ammo = maxAmmo
	p.meleeTimer = 0
	p.meleeWindup = 0
	p.jumpBuffer = 0
	p.coyoteTimer = 0
	p.dropTimer = 0
	p.invulnTimer = respawnInvulnTicks
	p.spawnFlash = spawnFlashTicks
	p.squashStretch = 0
	p.resetTrail()

	if p.kind == PlayerBot && p.bot != nil {
		if p.bot.seed == 0 {
			p.bot.seed = botSeed(i, s.tick)
		}
		p.bot.resetCooldowns()
	}

	s.audio.PlaySound(CueSpawn, 0.8, x/10)
}

// updatePlayer advances one slot by one tick. Dead slots only count down
// their respawn timer. The step order matters for determinism and matches
// the combat pass that follows: movement and trigger state settle here,
// hits resolve later in updateBullets/updateMeleeHits.
func (s *Simulation) updatePlayer(i int) {
	p := &s.players[i]
	if !p.active {
		return
	}

	if p.dead {
		if p.respawnTimer > 0 {
			p.respawnTimer--
			if p.respawnTimer == 0 {
				s.respawnPlayer(i)
			}
		}
		return
	}

	f := s.frames[i]
	inputX, inputY := resolveAxes(f)
	jumpHeld := f.held(ButtonA)
	jumpPressed := p.pressed(f, ButtonA)
	shootPressed := p.pressed(f, ButtonB)
	meleePressed := p.pressed(f, ButtonX)

	// --- Horizontal movement ---
	if p.onGround {
		p.vx += inputX * groundAccel
		p.vx *= groundFriction
	} else {
		p.vx += inputX * airAccel
		p.vx *= airFriction
	}
	p.vx = clamp(p.vx, -moveSpeed, moveSpeed)

	if math.Abs(inputX) > facingDeadzone {
		p.facingRight = inputX > 0
	}

	// --- Jump ---
	// A press either starts a drop through a thin floor or loads the jump
	// buffer. The buffer then fires against grounded state or the coyote
	// window, with a wall kick as the airborne fallback.
	if jumpPressed {
		if p.onGround && inputY < -fastFallThreshold && s.standingOnThin(i) {
			p.dropTimer = dropThroughTicks
			p.onGround = false
		} else {
			p.jumpBuffer = jumpBufferTicks
		}
	}

	if p.jumpBuffer > 0 {
		switch {
		case p.onGround || p.coyoteTimer > 0:
			p.vy = jumpForce
			p.onGround = false
			p.jumpBuffer = 0
			p.coyoteTimer = 0
			p.squashStretch = 1.0
			s.audio.PlaySound(CueJump, 0.6, p.x/10)
		case s.wallContact(p.x-wallProbe, p.y, p.y+playerHeight):
			p.vy = jumpForce * 0.9
			p.vx = moveSpeed * 0.8
			p.facingRight = true
			p.jumpBuffer = 0
			p.squashStretch = 1.0
			s.audio.PlaySound(CueJump, 0.6, p.x/10)
		case s.wallContact(p.x+playerWidth+wallProbe, p.y, p.y+playerHeight):
			p.vy = jumpForce * 0.9
			p.vx = -moveSpeed * 0.8
			p.facingRight = false
			p.jumpBuffer = 0
			p.squashStretch = 1.0
			s.audio.PlaySound(CueJump, 0.6, p.x/10)
		}
	}

	// Wall slide sparks while scraping down a face.
	if !p.onGround && p.vy < -0.05 {
		if s.wallContact(p.x-wallProbe, p.y, p.y+playerHeight) {
			s.fx.SpawnParticles(ParticlesWallSparks, p.x, p.y+playerHeight/2, 0xFFFFFFFF, -1)
		} else if s.wallContact(p.x+playerWidth+wallProbe, p.y, p.y+playerHeight) {
			s.fx.SpawnParticles(ParticlesWallSparks, p.x+playerWidth, p.y+playerHeight/2, 0xFFFFFFFF, 1)
		}
	}

	// Releasing jump mid-rise cuts the arc short.
	if !jumpHeld && p.vy > 0 {
		p.vy *= 0.5
	}

	// --- Gravity ---
	g := gravity
	if !p.onGround && inputY < -fastFallThreshold {
		g *= fastFallGravityMul
	}
	p.vy -= g

	// --- Shoot ---
	if shootPressed && p.ammo > 0 && p.meleeTimer == 0 && p.meleeWindup == 0 {
		s.spawnBullet(i, inputX, inputY)
		p.ammo--
		p.shootFlash = shootFlashTicks
		s.stats[i].Shots++
		s.audio.PlaySound(CueShoot, 0.8, p.x/10)
	}

	// --- Melee ---
	if meleePressed && p.meleeTimer == 0 && p.meleeWindup == 0 {
		p.meleeWindup = meleeWindupDuration
	}

	if p.meleeWindup > 0 {
		p.meleeWindup--
		if p.meleeWindup == 0 {
			// Windup complete: arm the hitbox and dash forward.
			p.meleeTimer = meleeDuration
			if p.facingRight {
				p.vx += meleeDash
			} else {
				p.vx -= meleeDash
			}
		}
	}
	if p.meleeTimer > 0 {
		p.meleeTimer--
	}

	// --- Timers ---
	if p.invulnTimer > 0 {
		p.invulnTimer--
	}
	if p.jumpBuffer > 0 {
		p.jumpBuffer--
	}
	if p.coyoteTimer > 0 {
		p.coyoteTimer--
	}
	if p.dropTimer > 0 {
		p.dropTimer--
	}
	if p.spawnFlash > 0 {
		p.spawnFlash--
	}
	if p.shootFlash > 0 {
		p.shootFlash--
	}
	p.squashStretch *= squashDecay
	if math.Abs(p.squashStretch) < 0.01 {
		p.squashStretch = 0
	}
	p.trail[p.trailIdx] = [2]float64{p.x, p.y}
	p.trailIdx = (p.trailIdx + 1) % trailCount

	// --- Integrate and collide ---
	newX := p.x + p.vx
	newY := p.y + p.vy

	wasGrounded := p.onGround
	p.onGround = false

	for j := range s.platforms {
		pl := &s.platforms[j]
		if !pl.active {
			continue
		}
		if p.dropTimer > 0 && pl.thin {
			continue
		}
		if !aabbOverlap(newX, newY, playerWidth, playerHeight, pl.x, pl.y, pl.width, pl.height) {
			continue
		}
		// Land only when falling onto the top surface within tolerance.
		if p.vy <= 0 && p.y >= pl.top()-landingTolerance {
			p.y = pl.top()
			p.vy = 0
			p.onGround = true
			if pl.moving {
				// Riders inherit the platform's motion this tick.
				newX += pl.moveSpeed
			}
		}
	}

	if !wasGrounded && p.onGround {
		s.fx.SpawnParticles(ParticlesLandingDust, p.x+playerWidth/2, p.y, 0xAAAAAAAA, 0)
		p.squashStretch = -1.0
	}

	// Commit: a grounded, non-rising player keeps the landing snap for y.
	if !p.onGround || p.vy > 0 {
		p.y = newY
	}
	p.x = newX

	// Walked off an edge: open the coyote window.
	if wasGrounded && !p.onGround && p.vy <= 0 && p.dropTimer == 0 {
		p.coyoteTimer = coyoteTicks
	}

	// --- Arena bounds ---
	left := s.arenaLeft
	right := s.arenaRight - playerWidth
	if p.x < left || p.x > right {
		p.x = clamp(p.x, left, right)
		if s.overtime {
			// Lethal wall: the point goes to whoever is closest, so a
			// stalemate still moves the score along.
			s.stats[i].WallDeaths++
			s.killPlayer(i, s.nearestLivingOther(i))
			return
		}
	}

	// --- Fall death ---
	if p.y < deathY {
		s.killPlayer(i, i)
	}
}

// standingOnThin reports whether every platform under the player's feet is
// drop-through capable. Standing on the ground slab (or a mixed edge) pins
// the player.
func (s *Simulation) standingOnThin(i int) bool {
	p := &s.players[i]
	supported := false
	for j := range s.platforms {
		pl := &s.platforms[j]
		if !pl.active {
			continue
		}
		if math.Abs(p.y-pl.top()) > 1e-6 {
			continue
		}
		if p.x+playerWidth <= pl.x || p.x >= pl.x+pl.width {
			continue
		}
		if !pl.thin {
			return false
		}
		supported = true
	}
	return supported
}

// wallContact samples a vertical line at x over [yMin, yMax] against the
// platform table. Used for wall jumps and slide sparks.
func (s *Simulation) wallContact(x, yMin, yMax float64) bool {
	for j := range s.platforms {
		pl := &s.platforms[j]
		if !pl.active {
			continue
		}
		if x >= pl.x && x <= pl.x+pl.width && yMax >= pl.y && yMin <= pl.y+pl.height {
			return true
		}
	}
	return false
}

// nearestLivingOther returns the closest living opponent to slot i, or i
// itself when nobody else is alive.
func (s *Simulation) nearestLivingOther(i int) int {
	victim := &s.players[i]
	best := i
	bestD := math.MaxFloat64
	for j := range s.players {
		q := &s.players[j]
		if j == i || !q.active || q.dead {
			continue
		}
		d := sqDist(victim.centerX(), victim.centerY(), q.centerX(), q.centerY())
		if d < bestD {
			bestD = d
			best = j
		}
	}
	return best
}
