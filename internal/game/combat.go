package game

import "math"

// --- Combat constants ---

const (
	maxBullets     = 32
	bulletSpeed    = 0.4
	bulletLifetime = 120 // 2s
	bulletBoundX   = 12.0
	bulletBoundY   = 10.0

	deflectRadius = meleeRange // around the defender's centre

	invSqrt2 = 1 / math.Sqrt2
)

// Bullet is one slot of the fixed projectile pool. Bullets are points for
// collision purposes.
type Bullet struct {
	x, y     float64
	vx, vy   float64
	owner    int
	lifetime int
	active   bool
}

// normalizeAim snaps the analog aim to one of eight directions, with the
// facing direction as the neutral-stick fallback. Diagonals keep unit speed.
func normalizeAim(inputX, inputY float64, facingRight bool) (float64, float64) {
	ax, ay := 0.0, 0.0
	if inputX > 0.3 {
		ax = 1
	} else if inputX < -0.3 {
		ax = -1
	}
	if inputY > 0.3 {
		ay = 1
	} else if inputY < -0.3 {
		ay = -1
	}
	if ax == 0 && ay == 0 {
		if facingRight {
			ax = 1
		} else {
			ax = -1
		}
	}
	if ax != 0 && ay != 0 {
		ax *= invSqrt2
		ay *= invSqrt2
	}
	return ax, ay
}

// spawnBullet fires from slot i's centre along the snapped aim. A full pool
// swallows the shot; ammo was already spent by the caller.
func (s *Simulation) spawnBullet(i int, inputX, inputY float64) {
	p := &s.players[i]
	dirX, dirY := normalizeAim(inputX, inputY, p.facingRight)
	for j := range s.bullets {
		b := &s.bullets[j]
		if b.active {
			continue
		}
		b.x = p.centerX()
		b.y = p.centerY()
		b.vx = dirX * bulletSpeed
		b.vy = dirY * bulletSpeed
		b.owner = i
		b.lifetime = bulletLifetime
		b.active = true
		s.fx.SpawnLight(b.x, b.y, 0xFFFF00FF, 1.5, 0.7) // muzzle flash
		return
	}
}

// updateBullets advances every live bullet one tick: integrate, expire,
// bound-check, collide with platforms, then with players in slot order.
// A deflected bullet changes owner and keeps flying within the same pass,
// so it can still connect with a later slot this tick.
func (s *Simulation) updateBullets() {
	for j := range s.bullets {
		b := &s.bullets[j]
		if !b.active {
			continue
		}

		b.x += b.vx
		b.y += b.vy

		if b.lifetime%3 == 0 {
			s.fx.SpawnParticles(ParticlesBulletTrail, b.x, b.y, playerColors[b.owner], 0)
		}

		b.lifetime--
		if b.lifetime <= 0 {
			b.active = false
			continue
		}

		if b.x < -bulletBoundX || b.x > bulletBoundX || b.y < -bulletBoundY || b.y > bulletBoundY {
			b.active = false
			continue
		}

		hitPlatform := false
		for k := range s.platforms {
			pl := &s.platforms[k]
			if !pl.active {
				continue
			}
			if pointInAABB(b.x, b.y, pl.x, pl.y, pl.width, pl.height) {
				s.fx.SpawnParticles(ParticlesWallSparks, b.x, b.y, playerColors[b.owner], -sign(b.vx))
				b.active = false
				hitPlatform = true
				break
			}
		}
		if hitPlatform {
			continue
		}

		for v := range s.players {
			if v == b.owner {
				continue
			}
			q := &s.players[v]
			if !q.active || q.dead {
				continue
			}

			if q.meleeTimer > 0 {
				// Measured from the swing's centre, not the body.
				hx := q.centerX() + meleeRange/2
				if !q.facingRight {
					hx = q.centerX() - meleeRange/2
				}
				dx := b.x - hx
				dy := b.y - q.centerY()
				if dx*dx+dy*dy < deflectRadius*deflectRadius {
					b.vx = -b.vx
					b.vy = -b.vy
					b.owner = v
					b.lifetime = bulletLifetime
					s.stats[v].Deflections++
					s.audio.PlaySound(CueDeflect, 0.9, b.x/10)
					s.fx.Shake(0.3)
					s.fx.SpawnLight(b.x, b.y, 0x00FFFFFF, 2.0, 0.75)
					s.fx.DeflectPopup(v)
					s.applyHitFreeze(3)
					continue
				}
			}

			if pointInAABB(b.x, b.y, q.x, q.y, playerWidth, playerHeight) {
				if q.invulnTimer > 0 {
					continue
				}
				s.audio.PlaySound(CueHit, 1.0, b.x/10)
				s.fx.Shake(0.6)
				s.fx.ImpactFlash()
				s.fx.CameraZoom()
				s.fx.SpawnLight(b.x, b.y, playerColors[v], 3.0, 0.8)
				s.applyHitFreeze(5)
				s.killPlayer(v, b.owner)
				b.active = false
				break
			}
		}
	}
}

// updateMeleeHits sweeps every active melee hitbox over the other players.
// One swing can take out several targets.
func (s *Simulation) updateMeleeHits() {
	for i := range s.players {
		p := &s.players[i]
		if !p.active || p.dead || p.meleeTimer <= 0 {
			continue
		}

		var hx0, hx1 float64
		if p.facingRight {
			hx0 = p.x + playerWidth
			hx1 = p.x + playerWidth + meleeRange
		} else {
			hx0 = p.x - meleeRange
			hx1 = p.x
		}

		for v := range s.players {
			if v == i {
				continue
			}
			q := &s.players[v]
			if !q.active || q.dead || q.invulnTimer > 0 {
				continue
			}
			if q.x+playerWidth > hx0 && q.x < hx1 && q.y+playerHeight > p.y && q.y < p.y+playerHeight {
				s.fx.Shake(0.5)
				s.fx.ImpactFlash()
				s.fx.CameraZoom()
				s.fx.SpawnLight(q.centerX(), q.centerY(), playerColors[v], 3.0, 0.8)
				s.applyHitFreeze(6)
				s.killPlayer(v, i)
				s.stats[i].MeleeKills++
			}
		}
	}
}

// killPlayer is the single path by which a fighter dies. Idempotent per
// life: a slot already dead (or inactive) is left alone, so simultaneous
// hits in one tick credit only the first killer. A self kill (falls, the
// closing walls with nobody else alive) counts the death but no kill.
func (s *Simulation) killPlayer(victim, killer int) {
	p := &s.players[victim]
	if !p.active || p.dead {
		return
	}

	p.dead = true
	p.respawnTimer = respawnDelay
	p.meleeTimer = 0
	p.meleeWindup = 0
	p.vx, p.vy = 0, 0
	s.stats[victim].Deaths++

	s.audio.PlaySound(CueDeath, 1.0, p.x/10)
	s.fx.Shake(0.8)
	s.fx.SpawnParticles(ParticlesDeath, p.centerX(), p.centerY(), playerColors[victim], 0)

	if killer != victim && s.players[killer].active {
		k := &s.players[killer]
		k.kills++
		s.stats[killer].Kills++
		if s.phase == PhasePlaying && s.config.KillsToWin > 0 && k.kills >= s.config.KillsToWin {
			s.beginFinalKo(killer)
			return
		}
	}
	if s.phase == PhasePlaying {
		s.roundEndTimer = roundEndTicks
	}
}

// activeBulletCount reports how many pool slots are in flight.
func (s *Simulation) activeBulletCount() int {
	n := 0
	for i := range s.bullets {
		if s.bullets[i].active {
			n++
		}
	}
	return n
}

func pointInAABB(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}

func aabbOverlap(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}
