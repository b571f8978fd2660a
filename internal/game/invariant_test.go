package game

import "testing"

// --- Invariant helpers ---

// checkAmmoBounds verifies no active slot's magazine leaves [0, maxAmmo].
func checkAmmoBounds(t *testing.T, ts *TestSim) {
	t.Helper()
	for i := range ts.Sim.players {
		p := &ts.Sim.players[i]
		if !p.active {
			continue
		}
		if p.ammo < 0 || p.ammo > maxAmmo {
			t.Errorf("P%d ammo out of bounds: %d (T=%d)", i, p.ammo, ts.CurrentTick())
		}
	}
}

// checkMeleeStatesExclusive verifies windup and the live hitbox never
// overlap on any slot.
func checkMeleeStatesExclusive(t *testing.T, ts *TestSim) {
	t.Helper()
	for i := range ts.Sim.players {
		p := &ts.Sim.players[i]
		if !p.active {
			continue
		}
		if p.meleeWindup > 0 && p.meleeTimer > 0 {
			t.Errorf("P%d winding up and swinging at once: windup=%d timer=%d (T=%d)",
				i, p.meleeWindup, p.meleeTimer, ts.CurrentTick())
		}
		if p.meleeWindup < 0 || p.meleeTimer < 0 {
			t.Errorf("P%d melee timer underflow: windup=%d timer=%d", i, p.meleeWindup, p.meleeTimer)
		}
	}
}

// checkDeadSlotsFrozen verifies dead fighters hold still until they respawn.
func checkDeadSlotsFrozen(t *testing.T, ts *TestSim) {
	t.Helper()
	for i := range ts.Sim.players {
		p := &ts.Sim.players[i]
		if !p.active || !p.dead {
			continue
		}
		if p.vx != 0 || p.vy != 0 {
			t.Errorf("P%d is dead but still moving: v=(%.3f,%.3f) (T=%d)",
				i, p.vx, p.vy, ts.CurrentTick())
		}
		if p.meleeTimer > 0 || p.meleeWindup > 0 {
			t.Errorf("P%d is dead but mid-swing (T=%d)", i, ts.CurrentTick())
		}
	}
}

// checkBulletsSane verifies every live bullet has a valid owner, a positive
// lifetime, and a position inside the cull bounds plus one step of travel.
func checkBulletsSane(t *testing.T, ts *TestSim) {
	t.Helper()
	for j := range ts.Sim.bullets {
		b := &ts.Sim.bullets[j]
		if !b.active {
			continue
		}
		if b.owner < 0 || b.owner >= MaxPlayers {
			t.Errorf("bullet %d has owner %d (T=%d)", j, b.owner, ts.CurrentTick())
		}
		if b.lifetime <= 0 || b.lifetime > bulletLifetime {
			t.Errorf("bullet %d lifetime out of range: %d (T=%d)", j, b.lifetime, ts.CurrentTick())
		}
		if b.x < -bulletBoundX-bulletSpeed || b.x > bulletBoundX+bulletSpeed ||
			b.y < -bulletBoundY-bulletSpeed || b.y > bulletBoundY+bulletSpeed {
			t.Errorf("bullet %d escaped the field: (%.2f,%.2f) (T=%d)", j, b.x, b.y, ts.CurrentTick())
		}
	}
}

// checkArenaBounds verifies living fighters stay between the walls and
// above the kill plane.
func checkArenaBounds(t *testing.T, ts *TestSim) {
	t.Helper()
	s := ts.Sim
	if s.arenaLeft >= s.arenaRight {
		t.Errorf("arena bounds crossed: [%.3f, %.3f] (T=%d)", s.arenaLeft, s.arenaRight, ts.CurrentTick())
	}
	if s.arenaRight-s.arenaLeft < minArenaWidth-1e-9 {
		t.Errorf("arena narrower than the floor width: %.4f (T=%d)",
			s.arenaRight-s.arenaLeft, ts.CurrentTick())
	}
	for i := range s.players {
		p := &s.players[i]
		if !p.active || p.dead {
			continue
		}
		if p.x < s.arenaLeft-1e-9 || p.x > s.arenaRight-playerWidth+1e-9 {
			t.Errorf("P%d outside the walls: x=%.3f bounds [%.3f, %.3f] (T=%d)",
				i, p.x, s.arenaLeft, s.arenaRight, ts.CurrentTick())
		}
		if p.y < deathY {
			t.Errorf("P%d below the kill plane but alive: y=%.3f (T=%d)", i, p.y, ts.CurrentTick())
		}
	}
}

// checkWinnerValid verifies the winner slot, once set, names a participant.
func checkWinnerValid(t *testing.T, ts *TestSim) {
	t.Helper()
	s := ts.Sim
	if s.winner < 0 {
		return
	}
	if s.winner >= MaxPlayers || !s.players[s.winner].active {
		t.Errorf("winner %d is not a participant (T=%d)", s.winner, ts.CurrentTick())
	}
}

func checkAll(t *testing.T, ts *TestSim) {
	t.Helper()
	checkAmmoBounds(t, ts)
	checkMeleeStatesExclusive(t, ts)
	checkDeadSlotsFrozen(t, ts)
	checkBulletsSane(t, ts)
	checkArenaBounds(t, ts)
	checkWinnerValid(t, ts)
}

// --- Invariant test scenarios ---

// scriptedFrame derives a busy but deterministic pad pattern from the tick.
func scriptedFrame(tick int) InputFrame {
	var f InputFrame
	if (tick/120)%2 == 0 {
		f.AxisX = 1
	} else {
		f.AxisX = -1
	}
	if tick%45 == 0 {
		f.Buttons |= ButtonA
	}
	if tick%70 == 0 {
		f.Buttons |= ButtonB
	}
	if tick%130 == 0 {
		f.Buttons |= ButtonX
	}
	return f
}

func TestInvariant_DeterministicReplay(t *testing.T) {
	build := func() *TestSim {
		return NewTestSim(
			WithSeed(1234),
			WithHuman(0),
			WithBot(1),
			WithBot(2),
			WithBot(3),
			WithStage(0),
			WithPlaying(),
		)
	}
	a := build()
	b := build()

	for tick := 1; tick <= 3000; tick++ {
		f := scriptedFrame(tick)
		a.SetInput(0, f)
		b.SetInput(0, f)
		a.RunTicks(1)
		b.RunTicks(1)

		if tick%100 != 0 {
			continue
		}
		sa := a.Snapshot().String()
		sb := b.Snapshot().String()
		if sa != sb {
			t.Fatalf("replays diverged at tick %d:\n  a: %s\n  b: %s", tick, sa, sb)
		}
	}
}

func TestInvariant_BotMatchStateStaysSane(t *testing.T) {
	ts := NewTestSim(WithSeed(77))
	ts.Sim.StartBotMatch()

	for tick := 0; tick < 6000; tick += 50 {
		ts.RunTicks(50)
		checkAll(t, ts)
		if t.Failed() {
			t.Fatalf("state went bad by tick %d (phase %s)", ts.CurrentTick(), ts.Sim.phase)
		}
	}
}

func TestInvariant_MeleeSpamStaysExclusive(t *testing.T) {
	ts := NewTestSim(WithSeed(5), WithHuman(0), WithHuman(1), WithStage(0), WithPlaying())
	parkPlayer(ts, 0, -2, slabTop)
	parkPlayer(ts, 1, 8, slabTop)

	for i := 0; i < 100; i++ {
		ts.Press(0, ButtonX)
		ts.RunTicks(2)
		checkMeleeStatesExclusive(t, ts)
		checkAmmoBounds(t, ts)
	}
}

func TestInvariant_BulletsStayInTheField(t *testing.T) {
	ts := NewTestSim(WithSeed(8), WithHuman(0), WithHuman(1), WithStage(1), WithPlaying())
	s := ts.Sim

	aims := [][2]float64{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for i := 0; i < 600; i++ {
		if i%20 == 0 {
			// Keep both magazines topped up so fire never goes quiet.
			s.players[0].ammo = maxAmmo
			s.players[1].ammo = maxAmmo
			aim := aims[(i/20)%len(aims)]
			ts.SetInput(0, InputFrame{AxisX: aim[0], AxisY: aim[1]})
			ts.SetInput(1, InputFrame{AxisX: -aim[0], AxisY: -aim[1]})
			ts.Press(0, ButtonB)
			ts.Press(1, ButtonB)
		}
		ts.RunTicks(1)
		if i%25 == 0 {
			checkBulletsSane(t, ts)
		}
	}
}

func TestInvariant_OvertimeWallsNeverCross(t *testing.T) {
	ts := NewTestSim(WithSeed(6), WithHuman(0), WithHuman(1), WithStage(0), WithPlaying())
	parkPlayer(ts, 0, -1.0, slabTop)
	parkPlayer(ts, 1, 0.4, slabTop)
	ts.Sim.roundTimer = 5

	for i := 0; i < 3200; i += 100 {
		ts.RunTicks(100)
		checkArenaBounds(t, ts)
		if t.Failed() {
			t.Fatalf("bounds broke by tick %d: [%.3f, %.3f]",
				ts.CurrentTick(), ts.Sim.arenaLeft, ts.Sim.arenaRight)
		}
	}
}
