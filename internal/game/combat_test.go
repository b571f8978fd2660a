package game

import (
	"math"
	"testing"
)

// newDuelSim parks two scripted fighters on the Grid Arena slab facing each
// other: P0 on the left, P1 on the right.
func newDuelSim() *TestSim {
	ts := NewTestSim(
		WithSeed(11),
		WithHuman(0),
		WithHuman(1),
		WithStage(0),
		WithPlaying(),
	)
	parkPlayer(ts, 0, -2, slabTop)
	ts.Sim.players[0].facingRight = true
	parkPlayer(ts, 1, 2, slabTop)
	ts.Sim.players[1].facingRight = false
	return ts
}

func firstActiveBullet(ts *TestSim) *Bullet {
	for i := range ts.Sim.bullets {
		if ts.Sim.bullets[i].active {
			return &ts.Sim.bullets[i]
		}
	}
	return nil
}

// --- Aiming ---

func TestNormalizeAim_SnapsToEightWay(t *testing.T) {
	cases := []struct {
		name           string
		inX, inY       float64
		facingRight    bool
		wantX, wantY   float64
	}{
		{"neutral falls back to facing right", 0, 0, true, 1, 0},
		{"neutral falls back to facing left", 0, 0, false, -1, 0},
		{"deadzone wiggle is neutral", 0.2, 0.2, true, 1, 0},
		{"hard left", -0.5, 0, true, -1, 0},
		{"straight up", 0, 1, false, 0, 1},
		{"up-right diagonal", 1, 1, true, invSqrt2, invSqrt2},
		{"down-left diagonal", -1, -0.4, true, -invSqrt2, -invSqrt2},
	}
	for _, tc := range cases {
		gx, gy := normalizeAim(tc.inX, tc.inY, tc.facingRight)
		if math.Abs(gx-tc.wantX) > 1e-12 || math.Abs(gy-tc.wantY) > 1e-12 {
			t.Errorf("%s: got (%.4f, %.4f), want (%.4f, %.4f)", tc.name, gx, gy, tc.wantX, tc.wantY)
		}
	}
}

func TestShoot_DiagonalKeepsUnitSpeed(t *testing.T) {
	ts := newDuelSim()
	ts.SetInput(0, InputFrame{AxisX: 1, AxisY: 1})
	ts.Press(0, ButtonB)
	ts.RunTicks(1)

	b := firstActiveBullet(ts)
	if b == nil {
		t.Fatal("no bullet spawned")
	}
	if math.Abs(math.Hypot(b.vx, b.vy)-bulletSpeed) > 1e-9 {
		t.Fatalf("diagonal shot speed %.4f, want %.4f", math.Hypot(b.vx, b.vy), bulletSpeed)
	}
	if b.vx <= 0 || b.vy <= 0 {
		t.Fatalf("up-right shot should fly up-right: (%.3f, %.3f)", b.vx, b.vy)
	}
}

// --- Bullet lifecycle ---

func TestBullet_LeavesTheFieldAndExpires(t *testing.T) {
	ts := newDuelSim()
	parkPlayer(ts, 0, 8, slabTop)
	parkPlayer(ts, 1, -9, slabTop) // out of the line of fire
	ts.Sim.players[0].facingRight = true

	ts.Press(0, ButtonB)
	ts.RunTicks(8)
	if got := ts.ActiveBullets(); got != 1 {
		t.Fatalf("bullet should still be flying at the edge: %d active", got)
	}
	ts.RunTicks(4)
	if got := ts.ActiveBullets(); got != 0 {
		t.Fatalf("bullet should be culled past the field bound: %d active", got)
	}
}

func TestBullet_PlatformStopsIt(t *testing.T) {
	ts := newDuelSim()
	parkPlayer(ts, 0, -5, 1.4) // on the low-left ledge
	parkPlayer(ts, 1, 9, slabTop)

	ts.SetInput(0, InputFrame{AxisY: -1})
	ts.Press(0, ButtonB)
	ts.RunTicks(3)
	if got := ts.ActiveBullets(); got != 0 {
		t.Fatalf("downward shot should bury itself in the ledge: %d active", got)
	}
	if ts.Sim.players[1].dead {
		t.Fatal("nobody downrange should have been hit")
	}
}

func TestBullet_FullPoolSwallowsTheShot(t *testing.T) {
	ts := newDuelSim()
	for i := range ts.Sim.bullets {
		b := &ts.Sim.bullets[i]
		b.active = true
		b.owner = 0
		b.x, b.y = 0, 8
		b.vx, b.vy = 0, 0
		b.lifetime = bulletLifetime
	}

	ts.Press(0, ButtonB)
	ts.RunTicks(1)

	if got := ts.ActiveBullets(); got != maxBullets {
		t.Fatalf("pool should stay full: %d active", got)
	}
	p := &ts.Sim.players[0]
	if p.ammo != maxAmmo-1 {
		t.Fatalf("the swallowed shot still spends ammo: %d", p.ammo)
	}
	if ts.Sim.stats[0].Shots != 1 {
		t.Fatalf("the swallowed shot still counts as fired: %d", ts.Sim.stats[0].Shots)
	}
}

// --- Hits and kills ---

func TestBullet_KillCreditsTheShooter(t *testing.T) {
	ts := newDuelSim()
	ts.Press(0, ButtonB)

	died := ts.RunUntil(func(ts *TestSim) bool { return ts.Sim.players[1].dead }, 20)
	if died < 0 {
		t.Fatal("the shot never connected")
	}
	if ts.Sim.stats[0].Kills != 1 || ts.Sim.stats[1].Deaths != 1 {
		t.Fatalf("credit wrong: kills=%d deaths=%d", ts.Sim.stats[0].Kills, ts.Sim.stats[1].Deaths)
	}
	if !ts.SimLog.HasEntry("combat", "kill", "") {
		t.Fatal("kill should be logged")
	}
	if ts.Sim.roundEndTimer == 0 {
		t.Fatal("a kill should start the round-end beat")
	}
}

func TestDeflect_ReturnsTheBulletToSender(t *testing.T) {
	ts := newDuelSim()
	ts.Press(0, ButtonB)
	ts.Press(1, ButtonX)
	ts.RunTicks(4)

	b := firstActiveBullet(ts)
	if b == nil {
		t.Fatal("bullet vanished before the return leg")
	}
	if b.owner != 1 || b.vx >= 0 {
		t.Fatalf("deflection should re-own and reverse the bullet: owner=%d vx=%.3f", b.owner, b.vx)
	}
	if ts.Sim.stats[1].Deflections != 1 {
		t.Fatalf("deflection not recorded: %d", ts.Sim.stats[1].Deflections)
	}

	died := ts.RunUntil(func(ts *TestSim) bool { return ts.Sim.players[0].dead }, 10)
	if died < 0 {
		t.Fatal("the returned bullet never came home")
	}
	if ts.Sim.stats[1].Kills != 1 {
		t.Fatalf("the deflector should get the point: %d", ts.Sim.stats[1].Kills)
	}
	if !ts.SimLog.HasEntry("combat", "deflect", "") {
		t.Fatal("deflect should be logged")
	}
}

func TestDeflect_WindupIsNotASwing(t *testing.T) {
	ts := newDuelSim()
	ts.Press(0, ButtonB)
	ts.RunTicks(7)
	ts.Press(1, ButtonX) // far too late: still winding up on arrival
	ts.RunTicks(2)

	if !ts.Sim.players[1].dead {
		t.Fatal("a bullet arriving mid-windup should connect")
	}
	if ts.Sim.stats[1].Deflections != 0 {
		t.Fatalf("no deflection should be recorded: %d", ts.Sim.stats[1].Deflections)
	}
	if ts.Sim.stats[0].Kills != 1 {
		t.Fatalf("shooter should get the point: %d", ts.Sim.stats[0].Kills)
	}
}

func TestMelee_KillInRange(t *testing.T) {
	ts := newDuelSim()
	parkPlayer(ts, 1, -0.5, slabTop)

	ts.Press(0, ButtonX)
	ts.RunTicks(4)

	if !ts.Sim.players[1].dead {
		t.Fatal("the swing should have connected")
	}
	st := ts.Sim.stats[0]
	if st.Kills != 1 || st.MeleeKills != 1 {
		t.Fatalf("melee kill should count both ways: kills=%d melee=%d", st.Kills, st.MeleeKills)
	}
	if !ts.SimLog.HasEntry("combat", "melee_kill", "") {
		t.Fatal("melee kill should be logged")
	}
}

func TestMelee_OutOfRangeWhiffs(t *testing.T) {
	ts := newDuelSim()
	parkPlayer(ts, 1, 3.5, slabTop) // just past reach plus the arming dash

	ts.Press(0, ButtonX)
	ts.RunTicks(meleeWindupDuration + meleeDuration + 1)

	if ts.Sim.players[1].dead {
		t.Fatal("target out of reach should survive the swing")
	}
	if ts.Sim.stats[0].Kills != 0 {
		t.Fatalf("whiff should score nothing: %d", ts.Sim.stats[0].Kills)
	}
}

// --- Spawn protection ---

func TestInvuln_BulletPassesThrough(t *testing.T) {
	ts := newDuelSim()
	ts.Sim.players[1].invulnTimer = 120

	ts.Press(0, ButtonB)
	ts.RunTicks(12)

	if ts.Sim.players[1].dead {
		t.Fatal("spawn protection should stop the bullet")
	}
	b := firstActiveBullet(ts)
	if b == nil {
		t.Fatal("the bullet should fly on past a protected target")
	}
	if b.x <= ts.Sim.players[1].x+playerWidth {
		t.Fatalf("bullet should be beyond the target by now: x=%.2f", b.x)
	}
}

func TestInvuln_MeleeWhiffs(t *testing.T) {
	ts := newDuelSim()
	parkPlayer(ts, 1, -0.5, slabTop)
	ts.Sim.players[1].invulnTimer = 120

	ts.Press(0, ButtonX)
	ts.RunTicks(6)

	if ts.Sim.players[1].dead {
		t.Fatal("spawn protection should stop the sword")
	}
	if ts.Sim.stats[0].MeleeKills != 0 {
		t.Fatalf("no melee kill should be recorded: %d", ts.Sim.stats[0].MeleeKills)
	}
}

// --- Kill bookkeeping ---

func TestKillPlayer_SelfKillAwardsNoPoint(t *testing.T) {
	ts := newDuelSim()
	ts.Sim.killPlayer(0, 0)

	if ts.Sim.stats[0].Deaths != 1 {
		t.Fatalf("self kill should count the death: %d", ts.Sim.stats[0].Deaths)
	}
	if ts.Sim.stats[0].Kills != 0 {
		t.Fatalf("self kill must not score: %d", ts.Sim.stats[0].Kills)
	}
}

func TestKillPlayer_SecondHitSameTickIsIgnored(t *testing.T) {
	ts := newDuelSim()
	ts.Sim.killPlayer(0, 1)
	ts.Sim.killPlayer(0, 1) // double hit on the same life

	if ts.Sim.stats[0].Deaths != 1 {
		t.Fatalf("a life can only end once: deaths=%d", ts.Sim.stats[0].Deaths)
	}
	if ts.Sim.stats[1].Kills != 1 {
		t.Fatalf("only the first hit scores: kills=%d", ts.Sim.stats[1].Kills)
	}
}
