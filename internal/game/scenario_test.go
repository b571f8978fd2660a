package game

import "testing"

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block and the latest reporter
// snapshot.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.SimLog.Summary(ts.Sim))
	if ts.Reporter != nil {
		t.Log(ts.Reporter.FormatLatest())
		if wr := ts.Reporter.WindowSummary(); wr != nil {
			t.Log(wr.Format())
		}
	}
}

// --- Scenario: First Blood ---

func TestScenario_FirstBlood(t *testing.T) {
	t.Log("=== TestScenario_FirstBlood ===")
	t.Log("--- Setup: two fighters on Grid Arena, P0 opens fire immediately ---")

	ts := NewTestSim(
		WithSeed(42),
		WithHuman(0),
		WithHuman(1),
		WithStage(0),
		WithPlaying(),
	)
	parkPlayer(ts, 0, -2, slabTop)
	ts.Sim.players[0].facingRight = true
	parkPlayer(ts, 1, 2, slabTop)

	ts.Press(0, ButtonB)
	died := ts.RunUntil(func(ts *TestSim) bool { return ts.Sim.players[1].dead }, 30)
	if died < 0 {
		dumpLog(t, ts)
		t.Fatal("the opening shot never landed")
	}
	t.Logf("PASS: first blood at tick %d", ts.CurrentTick())

	// The round beat plays out and the next round begins.
	next := ts.RunUntil(func(ts *TestSim) bool { return ts.Sim.roundNumber == 2 }, roundEndTicks+5)
	if next < 0 {
		dumpLog(t, ts)
		t.Fatal("the kill never rolled into round two")
	}
	if ts.Sim.phase != PhaseCountdown {
		t.Errorf("round two should open on a countdown, got %s", ts.Sim.phase)
	}
	if ts.Sim.players[1].dead || ts.Sim.players[1].ammo != maxAmmo {
		t.Error("the loser should come back with a full magazine")
	}
	if !ts.SimLog.HasEntry("combat", "shot", "") ||
		!ts.SimLog.HasEntry("combat", "kill", "") ||
		!ts.SimLog.HasEntry("player", "death", "") {
		t.Error("the exchange should be fully logged")
	}

	dumpLog(t, ts)
	dumpSummary(t, ts)
}

// --- Scenario: Four Bot Brawl ---

func TestScenario_FourBotBrawl(t *testing.T) {
	t.Log("=== TestScenario_FourBotBrawl ===")
	t.Log("--- Setup: four hard bots, first to 3 kills, 45s rounds ---")

	cfg := DefaultConfig()
	cfg.KillsToWin = 3
	cfg.BotDifficulty = 2
	ts := NewTestSim(WithSeed(1000), WithConfig(cfg))
	ts.Sim.StartBotMatch()

	end := ts.RunUntil(phaseIs(PhaseMatchEnd), 150000)
	if end < 0 {
		dumpSummary(t, ts)
		t.Fatalf("no result after the tick budget; phase=%s round=%d", ts.Sim.phase, ts.Sim.roundNumber)
	}
	t.Logf("PASS: match settled at tick %d over %d rounds", ts.CurrentTick(), ts.Sim.roundNumber)

	outcome := DetermineMatchOutcome(ts.Sim)
	if outcome.Outcome != OutcomeWinByKills && outcome.Outcome != OutcomeOvertimeWin {
		t.Errorf("a finished brawl should resolve by kills or overtime, got %s (%s)",
			outcome.Outcome, outcome.Description)
	}
	if outcome.Winner != ts.Sim.winner {
		t.Errorf("outcome winner %d disagrees with the sim %d", outcome.Winner, ts.Sim.winner)
	}

	grades := ts.PlayerGrades()
	if len(grades) != MaxPlayers {
		t.Fatalf("every participant gets graded: %d", len(grades))
	}
	for i := 1; i < len(grades); i++ {
		if grades[i].Score > grades[i-1].Score {
			t.Errorf("grades out of order at %d: %.1f > %.1f", i, grades[i].Score, grades[i-1].Score)
		}
	}

	t.Log(FormatGrades(grades))
	dumpSummary(t, ts)
}

// --- Scenario: Overtime Wall Crush ---

func TestScenario_OvertimeWallCrush(t *testing.T) {
	t.Log("=== TestScenario_OvertimeWallCrush ===")
	t.Log("--- Setup: camper hugging the right edge, clock about to expire ---")

	ts := NewTestSim(
		WithSeed(17),
		WithHuman(0),
		WithHuman(1),
		WithStage(0),
		WithPlaying(),
	)
	parkPlayer(ts, 0, -3, slabTop)
	parkPlayer(ts, 1, 8, slabTop)
	ts.Sim.roundTimer = 10

	crushed := ts.RunUntil(func(ts *TestSim) bool {
		return ts.Sim.stats[1].WallDeaths == 1
	}, 800)
	if crushed < 0 {
		dumpLog(t, ts)
		t.Fatal("the walls never caught the camper")
	}
	t.Logf("PASS: wall crush at tick %d, arena [%.2f, %.2f]",
		ts.CurrentTick(), ts.Sim.arenaLeft, ts.Sim.arenaRight)

	if !ts.SimLog.HasEntry("match", "overtime", "") {
		t.Error("overtime should be on the record")
	}
	if !ts.SimLog.HasEntry("combat", "wall_death", "") {
		t.Error("the crush should be on the record")
	}
	if ts.Sim.stats[0].Kills != 1 {
		t.Errorf("the survivor should take the point, got %d", ts.Sim.stats[0].Kills)
	}

	dumpLog(t, ts)
	dumpSummary(t, ts)
}

// --- Scenario: Attract Mode Demo ---

func TestScenario_AttractModeDemo(t *testing.T) {
	t.Log("=== TestScenario_AttractModeDemo ===")
	t.Log("--- Setup: nobody touches the title screen; the cabinet plays itself ---")

	ts := NewTestSim(WithSeed(4242))

	started := ts.RunUntil(func(ts *TestSim) bool { return ts.Sim.demo }, attractIdle+5)
	if started < 0 {
		t.Fatal("the idle title never rolled the demo")
	}
	t.Logf("PASS: demo rolled at tick %d", ts.CurrentTick())

	// Left alone, the demo plays a full match and retires to the title.
	home := ts.RunUntil(phaseIs(PhaseTitle), 200000)
	if home < 0 {
		dumpSummary(t, ts)
		t.Fatalf("the demo never came home; phase=%s round=%d", ts.Sim.phase, ts.Sim.roundNumber)
	}
	t.Logf("PASS: demo retired at tick %d", ts.CurrentTick())

	if !ts.SimLog.HasEntry("match", "winner", "") {
		t.Error("the demo match should have produced a winner along the way")
	}
	outcome := DetermineMatchOutcome(ts.Sim)
	if outcome.Outcome != OutcomeDemoTimeout {
		t.Errorf("want %s, got %s (%s)", OutcomeDemoTimeout, outcome.Outcome, outcome.Description)
	}
	if outcome.Description != "attract_demo_expired_to_title" {
		t.Errorf("unexpected description %q", outcome.Description)
	}

	dumpSummary(t, ts)
}
