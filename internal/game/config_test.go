package game

import "testing"

func TestConfig_Defaults(t *testing.T) {
	c := DefaultConfig()
	if c.StageSelect != PolicyRotate || c.KillsToWin != 5 || c.RoundTimeSeconds != 45 {
		t.Errorf("unexpected rule defaults: %+v", c)
	}
	if !c.FillBots || c.BotDifficulty != 1 {
		t.Errorf("bots should default to on at normal difficulty: %+v", c)
	}

	o := DefaultOptions()
	if o.MusicVolume != 0.6 || o.SfxVolume != 0.85 || !o.ScreenShake || !o.ScreenFlash {
		t.Errorf("unexpected presentation defaults: %+v", o)
	}
}

func TestConfig_StagePolicyNames(t *testing.T) {
	cases := []struct {
		p    StagePolicy
		want string
	}{
		{PolicyFixedGrid, "grid_arena"},
		{PolicyFixedScatter, "scatter_field"},
		{PolicyFixedRing, "ring_void"},
		{PolicyRandom, "random"},
		{PolicyRotate, "rotate"},
		{StagePolicy(9), "unknown"},
	}
	for _, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Errorf("StagePolicy(%d).String() = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestConfig_CycleStagePolicyWraps(t *testing.T) {
	c := DefaultConfig() // starts at rotate, the last value
	c.cycleSetting(0, 1)
	if c.StageSelect != PolicyFixedGrid {
		t.Fatalf("right from rotate should wrap to grid, got %s", c.StageSelect)
	}
	c.cycleSetting(0, -1)
	if c.StageSelect != PolicyRotate {
		t.Fatalf("left from grid should wrap back to rotate, got %s", c.StageSelect)
	}
}

func TestConfig_CycleKillTargetAndClock(t *testing.T) {
	c := DefaultConfig()

	c.cycleSetting(1, 1) // 5 -> 10
	if c.KillsToWin != 10 {
		t.Fatalf("kills 5 -> right = %d, want 10", c.KillsToWin)
	}
	c.cycleSetting(1, 1) // wraps to 1
	if c.KillsToWin != 1 {
		t.Fatalf("kills 10 -> right should wrap to 1, got %d", c.KillsToWin)
	}
	c.cycleSetting(1, -1)
	if c.KillsToWin != 10 {
		t.Fatalf("kills 1 -> left should wrap to 10, got %d", c.KillsToWin)
	}

	c.cycleSetting(2, 1) // 45 -> 60
	c.cycleSetting(2, 1) // 60 -> 90
	c.cycleSetting(2, 1) // 90 -> 0 (clock off)
	if c.RoundTimeSeconds != 0 {
		t.Fatalf("clock should step to off, got %d", c.RoundTimeSeconds)
	}
	c.cycleSetting(2, 1)
	if c.RoundTimeSeconds != 30 {
		t.Fatalf("clock off -> right should wrap to 30, got %d", c.RoundTimeSeconds)
	}
}

func TestConfig_CycleBotRows(t *testing.T) {
	c := DefaultConfig()
	c.cycleSetting(3, 1)
	if c.FillBots {
		t.Fatal("either direction should toggle bot fill off")
	}
	c.cycleSetting(3, -1)
	if !c.FillBots {
		t.Fatal("and back on")
	}

	c.cycleSetting(4, 1) // normal -> hard
	if c.BotDifficulty != 2 {
		t.Fatalf("difficulty = %d, want 2", c.BotDifficulty)
	}
	c.cycleSetting(4, 1) // hard wraps to easy
	if c.BotDifficulty != 0 {
		t.Fatalf("difficulty should wrap to easy, got %d", c.BotDifficulty)
	}
	c.cycleSetting(4, -1) // easy wraps back to hard
	if c.BotDifficulty != 2 {
		t.Fatalf("difficulty should wrap back to hard, got %d", c.BotDifficulty)
	}
}

func TestConfig_OffListValueRestartsTheCycle(t *testing.T) {
	c := DefaultConfig()
	c.KillsToWin = 7 // only reachable by a direct write
	c.cycleSetting(1, 1)
	if c.KillsToWin != 1 {
		t.Fatalf("an off-list value should restart at the first step, got %d", c.KillsToWin)
	}
}

func TestConfig_ClampHelpers(t *testing.T) {
	if got := clamp01(-0.2); got != 0 {
		t.Errorf("clamp01(-0.2) = %v", got)
	}
	if got := clamp01(1.4); got != 1 {
		t.Errorf("clamp01(1.4) = %v", got)
	}
	if got := clamp01(0.5); got != 0.5 {
		t.Errorf("clamp01(0.5) = %v", got)
	}
	if got := clamp(5, -1, 1); got != 1 {
		t.Errorf("clamp(5,-1,1) = %v", got)
	}
	if got := clamp(-5, -1, 1); got != -1 {
		t.Errorf("clamp(-5,-1,1) = %v", got)
	}
}
