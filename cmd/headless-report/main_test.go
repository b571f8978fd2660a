package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/Arc-Arena/internal/game"
)

func TestFirstTickFindsEarliestMatch(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 10, Category: "combat", Key: "shot", Value: "fired"},
		{Tick: 25, Category: "player", Key: "death", Value: "down at (1.0,2.0)"},
		{Tick: 40, Category: "player", Key: "death", Value: "down at (3.0,2.0)"},
		{Tick: 55, Category: "match", Key: "phase_change", Value: "playing → final_ko"},
	}

	if got := firstTick(entries, "player", "death", ""); got != 25 {
		t.Fatalf("expected first death at tick 25, got %d", got)
	}
	if got := firstTick(entries, "match", "phase_change", "→ final_ko"); got != 55 {
		t.Fatalf("expected final_ko transition at tick 55, got %d", got)
	}
	if got := firstTick(entries, "combat", "deflect", ""); got != -1 {
		t.Fatalf("expected -1 for absent event, got %d", got)
	}
}

func TestDetectSweep_FlawlessWinner(t *testing.T) {
	rs := runStats{
		outcome: game.MatchOutcomeReason{
			Winner:        2,
			WinnerKills:   5,
			RunnerUpKills: 3,
		},
		deathsByLabel: map[string]int{"P0": 4, "P1": 3, "P3": 5},
	}

	sweep, reason := detectSweep(rs)
	if !sweep {
		t.Fatalf("expected sweep=true for a flawless winner (reason=%s)", reason)
	}
	if !strings.Contains(reason, "flawless") {
		t.Fatalf("expected reason to mention flawless, got: %s", reason)
	}
}

func TestDetectSweep_FalseWhenClose(t *testing.T) {
	rs := runStats{
		outcome: game.MatchOutcomeReason{
			Winner:        0,
			WinnerKills:   5,
			RunnerUpKills: 4,
		},
		deathsByLabel: map[string]int{"P0": 3, "P1": 4},
	}

	sweep, reason := detectSweep(rs)
	if sweep {
		t.Fatalf("expected sweep=false for a one-kill margin (reason=%s)", reason)
	}
}

func TestDetectSweep_NoWinner(t *testing.T) {
	rs := runStats{
		outcome: game.MatchOutcomeReason{Winner: -1},
	}

	if sweep, _ := detectSweep(rs); sweep {
		t.Fatal("expected sweep=false when no winner was recorded")
	}
}

func TestParseDifficulty(t *testing.T) {
	if v, ok := parseDifficulty("hard"); !ok || v != 2 {
		t.Fatalf("expected hard=2, got %d ok=%v", v, ok)
	}
	if _, ok := parseDifficulty("nightmare"); ok {
		t.Fatal("expected unknown difficulty to be rejected")
	}
}

func TestParseStage(t *testing.T) {
	if v, ok := parseStage("ring"); !ok || v != game.PolicyFixedRing {
		t.Fatalf("expected ring policy, got %v ok=%v", v, ok)
	}
	if _, ok := parseStage("volcano"); ok {
		t.Fatal("expected unknown stage to be rejected")
	}
}

func TestJoinCountsSortedAndStable(t *testing.T) {
	got := joinCounts(map[string]int{"P2": 3, "P0": 5, "P1": 1})
	want := "P0=5 P1=1 P2=3"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if joinCounts(nil) != "none" {
		t.Fatal("expected empty map to render as none")
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("expected n/a for no samples, got %s", got)
	}
	if got := avgTickString([]int{100, 200}); got != "150.0" {
		t.Fatalf("expected 150.0, got %s", got)
	}
}
