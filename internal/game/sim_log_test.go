package game

import (
	"strings"
	"testing"
)

func seededLog() *SimLog {
	sl := NewSimLog(false)
	sl.Add(10, "P0", "combat", "shot", "fired at (1.0,0.0)", 0)
	sl.Add(20, "P1", "combat", "kill", "kill 1 of 5", 1)
	sl.Add(30, "--", "match", "phase_change", "title → lobby", 0)
	sl.Add(40, "P0", "move", "jump", "", 0)
	return sl
}

func TestSimLog_FilterMatchesCategoryAndKey(t *testing.T) {
	sl := seededLog()
	if got := len(sl.Filter("combat", "")); got != 2 {
		t.Errorf("combat entries = %d, want 2", got)
	}
	if got := len(sl.Filter("combat", "kill")); got != 1 {
		t.Errorf("combat/kill entries = %d, want 1", got)
	}
	if got := len(sl.Filter("", "jump")); got != 1 {
		t.Errorf("any/jump entries = %d, want 1", got)
	}
	if got := len(sl.Filter("", "")); got != 4 {
		t.Errorf("unfiltered entries = %d, want 4", got)
	}
}

func TestSimLog_FilterPlayerAndTickRange(t *testing.T) {
	sl := seededLog()
	if got := len(sl.FilterPlayer("P0")); got != 2 {
		t.Errorf("P0 entries = %d, want 2", got)
	}
	if got := len(sl.FilterTickRange(15, 35)); got != 2 {
		t.Errorf("entries in [15,35] = %d, want 2", got)
	}
	// Bounds are inclusive on both ends.
	if got := len(sl.FilterTickRange(10, 10)); got != 1 {
		t.Errorf("entries at exactly T=10 = %d, want 1", got)
	}
}

func TestSimLog_CountLastAndHas(t *testing.T) {
	sl := seededLog()
	if got := sl.CountCategory("combat", "shot"); got != 1 {
		t.Errorf("shot count = %d, want 1", got)
	}
	last, ok := sl.LastOf("combat", "")
	if !ok || last.Key != "kill" {
		t.Errorf("last combat entry should be the kill, got %+v ok=%v", last, ok)
	}
	if _, ok := sl.LastOf("bot", ""); ok {
		t.Error("no bot entries were logged")
	}
	if !sl.HasEntry("match", "phase_change", "lobby") {
		t.Error("the lobby transition should match by substring")
	}
	if sl.HasEntry("match", "phase_change", "countdown") {
		t.Error("no countdown transition was logged")
	}
	if !sl.HasEntry("", "", "kill 1 of 5") {
		t.Error("empty filters should match any category and key")
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "P0", "move", "position", "(0.00,0.00) v=(0.00,0.00)", 0)
	if len(quiet.Entries()) != 0 {
		t.Errorf("verbose entries should be dropped when quiet, got %d", len(quiet.Entries()))
	}
	quiet.Add(2, "P0", "combat", "shot", "", 0)
	if len(quiet.Entries()) != 1 {
		t.Errorf("plain entries always record, got %d", len(quiet.Entries()))
	}

	chatty := NewSimLog(true)
	chatty.AddVerbose(1, "P0", "move", "position", "", 0)
	if len(chatty.Entries()) != 1 {
		t.Errorf("verbose mode should keep the entry, got %d", len(chatty.Entries()))
	}
}

func TestSimLog_StringAndFormat(t *testing.T) {
	e := SimLogEntry{Tick: 42, Player: "P0", Category: "combat", Key: "shot", Value: "fired at (1.0,0.0)"}
	line := e.String()
	if !strings.HasPrefix(line, "[T=0042] P0") {
		t.Errorf("line should start with a zero-padded tick and label: %q", line)
	}
	if !strings.Contains(line, "combat") || !strings.Contains(line, "fired at (1.0,0.0)") {
		t.Errorf("line should carry category and detail: %q", line)
	}

	sl := seededLog()
	if got := strings.Count(sl.Format(), "\n"); got != 4 {
		t.Errorf("formatted log should have one line per entry, got %d", got)
	}
	ranged := sl.FormatRange(20, 30)
	if strings.Count(ranged, "\n") != 2 || !strings.Contains(ranged, "phase_change") {
		t.Errorf("ranged format wrong:\n%s", ranged)
	}
}

func TestSimLog_SummaryShowsTheField(t *testing.T) {
	ts := newDuelSim()
	s := ts.Sim
	s.killPlayer(1, 0)
	s.overtime = true

	sum := ts.SimLog.Summary(s)
	for _, want := range []string{
		"--- Summary at T=",
		"Phase: playing",
		"Overtime: bounds [",
		"kills=1",
		"dead(respawn=",
		"Bullets in flight: 0",
	} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
	if strings.Contains(sum, "Winner:") {
		t.Error("nobody has won yet")
	}

	s.winner = 0
	if !strings.Contains(ts.SimLog.Summary(s), "Winner: P0") {
		t.Error("the winner line should appear once decided")
	}
}
