package game

import "testing"

func TestMatchStats_Add(t *testing.T) {
	a := MatchStats{Kills: 3, Deaths: 1, Shots: 9, Deflections: 2, MeleeKills: 1, WallDeaths: 0}
	b := MatchStats{Kills: 2, Deaths: 4, Shots: 6, Deflections: 0, MeleeKills: 2, WallDeaths: 1}
	a.Add(b)

	want := MatchStats{Kills: 5, Deaths: 5, Shots: 15, Deflections: 2, MeleeKills: 3, WallDeaths: 1}
	if a != want {
		t.Errorf("Add = %+v, want %+v", a, want)
	}
}

func TestMatchStats_KDRatio(t *testing.T) {
	if got := (MatchStats{Kills: 6, Deaths: 3}).KDRatio(); got != 2 {
		t.Errorf("6/3 = %v, want 2", got)
	}
	if got := (MatchStats{Kills: 4}).KDRatio(); got != 4 {
		t.Errorf("deathless ratio should be the kill count, got %v", got)
	}
	if got := (MatchStats{}).KDRatio(); got != 0 {
		t.Errorf("an empty line is 0, got %v", got)
	}
}
