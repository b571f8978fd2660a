package game

// --- Match statistics ---

// MatchStats tallies one slot's combat events for the current match.
// Cleared on match reset; read by the reporter, the headless runner, and
// the match-end screen. Kills counts every credited point, including
// points awarded for overtime wall deaths; MeleeKills is the subset landed
// with the sword.
type MatchStats struct {
	Kills       int
	Deaths      int
	Shots       int
	Deflections int
	MeleeKills  int
	WallDeaths  int
}

// Add accumulates o into m. Used for cross-run aggregates in batch reports.
func (m *MatchStats) Add(o MatchStats) {
	m.Kills += o.Kills
	m.Deaths += o.Deaths
	m.Shots += o.Shots
	m.Deflections += o.Deflections
	m.MeleeKills += o.MeleeKills
	m.WallDeaths += o.WallDeaths
}

// KDRatio returns kills per death; a deathless slot returns its kill count.
func (m MatchStats) KDRatio() float64 {
	if m.Deaths == 0 {
		return float64(m.Kills)
	}
	return float64(m.Kills) / float64(m.Deaths)
}
