package game

// MatchOutcome classifies how an unattended match run resolved.
type MatchOutcome int

const (
	OutcomeUndecided MatchOutcome = iota
	OutcomeWinByKills
	OutcomeOvertimeWin
	OutcomeDemoTimeout
	OutcomeTickBudget
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeWinByKills:
		return "win_by_kills"
	case OutcomeOvertimeWin:
		return "time_limit_overtime_win"
	case OutcomeDemoTimeout:
		return "demo_timeout"
	case OutcomeTickBudget:
		return "tick_budget_exhausted"
	case OutcomeUndecided:
		return "undecided"
	default:
		return "unknown"
	}
}

// MatchOutcomeReason carries the end-state numbers behind a classification.
type MatchOutcomeReason struct {
	Outcome           MatchOutcome
	Winner            int // slot index, -1 when no winner was recorded
	WinnerKills       int
	RunnerUpKills     int
	RoundsPlayed      int
	DurationTicks     int
	DecidedInOvertime bool
	TotalKills        int
	TotalDeflections  int
	Description       string
}

// DetermineMatchOutcome classifies the simulation's current state. Call it
// when a run stops: at MatchEnd, after a demo has collapsed back to the
// title, or when the driver's tick budget runs out.
func DetermineMatchOutcome(s *Simulation) MatchOutcomeReason {
	totalKills := 0
	totalDeflections := 0
	for i := range s.stats {
		totalKills += s.stats[i].Kills
		totalDeflections += s.stats[i].Deflections
	}

	r := MatchOutcomeReason{
		Winner:            s.winner,
		RoundsPlayed:      s.roundNumber,
		DurationTicks:     s.tick,
		DecidedInOvertime: s.wonInOvertime,
		TotalKills:        totalKills,
		TotalDeflections:  totalDeflections,
	}

	if s.winner >= 0 {
		r.WinnerKills = s.players[s.winner].kills
		for i := range s.players {
			if i == s.winner {
				continue
			}
			if k := s.players[i].kills; k > r.RunnerUpKills {
				r.RunnerUpKills = k
			}
		}
	}

	switch {
	case s.winner >= 0 && s.wonInOvertime:
		r.Outcome = OutcomeOvertimeWin
		r.Description = "win_sealed_in_overtime"
	case s.winner >= 0:
		r.Outcome = OutcomeWinByKills
		switch {
		case s.stats[s.winner].Deaths == 0:
			r.Description = "flawless_win_no_deaths"
		case r.WinnerKills-r.RunnerUpKills >= 3:
			r.Description = "decisive_win_by_kill_margin"
		default:
			r.Description = "narrow_win_by_kills"
		}
	case s.phase == PhaseTitle && s.roundNumber > 0:
		// A demo ran to its end screen and timed out back to the title.
		r.Outcome = OutcomeDemoTimeout
		r.Description = "attract_demo_expired_to_title"
	case s.phase == PhaseTitle || s.phase == PhaseLobby:
		r.Outcome = OutcomeUndecided
		r.Description = "no_match_started"
	default:
		r.Outcome = OutcomeTickBudget
		r.Description = "tick_budget_exhausted_no_winner"
	}

	return r
}
