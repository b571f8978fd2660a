package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-activity reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// PlayerReport captures a single slot's state at one point in time.
type PlayerReport struct {
	Slot  int
	Label string
	Kind  PlayerKind
	Alive bool
	Kills int
	Ammo  int
	X, Y  float64
	Stats MatchStats
}

// MatchReport is a full snapshot of the simulation at one tick.
type MatchReport struct {
	Tick        int
	Phase       Phase
	RoundNumber int
	Stage       int
	Overtime    bool
	ArenaWidth  float64
	Bullets     int

	// Leader is the slot currently ahead on kills, -1 when nobody scores.
	Leader int

	Players []PlayerReport
}

// --- Reporter ---

// MatchReporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type MatchReporter struct {
	history     []MatchReport
	windowTicks int
	verbose     bool
}

// NewMatchReporter creates a reporter with the given window size.
func NewMatchReporter(windowTicks int, verbose bool) *MatchReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &MatchReporter{
		windowTicks: windowTicks,
		verbose:     verbose,
	}
}

// Collect gathers a snapshot from the current simulation state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *MatchReporter) Collect(s *Simulation) {
	report := MatchReport{
		Tick:        s.tick,
		Phase:       s.phase,
		RoundNumber: s.roundNumber,
		Stage:       s.currentStage,
		Overtime:    s.overtime,
		ArenaWidth:  s.arenaRight - s.arenaLeft,
		Bullets:     s.activeBulletCount(),
		Leader:      -1,
	}
	best := 0
	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		report.Players = append(report.Players, PlayerReport{
			Slot:  i,
			Label: playerLabel(i),
			Kind:  p.kind,
			Alive: !p.dead,
			Kills: p.kills,
			Ammo:  p.ammo,
			X:     p.x,
			Y:     p.y,
			Stats: s.stats[i],
		})
		if p.kills > best {
			best = p.kills
			report.Leader = i
		}
	}

	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2 // reports per second * 2 windows
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *MatchReporter) Latest() *MatchReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *MatchReporter) History() []MatchReport {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// Deltas of cumulative counters across the window.
	Kills       int
	Deaths      int
	Shots       int
	Deflections int
	MeleeKills  int
	WallDeaths  int
	Rounds      int

	// Per-slot kill deltas over the window, keyed by slot index.
	KillsBySlot map[int]int

	// Averages over the window.
	AvgBullets float64
	AvgLiving  float64

	// LeadChanges counts how often the slot ahead on kills changed hands.
	LeadChanges int

	// OvertimePct is the share of samples taken after the round clock ran out.
	OvertimePct float64
}

// WindowSummary returns an aggregated summary over the recent time window.
// Cumulative counters are differenced between the oldest and newest sample;
// instantaneous values are averaged.
func (r *MatchReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	// Find reports within the window.
	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	start := len(r.history) - 1
	for start > 0 && r.history[start-1].Tick >= cutoff {
		start--
	}
	window := r.history[start:]

	first := window[0]
	last := window[len(window)-1]
	n := float64(len(window))

	wr := &WindowReport{
		FromTick:    first.Tick,
		ToTick:      last.Tick,
		SampleCount: len(window),
		Rounds:      last.RoundNumber - first.RoundNumber,
		KillsBySlot: make(map[int]int),
	}

	firstStats := sumReportStats(first)
	lastStats := sumReportStats(last)
	wr.Kills = lastStats.Kills - firstStats.Kills
	wr.Deaths = lastStats.Deaths - firstStats.Deaths
	wr.Shots = lastStats.Shots - firstStats.Shots
	wr.Deflections = lastStats.Deflections - firstStats.Deflections
	wr.MeleeKills = lastStats.MeleeKills - firstStats.MeleeKills
	wr.WallDeaths = lastStats.WallDeaths - firstStats.WallDeaths

	firstKills := make(map[int]int, len(first.Players))
	for _, p := range first.Players {
		firstKills[p.Slot] = p.Stats.Kills
	}
	for _, p := range last.Players {
		wr.KillsBySlot[p.Slot] = p.Stats.Kills - firstKills[p.Slot]
	}

	overtimeSamples := 0
	prevLeader := first.Leader
	for _, rpt := range window {
		wr.AvgBullets += float64(rpt.Bullets)
		living := 0
		for _, p := range rpt.Players {
			if p.Alive {
				living++
			}
		}
		wr.AvgLiving += float64(living)
		if rpt.Overtime {
			overtimeSamples++
		}
		if rpt.Leader != prevLeader && rpt.Leader >= 0 && prevLeader >= 0 {
			wr.LeadChanges++
		}
		if rpt.Leader >= 0 {
			prevLeader = rpt.Leader
		}
	}
	wr.AvgBullets /= n
	wr.AvgLiving /= n
	wr.OvertimePct = float64(overtimeSamples) / n * 100

	return wr
}

func sumReportStats(r MatchReport) MatchStats {
	var total MatchStats
	for _, p := range r.Players {
		total.Add(p.Stats)
	}
	return total
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Match Activity Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Scoring ---\n")
	fmt.Fprintf(&sb, "  kills=%d  deaths=%d  melee_kills=%d  wall_deaths=%d  rounds=%d\n",
		wr.Kills, wr.Deaths, wr.MeleeKills, wr.WallDeaths, wr.Rounds)
	for slot := 0; slot < MaxPlayers; slot++ {
		if k, ok := wr.KillsBySlot[slot]; ok {
			fmt.Fprintf(&sb, "  %-3s +%d kills\n", playerLabel(slot), k)
		}
	}

	sb.WriteString("\n--- Activity ---\n")
	fmt.Fprintf(&sb, "  shots=%d  deflections=%d  avg_bullets_in_flight=%.1f\n",
		wr.Shots, wr.Deflections, wr.AvgBullets)
	lethality := 0.0
	if wr.Shots > 0 {
		lethality = float64(wr.Kills-wr.MeleeKills-wr.WallDeaths) / float64(wr.Shots) * 100
	}
	fmt.Fprintf(&sb, "  shot_lethality=%.1f%%  avg_players_alive=%.1f\n", lethality, wr.AvgLiving)

	sb.WriteString("\n--- Pace ---\n")
	windowSec := float64(wr.ToTick-wr.FromTick) / float64(ticksPerSecond)
	kpm := 0.0
	if windowSec > 0 {
		kpm = float64(wr.Kills) / windowSec * 60
	}
	fmt.Fprintf(&sb, "  kills_per_minute=%.1f  lead_changes=%d  overtime=%.0f%% of window\n",
		kpm, wr.LeadChanges, wr.OvertimePct)

	if wr.Kills == 0 && wr.SampleCount > 1 && wr.Shots > 0 {
		sb.WriteString("\n--- Alerts ---\n")
		sb.WriteString("  stalemate: shots fired but nobody scored this window\n")
	}

	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *MatchReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "phase=%s round=%d stage=%s overtime=%v arena=%.1f bullets=%d\n",
		rpt.Phase, rpt.RoundNumber, StageName(rpt.Stage), rpt.Overtime, rpt.ArenaWidth, rpt.Bullets)
	for _, p := range rpt.Players {
		status := "alive"
		if !p.Alive {
			status = "down"
		}
		fmt.Fprintf(&sb, "%-3s %-5s %-5s kills=%d ammo=%d pos=(%.1f,%.1f) shots=%d deflects=%d\n",
			p.Label, p.Kind, status, p.Kills, p.Ammo, p.X, p.Y, p.Stats.Shots, p.Stats.Deflections)
	}
	if rpt.Leader >= 0 {
		fmt.Fprintf(&sb, "leader: %s\n", playerLabel(rpt.Leader))
	}
	return sb.String()
}
