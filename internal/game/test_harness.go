package game

import (
	"fmt"
)

// TestSim is a headless harness used exclusively by tests. It wraps a
// Simulation with scripted inputs and structured change logging so tests
// can drive exact tick sequences and assert on what happened.
type TestSim struct {
	Sim      *Simulation
	SimLog   *SimLog
	Reporter *MatchReporter

	inputs  [MaxPlayers]InputFrame // persistent scripted inputs
	oneShot [MaxPlayers]uint16     // buttons applied for exactly one tick

	perf map[int]*PerfTracker

	seed    int64
	cfg     GameConfig
	verbose bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, config, verbose — applied before construction
	simOptPlayer                      // claim slots — applied once the sim exists
	simOptState                       // stage select, phase jump — applied after players
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithConfig replaces the default match configuration.
func WithConfig(cfg GameConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg = cfg
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.verbose = v
	}}
}

// WithHuman claims a slot for a scripted human pad.
func WithHuman(slot int) SimOption {
	return SimOption{simOptPlayer, func(ts *TestSim) {
		p := &ts.Sim.players[slot]
		p.active = true
		p.ready = true
		p.kind = PlayerHuman
	}}
}

// WithBot claims a slot for a bot. Difficulty comes from the config.
func WithBot(slot int) SimOption {
	return SimOption{simOptPlayer, func(ts *TestSim) {
		p := &ts.Sim.players[slot]
		p.active = true
		p.ready = true
		p.kind = PlayerBot
		p.bot = &BotState{}
	}}
}

// WithStage selects the opening stage layout.
func WithStage(stage int) SimOption {
	return SimOption{simOptState, func(ts *TestSim) {
		ts.Sim.currentStage = clampStage(stage)
		ts.Sim.setupCurrentStage()
	}}
}

// WithPlaying skips the title, lobby and countdown: the sim starts
// mid-round with all claimed slots spawned. Pass it after WithStage.
func WithPlaying() SimOption {
	return SimOption{simOptState, func(ts *TestSim) {
		ts.Sim.resetRound()
		ts.Sim.countdownTimer = 0
		ts.Sim.phase = PhasePlaying
	}}
}

// NewTestSim constructs a TestSim from the given options in three ordered
// passes:
//  1. Infrastructure (seed, config, verbose)
//  2. Players (claim slots)
//  3. Match state (stage select, phase jump)
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		seed: 1,
		cfg:  DefaultConfig(),
		perf: map[int]*PerfTracker{},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.SimLog = NewSimLog(ts.verbose)
	ts.Reporter = NewMatchReporter(reportWindowTicks, ts.verbose)
	ts.Sim = New(ts.seed, ts.cfg)
	for _, o := range opts {
		if o.kind == simOptPlayer {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptState {
			o.fn(ts)
		}
	}
	return ts
}

// SetInput installs a persistent scripted frame for a slot. It is fed to
// every following tick until replaced.
func (ts *TestSim) SetInput(slot int, f InputFrame) {
	ts.inputs[slot] = f
}

// ClearInput zeroes a slot's persistent frame.
func (ts *TestSim) ClearInput(slot int) {
	ts.inputs[slot] = InputFrame{}
}

// Press holds the given buttons for exactly one tick, producing a press
// edge as long as the persistent frame does not already hold them.
func (ts *TestSim) Press(slot int, buttons uint16) {
	ts.oneShot[slot] |= buttons
}

// RunTicks advances the simulation n ticks, logging changes to SimLog.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if
// predicate returns true. Returns the tick at which the predicate was
// satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Sim.tick
		}
	}
	return -1
}

// runOneTick feeds the scripted frames through Advance and diffs the
// before/after state into the SimLog.
func (ts *TestSim) runOneTick() {
	s := ts.Sim

	prevPhase := s.phase
	prevRound := s.roundNumber
	prevStage := s.currentStage
	prevWinner := s.winner
	prevOvertime := s.overtime
	var prevStats [MaxPlayers]MatchStats
	var prevDead [MaxPlayers]bool
	for i := range s.players {
		prevStats[i] = s.stats[i]
		prevDead[i] = s.players[i].dead
	}

	frames := ts.inputs
	for i := range frames {
		frames[i].Buttons |= ts.oneShot[i]
	}
	s.Advance(frames)
	for i := range ts.oneShot {
		ts.oneShot[i] = 0
	}

	tick := s.tick

	// Analytics: the reporter samples once a second, the trackers every tick.
	if tick%ticksPerSecond == 0 {
		ts.Reporter.Collect(s)
	}
	for i := range s.players {
		if !s.players[i].active {
			continue
		}
		tr, ok := ts.perf[i]
		if !ok {
			tr = NewPerfTracker(s, i)
			ts.perf[i] = tr
		}
		tr.Update(s)
	}

	// --- Post-tick logging ---

	if s.phase != prevPhase {
		ts.SimLog.Add(tick, "--", "match", "phase_change",
			fmt.Sprintf("%s → %s", prevPhase, s.phase), 0)
	}
	if s.roundNumber != prevRound {
		ts.SimLog.Add(tick, "--", "match", "round_start",
			fmt.Sprintf("round %d on %s", s.roundNumber, StageName(s.currentStage)), float64(s.roundNumber))
	} else if s.currentStage != prevStage {
		ts.SimLog.Add(tick, "--", "match", "stage_change",
			fmt.Sprintf("%s → %s", StageName(prevStage), StageName(s.currentStage)), 0)
	}
	if s.overtime && !prevOvertime {
		ts.SimLog.Add(tick, "--", "match", "overtime", "round clock expired", 0)
	}
	if s.winner != prevWinner && s.winner >= 0 {
		ts.SimLog.Add(tick, playerLabel(s.winner), "match", "winner",
			fmt.Sprintf("match won with %d kills", s.players[s.winner].kills), float64(s.players[s.winner].kills))
	}

	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		label := playerLabel(i)
		now := s.stats[i]
		was := prevStats[i]

		if now.Shots > was.Shots {
			ts.SimLog.Add(tick, label, "combat", "shot",
				fmt.Sprintf("fired at (%.1f,%.1f)", p.centerX(), p.centerY()), float64(now.Shots))
		}
		if now.Deflections > was.Deflections {
			ts.SimLog.Add(tick, label, "combat", "deflect",
				"bullet returned to sender", float64(now.Deflections))
		}
		if now.Kills > was.Kills {
			ts.SimLog.Add(tick, label, "combat", "kill",
				fmt.Sprintf("kill %d of %d", p.kills, s.config.KillsToWin), float64(p.kills))
		}
		if now.MeleeKills > was.MeleeKills {
			ts.SimLog.Add(tick, label, "combat", "melee_kill",
				"close range takedown", float64(now.MeleeKills))
		}
		if now.WallDeaths > was.WallDeaths {
			ts.SimLog.Add(tick, label, "combat", "wall_death",
				"crushed by the closing arena", float64(now.WallDeaths))
		}
		if p.dead && !prevDead[i] {
			ts.SimLog.Add(tick, label, "player", "death",
				fmt.Sprintf("down at (%.1f,%.1f)", p.centerX(), p.centerY()), 0)
		}
		if !p.dead && prevDead[i] {
			ts.SimLog.Add(tick, label, "player", "respawn",
				fmt.Sprintf("back at (%.1f,%.1f)", p.centerX(), p.centerY()), 0)
		}

		// Verbose: position and motion every tick.
		ts.SimLog.AddVerbose(tick, label, "move", "position",
			fmt.Sprintf("(%.2f,%.2f) v=(%.2f,%.2f)", p.x, p.y, p.vx, p.vy), 0)
	}

	ts.SimLog.AddVerbose(tick, "--", "combat", "bullets_active",
		fmt.Sprintf("%d in flight", ts.ActiveBullets()), float64(ts.ActiveBullets()))
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Sim.tick
}

// ActiveBullets counts pool slots currently in flight.
func (ts *TestSim) ActiveBullets() int {
	return ts.Sim.activeBulletCount()
}

// LivingPlayers counts active slots that are not dead.
func (ts *TestSim) LivingPlayers() int {
	n := 0
	for i := range ts.Sim.players {
		if ts.Sim.players[i].active && !ts.Sim.players[i].dead {
			n++
		}
	}
	return n
}

// PlayerGrades finalizes the per-slot trackers and returns ranked grades.
func (ts *TestSim) PlayerGrades() []PlayerGrade {
	for _, tr := range ts.perf {
		tr.Finalize(ts.Sim)
	}
	return GradePerformance(ts.perf)
}

// PlayerSnapshot is a lightweight copy of one slot's state at a tick.
type PlayerSnapshot struct {
	Active bool
	Dead   bool
	X, Y   float64
	VX, VY float64
	Ammo   int
	Kills  int
}

// SimSnapshot captures the state that must match between two runs with
// the same seed and inputs.
type SimSnapshot struct {
	Tick        int
	Phase       Phase
	RoundNumber int
	Winner      int
	Bullets     int
	Players     [MaxPlayers]PlayerSnapshot
}

// Snapshot returns the current match state for determinism comparisons.
func (ts *TestSim) Snapshot() SimSnapshot {
	s := ts.Sim
	snap := SimSnapshot{
		Tick:        s.tick,
		Phase:       s.phase,
		RoundNumber: s.roundNumber,
		Winner:      s.winner,
		Bullets:     ts.ActiveBullets(),
	}
	for i := range s.players {
		p := &s.players[i]
		snap.Players[i] = PlayerSnapshot{
			Active: p.active,
			Dead:   p.dead,
			X:      p.x,
			Y:      p.y,
			VX:     p.vx,
			VY:     p.vy,
			Ammo:   p.ammo,
			Kills:  p.kills,
		}
	}
	return snap
}

// String renders a snapshot in a stable single-line form so test failures
// show exactly which field diverged.
func (sn SimSnapshot) String() string {
	out := fmt.Sprintf("t=%d phase=%s round=%d winner=%d bullets=%d",
		sn.Tick, sn.Phase, sn.RoundNumber, sn.Winner, sn.Bullets)
	for i, p := range sn.Players {
		if !p.Active {
			continue
		}
		out += fmt.Sprintf(" | P%d pos=(%.4f,%.4f) v=(%.4f,%.4f) ammo=%d kills=%d dead=%v",
			i, p.X, p.Y, p.VX, p.VY, p.Ammo, p.Kills, p.Dead)
	}
	return out
}
