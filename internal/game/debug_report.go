package game

import (
	"fmt"
	"math"
	"strings"
)

// traceCap bounds the debug trace ring (~10s at 60TPS).
const traceCap = 600

// PlayerTrace is one slot's observable state at one tick.
type PlayerTrace struct {
	Tick        int
	X, Y        float64
	VX, VY      float64
	OnGround    bool
	Dead        bool
	Invuln      bool
	MeleeWindup bool
	MeleeActive bool
	Ammo        int
	Kills       int
}

// CompactString renders a trace sample on one line.
func (t PlayerTrace) CompactString(label string) string {
	state := "air"
	switch {
	case t.Dead:
		state = "dead"
	case t.OnGround:
		state = "gnd"
	}
	melee := ""
	if t.MeleeWindup {
		melee = " windup"
	} else if t.MeleeActive {
		melee = " strike"
	}
	inv := ""
	if t.Invuln {
		inv = " inv"
	}
	return fmt.Sprintf("[T=%04d] %s pos=(%.2f,%.2f) v=(%+.3f,%+.3f) %s%s%s ammo=%d kills=%d",
		t.Tick, label, t.X, t.Y, t.VX, t.VY, state, melee, inv, t.Ammo, t.Kills)
}

type traceFrame struct {
	tick    int
	phase   Phase
	players [MaxPlayers]PlayerTrace
	active  [MaxPlayers]bool
}

// EnableTrace switches per-tick trace capture on or off. The ring is
// cleared on every transition so a fresh report covers one session.
func (s *Simulation) EnableTrace(on bool) {
	s.traceOn = on
	s.trace = s.trace[:0]
}

// TraceEnabled reports whether the debug trace is recording.
func (s *Simulation) TraceEnabled() bool {
	return s.traceOn
}

func (s *Simulation) captureTrace() {
	f := traceFrame{tick: s.tick, phase: s.phase}
	for i := range s.players {
		p := &s.players[i]
		f.active[i] = p.active
		if !p.active {
			continue
		}
		f.players[i] = PlayerTrace{
			Tick:        s.tick,
			X:           p.x,
			Y:           p.y,
			VX:          p.vx,
			VY:          p.vy,
			OnGround:    p.onGround,
			Dead:        p.dead,
			Invuln:      p.invulnTimer > 0,
			MeleeWindup: p.meleeWindup > 0,
			MeleeActive: p.meleeTimer > 0,
			Ammo:        p.ammo,
			Kills:       p.kills,
		}
	}
	s.trace = append(s.trace, f)
	if len(s.trace) > traceCap {
		s.trace = s.trace[len(s.trace)-traceCap:]
	}
}

// PlayerDebugReport builds a plain-text timeline of one slot's recent
// behaviour from the trace ring: a summary line, notable events, and
// run-length stages of like state. Returns "" when nothing is recorded.
func (s *Simulation) PlayerDebugReport(slot, lastTicks int) string {
	if slot < 0 || slot >= MaxPlayers || len(s.trace) == 0 {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 120
	}

	toTick := s.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var snaps []PlayerTrace
	for _, f := range s.trace {
		if f.tick < fromTick || f.tick > toTick || !f.active[slot] {
			continue
		}
		snaps = append(snaps, f.players[slot])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- arena debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d] phase=%s stage=%s\n",
		s.seed, fromTick, toTick, s.phase, StageName(s.currentStage))
	fmt.Fprintf(&b, "selected=%s kind=%s\n\n", playerLabel(slot), s.players[slot].kind)

	fmt.Fprintf(&b, "== %s ==\n", playerLabel(slot))
	if len(snaps) == 0 {
		b.WriteString("(no trace recorded yet)\n")
		return b.String()
	}

	sum := summarizeTrace(snaps)
	fmt.Fprintf(&b,
		"summary: grounded=%d air=%d dead=%d maxAirRun=%d moved=%d shots=%d swings=%d invulnTicks=%d\n",
		sum.groundedTicks,
		sum.airTicks,
		sum.deadTicks,
		sum.maxAirRun,
		sum.movedTicks,
		sum.shotsFired,
		sum.meleeSwings,
		sum.invulnTicks,
	)
	fmt.Fprintf(&b,
		"         speed[min/avg/max]=%.3f/%.3f/%.3f  y[min/max]=%.2f/%.2f  travelled=%.1f\n",
		sum.minSpeed, sum.avgSpeed, sum.maxSpeed, sum.minY, sum.maxY, sum.distTravelled)

	events := traceEvents(snaps)
	if len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}

	stages := buildTraceStages(snaps)
	b.WriteString("stages:\n")
	for i, st := range stages {
		tag := ""
		if st.onlyDead {
			tag = " [DOWN]"
		}
		fmt.Fprintf(&b,
			"  %02d) T=%d..%d (%dt)%s %s->%s ammo:%d->%d kills:%d->%d moved:%.1f\n",
			i+1,
			st.startTick,
			st.endTick,
			st.count,
			tag,
			traceStateLabel(st.first),
			traceStateLabel(st.last),
			st.first.Ammo,
			st.last.Ammo,
			st.first.Kills,
			st.last.Kills,
			st.movedDistance,
		)
		if st.count <= 3 {
			for _, ss := range snaps[st.startIdx : st.endIdx+1] {
				b.WriteString("      ")
				b.WriteString(ss.CompactString(playerLabel(slot)))
				b.WriteByte('\n')
			}
		} else {
			b.WriteString("      first: ")
			b.WriteString(st.first.CompactString(playerLabel(slot)))
			b.WriteByte('\n')
			b.WriteString("      last:  ")
			b.WriteString(st.last.CompactString(playerLabel(slot)))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

type traceSummary struct {
	groundedTicks int
	airTicks      int
	deadTicks     int
	maxAirRun     int
	movedTicks    int
	shotsFired    int
	meleeSwings   int
	invulnTicks   int
	minSpeed      float64
	avgSpeed      float64
	maxSpeed      float64
	minY          float64
	maxY          float64
	distTravelled float64
}

func summarizeTrace(snaps []PlayerTrace) traceSummary {
	if len(snaps) == 0 {
		return traceSummary{}
	}
	res := traceSummary{
		minSpeed: math.MaxFloat64,
		minY:     snaps[0].Y,
		maxY:     snaps[0].Y,
	}
	airRun := 0
	speedSum := 0.0
	for i, t := range snaps {
		switch {
		case t.Dead:
			res.deadTicks++
			airRun = 0
		case t.OnGround:
			res.groundedTicks++
			airRun = 0
		default:
			res.airTicks++
			airRun++
			if airRun > res.maxAirRun {
				res.maxAirRun = airRun
			}
		}
		if t.Invuln {
			res.invulnTicks++
		}
		if i > 0 {
			prev := snaps[i-1]
			step := math.Hypot(t.X-prev.X, t.Y-prev.Y)
			res.distTravelled += step
			if step > 0.05 {
				res.movedTicks++
			}
			if t.Ammo < prev.Ammo {
				res.shotsFired += prev.Ammo - t.Ammo
			}
			if t.MeleeWindup && !prev.MeleeWindup {
				res.meleeSwings++
			}
		}
		speed := math.Hypot(t.VX, t.VY)
		speedSum += speed
		if speed < res.minSpeed {
			res.minSpeed = speed
		}
		if speed > res.maxSpeed {
			res.maxSpeed = speed
		}
		if t.Y < res.minY {
			res.minY = t.Y
		}
		if t.Y > res.maxY {
			res.maxY = t.Y
		}
	}
	res.avgSpeed = speedSum / float64(len(snaps))
	if res.minSpeed == math.MaxFloat64 {
		res.minSpeed = 0
	}
	return res
}

type traceStage struct {
	startIdx      int
	endIdx        int
	startTick     int
	endTick       int
	count         int
	first         PlayerTrace
	last          PlayerTrace
	movedDistance float64
	onlyDead      bool
}

func buildTraceStages(snaps []PlayerTrace) []traceStage {
	if len(snaps) == 0 {
		return nil
	}
	keyOf := func(t PlayerTrace) string {
		melee := 0
		if t.MeleeWindup {
			melee = 1
		} else if t.MeleeActive {
			melee = 2
		}
		return fmt.Sprintf("dead=%t|gnd=%t|melee=%d|inv=%t|ammo=%d",
			t.Dead, t.OnGround, melee, t.Invuln, t.Ammo)
	}

	stages := make([]traceStage, 0, 16)
	start := 0
	curKey := keyOf(snaps[0])
	for i := 1; i < len(snaps); i++ {
		k := keyOf(snaps[i])
		if k == curKey {
			continue
		}
		stages = append(stages, makeTraceStage(snaps, start, i-1))
		start = i
		curKey = k
	}
	stages = append(stages, makeTraceStage(snaps, start, len(snaps)-1))
	return stages
}

func makeTraceStage(snaps []PlayerTrace, start, end int) traceStage {
	first := snaps[start]
	last := snaps[end]
	moved := math.Hypot(last.X-first.X, last.Y-first.Y)
	allDead := true
	for i := start; i <= end; i++ {
		if !snaps[i].Dead {
			allDead = false
			break
		}
	}
	return traceStage{
		startIdx:      start,
		endIdx:        end,
		startTick:     first.Tick,
		endTick:       last.Tick,
		count:         end - start + 1,
		first:         first,
		last:          last,
		movedDistance: moved,
		onlyDead:      allDead,
	}
}

func traceEvents(snaps []PlayerTrace) []string {
	if len(snaps) == 0 {
		return nil
	}
	var out []string
	prev := snaps[0]
	for i := 1; i < len(snaps); i++ {
		cur := snaps[i]
		if cur.Dead && !prev.Dead {
			out = append(out, fmt.Sprintf("T=%d down at (%.1f,%.1f)", cur.Tick, cur.X, cur.Y))
		}
		if !cur.Dead && prev.Dead {
			out = append(out, fmt.Sprintf("T=%d respawned at (%.1f,%.1f)", cur.Tick, cur.X, cur.Y))
		}
		if cur.OnGround != prev.OnGround && !cur.Dead && !prev.Dead {
			from, to := "air", "air"
			if prev.OnGround {
				from = "grounded"
			}
			if cur.OnGround {
				to = "grounded"
			}
			out = append(out, fmt.Sprintf("T=%d %s -> %s", cur.Tick, from, to))
		}
		if cur.MeleeActive && prev.MeleeWindup {
			out = append(out, fmt.Sprintf("T=%d melee windup -> strike", cur.Tick))
		}
		if cur.Ammo < prev.Ammo {
			out = append(out, fmt.Sprintf("T=%d shot fired (ammo %d -> %d)", cur.Tick, prev.Ammo, cur.Ammo))
		}
		if cur.Kills > prev.Kills {
			out = append(out, fmt.Sprintf("T=%d kill scored (%d -> %d)", cur.Tick, prev.Kills, cur.Kills))
		}
		if cur.Invuln != prev.Invuln {
			state := "ended"
			if cur.Invuln {
				state = "started"
			}
			out = append(out, fmt.Sprintf("T=%d spawn protection %s", cur.Tick, state))
		}
		prev = cur
	}
	if len(out) > 24 {
		out = append(out[:24], fmt.Sprintf("... (%d more events)", len(out)-24))
	}
	return out
}

func traceStateLabel(t PlayerTrace) string {
	switch {
	case t.Dead:
		return "dead"
	case t.MeleeActive:
		return "strike"
	case t.MeleeWindup:
		return "windup"
	case t.OnGround:
		return "gnd"
	default:
		return "air"
	}
}
