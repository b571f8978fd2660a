package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Performance grading thresholds.
const (
	perfMinAliveTicks  = 120 // ~2s before any category is graded
	perfMinShots       = 4
	perfCloseRange     = 2.0 // world units to nearest living enemy
	perfMidRange       = 6.0
	perfThreatRadius   = 3.0 // incoming-bullet awareness bubble
	perfWallHugMargin  = 1.2 // distance from a side wall that counts as hugging
	perfIdleSpeedFloor = 0.02
)

// ---------------------------------------------------------------------------
// PerfTracker — per-slot, per-tick accumulator
// ---------------------------------------------------------------------------

// PerfTracker accumulates per-tick performance metrics for one slot.
type PerfTracker struct {
	Label string
	Slot  int
	Kind  PlayerKind

	// Lifecycle.
	TicksAlive int
	Survived   bool
	Won        bool

	// Situation time (ticks).
	TicksGrounded     int
	TicksAirborne     int
	TicksDead         int
	TicksInvuln       int
	TicksUnderThreat  int
	TicksAtCloseRange int
	TicksAtMidRange   int
	TicksAtLongRange  int
	TicksOvertime     int
	TicksHuggingWall  int // near a side wall during overtime
	TicksAmmoEmpty    int

	// State-time counters.
	TicksMoving int
	TicksIdle   int

	// Action counters.
	ShotsFired    int
	MeleeSwings   int
	Jumps         int
	Kills         int
	Deaths        int
	Deflections   int
	MeleeKills    int
	WallDeaths    int
	OvertimeKills int

	// Aggregates.
	DistanceTraveled float64

	// Internal — change detection.
	prevX        float64
	prevY        float64
	prevStats    MatchStats
	prevGrounded bool
	prevWindup   bool
	seeded       bool
}

// NewPerfTracker creates a tracker for one slot.
func NewPerfTracker(s *Simulation, slot int) *PerfTracker {
	p := &s.players[slot]
	return &PerfTracker{
		Label: playerLabel(slot),
		Slot:  slot,
		Kind:  p.kind,
	}
}

// Update accumulates one tick of data from the slot's current state.
// Call it once per tick while a round is in progress.
func (pt *PerfTracker) Update(s *Simulation) {
	p := &s.players[pt.Slot]
	if !p.active {
		return
	}

	// Counter deltas work across death, so diff stats before the alive gate.
	if pt.seeded {
		st := s.stats[pt.Slot]
		pt.ShotsFired += st.Shots - pt.prevStats.Shots
		pt.Deflections += st.Deflections - pt.prevStats.Deflections
		pt.MeleeKills += st.MeleeKills - pt.prevStats.MeleeKills
		pt.WallDeaths += st.WallDeaths - pt.prevStats.WallDeaths
		pt.Deaths += st.Deaths - pt.prevStats.Deaths
		killDelta := st.Kills - pt.prevStats.Kills
		pt.Kills += killDelta
		if s.overtime && killDelta > 0 {
			pt.OvertimeKills += killDelta
		}
		pt.prevStats = st
	} else {
		pt.prevStats = s.stats[pt.Slot]
		pt.prevX, pt.prevY = p.x, p.y
		pt.prevGrounded = p.onGround
		pt.seeded = true
	}

	if p.dead {
		pt.TicksDead++
		pt.prevX, pt.prevY = p.x, p.y
		pt.prevGrounded = p.onGround
		pt.prevWindup = false
		return
	}
	pt.TicksAlive++

	// Movement distance.
	dist := math.Hypot(p.x-pt.prevX, p.y-pt.prevY)
	pt.DistanceTraveled += dist
	pt.prevX, pt.prevY = p.x, p.y

	if math.Abs(p.vx) > perfIdleSpeedFloor || math.Abs(p.vy) > perfIdleSpeedFloor {
		pt.TicksMoving++
	} else {
		pt.TicksIdle++
	}

	if p.onGround {
		pt.TicksGrounded++
	} else {
		pt.TicksAirborne++
	}
	if !p.onGround && pt.prevGrounded && p.vy > 0 {
		pt.Jumps++
	}
	pt.prevGrounded = p.onGround

	if p.meleeWindup > 0 && !pt.prevWindup {
		pt.MeleeSwings++
	}
	pt.prevWindup = p.meleeWindup > 0

	if p.invulnTimer > 0 {
		pt.TicksInvuln++
	}
	if p.ammo == 0 {
		pt.TicksAmmoEmpty++
	}
	if s.bulletThreat(pt.Slot, perfThreatRadius) {
		pt.TicksUnderThreat++
	}

	// Range classification against the nearest living enemy.
	nearest := math.MaxFloat64
	for j := range s.players {
		q := &s.players[j]
		if j == pt.Slot || !q.active || q.dead {
			continue
		}
		d := math.Hypot(q.centerX()-p.centerX(), q.centerY()-p.centerY())
		if d < nearest {
			nearest = d
		}
	}
	if nearest < math.MaxFloat64 {
		switch {
		case nearest <= perfCloseRange:
			pt.TicksAtCloseRange++
		case nearest <= perfMidRange:
			pt.TicksAtMidRange++
		default:
			pt.TicksAtLongRange++
		}
	}

	if s.overtime {
		pt.TicksOvertime++
		wallDist := math.Min(p.centerX()-s.arenaLeft, s.arenaRight-p.centerX())
		if wallDist < perfWallHugMargin {
			pt.TicksHuggingWall++
		}
	}
}

// Finalize snapshots end-of-match state.
func (pt *PerfTracker) Finalize(s *Simulation) {
	p := &s.players[pt.Slot]
	pt.Survived = p.active && !p.dead
	pt.Won = s.winner == pt.Slot
}

// ---------------------------------------------------------------------------
// PlayerGrade — computed performance result
// ---------------------------------------------------------------------------

// PlayerGrade is the computed performance grade for one slot.
type PlayerGrade struct {
	Label    string
	Slot     int
	Kind     PlayerKind
	Grade    string  // A+, A, B+, B, C+, C, D, F
	Score    float64 // 0-100
	Survived bool
	Won      bool

	// Category scores (0-100; -1 = not enough data to grade).
	MarksmanScore   float64
	AggressionScore float64
	MobilityScore   float64
	SurvivalScore   float64
	DefenseScore    float64

	// Observed traits.
	GoodTraits []string
	BadTraits  []string

	// Key stats.
	Kills        int
	Deaths       int
	Lethality    float64 // ranged kills per shot
	AirTimePct   float64
	CloseTimePct float64
}

// ---------------------------------------------------------------------------
// Grading logic
// ---------------------------------------------------------------------------

// GradePerformance computes grades from accumulated tracker data.
func GradePerformance(trackers map[int]*PerfTracker) []PlayerGrade {
	grades := make([]PlayerGrade, 0, len(trackers))
	for _, pt := range trackers {
		grades = append(grades, computeGrade(pt))
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Score != grades[j].Score {
			return grades[i].Score > grades[j].Score
		}
		return grades[i].Slot < grades[j].Slot
	})
	return grades
}

func computeGrade(pt *PerfTracker) PlayerGrade {
	g := PlayerGrade{
		Label:           pt.Label,
		Slot:            pt.Slot,
		Kind:            pt.Kind,
		Survived:        pt.Survived,
		Won:             pt.Won,
		Kills:           pt.Kills,
		Deaths:          pt.Deaths,
		MarksmanScore:   -1,
		AggressionScore: -1,
		MobilityScore:   -1,
		SurvivalScore:   -1,
		DefenseScore:    -1,
	}

	alive := math.Max(1, float64(pt.TicksAlive))
	rangedKills := pt.Kills - pt.MeleeKills
	if rangedKills < 0 {
		rangedKills = 0
	}
	if pt.ShotsFired > 0 {
		g.Lethality = float64(rangedKills) / float64(pt.ShotsFired)
	}
	g.AirTimePct = perfFrac(pt.TicksAirborne, pt.TicksAlive) * 100
	g.CloseTimePct = perfFrac(pt.TicksAtCloseRange, pt.TicksAlive) * 100

	// --- Marksman: making ranged shots count ---
	if pt.ShotsFired >= perfMinShots {
		s := 35.0
		s += 60.0 * g.Lethality
		s -= 10.0 * perfFrac(pt.TicksAmmoEmpty, pt.TicksAlive)
		g.MarksmanScore = perfClamp(s)
	}

	// --- Aggression: willingness to close and swing ---
	if pt.TicksAlive >= perfMinAliveTicks {
		s := 45.0
		s += 30.0 * perfFrac(pt.TicksAtCloseRange, pt.TicksAlive)
		swingsPerMin := float64(pt.MeleeSwings) / (alive / float64(ticksPerSecond)) * 60
		s += 15.0 * math.Min(1, swingsPerMin/6)
		s -= 20.0 * perfFrac(pt.TicksAtLongRange, pt.TicksAlive)
		g.AggressionScore = perfClamp(s)
	}

	// --- Mobility: staying hard to hit ---
	if pt.TicksAlive >= perfMinAliveTicks {
		s := 30.0
		s += 35.0 * perfFrac(pt.TicksMoving, pt.TicksAlive)
		s += 20.0 * perfFrac(pt.TicksAirborne, pt.TicksAlive)
		distPerSec := pt.DistanceTraveled / (alive / float64(ticksPerSecond))
		s += math.Min(15, distPerSec*3)
		g.MobilityScore = perfClamp(s)
	}

	// --- Survival: not dying ---
	if pt.TicksAlive+pt.TicksDead >= perfMinAliveTicks {
		minutes := (alive + float64(pt.TicksDead)) / float64(ticksPerSecond) / 60
		deathsPerMin := float64(pt.Deaths) / math.Max(minutes, 1.0/60)
		s := 85.0
		s -= 18.0 * deathsPerMin
		s -= 8.0 * float64(pt.WallDeaths)
		g.SurvivalScore = perfClamp(s)
	}

	// --- Defense: turning incoming fire around ---
	if pt.TicksUnderThreat >= perfMinAliveTicks/4 {
		s := 40.0
		s += 20.0 * math.Min(3, float64(pt.Deflections))
		g.DefenseScore = perfClamp(s)
	}

	// --- Overall weighted average ---
	type scoredWeight struct {
		score  float64
		weight float64
	}
	var items []scoredWeight
	if g.MarksmanScore >= 0 {
		items = append(items, scoredWeight{g.MarksmanScore, 0.30})
	}
	if g.SurvivalScore >= 0 {
		items = append(items, scoredWeight{g.SurvivalScore, 0.25})
	}
	if g.AggressionScore >= 0 {
		items = append(items, scoredWeight{g.AggressionScore, 0.20})
	}
	if g.MobilityScore >= 0 {
		items = append(items, scoredWeight{g.MobilityScore, 0.15})
	}
	if g.DefenseScore >= 0 {
		items = append(items, scoredWeight{g.DefenseScore, 0.10})
	}

	if len(items) > 0 {
		totalW := 0.0
		totalS := 0.0
		for _, it := range items {
			totalW += it.weight
			totalS += it.score * it.weight
		}
		g.Score = totalS / totalW
	} else {
		g.Score = 50.0
		g.Score += perfFrac(pt.TicksMoving, pt.TicksAlive) * 30.0
	}

	if pt.Won {
		g.Score = math.Min(100, g.Score+5)
	}

	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = perfDetectTraits(pt)
	return g
}

// ---------------------------------------------------------------------------
// Trait detection
// ---------------------------------------------------------------------------

func perfDetectTraits(pt *PerfTracker) (good, bad []string) {
	alive := math.Max(1, float64(pt.TicksAlive))
	rangedKills := pt.Kills - pt.MeleeKills
	if rangedKills < 0 {
		rangedKills = 0
	}
	lethality := 0.0
	if pt.ShotsFired > 0 {
		lethality = float64(rangedKills) / float64(pt.ShotsFired)
	}

	// ----- GOOD traits -----

	if pt.ShotsFired >= perfMinShots && lethality > 0.5 {
		good = append(good, "deadeye")
	}
	if pt.Deflections >= 2 {
		good = append(good, "bullet_juggler")
	}
	if pt.MeleeKills >= 2 {
		good = append(good, "blade_dancer")
	}
	if pt.Deaths == 0 && pt.TicksAlive > 600 {
		good = append(good, "untouchable")
	}
	if perfFrac(pt.TicksAtCloseRange, pt.TicksAlive) > 0.35 {
		good = append(good, "rusher")
	}
	if perfFrac(pt.TicksAirborne, pt.TicksAlive) > 0.45 {
		good = append(good, "aerialist")
	}
	if pt.OvertimeKills >= 1 {
		good = append(good, "clutch_finisher")
	}
	if perfFrac(pt.TicksMoving, pt.TicksAlive) > 0.60 && pt.DistanceTraveled/alive*float64(ticksPerSecond) > 3.0 {
		good = append(good, "relentless")
	}

	// ----- BAD traits -----

	if pt.ShotsFired >= 6 && lethality < 0.15 {
		bad = append(bad, "spray_and_pray")
	}
	if pt.WallDeaths >= 2 {
		bad = append(bad, "wall_magnet")
	}
	if perfFrac(pt.TicksIdle, pt.TicksAlive) > 0.45 {
		bad = append(bad, "flat_footed")
	}
	if pt.Deaths >= 3 && pt.Deaths > pt.Kills {
		bad = append(bad, "glass_cannon")
	}
	if perfFrac(pt.TicksAmmoEmpty, pt.TicksAlive) > 0.30 {
		bad = append(bad, "running_on_empty")
	}
	if pt.TicksOvertime > 60 && perfFrac(pt.TicksHuggingWall, pt.TicksOvertime) > 0.40 {
		bad = append(bad, "wall_hugger")
	}

	return
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrades returns a human-readable performance report.
func FormatGrades(grades []PlayerGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Player Performance Grades ===\n")

	for _, g := range grades {
		status := "eliminated"
		switch {
		case g.Won:
			status = "WINNER"
		case g.Survived:
			status = "standing"
		}
		fmt.Fprintf(&sb, "  %-3s  %-3s  %-5s  [%s]  kills=%d deaths=%d lethality=%.0f%%  air=%.0f%%  close=%.0f%%\n",
			g.Grade, g.Label, g.Kind, status, g.Kills, g.Deaths, g.Lethality*100, g.AirTimePct, g.CloseTimePct)

		if len(g.GoodTraits) > 0 {
			fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
		}
		if len(g.BadTraits) > 0 {
			fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
		}

		var scores []string
		if g.MarksmanScore >= 0 {
			scores = append(scores, fmt.Sprintf("Marksman=%.0f", g.MarksmanScore))
		}
		if g.SurvivalScore >= 0 {
			scores = append(scores, fmt.Sprintf("Survival=%.0f", g.SurvivalScore))
		}
		if g.AggressionScore >= 0 {
			scores = append(scores, fmt.Sprintf("Aggression=%.0f", g.AggressionScore))
		}
		if g.MobilityScore >= 0 {
			scores = append(scores, fmt.Sprintf("Mobility=%.0f", g.MobilityScore))
		}
		if g.DefenseScore >= 0 {
			scores = append(scores, fmt.Sprintf("Defense=%.0f", g.DefenseScore))
		}
		if len(scores) > 0 {
			fmt.Fprintf(&sb, "       Scores: %s\n", strings.Join(scores, "  "))
		}
	}

	return sb.String()
}

// FormatGradesSummary returns a compact pool-level summary.
func FormatGradesSummary(grades []PlayerGrade) string {
	if len(grades) == 0 {
		return ""
	}
	var sb strings.Builder

	scoreSum := 0.0
	survived := 0
	goodCount := map[string]int{}
	badCount := map[string]int{}
	for _, g := range grades {
		scoreSum += g.Score
		if g.Survived {
			survived++
		}
		for _, t := range g.GoodTraits {
			goodCount[t]++
		}
		for _, t := range g.BadTraits {
			badCount[t]++
		}
	}
	avg := scoreSum / float64(len(grades))
	fmt.Fprintf(&sb, "  pool: avg_score=%.1f (%s)  standing=%d/%d\n",
		avg, PerfLetterGrade(avg), survived, len(grades))
	if len(goodCount) > 0 {
		fmt.Fprintf(&sb, "    Top good: %s\n", perfTopTraits(goodCount, 4))
	}
	if len(badCount) > 0 {
		fmt.Fprintf(&sb, "    Top bad:  %s\n", perfTopTraits(badCount, 4))
	}

	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
