package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Arc-Arena/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	outcome game.MatchOutcomeReason

	firstBloodTick   int
	firstDeflectTick int
	firstMeleeTick   int
	overtimeTick     int
	finalKoTick      int
	matchEndTick     int

	shots       int
	kills       int
	deaths      int
	deflections int
	meleeKills  int
	wallDeaths  int
	respawns    int

	killsByLabel  map[string]int
	deathsByLabel map[string]int

	windowSummary *game.WindowReport
	grades        []game.PlayerGrade
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var difficulty string
	var stage string
	var killTarget int
	var roundTime int
	var copyOut bool
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless bot matches")
	flag.IntVar(&ticks, "ticks", 36000, "tick budget per match (60 ticks per second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&difficulty, "difficulty", "normal", "bot difficulty: easy, normal, hard")
	flag.StringVar(&stage, "stage", "rotate", "stage policy: grid, scatter, ring, random, rotate")
	flag.IntVar(&killTarget, "kills", 5, "kills needed to win the match")
	flag.IntVar(&roundTime, "round-time", 45, "round clock in seconds, 0 disables it")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&verbose, "v", false, "record per-tick movement in the sim log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if killTarget <= 0 {
		fmt.Println("error: -kills must be > 0")
		return
	}
	if roundTime < 0 {
		fmt.Println("error: -round-time must be >= 0")
		return
	}
	diffVal, ok := parseDifficulty(difficulty)
	if !ok {
		fmt.Printf("error: unsupported difficulty %q (supported: easy, normal, hard)\n", difficulty)
		return
	}
	stageVal, ok := parseStage(stage)
	if !ok {
		fmt.Printf("error: unsupported stage %q (supported: grid, scatter, ring, random, rotate)\n", stage)
		return
	}

	cfg := game.DefaultConfig()
	cfg.BotDifficulty = diffVal
	cfg.StageSelect = stageVal
	cfg.KillsToWin = killTarget
	cfg.RoundTimeSeconds = roundTime

	w := io.Writer(os.Stdout)
	var buf *strings.Builder
	if copyOut {
		buf = &strings.Builder{}
		w = io.MultiWriter(os.Stdout, buf)
	}

	fmt.Fprintf(w, "=== Headless Match Report ===\n")
	fmt.Fprintf(w, "difficulty=%s stage=%s kills_to_win=%d round_time=%ds runs=%d tick_budget=%d seed_base=%d seed_step=%d\n\n",
		difficulty, stage, killTarget, roundTime, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runBotMatch(i+1, seed, ticks, cfg, verbose)
		all = append(all, stats)
		printRun(w, stats)
	}

	printAggregate(w, all)

	if copyOut {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			fmt.Printf("clipboard copy failed: %v\n", err)
		} else {
			fmt.Println("report copied to clipboard")
		}
	}
}

func runBotMatch(runIndex int, seed int64, budget int, cfg game.GameConfig, verbose bool) runStats {
	ts := game.NewTestSim(
		game.WithSeed(seed),
		game.WithConfig(cfg),
		game.WithVerbose(verbose),
	)
	ts.Sim.StartBotMatch()
	ts.RunUntil(func(ts *game.TestSim) bool {
		return ts.Sim.Phase() == game.PhaseMatchEnd
	}, budget)

	entries := ts.SimLog.Entries()
	killsByLabel := map[string]int{}
	deathsByLabel := map[string]int{}
	for _, e := range entries {
		switch {
		case e.Category == "combat" && e.Key == "kill":
			killsByLabel[e.Player]++
		case e.Category == "player" && e.Key == "death":
			deathsByLabel[e.Player]++
		}
	}

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		outcome:          game.DetermineMatchOutcome(ts.Sim),
		firstBloodTick:   firstTick(entries, "player", "death", ""),
		firstDeflectTick: firstTick(entries, "combat", "deflect", ""),
		firstMeleeTick:   firstTick(entries, "combat", "melee_kill", ""),
		overtimeTick:     firstTick(entries, "match", "overtime", ""),
		finalKoTick:      firstTick(entries, "match", "phase_change", "→ final_ko"),
		matchEndTick:     firstTick(entries, "match", "phase_change", "→ match_end"),
		shots:            ts.SimLog.CountCategory("combat", "shot"),
		kills:            ts.SimLog.CountCategory("combat", "kill"),
		deaths:           ts.SimLog.CountCategory("player", "death"),
		deflections:      ts.SimLog.CountCategory("combat", "deflect"),
		meleeKills:       ts.SimLog.CountCategory("combat", "melee_kill"),
		wallDeaths:       ts.SimLog.CountCategory("combat", "wall_death"),
		respawns:         ts.SimLog.CountCategory("player", "respawn"),
		killsByLabel:     killsByLabel,
		deathsByLabel:    deathsByLabel,
		windowSummary:    ts.Reporter.WindowSummary(),
		grades:           ts.PlayerGrades(),
	}
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// detectSweep reports whether a run ended one-sided: the winner held a wide
// kill margin, or never died at all.
func detectSweep(rs runStats) (bool, string) {
	oc := rs.outcome
	if oc.Winner < 0 {
		return false, "no_winner"
	}
	margin := oc.WinnerKills - oc.RunnerUpKills
	winnerDeaths := rs.deathsByLabel[fmt.Sprintf("P%d", oc.Winner)]
	switch {
	case winnerDeaths == 0 && margin >= 2:
		return true, fmt.Sprintf("flawless margin=%d", margin)
	case margin >= 3:
		return true, fmt.Sprintf("kill_margin=%d winner_deaths=%d", margin, winnerDeaths)
	}
	return false, fmt.Sprintf("margin=%d winner_deaths=%d", margin, winnerDeaths)
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)

	oc := rs.outcome
	winner := "none"
	if oc.Winner >= 0 {
		winner = fmt.Sprintf("P%d", oc.Winner)
	}
	fmt.Fprintf(w, "outcome: %s (%s) winner=%s kills=%d runner_up=%d rounds=%d duration_ticks=%d\n",
		oc.Outcome, oc.Description, winner, oc.WinnerKills, oc.RunnerUpKills, oc.RoundsPlayed, oc.DurationTicks)
	fmt.Fprintf(w, "phase_markers: first_blood=%d first_deflect=%d first_melee=%d overtime=%d final_ko=%d match_end=%d\n",
		rs.firstBloodTick, rs.firstDeflectTick, rs.firstMeleeTick, rs.overtimeTick, rs.finalKoTick, rs.matchEndTick)
	fmt.Fprintf(w, "event_totals: shots=%d kills=%d deaths=%d deflections=%d melee_kills=%d wall_deaths=%d respawns=%d\n",
		rs.shots, rs.kills, rs.deaths, rs.deflections, rs.meleeKills, rs.wallDeaths, rs.respawns)
	fmt.Fprintf(w, "kills_by_player: %s\n", joinCounts(rs.killsByLabel))
	if sweep, reason := detectSweep(rs); sweep {
		fmt.Fprintf(w, "sweep: yes (%s)\n", reason)
	} else {
		fmt.Fprintf(w, "sweep: no (%s)\n", reason)
	}

	if ws := rs.windowSummary; ws != nil {
		fmt.Fprintf(w, "window_samples=%d window_tick_range=%d..%d\n",
			ws.SampleCount, ws.FromTick, ws.ToTick)
		fmt.Fprintf(w, "window_totals: kills=%d deaths=%d shots=%d deflections=%d lead_changes=%d overtime_pct=%.0f%%\n",
			ws.Kills, ws.Deaths, ws.Shots, ws.Deflections, ws.LeadChanges, ws.OvertimePct)
		fmt.Fprintf(w, "window_avgs: bullets_in_flight=%.1f players_alive=%.1f\n",
			ws.AvgBullets, ws.AvgLiving)
	}
	fmt.Fprint(w, game.FormatGrades(rs.grades))
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalShots := 0
	totalKills := 0
	totalDeaths := 0
	totalDeflect := 0
	totalMelee := 0
	totalWall := 0
	totalRespawns := 0
	sweepRuns := 0
	overtimeRuns := 0

	bloodTicks := make([]int, 0, len(all))
	deflectTicks := make([]int, 0, len(all))
	meleeTicks := make([]int, 0, len(all))
	endTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}

	// Aggregate per-player scores across runs.
	type playerAgg struct {
		scoreSum float64
		count    int
		wins     int
		survived int
		good     map[string]int
		bad      map[string]int
	}
	playerAggs := map[string]*playerAgg{}

	for _, rs := range all {
		totalShots += rs.shots
		totalKills += rs.kills
		totalDeaths += rs.deaths
		totalDeflect += rs.deflections
		totalMelee += rs.meleeKills
		totalWall += rs.wallDeaths
		totalRespawns += rs.respawns
		outcomes[rs.outcome.Outcome.String()]++
		if rs.outcome.DecidedInOvertime {
			overtimeRuns++
		}
		if sweep, _ := detectSweep(rs); sweep {
			sweepRuns++
		}
		if rs.firstBloodTick >= 0 {
			bloodTicks = append(bloodTicks, rs.firstBloodTick)
		}
		if rs.firstDeflectTick >= 0 {
			deflectTicks = append(deflectTicks, rs.firstDeflectTick)
		}
		if rs.firstMeleeTick >= 0 {
			meleeTicks = append(meleeTicks, rs.firstMeleeTick)
		}
		if rs.matchEndTick >= 0 {
			endTicks = append(endTicks, rs.matchEndTick)
		}
		for _, g := range rs.grades {
			ag, ok := playerAggs[g.Label]
			if !ok {
				ag = &playerAgg{good: map[string]int{}, bad: map[string]int{}}
				playerAggs[g.Label] = ag
			}
			ag.scoreSum += g.Score
			ag.count++
			if g.Won {
				ag.wins++
			}
			if g.Survived {
				ag.survived++
			}
			for _, t := range g.GoodTraits {
				ag.good[t]++
			}
			for _, t := range g.BadTraits {
				ag.bad[t]++
			}
		}
	}

	fmt.Fprintln(w, "=== Aggregate Match Report ===")
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "outcomes: %s\n", joinCounts(outcomes))
	fmt.Fprintf(w, "avg_events_per_run: shots=%.1f kills=%.1f deaths=%.1f deflections=%.1f melee_kills=%.1f wall_deaths=%.1f respawns=%.1f\n",
		avg(totalShots, len(all)), avg(totalKills, len(all)), avg(totalDeaths, len(all)),
		avg(totalDeflect, len(all)), avg(totalMelee, len(all)), avg(totalWall, len(all)), avg(totalRespawns, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_blood=%s first_deflect=%s first_melee=%s match_end=%s\n",
		avgTickString(bloodTicks), avgTickString(deflectTicks), avgTickString(meleeTicks), avgTickString(endTicks))
	fmt.Fprintf(w, "overtime_runs=%d/%d sweep_runs=%d/%d\n", overtimeRuns, len(all), sweepRuns, len(all))

	// Per-player aggregate performance.
	fmt.Fprintln(w, "\n=== Aggregate Player Performance ===")
	type labelScore struct {
		label    string
		avgScore float64
		winRate  float64
		survRate float64
		topGood  string
		topBad   string
	}
	var rows []labelScore
	for label, ag := range playerAggs {
		avgS := 0.0
		winR := 0.0
		survR := 0.0
		if ag.count > 0 {
			avgS = ag.scoreSum / float64(ag.count)
			winR = float64(ag.wins) / float64(ag.count) * 100
			survR = float64(ag.survived) / float64(ag.count) * 100
		}
		rows = append(rows, labelScore{label, avgS, winR, survR, topTrait(ag.good), topTrait(ag.bad)})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].label < rows[j].label
	})
	for _, r := range rows {
		grade := game.PerfLetterGrade(r.avgScore)
		fmt.Fprintf(w, "  %s  %s (avg=%.1f)  wins=%.0f%%  survival=%.0f%%", r.label, grade, r.avgScore, r.winRate, r.survRate)
		if r.topGood != "" {
			fmt.Fprintf(w, "  good=%s", r.topGood)
		}
		if r.topBad != "" {
			fmt.Fprintf(w, "  bad=%s", r.topBad)
		}
		fmt.Fprintln(w)
	}

	if len(all) > 0 {
		fmt.Fprintln(w, "\n--- Roster Summary (across all runs) ---")
		fmt.Fprint(w, game.FormatGradesSummary(collectAllGrades(all)))
	}
}

func parseDifficulty(s string) (int, bool) {
	switch s {
	case "easy":
		return 0, true
	case "normal":
		return 1, true
	case "hard":
		return 2, true
	}
	return 0, false
}

func parseStage(s string) (game.StagePolicy, bool) {
	switch s {
	case "grid":
		return game.PolicyFixedGrid, true
	case "scatter":
		return game.PolicyFixedScatter, true
	case "ring":
		return game.PolicyFixedRing, true
	case "random":
		return game.PolicyRandom, true
	case "rotate":
		return game.PolicyRotate, true
	}
	return 0, false
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func topTrait(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN {
			best = k
			bestN = v
		}
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func collectAllGrades(all []runStats) []game.PlayerGrade {
	var out []game.PlayerGrade
	for _, rs := range all {
		out = append(out, rs.grades...)
	}
	return out
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
