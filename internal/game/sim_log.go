package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless test simulation.
type SimLogEntry struct {
	Tick     int
	Player   string  // label e.g. "P0".."P3", or "--" for match-level events
	Category string  // match, player, move, combat, bot
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] P0  combat  bullet_fired       dir=(1.00, 0.00)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-3s %-7s %-18s %s",
		e.Tick, e.Player, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless test simulation.
// Unbounded and machine-readable; the harness fills it by diffing sim state
// across ticks, so the simulation itself stays free of logging calls.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position/velocity
// entries are also recorded (useful for detailed debugging).
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, player, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Player:   player,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, player, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, player, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterPlayer returns entries for a specific player label.
func (sl *SimLog) FilterPlayer(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Player == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the match state.
func (sl *SimLog) Summary(s *Simulation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", s.tick)
	fmt.Fprintf(&sb, "Phase: %s  stage: %s  round: %d\n",
		s.phase, StageName(s.currentStage), s.roundNumber)
	if s.overtime {
		fmt.Fprintf(&sb, "Overtime: bounds [%.2f, %.2f]\n", s.arenaLeft, s.arenaRight)
	}

	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		state := "alive"
		if p.dead {
			state = fmt.Sprintf("dead(respawn=%d)", p.respawnTimer)
		}
		fmt.Fprintf(&sb, "P%d %-5s %-16s kills=%d ammo=%d pos=(%.2f, %.2f)\n",
			i, p.kind, state, p.kills, p.ammo, p.x, p.y)
	}

	live := 0
	for i := range s.bullets {
		if s.bullets[i].active {
			live++
		}
	}
	fmt.Fprintf(&sb, "Bullets in flight: %d\n", live)

	if s.winner >= 0 {
		fmt.Fprintf(&sb, "Winner: P%d\n", s.winner)
	}
	return sb.String()
}

// playerLabel names slot i in log entries.
func playerLabel(i int) string {
	return fmt.Sprintf("P%d", i)
}
