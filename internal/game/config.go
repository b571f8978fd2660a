package game

// StagePolicy selects how the arena changes between rounds.
// Values 0..2 lock a specific stage; the last two cycle or randomise.
type StagePolicy int

const (
	PolicyFixedGrid    StagePolicy = 0 // always Grid Arena
	PolicyFixedScatter StagePolicy = 1 // always Scatter Field
	PolicyFixedRing    StagePolicy = 2 // always Ring Void
	PolicyRandom       StagePolicy = 3 // random stage each round
	PolicyRotate       StagePolicy = 4 // cycle 0 -> 1 -> 2 -> 0
)

func (sp StagePolicy) String() string {
	switch sp {
	case PolicyFixedGrid:
		return "grid_arena"
	case PolicyFixedScatter:
		return "scatter_field"
	case PolicyFixedRing:
		return "ring_void"
	case PolicyRandom:
		return "random"
	case PolicyRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// killTargetSteps and roundTimeSteps are the values the lobby cycles through.
// A round time of 0 disables the clock (and therefore overtime).
var (
	killTargetSteps = []int{1, 3, 5, 10}
	roundTimeSteps  = []int{30, 45, 60, 90, 0}
)

// GameConfig holds the lobby-adjustable match rules. It persists across
// rounds and matches; only explicit menu actions change it.
type GameConfig struct {
	StageSelect      StagePolicy
	KillsToWin       int
	RoundTimeSeconds int
	FillBots         bool
	BotDifficulty    int // 0 easy, 1 normal, 2 hard
}

// DefaultConfig returns the rules a fresh lobby starts with.
func DefaultConfig() GameConfig {
	return GameConfig{
		StageSelect:      PolicyRotate,
		KillsToWin:       5,
		RoundTimeSeconds: 45,
		FillBots:         true,
		BotDifficulty:    1,
	}
}

// cycleSetting adjusts the lobby row at index by dir (-1 left, +1 right).
func (c *GameConfig) cycleSetting(index, dir int) {
	switch index {
	case 0:
		n := int(c.StageSelect) + dir
		const count = int(PolicyRotate) + 1
		c.StageSelect = StagePolicy(((n % count) + count) % count)
	case 1:
		c.KillsToWin = stepValue(killTargetSteps, c.KillsToWin, dir)
	case 2:
		c.RoundTimeSeconds = stepValue(roundTimeSteps, c.RoundTimeSeconds, dir)
	case 3:
		c.FillBots = !c.FillBots
	case 4:
		n := c.BotDifficulty + dir
		c.BotDifficulty = ((n % 3) + 3) % 3
	}
}

// stepValue moves v to the previous/next entry of steps, wrapping.
// An off-list value (only possible through direct field writes) restarts
// the cycle at the first entry.
func stepValue(steps []int, v, dir int) int {
	for i, s := range steps {
		if s == v {
			n := len(steps)
			return steps[((i+dir)%n+n)%n]
		}
	}
	return steps[0]
}

// Options holds player-facing presentation settings. Cosmetic only: the
// simulation never reads them, the shell does.
type Options struct {
	MusicVolume float64 // 0..1
	SfxVolume   float64 // 0..1
	ScreenShake bool
	ScreenFlash bool
}

// DefaultOptions returns the presentation defaults.
func DefaultOptions() Options {
	return Options{
		MusicVolume: 0.6,
		SfxVolume:   0.85,
		ScreenShake: true,
		ScreenFlash: true,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
