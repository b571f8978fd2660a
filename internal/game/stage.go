package game

// --- Arena constants ---

const (
	maxPlatforms = 16
	numStages    = 3

	arenaLeftBound  = -10.0
	arenaRightBound = 10.0
)

// Platform is one solid in the arena. The table is fixed size and
// repopulated wholesale on stage setup; slots past the layout stay inactive.
type Platform struct {
	x, y          float64 // bottom-left corner, world units, y up
	width, height float64
	active        bool
	thin          bool // drop-through allowed (every ledge except the ground slab)

	// Ping-pong oscillation. Only the Ring Void centre platform moves.
	moving           bool
	moveSpeed        float64
	moveMin, moveMax float64
}

func (pl *Platform) top() float64 { return pl.y + pl.height }

// platformSpec is one row of a stage layout table.
type platformSpec struct {
	x, y, w, h float64
	thin       bool
	moving     bool
	speed      float64
	min, max   float64
}

// stageLayouts defines the three built-in arenas. Heights and positions are
// tuned so every spawn point sits above a platform.
var stageLayouts = [numStages][]platformSpec{
	// Stage 0: Grid Arena. Solid ground slab with three ledges above it.
	{
		{x: -10, y: -2, w: 20, h: 0.5},
		{x: -7, y: 1, w: 4, h: 0.4, thin: true},
		{x: 3, y: 1, w: 4, h: 0.4, thin: true},
		{x: -3, y: 4, w: 6, h: 0.4, thin: true},
	},
	// Stage 1: Scatter Field. No ground; a pit below scattered ledges.
	{
		{x: -9, y: 0, w: 4, h: 0.4, thin: true},
		{x: -3, y: -1, w: 3, h: 0.4, thin: true},
		{x: 2, y: 0.5, w: 3.5, h: 0.4, thin: true},
		{x: 6, y: -0.5, w: 3, h: 0.4, thin: true},
		{x: -6, y: 3, w: 3, h: 0.4, thin: true},
		{x: 0, y: 4, w: 4, h: 0.4, thin: true},
		{x: 5, y: 2.5, w: 3, h: 0.4, thin: true},
	},
	// Stage 2: Ring Void. Pit below, with an oscillating centre platform.
	{
		{x: -8, y: 0, w: 3, h: 0.4, thin: true},
		{x: 5, y: 0, w: 3, h: 0.4, thin: true},
		{x: -1.5, y: 1, w: 3, h: 0.4, thin: true, moving: true, speed: 0.02, min: -4, max: 4},
		{x: -7, y: 3.5, w: 2.5, h: 0.4, thin: true},
		{x: 4.5, y: 3.5, w: 2.5, h: 0.4, thin: true},
		{x: -2, y: 5, w: 4, h: 0.4, thin: true},
	},
}

// stageSpawns maps stage -> slot -> spawn point. Every point is directly
// above a platform so round starts never drop a player into the pit.
var stageSpawns = [numStages][MaxPlayers][2]float64{
	{{-5, 1.5}, {5, 1.5}, {-2, 4.5}, {2, 4.5}},
	{{-7, 0.5}, {3.5, 1.0}, {-4.5, 3.5}, {1.5, 4.5}},
	{{-6.5, 0.5}, {6.0, 0.5}, {-5.5, 4.0}, {5.5, 4.0}},
}

var stageNames = [numStages]string{"Grid Arena", "Scatter Field", "Ring Void"}

// StageName returns the display name for a stage index.
func StageName(stage int) string {
	return stageNames[clampStage(stage)]
}

// clampStage maps any index onto a valid stage. Out-of-range configuration
// falls back rather than failing.
func clampStage(stage int) int {
	if stage < 0 || stage >= numStages {
		return 0
	}
	return stage
}

// setupCurrentStage clears the platform table and repopulates it from the
// current stage's layout.
func (s *Simulation) setupCurrentStage() {
	for i := range s.platforms {
		s.platforms[i] = Platform{}
	}
	layout := stageLayouts[clampStage(s.currentStage)]
	for i, spec := range layout {
		if i >= maxPlatforms {
			break
		}
		s.platforms[i] = Platform{
			x:         spec.x,
			y:         spec.y,
			width:     spec.w,
			height:    spec.h,
			active:    true,
			thin:      spec.thin,
			moving:    spec.moving,
			moveSpeed: spec.speed,
			moveMin:   spec.min,
			moveMax:   spec.max,
		}
	}
}

// updatePlatforms advances each mover by its speed and reverses direction
// at the configured bounds. Plain ping-pong, no easing.
func (s *Simulation) updatePlatforms() {
	for i := range s.platforms {
		pl := &s.platforms[i]
		if !pl.active || !pl.moving {
			continue
		}
		pl.x += pl.moveSpeed
		if pl.x <= pl.moveMin || pl.x >= pl.moveMax {
			pl.moveSpeed = -pl.moveSpeed
		}
	}
}

// spawnPosition returns the fixed spawn point for a slot on the current
// stage. Indices are clamped, never rejected.
func (s *Simulation) spawnPosition(slot int) (float64, float64) {
	if slot < 0 {
		slot = 0
	}
	if slot >= MaxPlayers {
		slot = MaxPlayers - 1
	}
	pt := stageSpawns[clampStage(s.currentStage)][slot]
	return pt[0], pt[1]
}

// pickRespawnPoint scores the stage's spawn candidates by the squared
// distance to the nearest living opponent and the nearest active bullet,
// takes the per-candidate minimum of the two, and picks the candidate that
// maximises that minimum: the point farthest from its closest threat.
// Ties rotate with tick and slot so one point is never favoured forever.
func (s *Simulation) pickRespawnPoint(slot int) (float64, float64) {
	spawns := stageSpawns[clampStage(s.currentStage)]

	const noThreat = 1e18
	bestScore := -1.0
	bestIdx := 0
	offset := (s.tick + slot) % MaxPlayers

	for c := 0; c < MaxPlayers; c++ {
		idx := (c + offset) % MaxPlayers
		cx := spawns[idx][0] + playerWidth/2
		cy := spawns[idx][1] + playerHeight/2

		nearestOpp := noThreat
		for i := range s.players {
			p := &s.players[i]
			if i == slot || !p.active || p.dead {
				continue
			}
			d := sqDist(cx, cy, p.x+playerWidth/2, p.y+playerHeight/2)
			if d < nearestOpp {
				nearestOpp = d
			}
		}

		nearestBullet := noThreat
		for i := range s.bullets {
			b := &s.bullets[i]
			if !b.active {
				continue
			}
			d := sqDist(cx, cy, b.x, b.y)
			if d < nearestBullet {
				nearestBullet = d
			}
		}

		score := nearestOpp
		if nearestBullet < score {
			score = nearestBullet
		}
		if score > bestScore {
			bestScore = score
			bestIdx = idx
		}
	}

	return spawns[bestIdx][0], spawns[bestIdx][1]
}

func sqDist(x0, y0, x1, y1 float64) float64 {
	dx := x1 - x0
	dy := y1 - y0
	return dx*dx + dy*dy
}
