package game

import "math/rand"

// ticksPerSecond is the canonical fixed timestep rate. Every timer constant
// in this package is expressed in these ticks.
const ticksPerSecond = 60

// Simulation is the complete deterministic core of a match: players,
// projectiles, platforms, and the match-flow state machine. Callers own the
// instance and drive it with Advance once per host frame; nothing in this
// package keeps global state, so parallel instances never interfere.
//
// Determinism contract: two Simulations built with the same seed and config
// and fed identical input sequences hold bit-identical state after any
// number of ticks, with any AudioSink/FxSink installed (the sinks are
// one-way and nothing they do feeds back).
type Simulation struct {
	players   [MaxPlayers]Player
	bullets   [maxBullets]Bullet
	platforms [maxPlatforms]Platform
	stats     [MaxPlayers]MatchStats

	// Inputs. frames holds this tick's effective frames (bot slots are
	// overwritten by the controller); raw/prevRaw hold the physical pad
	// words for menu navigation and demo-exit edges.
	frames  [MaxPlayers]InputFrame
	raw     [MaxPlayers]uint16
	prevRaw [MaxPlayers]uint16

	// Match flow.
	phase          Phase
	pausedFrom     Phase
	pausePage      PausePage
	tick           int
	roundNumber    int
	currentStage   int
	countdownTimer int
	roundTimer     int // ticks left on the round clock; 0 when no limit
	roundEndTimer  int
	finalKoTimer   int
	matchEndTimer  int // demo-only linger on the result screen
	attractTimer   int
	hitFreeze      int
	overtime       bool
	demo           bool
	wonInOvertime  bool
	winner         int // slot index, -1 while undecided

	// Arena bounds, shrunk during overtime.
	arenaLeft  float64
	arenaRight float64

	// Menus.
	lobbyCursor int
	pauseCursor int

	config      GameConfig
	savedConfig GameConfig // restored when a demo match ends
	options     Options

	// debug trace, recorded only while enabled
	trace   []traceFrame
	traceOn bool

	seed  int64
	rng   *rand.Rand
	audio AudioSink
	fx    FxSink

	// last requested track, replayed when a real sink is installed late
	musicTrack MusicTrack
	musicVol   float64
}

// New builds a simulation at the title screen. Sinks default to no-ops;
// install real ones with SetAudioSink/SetFxSink before the first Advance.
func New(seed int64, cfg GameConfig) *Simulation {
	s := &Simulation{
		phase:      PhaseTitle,
		winner:     -1,
		arenaLeft:  arenaLeftBound,
		arenaRight: arenaRightBound,
		config:     cfg,
		options:    DefaultOptions(),
		seed:       seed,
		rng:        rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic sim stream, not crypto
		audio:      NopAudioSink(),
		fx:         NopFxSink(),
	}
	s.setupCurrentStage()
	s.playMusic(TrackMenu, 0.6)
	return s
}

// SetAudioSink installs the audio collaborator. A nil sink restores the no-op.
// The shell attaches its sink after New, so the current track and volumes are
// replayed onto the incoming sink.
func (s *Simulation) SetAudioSink(a AudioSink) {
	if a == nil {
		a = NopAudioSink()
	}
	s.audio = a
	s.audio.SetMusicVolume(s.options.MusicVolume)
	s.audio.SetSfxVolume(s.options.SfxVolume)
	s.audio.PlayMusic(s.musicTrack, s.musicVol)
}

// playMusic routes a track change through the sink and remembers it for
// late-installed sinks.
func (s *Simulation) playMusic(track MusicTrack, volume float64) {
	s.musicTrack = track
	s.musicVol = volume
	s.audio.PlayMusic(track, volume)
}

// SetFxSink installs the effects collaborator. A nil sink restores the no-op.
func (s *Simulation) SetFxSink(f FxSink) {
	if f == nil {
		f = NopFxSink()
	}
	s.fx = f
}

// Advance runs exactly one simulation tick. The caller supplies one input
// frame per pad slot; bot slots get theirs replaced by the bot controller.
// All mutation for the tick completes before Advance returns, so the shell
// may read any state afterwards.
func (s *Simulation) Advance(frames [MaxPlayers]InputFrame) {
	s.tick++
	s.frames = frames
	for i := range frames {
		s.raw[i] = frames[i].Buttons
	}

	// A demo match hands control back the moment anyone touches a pad.
	if s.demo && s.anyRawPress() {
		s.exitDemo(false)
	} else {
		switch s.phase {
		case PhaseTitle:
			s.updateTitle()
		case PhaseLobby:
			s.updateLobby()
		case PhaseCountdown:
			s.updateCountdown()
		case PhasePlaying:
			s.updatePlaying()
		case PhasePaused:
			s.updatePaused()
		case PhaseFinalKo:
			s.updateFinalKo()
		case PhaseMatchEnd:
			s.updateMatchEnd()
		}
	}

	for i := range s.players {
		s.players[i].prevButtons = s.frames[i].Buttons
	}
	s.prevRaw = s.raw

	if s.traceOn {
		s.captureTrace()
	}
}

// StartBotMatch fills every slot with a bot and starts a match under the
// current config, bypassing the title/lobby flow. Used by the headless
// runner and the test harness; not a demo match, so it parks on the result
// screen instead of timing out.
func (s *Simulation) StartBotMatch() {
	s.demo = false
	for i := range s.players {
		p := &s.players[i]
		*p = Player{}
		p.active = true
		p.ready = true
		p.kind = PlayerBot
		p.bot = &BotState{}
	}
	s.resetMatch()
}

func (s *Simulation) rawPressed(i int, b uint16) bool {
	return s.raw[i]&b != 0 && s.prevRaw[i]&b == 0
}

func (s *Simulation) anyRawPress() bool {
	for i := range s.raw {
		if s.raw[i]&^s.prevRaw[i] != 0 {
			return true
		}
	}
	return false
}

// --- Read-only access for shells and reporting ---

func (s *Simulation) Tick() int          { return s.tick }
func (s *Simulation) Phase() Phase       { return s.phase }
func (s *Simulation) Winner() int        { return s.winner }
func (s *Simulation) RoundNumber() int   { return s.roundNumber }
func (s *Simulation) Stage() int         { return s.currentStage }
func (s *Simulation) Overtime() bool     { return s.overtime }
func (s *Simulation) Demo() bool         { return s.demo }
func (s *Simulation) Config() GameConfig { return s.config }
func (s *Simulation) Seed() int64        { return s.seed }

// PlayerStats returns the running tallies for one slot.
func (s *Simulation) PlayerStats(i int) MatchStats {
	if i < 0 || i >= MaxPlayers {
		return MatchStats{}
	}
	return s.stats[i]
}

// PlayerActive reports whether a slot is participating.
func (s *Simulation) PlayerActive(i int) bool {
	if i < 0 || i >= MaxPlayers {
		return false
	}
	return s.players[i].active
}

// PlayerIsBot reports whether a slot is bot-controlled.
func (s *Simulation) PlayerIsBot(i int) bool {
	if i < 0 || i >= MaxPlayers {
		return false
	}
	return s.players[i].active && s.players[i].kind == PlayerBot
}

// PlayerKills returns a slot's current match score.
func (s *Simulation) PlayerKills(i int) int {
	if i < 0 || i >= MaxPlayers {
		return 0
	}
	return s.players[i].kills
}
