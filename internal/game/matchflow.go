package game

import "math"

// --- Match flow constants ---

const (
	countdownTicks = 180 // 3s pre-round freeze
	roundEndTicks  = 30  // beat between a kill and the next round
	finalKoTicks   = 90  // slow-motion hold on the winning kill
	attractIdle    = 900 // title idle before the demo match starts
	demoEndTicks   = 600 // demo lingers on the result screen this long

	overtimeShrink = 0.003 // per bound per tick
	minArenaWidth  = 2.5

	lobbySettingCount = 5
	pauseMainCount    = 5
	pauseOptionCount  = 4
	volumeStep        = 0.05
)

// Phase is the match-flow state. Transitions happen only inside Advance.
type Phase int

const (
	PhaseTitle Phase = iota
	PhaseLobby
	PhaseCountdown
	PhasePlaying
	PhasePaused
	PhaseFinalKo
	PhaseMatchEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhaseLobby:
		return "lobby"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseFinalKo:
		return "final_ko"
	case PhaseMatchEnd:
		return "match_end"
	default:
		return "unknown"
	}
}

// PausePage selects which pause screen is showing.
type PausePage int

const (
	PauseMain PausePage = iota
	PauseOptions
)

func (pp PausePage) String() string {
	switch pp {
	case PauseMain:
		return "main"
	case PauseOptions:
		return "options"
	default:
		return "unknown"
	}
}

// applyHitFreeze keeps the longer of the pending and requested freeze.
func (s *Simulation) applyHitFreeze(ticks int) {
	if ticks > s.hitFreeze {
		s.hitFreeze = ticks
	}
}

// --- Phase handlers ---

func (s *Simulation) updateTitle() {
	for i := range s.players {
		if s.rawPressed(i, ButtonA) || s.rawPressed(i, ButtonStart) {
			s.toLobby()
			return
		}
	}
	if s.anyRawPress() {
		s.attractTimer = 0
		return
	}
	s.attractTimer++
	if s.attractTimer >= attractIdle {
		s.startDemo()
	}
}

func (s *Simulation) updateLobby() {
	// Any pad: first A press joins the slot, later presses toggle ready.
	for i := range s.players {
		if !s.rawPressed(i, ButtonA) {
			continue
		}
		p := &s.players[i]
		if !p.active {
			p.active = true
			p.kind = PlayerHuman
			p.bot = nil
			p.ready = true
		} else {
			p.ready = !p.ready
		}
	}

	// P1 drives the settings rows.
	if s.rawPressed(0, ButtonUp) {
		s.lobbyCursor = (s.lobbyCursor + lobbySettingCount - 1) % lobbySettingCount
	}
	if s.rawPressed(0, ButtonDown) {
		s.lobbyCursor = (s.lobbyCursor + 1) % lobbySettingCount
	}
	if s.rawPressed(0, ButtonLeft) {
		s.config.cycleSetting(s.lobbyCursor, -1)
	}
	if s.rawPressed(0, ButtonRight) {
		s.config.cycleSetting(s.lobbyCursor, 1)
	}

	if s.rawPressed(0, ButtonB) {
		s.toTitle()
		return
	}

	for i := range s.players {
		if s.rawPressed(i, ButtonStart) {
			s.tryStartMatch()
			return
		}
	}
}

// tryStartMatch resolves the participant set and begins the match when at
// least two slots will fight. A start request with nobody readied assumes
// P1 wants in.
func (s *Simulation) tryStartMatch() {
	readyHumans := 0
	for i := range s.players {
		p := &s.players[i]
		if p.active && p.kind == PlayerHuman && p.ready {
			readyHumans++
		}
	}
	if readyHumans == 0 {
		p0 := &s.players[0]
		p0.active = true
		p0.kind = PlayerHuman
		p0.bot = nil
		p0.ready = true
		readyHumans = 1
	}

	participants := readyHumans
	if s.config.FillBots {
		participants = MaxPlayers
	}
	if participants < 2 {
		return
	}

	for i := range s.players {
		p := &s.players[i]
		if p.active && p.kind == PlayerHuman && p.ready {
			continue
		}
		*p = Player{}
		if s.config.FillBots {
			p.active = true
			p.ready = true
			p.kind = PlayerBot
			p.bot = &BotState{}
		}
	}

	s.resetMatch()
}

func (s *Simulation) updateCountdown() {
	if !s.demo && s.humanPressedStart() {
		s.pause()
		return
	}

	switch s.countdownTimer {
	case countdownTicks, 120, 60:
		s.audio.PlaySound(CueCountdown, 0.7, 0)
	}
	s.countdownTimer--
	if s.countdownTimer <= 0 {
		s.audio.PlaySound(CueGo, 1.0, 0)
		s.phase = PhasePlaying
	}
}

func (s *Simulation) updatePlaying() {
	if !s.demo && s.humanPressedStart() {
		s.pause()
		return
	}

	// Hit-freeze blocks gameplay but cosmetic timers keep draining.
	if s.hitFreeze > 0 {
		s.hitFreeze--
		s.decayCosmetics()
		return
	}

	s.updatePlatforms()

	for i := range s.players {
		p := &s.players[i]
		if p.active && p.kind == PlayerBot {
			s.frames[i] = s.botFrame(i)
		}
	}

	for i := range s.players {
		if s.phase != PhasePlaying {
			break
		}
		s.updatePlayer(i)
	}
	if s.phase != PhasePlaying {
		return
	}

	s.updateBullets()
	if s.phase != PhasePlaying {
		return
	}
	s.updateMeleeHits()
	if s.phase != PhasePlaying {
		return
	}

	// Round clock and overtime shrink.
	if s.roundTimer > 0 {
		s.roundTimer--
		if s.roundTimer == 0 {
			s.overtime = true
		}
	}
	if s.overtime && s.arenaRight-s.arenaLeft > minArenaWidth {
		s.arenaLeft += overtimeShrink
		s.arenaRight -= overtimeShrink
		if s.arenaRight-s.arenaLeft < minArenaWidth {
			mid := (s.arenaLeft + s.arenaRight) / 2
			s.arenaLeft = mid - minArenaWidth/2
			s.arenaRight = mid + minArenaWidth/2
		}
	}

	if s.roundEndTimer > 0 {
		s.roundEndTimer--
		if s.roundEndTimer == 0 {
			s.advanceStage()
			s.resetRound()
		}
	}
}

func (s *Simulation) updatePaused() {
	switch s.pausePage {
	case PauseMain:
		s.updatePauseMain()
	case PauseOptions:
		s.updatePauseOptions()
	}
}

func (s *Simulation) updatePauseMain() {
	if s.rawPressed(0, ButtonUp) {
		s.pauseCursor = (s.pauseCursor + pauseMainCount - 1) % pauseMainCount
	}
	if s.rawPressed(0, ButtonDown) {
		s.pauseCursor = (s.pauseCursor + 1) % pauseMainCount
	}

	if s.rawPressed(0, ButtonStart) || s.rawPressed(0, ButtonB) {
		s.resume()
		return
	}
	if !s.rawPressed(0, ButtonA) {
		return
	}
	switch s.pauseCursor {
	case 0:
		s.resume()
	case 1:
		s.resetRound()
	case 2:
		s.resetMatch()
	case 3:
		s.toLobby()
	case 4:
		s.pausePage = PauseOptions
		s.pauseCursor = 0
	}
}

func (s *Simulation) updatePauseOptions() {
	if s.rawPressed(0, ButtonUp) {
		s.pauseCursor = (s.pauseCursor + pauseOptionCount - 1) % pauseOptionCount
	}
	if s.rawPressed(0, ButtonDown) {
		s.pauseCursor = (s.pauseCursor + 1) % pauseOptionCount
	}

	adj := 0
	if s.rawPressed(0, ButtonLeft) {
		adj = -1
	}
	if s.rawPressed(0, ButtonRight) {
		adj = 1
	}
	switch s.pauseCursor {
	case 0:
		if adj != 0 {
			s.options.MusicVolume = clamp01(s.options.MusicVolume + volumeStep*float64(adj))
			s.audio.SetMusicVolume(s.options.MusicVolume)
		}
	case 1:
		if adj != 0 {
			s.options.SfxVolume = clamp01(s.options.SfxVolume + volumeStep*float64(adj))
			s.audio.SetSfxVolume(s.options.SfxVolume)
		}
	case 2:
		if adj != 0 || s.rawPressed(0, ButtonA) {
			s.options.ScreenShake = !s.options.ScreenShake
		}
	case 3:
		if adj != 0 || s.rawPressed(0, ButtonA) {
			s.options.ScreenFlash = !s.options.ScreenFlash
		}
	}

	if s.rawPressed(0, ButtonB) {
		s.pausePage = PauseMain
		s.pauseCursor = pauseMainCount - 1
	}
	if s.rawPressed(0, ButtonStart) {
		s.resume()
	}
}

func (s *Simulation) updateFinalKo() {
	// Gameplay is frozen; cosmetics pulse at half rate for the slow-motion feel.
	if s.tick%2 == 0 {
		s.decayCosmetics()
	}
	s.finalKoTimer--
	if s.finalKoTimer <= 0 {
		s.phase = PhaseMatchEnd
		if s.demo {
			s.matchEndTimer = demoEndTicks
		}
	}
}

func (s *Simulation) updateMatchEnd() {
	if s.demo {
		// Input exits are handled globally; here only the idle timeout.
		if s.matchEndTimer > 0 {
			s.matchEndTimer--
			if s.matchEndTimer == 0 {
				s.exitDemo(true)
			}
		}
		return
	}
	for i := range s.players {
		p := &s.players[i]
		if !p.active || p.kind != PlayerHuman {
			continue
		}
		if s.rawPressed(i, ButtonStart) {
			s.resetMatch()
			return
		}
		if s.rawPressed(i, ButtonB) {
			s.toLobby()
			return
		}
	}
}

// --- Transitions ---

// beginFinalKo locks in the winner and fires the victory cues. Called once,
// from the winning kill; the FinalKo->MatchEnd transition adds nothing.
func (s *Simulation) beginFinalKo(winner int) {
	s.winner = winner
	s.wonInOvertime = s.overtime
	s.phase = PhaseFinalKo
	s.finalKoTimer = finalKoTicks
	w := &s.players[winner]
	s.audio.PlaySound(CueVictory, 1.0, 0)
	s.fx.SpawnParticles(ParticlesConfetti, w.centerX(), w.centerY(), playerColors[winner], 0)
}

// resetMatch clears scores, picks the opening stage per policy, and drops
// into the first countdown. Participants are whoever is currently active.
func (s *Simulation) resetMatch() {
	s.winner = -1
	s.wonInOvertime = false
	s.roundNumber = 0
	s.stats = [MaxPlayers]MatchStats{}
	for i := range s.players {
		s.players[i].kills = 0
	}

	switch s.config.StageSelect {
	case PolicyRandom:
		s.currentStage = s.rng.Intn(numStages)
	case PolicyRotate:
		s.currentStage = 0
	default:
		s.currentStage = clampStage(int(s.config.StageSelect))
	}

	s.resetRound()
}

// resetRound rebuilds the arena and respawns everyone for a fresh round.
// Kill counts survive; bullets, timers, and bounds do not.
func (s *Simulation) resetRound() {
	s.roundNumber++
	s.setupCurrentStage()
	for i := range s.bullets {
		s.bullets[i] = Bullet{}
	}
	s.arenaLeft = arenaLeftBound
	s.arenaRight = arenaRightBound
	s.overtime = false
	s.roundTimer = s.config.RoundTimeSeconds * ticksPerSecond
	s.roundEndTimer = 0
	s.hitFreeze = 0
	s.spawnPlayers()
	s.countdownTimer = countdownTicks
	s.phase = PhaseCountdown
	s.playMusic(musicForStage(s.currentStage), 0.5)
}

// advanceStage applies the stage-select policy between rounds.
func (s *Simulation) advanceStage() {
	switch s.config.StageSelect {
	case PolicyRandom:
		s.currentStage = s.rng.Intn(numStages)
	case PolicyRotate:
		s.currentStage = (s.currentStage + 1) % numStages
	default:
		s.currentStage = clampStage(int(s.config.StageSelect))
	}
}

func (s *Simulation) pause() {
	s.pausedFrom = s.phase
	s.phase = PhasePaused
	s.pausePage = PauseMain
	s.pauseCursor = 0
}

func (s *Simulation) resume() {
	s.phase = s.pausedFrom
}

func (s *Simulation) toLobby() {
	s.demo = false
	s.phase = PhaseLobby
	s.lobbyCursor = 0
	s.winner = -1
	for i := range s.players {
		p := &s.players[i]
		if p.kind == PlayerBot {
			*p = Player{}
		}
		p.kills = 0
	}
	s.playMusic(TrackMenu, 0.6)
}

func (s *Simulation) toTitle() {
	s.phase = PhaseTitle
	s.attractTimer = 0
	s.playMusic(TrackMenu, 0.6)
}

// startDemo fills all four slots with bots and runs a match under the
// current rules. The config snapshot is restored when the demo ends.
func (s *Simulation) startDemo() {
	s.savedConfig = s.config
	s.demo = true
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

// exitDemo tears the demo down, back to the title (idle timeout) or the
// lobby (someone pressed something).
func (s *Simulation) exitDemo(toTitle bool) {
	s.config = s.savedConfig
	s.demo = false
	s.winner = -1
	for i := range s.players {
		s.players[i] = Player{}
	}
	if toTitle {
		s.phase = PhaseTitle
		s.attractTimer = 0
	} else {
		s.phase = PhaseLobby
		s.lobbyCursor = 0
	}
	s.playMusic(TrackMenu, 0.6)
}

// decayCosmetics drains the player-side cosmetic timers without running
// gameplay. Used while hit-freeze or the final KO hold has physics stopped.
func (s *Simulation) decayCosmetics() {
	for i := range s.players {
		p := &s.players[i]
		if !p.active {
			continue
		}
		if p.spawnFlash > 0 {
			p.spawnFlash--
		}
		if p.shootFlash > 0 {
			p.shootFlash--
		}
		p.squashStretch *= squashDecay
		if math.Abs(p.squashStretch) < 0.01 {
			p.squashStretch = 0
		}
	}
}

func (s *Simulation) humanPressedStart() bool {
	for i := range s.players {
		p := &s.players[i]
		if p.active && p.kind == PlayerHuman && s.rawPressed(i, ButtonStart) {
			return true
		}
	}
	return false
}
