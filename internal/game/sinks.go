package game

// SoundCue identifies one of the synthesized sound effects.
type SoundCue int

const (
	CueShoot SoundCue = iota
	CueHit
	CueDeath
	CueDeflect
	CueJump
	CueCountdown
	CueGo
	CueSpawn
	CueVictory
)

func (c SoundCue) String() string {
	switch c {
	case CueShoot:
		return "shoot"
	case CueHit:
		return "hit"
	case CueDeath:
		return "death"
	case CueDeflect:
		return "deflect"
	case CueJump:
		return "jump"
	case CueCountdown:
		return "countdown"
	case CueGo:
		return "go"
	case CueSpawn:
		return "spawn"
	case CueVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// MusicTrack identifies a looping background track.
type MusicTrack int

const (
	TrackMenu MusicTrack = iota
	TrackGrid
	TrackScatter
	TrackRing
)

func (t MusicTrack) String() string {
	switch t {
	case TrackMenu:
		return "menu"
	case TrackGrid:
		return "grid"
	case TrackScatter:
		return "scatter"
	case TrackRing:
		return "ring"
	default:
		return "unknown"
	}
}

// musicForStage returns the track that plays on a given stage index.
// Out-of-range indices fall back to the Grid Arena track.
func musicForStage(stage int) MusicTrack {
	switch stage {
	case 0:
		return TrackGrid
	case 1:
		return TrackScatter
	case 2:
		return TrackRing
	default:
		return TrackGrid
	}
}

// ParticleKind identifies a burst shape the effects layer knows how to spawn.
type ParticleKind int

const (
	ParticlesDeath       ParticleKind = iota // radial explosion in the victim's colour
	ParticlesLandingDust                     // small grey puff under the feet
	ParticlesConfetti                        // full-screen victory shower
	ParticlesBulletTrail                     // single mote behind a bullet
	ParticlesWallSparks                      // sparks while sliding down a wall
)

// AudioSink receives sound and music triggers from the simulation.
// Strictly one way: implementations must not touch simulation state, and
// the simulation stays bit-identical with the no-op sink installed.
type AudioSink interface {
	// PlaySound plays a cue at volume 0..1 with pan -1 (left) .. +1 (right).
	PlaySound(cue SoundCue, volume, pan float64)
	// PlayMusic starts a looping track at the given volume, replacing any
	// current track.
	PlayMusic(track MusicTrack, volume float64)
	StopMusic()
	SetMusicVolume(volume float64)
	SetSfxVolume(volume float64)
}

// FxSink receives visual-effect triggers from the simulation. Same one-way
// contract as AudioSink.
type FxSink interface {
	// SpawnParticles requests a burst of the given kind. dir carries extra
	// context for directional kinds (wall sparks: -1 wall on left, +1 right).
	SpawnParticles(kind ParticleKind, x, y float64, rgba uint32, dir float64)
	// Shake kicks the screen shake envelope to at least the given intensity.
	Shake(intensity float64)
	// ImpactFlash requests a brief full-screen flash.
	ImpactFlash()
	// CameraZoom requests the kill-cam punch-in.
	CameraZoom()
	// SpawnLight places a transient point light that fades by the decay
	// factor per frame.
	SpawnLight(x, y float64, rgba uint32, intensity, decay float64)
	// DeflectPopup shows the parry callout for a player slot.
	DeflectPopup(player int)
}

// nopAudio and nopFx are the default sinks: the simulation runs headless
// (tests, batch reports) with these installed.
type nopAudio struct{}

func (nopAudio) PlaySound(SoundCue, float64, float64) {}
func (nopAudio) PlayMusic(MusicTrack, float64)        {}
func (nopAudio) StopMusic()                           {}
func (nopAudio) SetMusicVolume(float64)               {}
func (nopAudio) SetSfxVolume(float64)                 {}

type nopFx struct{}

func (nopFx) SpawnParticles(ParticleKind, float64, float64, uint32, float64) {}
func (nopFx) Shake(float64)                                                  {}
func (nopFx) ImpactFlash()                                                   {}
func (nopFx) CameraZoom()                                                    {}
func (nopFx) SpawnLight(float64, float64, uint32, float64, float64)          {}
func (nopFx) DeflectPopup(int)                                               {}

// NopAudioSink returns a do-nothing audio sink.
func NopAudioSink() AudioSink { return nopAudio{} }

// NopFxSink returns a do-nothing effects sink.
func NopFxSink() FxSink { return nopFx{} }
