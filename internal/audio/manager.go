// Package audio synthesizes every sound in the game at runtime. There are no
// sample assets: one-shots are short oscillator envelopes and the music tracks
// are looping step patterns, all mixed through one beep speaker.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Arc-Arena/internal/game"
)

const sampleRate = beep.SampleRate(48000)

// Manager implements game.AudioSink on top of the beep speaker. One-shot
// levels are cue volume times the user effects level; the music level is the
// track's mix volume times the user music level, retunable while playing.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	musicVol    *effects.Volume
	track       game.MusicTrack
	trackVol    float64
	userMusic   float64
	userSfx     float64
	initialized bool
}

// NewManager builds a manager. Call Initialize before the first Play.
func NewManager() *Manager {
	return &Manager{
		mixer:     &beep.Mixer{},
		userMusic: 1,
		userSfx:   1,
	}
}

// Initialize opens the speaker and starts streaming the mixer.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Cleanup silences everything and closes the speaker.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	m.music = nil
	m.musicVol = nil
	m.initialized = false
}

// PlaySound synthesizes a cue and queues it on the mixer. volume is the
// simulation's 0..1 request, pan is -1 (left) to +1 (right).
func (m *Manager) PlaySound(cue game.SoundCue, volume, pan float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	s := cueStreamer(cue)
	if s == nil {
		return
	}
	v := clamp01(volume) * m.userSfx
	if v <= 0 {
		return
	}
	var out beep.Streamer = newVolume(s, v)
	if pan != 0 {
		out = &effects.Pan{Streamer: out, Pan: clampPan(pan)}
	}

	speaker.Lock()
	m.mixer.Add(out)
	speaker.Unlock()
}

// PlayMusic swaps the looping track. Re-requesting the current track only
// retunes its level instead of restarting the pattern.
func (m *Manager) PlayMusic(track game.MusicTrack, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	if m.music != nil && m.track == track {
		m.trackVol = clamp01(volume)
		speaker.Lock()
		m.refreshMusicVolume()
		speaker.Unlock()
		return
	}

	vol := &effects.Volume{Streamer: trackStreamer(track), Base: 2, Volume: 0, Silent: true}
	ctrl := &beep.Ctrl{Streamer: vol}

	speaker.Lock()
	if m.music != nil {
		// A Ctrl with a nil streamer reads as drained, so the mixer drops
		// the old track on its next stream call.
		m.music.Streamer = nil
	}
	m.music = ctrl
	m.musicVol = vol
	m.track = track
	m.trackVol = clamp01(volume)
	m.refreshMusicVolume()
	m.mixer.Add(ctrl)
	speaker.Unlock()
}

// StopMusic drains the current track out of the mixer.
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || m.music == nil {
		return
	}
	speaker.Lock()
	m.music.Streamer = nil
	speaker.Unlock()
	m.music = nil
	m.musicVol = nil
}

// SetMusicVolume applies the options-menu music level.
func (m *Manager) SetMusicVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.userMusic = clamp01(volume)
	if !m.initialized || m.musicVol == nil {
		return
	}
	speaker.Lock()
	m.refreshMusicVolume()
	speaker.Unlock()
}

// SetSfxVolume applies the options-menu effects level to future one-shots.
func (m *Manager) SetSfxVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userSfx = clamp01(volume)
}

// refreshMusicVolume retunes the live volume node. Callers hold the speaker
// lock whenever the node is already streaming.
func (m *Manager) refreshMusicVolume() {
	if m.musicVol == nil {
		return
	}
	v := m.trackVol * m.userMusic
	if v <= 0 {
		m.musicVol.Silent = true
		m.musicVol.Volume = 0
		return
	}
	m.musicVol.Silent = false
	m.musicVol.Volume = math.Log2(v)
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

func clampPan(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
