package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/Garsondee/Arc-Arena/internal/game"
)

// waveType selects an oscillator shape.
type waveType int

const (
	waveSine waveType = iota
	waveSquare
	waveSaw
	waveNoise
)

// oscillator emits a fixed-frequency wave for a finite duration.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     waveType
	noise    int64
}

func newOscillator(freq float64, duration time.Duration, wave waveType) *oscillator {
	return &oscillator{
		freq:     freq,
		duration: sampleRate.N(duration),
		wave:     wave,
		noise:    1,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case waveSaw:
			val = 2.0 * (o.phase - 0.5)
		case waveNoise:
			o.noise = (o.noise*1103515245 + 12345) & 0x7fffffff
			val = float64(o.noise)/float64(0x7fffffff)*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// sweep emits a wave whose frequency glides linearly from one value to
// another over the duration.
type sweep struct {
	from     float64
	to       float64
	phase    float64
	duration int
	position int
	wave     waveType
}

func newSweep(from, to float64, duration time.Duration, wave waveType) *sweep {
	return &sweep{
		from:     from,
		to:       to,
		duration: sampleRate.N(duration),
		wave:     wave,
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, false
		}

		var val float64
		switch s.wave {
		case waveSquare:
			if s.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case waveSaw:
			val = 2.0 * (s.phase - 0.5)
		default:
			val = math.Sin(2 * math.Pi * s.phase)
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(s.position) / float64(s.duration)
		freq := s.from + (s.to-s.from)*progress
		s.phase += freq / float64(sampleRate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope shapes a streamer with linear attack and release ramps.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration) beep.Streamer {
	total := sampleRate.N(duration)
	att := sampleRate.N(attack)
	rel := sampleRate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps a streamer in a volume node. math.Log2(0) is -Inf, so a
// zero level becomes Silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// cueStreamer builds the one-shot for a cue. Everything stays under half a
// second so overlapping cues never crowd the mixer.
func cueStreamer(cue game.SoundCue) beep.Streamer {
	switch cue {
	case game.CueShoot:
		zap := newSweep(1200, 300, 90*time.Millisecond, waveSaw)
		return newVolume(newEnvelope(zap, 90*time.Millisecond, 2*time.Millisecond, 60*time.Millisecond), 0.5)

	case game.CueHit:
		crack := newOscillator(0, 70*time.Millisecond, waveNoise)
		thump := newSweep(260, 90, 120*time.Millisecond, waveSine)
		mixed := beep.Mix(
			newVolume(newEnvelope(crack, 70*time.Millisecond, time.Millisecond, 50*time.Millisecond), 0.5),
			newVolume(newEnvelope(thump, 120*time.Millisecond, time.Millisecond, 90*time.Millisecond), 0.8),
		)
		return newVolume(mixed, 0.7)

	case game.CueDeath:
		fall := newSweep(500, 55, 420*time.Millisecond, waveSaw)
		rumble := newOscillator(0, 300*time.Millisecond, waveNoise)
		mixed := beep.Mix(
			newVolume(newEnvelope(fall, 420*time.Millisecond, 2*time.Millisecond, 320*time.Millisecond), 0.7),
			newVolume(newEnvelope(rumble, 300*time.Millisecond, 5*time.Millisecond, 260*time.Millisecond), 0.35),
		)
		return newVolume(mixed, 0.9)

	case game.CueDeflect:
		ping := newOscillator(1760, 160*time.Millisecond, waveSine)
		shimmer := newOscillator(2637, 120*time.Millisecond, waveSine)
		mixed := beep.Mix(
			newVolume(newEnvelope(ping, 160*time.Millisecond, time.Millisecond, 130*time.Millisecond), 0.6),
			newVolume(newEnvelope(shimmer, 120*time.Millisecond, time.Millisecond, 100*time.Millisecond), 0.3),
		)
		return newVolume(mixed, 0.7)

	case game.CueJump:
		blip := newSweep(280, 620, 80*time.Millisecond, waveSquare)
		return newVolume(newEnvelope(blip, 80*time.Millisecond, 2*time.Millisecond, 40*time.Millisecond), 0.35)

	case game.CueCountdown:
		tick := newOscillator(440, 90*time.Millisecond, waveSine)
		return newVolume(newEnvelope(tick, 90*time.Millisecond, 2*time.Millisecond, 60*time.Millisecond), 0.6)

	case game.CueGo:
		lead := newEnvelope(newOscillator(880, 110*time.Millisecond, waveSquare), 110*time.Millisecond, 2*time.Millisecond, 30*time.Millisecond)
		hold := newEnvelope(newOscillator(1174.66, 200*time.Millisecond, waveSquare), 200*time.Millisecond, 2*time.Millisecond, 120*time.Millisecond)
		return newVolume(beep.Seq(lead, hold), 0.5)

	case game.CueSpawn:
		rise := newSweep(220, 880, 160*time.Millisecond, waveSine)
		return newVolume(newEnvelope(rise, 160*time.Millisecond, 4*time.Millisecond, 90*time.Millisecond), 0.5)

	case game.CueVictory:
		notes := []struct {
			freq float64
			dur  time.Duration
		}{
			{523.25, 130 * time.Millisecond},
			{659.25, 130 * time.Millisecond},
			{783.99, 130 * time.Millisecond},
			{1046.50, 320 * time.Millisecond},
		}
		parts := make([]beep.Streamer, 0, len(notes))
		for _, nt := range notes {
			osc := newOscillator(nt.freq, nt.dur, waveSquare)
			parts = append(parts, newEnvelope(osc, nt.dur, 2*time.Millisecond, nt.dur/3))
		}
		return newVolume(beep.Seq(parts...), 0.4)

	default:
		return nil
	}
}

// patternGenerator loops a fixed step pattern forever. The loop point is a
// modulo on the sample position, so the streamer never ends and never seeks.
type patternGenerator struct {
	pos         int
	stepSamples int
	steps       []float64 // melody frequency per step, 0 for a rest
	kickEvery   int       // kick drum every n steps, 0 disables
	hatEvery    int       // offbeat noise hat every n steps, 0 disables
	bassFreq    float64
	melodyVol   float64
	bassVol     float64
	kickVol     float64
	bright      bool // add an octave harmonic on melody notes
	noise       int64
}

func (g *patternGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	patternSamples := g.stepSamples * len(g.steps)
	kickSamples := sampleRate.N(90 * time.Millisecond)
	hatSamples := sampleRate.N(25 * time.Millisecond)

	for i := range samples {
		p := g.pos % patternSamples
		step := p / g.stepSamples
		sp := p % g.stepSamples
		st := float64(sp) / float64(sampleRate) // time within the step
		pt := float64(p) / float64(sampleRate)  // time within the pattern

		sample := g.bassVol * math.Sin(2*math.Pi*g.bassFreq*pt)

		if f := g.steps[step]; f > 0 {
			env := math.Exp(-st * 7)
			note := math.Sin(2 * math.Pi * f * st)
			if g.bright {
				note += 0.4 * math.Sin(2*math.Pi*f*2*st)
			}
			sample += g.melodyVol * env * note
		}

		if g.kickEvery > 0 && step%g.kickEvery == 0 && sp < kickSamples {
			kenv := 1.0 - float64(sp)/float64(kickSamples)
			kfreq := 55 * (1 + 2*kenv)
			sample += g.kickVol * kenv * math.Sin(2*math.Pi*kfreq*st)
		}

		if g.hatEvery > 0 && step%g.hatEvery == g.hatEvery/2 && sp < hatSamples {
			g.noise = (g.noise*1103515245 + 12345) & 0x7fffffff
			henv := 1.0 - float64(sp)/float64(hatSamples)
			sample += 0.08 * henv * (float64(g.noise)/float64(0x7fffffff)*2 - 1)
		}

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *patternGenerator) Err() error { return nil }

// trackStreamer builds the looping generator for a music track.
func trackStreamer(track game.MusicTrack) beep.Streamer {
	switch track {
	case game.TrackGrid:
		// Driving E-minor line for the symmetric stage.
		return &patternGenerator{
			stepSamples: sampleRate.N(150 * time.Millisecond),
			steps: []float64{
				329.63, 0, 392.00, 329.63, 0, 493.88, 0, 392.00,
				329.63, 0, 392.00, 523.25, 0, 493.88, 392.00, 0,
			},
			kickEvery: 4,
			hatEvery:  2,
			bassFreq:  82.41,
			melodyVol: 0.20,
			bassVol:   0.14,
			kickVol:   0.45,
			bright:    true,
			noise:     1,
		}

	case game.TrackScatter:
		// Lighter staccato arpeggios for the platform field.
		return &patternGenerator{
			stepSamples: sampleRate.N(120 * time.Millisecond),
			steps: []float64{
				440.00, 554.37, 659.25, 880.00, 0, 659.25, 554.37, 0,
				440.00, 554.37, 659.25, 880.00, 1108.73, 0, 880.00, 0,
			},
			kickEvery: 8,
			hatEvery:  4,
			bassFreq:  110.00,
			melodyVol: 0.16,
			bassVol:   0.12,
			kickVol:   0.40,
			noise:     1,
		}

	case game.TrackRing:
		// Sparse minor-second motif for the moving-platform ring.
		return &patternGenerator{
			stepSamples: sampleRate.N(200 * time.Millisecond),
			steps: []float64{
				233.08, 0, 0, 246.94, 0, 0,
				233.08, 0, 220.00, 0, 0, 0,
			},
			kickEvery: 6,
			bassFreq:  58.27,
			melodyVol: 0.20,
			bassVol:   0.16,
			kickVol:   0.40,
			noise:     1,
		}

	default:
		// Menu pad: slow A-minor arpeggio over a low drone.
		return &patternGenerator{
			stepSamples: sampleRate.N(480 * time.Millisecond),
			steps: []float64{
				220.00, 0, 261.63, 0, 329.63, 0, 246.94, 0,
			},
			bassFreq:  55.00,
			melodyVol: 0.22,
			bassVol:   0.12,
			noise:     1,
		}
	}
}
