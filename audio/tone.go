package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/lguibr/retrotennis/game"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveSaw
)

// floorGain is where every tone's gain ramp ends.
const floorGain = 0.01

// Tone is a single swept beep: the pitch and the gain both ramp
// exponentially from start to end over Duration.
type Tone struct {
	Wave     WaveType
	FromHz   float64
	ToHz     float64
	Duration time.Duration
	Gain     float64
}

// Tones for each game event.
var (
	PaddleTone = Tone{Wave: WaveSquare, FromHz: 800, ToHz: 400, Duration: 100 * time.Millisecond, Gain: 0.3}
	WallTone   = Tone{Wave: WaveTriangle, FromHz: 300, ToHz: 200, Duration: 50 * time.Millisecond, Gain: 0.2}
	ScoreTone  = Tone{Wave: WaveSine, FromHz: 1000, ToHz: 100, Duration: 300 * time.Millisecond, Gain: 0.4}
	ServeTone  = Tone{Wave: WaveSaw, FromHz: 200, ToHz: 600, Duration: 150 * time.Millisecond, Gain: 0.25}
)

// ToneFor returns the tone played for an event kind.
func ToneFor(kind game.EventKind) (Tone, bool) {
	switch kind {
	case game.EventPaddleHit:
		return PaddleTone, true
	case game.EventWallBounce:
		return WallTone, true
	case game.EventPointScored:
		return ScoreTone, true
	case game.EventServe:
		return ServeTone, true
	}
	return Tone{}, false
}

// sweep generates a Tone sample by sample.
type sweep struct {
	tone     Tone
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
}

// NewStreamer renders t at the given sample rate.
func (t Tone) NewStreamer(rate beep.SampleRate) beep.Streamer {
	return &sweep{tone: t, rate: rate, total: rate.N(t.Duration)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		p := float64(s.position) / float64(s.total)
		freq := s.tone.FromHz * math.Pow(s.tone.ToHz/s.tone.FromHz, p)
		gain := s.tone.Gain * math.Pow(floorGain/s.tone.Gain, p)

		val := gain * wave(s.tone.Wave, s.phase)
		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase) // Keep in [0, 1)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

func wave(w WaveType, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveSaw:
		return 2 * (phase - 0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// newVolume scales s by vol in [0,1]. math.Log2(0) is -Inf, so zero is
// handled as silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
