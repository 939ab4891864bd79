package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lguibr/retrotennis/game"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// Player queues a streamer for playback without blocking.
type Player interface {
	Play(s beep.Streamer)
}

// speakerPlayer mixes streamers into the system speaker.
type speakerPlayer struct {
	mixer *beep.Mixer
}

func (p *speakerPlayer) Play(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Notifier plays a short synthesised tone for each game event. It is safe for
// concurrent use; OnEvent is called on the tick goroutine and returns at once.
type Notifier struct {
	mu     sync.Mutex
	player Player
	rate   beep.SampleRate
	volume float64
	muted  bool
	logger *zap.Logger
}

// NewNotifier builds a silent Notifier. Call Init to attach the speaker, or
// SetPlayer to route audio elsewhere.
func NewNotifier(volume float64, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{rate: sampleRate, volume: volume, logger: logger.Named("audio")}
}

// Init opens the speaker. On failure the notifier stays silent and the game
// carries on.
func (n *Notifier) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	mixer := &beep.Mixer{}
	speaker.Play(mixer)
	n.SetPlayer(&speakerPlayer{mixer: mixer})
	n.logger.Info("speaker ready", zap.Int("sampleRate", int(sampleRate)))
	return nil
}

// SetPlayer replaces the playback target.
func (n *Notifier) SetPlayer(p Player) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.player = p
}

func (n *Notifier) OnEvent(ev game.Event) {
	tone, ok := ToneFor(ev.Kind)
	if !ok {
		return
	}
	n.mu.Lock()
	player, muted, volume := n.player, n.muted, n.volume
	n.mu.Unlock()
	if player == nil || muted {
		return
	}
	player.Play(newVolume(tone.NewStreamer(n.rate), volume))
}

// ToggleMute flips the mute state and returns the new one.
func (n *Notifier) ToggleMute() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.muted = !n.muted
	return n.muted
}

func (n *Notifier) Muted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.muted
}

// Close stops anything still playing.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if sp, ok := n.player.(*speakerPlayer); ok {
		speaker.Lock()
		sp.mixer.Clear()
		speaker.Unlock()
	}
	n.player = nil
}
