package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
)

// Renderer consumes one snapshot per tick.
type Renderer interface {
	Render(snap Snapshot)
}

// Notifier receives every event once, in emission order, before Step returns.
type Notifier interface {
	OnEvent(ev Event)
}

// Muter is implemented by notifiers that can be silenced with the Mute action.
type Muter interface {
	ToggleMute() bool
}

// Notifiers fans events out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) OnEvent(ev Event) {
	for _, n := range ns {
		if n != nil {
			n.OnEvent(ev)
		}
	}
}

// ToggleMute toggles every member that supports it and reports whether the
// last one is now muted.
func (ns Notifiers) ToggleMute() bool {
	muted := false
	for _, n := range ns {
		if m, ok := n.(Muter); ok {
			muted = m.ToggleMute()
		}
	}
	return muted
}

// Options wires a Simulation to its collaborators. Nil collaborators are
// allowed and do nothing.
type Options struct {
	Config   utils.Config
	Input    InputSource
	Renderer Renderer
	Notifier Notifier
	Idle     IdleDriver
	Rand     Random
	Logger   *zap.Logger
}

// Simulation aggregates the engine components and advances them together.
// It is not safe for concurrent use; MatchActor serialises access to it.
type Simulation struct {
	cfg      utils.Config
	logger   *zap.Logger
	input    InputSource
	renderer Renderer
	notifier Notifier
	idle     IdleDriver

	score    *ScoreEngine
	physics  *PhysicsEngine
	opponent *OpponentController
	director *MatchDirector

	tick       uint64
	matchID    string
	prevIntent Intent
}

func NewSimulation(opts Options) *Simulation {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		seed := opts.Config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	score := NewScoreEngine(opts.Config.GamesToWin)
	physics := NewPhysicsEngine(opts.Config)
	s := &Simulation{
		cfg:      opts.Config,
		logger:   logger,
		input:    opts.Input,
		renderer: opts.Renderer,
		notifier: opts.Notifier,
		idle:     opts.Idle,
		score:    score,
		physics:  physics,
		opponent: NewOpponentController(opts.Config, Computer, rng),
		director: NewMatchDirector(opts.Config, score, physics, rng, logger),
		matchID:  uuid.NewString(),
	}
	s.logger.Info("simulation created", zap.String("matchId", s.matchID))
	return s
}

func (s *Simulation) Score() *ScoreEngine           { return s.score }
func (s *Simulation) Physics() *PhysicsEngine       { return s.physics }
func (s *Simulation) Director() *MatchDirector      { return s.director }
func (s *Simulation) Opponent() *OpponentController { return s.opponent }

func (s *Simulation) MatchID() string { return s.matchID }

// SetRenderer swaps the renderer. Only call it from the goroutine that steps.
func (s *Simulation) SetRenderer(r Renderer) { s.renderer = r }

// Step advances the match by one tick: input, attract mode arbitration,
// opponent, physics, scoring, director timers, event dispatch and render.
func (s *Simulation) Step() Snapshot {
	s.tick++

	real := SampleIntent(s.input)
	intent := real
	if s.idle != nil {
		if real.Qualifying() {
			s.idle.HumanInputObserved()
		} else {
			synthetic := s.idle.Drive(s.Snapshot())
			if s.idle.Active() || synthetic.Confirm {
				intent = synthetic
				intent.Mute = real.Mute
			}
		}
	}
	confirm := intent.Confirm && !s.prevIntent.Confirm
	mute := intent.Mute && !s.prevIntent.Mute
	s.prevIntent = intent

	if mute {
		s.toggleMute()
	}

	before := s.director.Phase()

	s.opponent.Update(s.physics.Ball(), s.physics.Paddle(s.opponent.Side()))
	events := s.physics.Advance(before, intent)
	s.director.HandleEvents(events)
	if confirm {
		events = append(events, s.director.Confirm()...)
	}
	events = append(events, s.director.Tick()...)

	if before.Kind == PhaseMatchWon && s.director.Phase().Kind == PhaseWaiting {
		s.newMatch()
	}

	if s.notifier != nil {
		for _, ev := range events {
			s.notifier.OnEvent(ev)
		}
	}

	snap := s.Snapshot()
	if s.renderer != nil {
		s.renderer.Render(snap)
	}
	return snap
}

func (s *Simulation) toggleMute() {
	m, ok := s.notifier.(Muter)
	if !ok {
		return
	}
	s.logger.Info("mute toggled", zap.Bool("muted", m.ToggleMute()))
}

func (s *Simulation) newMatch() {
	s.opponent.Reset()
	s.matchID = uuid.NewString()
	s.logger.Info("new match", zap.String("matchId", s.matchID))
}

// Snapshot captures the current state without advancing it.
func (s *Simulation) Snapshot() Snapshot {
	phase := s.director.Phase()
	return Snapshot{
		Tick:     s.tick,
		MatchID:  s.matchID,
		Court:    Court{Width: s.cfg.CourtWidth, Height: s.cfg.CourtHeight},
		Phase:    phase,
		Ball:     s.physics.Ball(),
		Paddles:  s.physics.Paddles(),
		Match:    s.score.State(),
		Opponent: s.opponent.Model(),
		Display: Display{
			Points: [2]string{s.score.PointDisplay(Human), s.score.PointDisplay(Computer)},
			Status: s.score.Status(phase),
		},
		Demo: s.idle != nil && s.idle.Active(),
	}
}

// LogNotifier records events at debug level.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) OnEvent(ev Event) {
	if n.Logger == nil {
		return
	}
	n.Logger.Debug("event", zap.Stringer("kind", ev.Kind), zap.Stringer("side", ev.Side))
}
