// File: utils/config.go
package utils

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable game parameters.
type Config struct {
	// Timing
	TickPeriod time.Duration `json:"tickPeriod" yaml:"tickPeriod"` // Time between simulation steps

	// Court
	CourtWidth  float64 `json:"courtWidth" yaml:"courtWidth"`   // Playfield width in pixels
	CourtHeight float64 `json:"courtHeight" yaml:"courtHeight"` // Playfield height in pixels

	// Paddle Properties
	PaddleWidth   float64 `json:"paddleWidth" yaml:"paddleWidth"`     // Thickness of a paddle
	PaddleHeight  float64 `json:"paddleHeight" yaml:"paddleHeight"`   // Length of a paddle along the goal line
	PaddleSpeed   float64 `json:"paddleSpeed" yaml:"paddleSpeed"`     // Max paddle travel per tick
	HumanPaddleX  float64 `json:"humanPaddleX" yaml:"humanPaddleX"`   // Left edge of the human paddle
	CourtMarginX  float64 `json:"courtMarginX" yaml:"courtMarginX"`   // Gap between the computer paddle and the right edge
	ServeDistance float64 `json:"serveDistance" yaml:"serveDistance"` // Ball offset from the server's paddle face while holding

	// Ball Physics & Properties
	BallRadius         float64 `json:"ballRadius" yaml:"ballRadius"`                 // Radius of the ball
	ServeSpeed         float64 `json:"serveSpeed" yaml:"serveSpeed"`                 // Horizontal speed at serve
	ServeSpread        float64 `json:"serveSpread" yaml:"serveSpread"`               // Vertical serve speed range, centred on zero
	PaddleSpeedUp      float64 `json:"paddleSpeedUp" yaml:"paddleSpeedUp"`           // Horizontal speed multiplier per paddle hit
	SpinTransferFactor float64 `json:"spinTransferFactor" yaml:"spinTransferFactor"` // Share of paddle velocity added to ball dy

	// Opponent
	OpponentDifficulty float64 `json:"opponentDifficulty" yaml:"opponentDifficulty"` // 0.0-1.0, higher is stronger

	// Match Pacing (ticks). Counting starts on the tick after the phase is entered.
	ComputerServeDelayTicks int `json:"computerServeDelayTicks" yaml:"computerServeDelayTicks"`
	PointPauseTicks         int `json:"pointPauseTicks" yaml:"pointPauseTicks"`
	GamesToWin              int `json:"gamesToWin" yaml:"gamesToWin"`

	// Attract Mode (ticks)
	IdleTimeoutTicks      int `json:"idleTimeoutTicks" yaml:"idleTimeoutTicks"`           // No input for this long while waiting starts the demo
	DemoStartDwellTicks   int `json:"demoStartDwellTicks" yaml:"demoStartDwellTicks"`     // Demo waits this long before confirming in Waiting
	DemoServeDwellTicks   int `json:"demoServeDwellTicks" yaml:"demoServeDwellTicks"`     // Demo waits this long before serving
	DemoGameWonDwellTicks int `json:"demoGameWonDwellTicks" yaml:"demoGameWonDwellTicks"` // Demo waits this long on game/match results

	DemoTrackDeadZone float64 `json:"demoTrackDeadZone" yaml:"demoTrackDeadZone"` // Demo stops moving inside this distance of the ball

	// Randomness
	Seed int64 `json:"seed" yaml:"seed"` // 0 picks a time-based seed

	// Runtime
	ListenAddr  string  `json:"listenAddr" yaml:"listenAddr"`   // HTTP/websocket listen address
	LogLevel    string  `json:"logLevel" yaml:"logLevel"`       // debug, info, warn, error
	AudioVolume float64 `json:"audioVolume" yaml:"audioVolume"` // 0.0-1.0 master volume
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		// Timing
		TickPeriod: time.Second / TicksPerSecond,

		// Court
		CourtWidth:  800,
		CourtHeight: 400,

		// Paddle Properties
		PaddleWidth:   10,
		PaddleHeight:  60,
		PaddleSpeed:   5,
		HumanPaddleX:  20,
		CourtMarginX:  30, // computer paddle sits at CourtWidth-30
		ServeDistance: 15,

		// Ball Physics & Properties
		BallRadius:         8,
		ServeSpeed:         4,
		ServeSpread:        3,
		PaddleSpeedUp:      1.02,
		SpinTransferFactor: 0.3,

		// Opponent
		OpponentDifficulty: 0.8,

		// Match Pacing
		ComputerServeDelayTicks: TicksPerSecond, // ~1s
		PointPauseTicks:         TicksPerSecond, // ~1s
		GamesToWin:              3,

		// Attract Mode
		IdleTimeoutTicks:      5 * TicksPerSecond, // ~5s
		DemoStartDwellTicks:   2 * TicksPerSecond,
		DemoServeDwellTicks:   TicksPerSecond,
		DemoGameWonDwellTicks: 3 * TicksPerSecond,
		DemoTrackDeadZone:     2,

		// Randomness
		Seed: 0,

		// Runtime
		ListenAddr:  ":3001",
		LogLevel:    "info",
		AudioVolume: 0.5,
	}
}

// LoadConfig reads a YAML file and overlays it onto DefaultConfig.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := ParseConfig(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML into cfg, leaving unspecified fields untouched.
func ParseConfig(raw []byte, cfg *Config) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// ComputerPaddleX is the left edge of the computer paddle.
func (c Config) ComputerPaddleX() float64 {
	return c.CourtWidth - c.CourtMarginX
}
