// File: test/e2e_setup_test.go
package test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/server"
	"github.com/lguibr/retrotennis/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// E2ESetupResult holds the results of the setup function.
type E2ESetupResult struct {
	Engine   *bollywood.Engine
	MatchPID *bollywood.PID
	Server   *httptest.Server
	WsURL    string
	Origin   string
	Cfg      utils.Config
}

// fastConfig runs the match at 200 ticks per second with short pauses.
func fastConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.TickPeriod = 5 * time.Millisecond
	cfg.ComputerServeDelayTicks = 10
	cfg.PointPauseTicks = 10
	cfg.Seed = 7
	return cfg
}

// SetupE2ETest starts the engine, a ticking MatchActor and an HTTP server
// exposing every route.
func SetupE2ETest(t *testing.T, cfg utils.Config, idle game.IdleDriver) E2ESetupResult {
	t.Helper()

	engine := bollywood.NewEngine(zap.NewNop())
	matchPID := engine.Spawn(bollywood.NewProps(game.NewMatchActorProducer(game.MatchActorOptions{
		Config: cfg,
		Idle:   idle,
	})))
	require.NotNil(t, matchPID, "MatchActor PID should not be nil")

	s := httptest.NewServer(server.New(engine, matchPID, nil).Routes())
	return E2ESetupResult{
		Engine:   engine,
		MatchPID: matchPID,
		Server:   s,
		WsURL:    "ws" + strings.TrimPrefix(s.URL, "http") + "/subscribe",
		Origin:   "http://localhost/",
		Cfg:      cfg,
	}
}

// TeardownE2ETest shuts down the engine and closes the server.
func TeardownE2ETest(t *testing.T, setup E2ESetupResult, shutdownTimeout time.Duration) {
	t.Helper()
	if setup.Server != nil {
		setup.Server.Close()
	}
	if setup.Engine != nil {
		setup.Engine.Shutdown(shutdownTimeout)
	}
}
