// File: server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// Server exposes one MatchActor over HTTP and websocket.
type Server struct {
	engine   *bollywood.Engine
	matchPID *bollywood.PID
	logger   *zap.Logger
}

func New(engine *bollywood.Engine, matchPID *bollywood.PID, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: engine, matchPID: matchPID, logger: logger.Named("server")}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/subscribe", websocket.Handler(s.HandleSubscribe()))
	mux.HandleFunc("/state", s.HandleGetState())
	mux.HandleFunc("/state.txt", s.HandleGetStateText())
	mux.HandleFunc("/healthz", s.HandleHealth())
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts the listener down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
