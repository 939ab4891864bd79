// File: server/handlers.go
package server

import (
	"encoding/json"
	"net/http"

	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/render"
	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// Text frame size served by /state.txt.
const (
	textCols = 80
	textRows = 24
)

// HandleSubscribe spawns a ConnectionHandlerActor for each websocket and
// blocks until it stops; returning earlier would close the socket.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		if s.engine == nil || s.matchPID == nil {
			s.logger.Error("subscribe without a running match")
			_ = ws.Close()
			return
		}

		done := make(chan struct{})
		pid := s.engine.Spawn(bollywood.NewProps(NewConnectionHandlerProducer(ConnectionHandlerArgs{
			Conn:     ws,
			MatchPID: s.matchPID,
			Logger:   s.logger,
			Done:     done,
		})))
		if pid == nil {
			_ = ws.Close()
			return
		}
		<-done
	}
}

// HandleGetState returns the latest snapshot as JSON.
func (s *Server) HandleGetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.snapshot(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// HandleGetStateText returns the latest snapshot drawn as plain text.
func (s *Server) HandleGetStateText() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.snapshot(w)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(render.RenderToASCII(snap, textCols, textRows)))
	}
}

// HandleHealth reports the actor count and connected clients.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscribers := 0
		if s.engine != nil && s.matchPID != nil {
			reply, err := s.engine.Ask(s.matchPID, game.GetSubscriberCount{}, utils.AskTimeout)
			if err != nil {
				s.logger.Warn("health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
				return
			}
			subscribers, _ = reply.(int)
		}
		actors := 0
		if s.engine != nil {
			actors = s.engine.ActorCount()
		}
		writeJSON(w, http.StatusOK, map[string]int{"actors": actors, "subscribers": subscribers})
	}
}

func (s *Server) snapshot(w http.ResponseWriter) (game.Snapshot, bool) {
	if s.engine == nil || s.matchPID == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "match not running"})
		return game.Snapshot{}, false
	}
	reply, err := s.engine.Ask(s.matchPID, game.GetSnapshot{}, utils.AskTimeout)
	if err != nil {
		s.logger.Warn("snapshot query failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return game.Snapshot{}, false
	}
	snap, ok := reply.(game.Snapshot)
	if !ok {
		s.logger.Error("unexpected snapshot reply", zap.Any("reply", reply))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unexpected reply"})
		return game.Snapshot{}, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
