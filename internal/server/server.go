package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/protocol"
)

// Server exposes a game over HTTP. Coin amounts in responses are exact
// decimal strings.
type Server struct {
	game   *Game
	hub    *Hub
	logger zerolog.Logger
}

// PlayerStatus is one entry of the liveness report.
type PlayerStatus struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
	Error  string `json:"error,omitempty"`
}

// NewServer creates the control API for g. hub may be nil, in which case no
// spectator stream is offered.
func NewServer(g *Game, hub *Hub, logger zerolog.Logger) *Server {
	return &Server{
		game:   g,
		hub:    hub,
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /game", s.handleGame)
	mux.HandleFunc("GET /players", s.handlePlayers)
	mux.HandleFunc("POST /players/ping", s.handlePing)
	mux.HandleFunc("GET /rounds", s.handleRounds)
	mux.HandleFunc("POST /rounds", s.handlePlayRound)
	if s.hub != nil {
		mux.Handle("GET /ws", s.hub)
	}
	return mux
}

// Serve answers requests on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Game server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleGame(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handlePlayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot().Players)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	statuses := s.game.RefreshLiveness(r.Context())
	out := make([]PlayerStatus, 0, len(statuses))
	for _, st := range statuses {
		ps := PlayerStatus{Name: st.Name, Online: st.Online}
		if st.Err != nil {
			ps.Error = st.Err.Error()
		}
		out = append(out, ps)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRounds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Results())
}

func (s *Server) handlePlayRound(w http.ResponseWriter, r *http.Request) {
	result, err := s.game.PlayRound(r.Context())
	if err != nil {
		var roundErr *RoundError
		switch {
		case errors.Is(err, ErrRoundInFlight):
			writeError(w, http.StatusConflict, err)
		case errors.As(err, &roundErr):
			writeError(w, http.StatusBadGateway, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", protocol.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, protocol.ErrorResponse{Error: err.Error()})
}
