// Package player serves bidding policies over HTTP and calls them back from
// the game orchestrator.
package player

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/policy"
	"github.com/lox/bidforbots/internal/protocol"
)

// maxBodySize caps request and response bodies on both sides of the wire.
const maxBodySize = 64 << 10

// PongMessage is the body of a successful ping.
const PongMessage = "PONG"

// Service exposes a Policy as a player endpoint.
type Service struct {
	policy    policy.Policy
	validator *protocol.Validator
	logger    zerolog.Logger
}

// NewService wraps p in an HTTP player service.
func NewService(p policy.Policy, logger zerolog.Logger) *Service {
	return &Service{
		policy:    p,
		validator: protocol.MustValidator(),
		logger:    logger.With().Str("component", "player_service").Logger(),
	}
}

// Handler returns the routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+protocol.PathBid, s.handleBid)
	mux.HandleFunc("GET "+protocol.PathPing, s.handlePing)
	return withCORS(mux)
}

// Serve answers requests on ln until ctx is cancelled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Player service listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Service) handleBid(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := s.validator.DecodeBidRequest(data)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Rejected bid request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := s.policy.Bid(req.Standings)
	if err := s.validator.ValidateStruct(protocol.SchemaBidResponse, resp); err != nil {
		s.logger.Error().Err(err).Msg("Policy produced an invalid bid")
		writeError(w, http.StatusInternalServerError, "policy produced an invalid bid")
		return
	}

	s.logger.Debug().
		Str("own", req.Standings.Coins.Own.String()).
		Str("to_a", resp.AmountToA.String()).
		Str("to_b", resp.AmountToB.String()).
		Msg("Answered bid")

	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, protocol.Pong{Message: PongMessage})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", protocol.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, protocol.ErrorResponse{Error: msg})
}
