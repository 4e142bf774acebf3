package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Spectators only send control frames
	maxMessageSize = 512

	sendBuffer = 64
)

// Spectator event types.
const (
	EventGameStart   = "game_start"
	EventStep        = "step"
	EventRoundFailed = "round_failed"
)

// SpectatorEvent is a message pushed to every connected spectator.
type SpectatorEvent struct {
	Type     string         `json:"type"`
	Step     *game.Step     `json:"step,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Round    int            `json:"round,omitempty"`
	Player   string         `json:"player,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type spectator struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts reveal steps to websocket spectators. It is a StepSink and
// reports game start and round failures itself.
type Hub struct {
	NullRoundMonitor

	upgrader   websocket.Upgrader
	clients    map[*spectator]bool
	register   chan *spectator
	unregister chan *spectator
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a hub. Run must be called exactly once to service it.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Spectating is read only, any origin may watch
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*spectator]bool),
		register:   make(chan *spectator),
		unregister: make(chan *spectator),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "spectators").Logger(),
	}
}

// Run handles the spectator lifecycle until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case s := <-h.register:
			h.mu.Lock()
			h.clients[s] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().Int("total", total).Msg("Spectator connected")

		case s := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[s]; ok {
				delete(h.clients, s)
				close(s.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().Int("total", total).Msg("Spectator disconnected")

		case msg := <-h.broadcast:
			h.mu.Lock()
			for s := range h.clients {
				select {
				case s.send <- msg:
				default:
					// Too slow to keep up
					delete(h.clients, s)
					close(s.send)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.clients {
				delete(h.clients, s)
				close(s.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a spectator websocket.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	s := &spectator{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- s:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(s)
	go h.readPump(s)
}

// Publish sends an event to every spectator.
func (h *Hub) Publish(event SpectatorEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to encode event")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Str("type", event.Type).Msg("Broadcast buffer full, dropping event")
	}
}

// OnStep implements StepSink.
func (h *Hub) OnStep(step game.Step) {
	h.Publish(SpectatorEvent{Type: EventStep, Step: &step, Round: step.Round})
}

func (h *Hub) OnGameStart(snapshot game.Snapshot) {
	h.Publish(SpectatorEvent{Type: EventGameStart, Snapshot: &snapshot})
}

func (h *Hub) OnRoundFailed(err *RoundError) {
	h.Publish(SpectatorEvent{Type: EventRoundFailed, Round: err.Round, Player: err.Player, Error: err.Err.Error()})
}

// readPump discards client frames and notices disconnects.
func (h *Hub) readPump(s *spectator) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug().Err(err).Msg("Spectator read error")
			}
			return
		}
	}
}

func (h *Hub) writePump(s *spectator) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug().Err(err).Msg("Failed to write to spectator")
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
