package player

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/bidforbots/internal/game"
	"github.com/lox/bidforbots/internal/protocol"
)

const (
	DefaultBidTimeout  = 5 * time.Second
	DefaultPingTimeout = time.Second
)

var (
	ErrStatus    = errors.New("player: unexpected status")
	ErrMalformed = errors.New("player: malformed response")
)

// Bidder returns one player's bid for a standings view.
type Bidder interface {
	Bid(ctx context.Context, v game.View) (game.Bid, error)
}

// Client calls a remote player service.
type Client struct {
	name        string
	baseURL     string
	httpClient  *http.Client
	validator   *protocol.Validator
	bidTimeout  time.Duration
	pingTimeout time.Duration
	logger      zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithBidTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.bidTimeout = d }
}

func WithPingTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.pingTimeout = d }
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient returns a client for the player service at baseURL.
func NewClient(name, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		name:        name,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		validator:   protocol.MustValidator(),
		bidTimeout:  DefaultBidTimeout,
		pingTimeout: DefaultPingTimeout,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "player_client").Str("player", name).Logger()
	return c
}

// Name returns the roster name of the player.
func (c *Client) Name() string { return c.name }

// URL returns the service base URL.
func (c *Client) URL() string { return c.baseURL }

// Bid posts the standings of v and maps the answer back to opponent names.
func (c *Client) Bid(ctx context.Context, v game.View) (game.Bid, error) {
	req, err := protocol.NewBidRequest(v)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bid request: %w", err)
	}

	if c.bidTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.bidTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+protocol.PathBid, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", protocol.ContentTypeJSON)

	data, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	resp, err := c.validator.DecodeBidResponse(data)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrMalformed, c.name, err)
	}
	bid, err := resp.Bid(v)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrMalformed, c.name, err)
	}

	c.logger.Debug().
		Str("to_a", resp.AmountToA.String()).
		Str("to_b", resp.AmountToB.String()).
		Msg("Received bid")
	return bid, nil
}

// Ping checks that the service answers GET /ping with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	if c.pingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pingTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+protocol.PathPing, nil)
	if err != nil {
		return err
	}
	_, err = c.do(httpReq)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrStatus, req.Method, req.URL.Path, resp.StatusCode)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("%w from %s: body exceeds %d bytes", ErrMalformed, c.name, maxBodySize)
	}
	return data, nil
}
