// Package protocol defines the JSON contract between the game orchestrator
// and player services.
//
// A player service answers two requests:
//
//	POST /bid   {"standings": {"coins": {...}, "trophies": {...}}}
//	            -> {"amountToA": 12.5, "amountToB": 0}
//	GET  /ping  -> any 2xx
//
// "teamA" and "teamB" are the other two roster members in roster order as
// seen by the player receiving the request.
package protocol

import (
	"github.com/shopspring/decimal"
)

const (
	PathBid  = "/bid"
	PathPing = "/ping"

	ContentTypeJSON = "application/json"
)

// Amount is a coin amount encoded as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal for the wire.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat converts a float, mainly for policies and tests.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// MarshalJSON emits the amount without quotes.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// CoinStandings holds balances from one player's point of view.
type CoinStandings struct {
	Own   Amount `json:"own"`
	TeamA Amount `json:"teamA"`
	TeamB Amount `json:"teamB"`
}

// TrophyStandings holds trophy counts from one player's point of view.
type TrophyStandings struct {
	Own   int `json:"own"`
	TeamA int `json:"teamA"`
	TeamB int `json:"teamB"`
}

// Standings is the per-player view sent with every bid request.
type Standings struct {
	Coins    CoinStandings   `json:"coins"`
	Trophies TrophyStandings `json:"trophies"`
}

// BidRequest is the body of POST /bid.
type BidRequest struct {
	Standings Standings `json:"standings"`
}

// BidResponse is the body returned from POST /bid.
type BidResponse struct {
	AmountToA Amount `json:"amountToA"`
	AmountToB Amount `json:"amountToB"`
}

// Total returns the coins committed by the response.
func (r BidResponse) Total() decimal.Decimal {
	return r.AmountToA.Add(r.AmountToB.Decimal)
}

// Pong is the body returned from GET /ping.
type Pong struct {
	Message string `json:"message"`
}

// ErrorResponse is returned by player services on a rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}
