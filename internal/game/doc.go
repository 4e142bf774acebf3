// Package game implements the round settlement rules of the three-way coin
// bidding game.
//
// Every round each player splits a bid between its two opponents. Coins move
// from bidder to target, and a player scores a point against an opponent when
// it bid strictly more toward that opponent than the opponent bid back.
// Players with the highest point total win the round and gain a trophy; the
// first to reach the trophy threshold wins the game.
//
// # Basic Usage
//
// Build a state from a roster, collect one Bid per player against that
// player's View, then settle and apply:
//
//	state, _ := game.NewState("g1", roster, game.DefaultWinTrophies)
//	for _, v := range state.Views() {
//	    bids[v.Player] = ask(v) // remote call in production
//	}
//	result, err := state.Settle(bids)
//	if err == nil {
//	    _ = state.Apply(result)
//	}
//
// Settle never mutates the state, so a round that fails half way through bid
// collection leaves nothing to roll back.
//
// # Bids
//
// A Bid is keyed by opponent name rather than by the "team A"/"team B" slots
// used on the wire. The slot order is the roster order of the other two
// players, see Opponents; protocol adapters translate between the two.
//
// # Reveal
//
// RoundResult.Steps returns the ordered, replayable records a presentation
// layer walks through when revealing a round.
package game
