package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateValidatesRoster(t *testing.T) {
	t.Parallel()
	_, err := NewState("g", testRoster()[:2], DefaultWinTrophies)
	require.ErrorIs(t, err, ErrRosterSize)

	dup := testRoster()
	dup[2].Name = "Akos"
	_, err = NewState("g", dup, DefaultWinTrophies)
	require.ErrorIs(t, err, ErrDuplicatePlayer)

	_, err = NewState("g", testRoster(), 0)
	require.ErrorIs(t, err, ErrInvalidRoster)
}

func TestStateSettleDoesNotMutate(t *testing.T) {
	t.Parallel()
	s, err := NewState("g", testRoster(), DefaultWinTrophies)
	require.NoError(t, err)

	bids := bidsFromSlots(t, s.Players(), map[string][2]float64{
		"Akos": {50, 50}, "Razvan": {0, 0}, "Kristof": {0, 0},
	})
	r, err := s.Settle(bids)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Round)

	assert.Equal(t, 0, s.Round())
	akos, _ := s.Player("Akos")
	assert.True(t, akos.Coins.Equal(d(100)))

	require.NoError(t, s.Apply(r))
	assert.Equal(t, 1, s.Round())
	akos, _ = s.Player("Akos")
	assert.True(t, akos.Coins.IsZero())
	assert.Equal(t, 1, akos.Trophies)
	assert.True(t, s.TotalCoins().Equal(d(300)))

	// A stale result cannot be applied twice.
	require.ErrorIs(t, s.Apply(r), ErrRoundMismatch)
}

func TestStateGameWinnerAfterFiveRounds(t *testing.T) {
	t.Parallel()
	s, err := NewState("g", testRoster(), DefaultWinTrophies)
	require.NoError(t, err)

	for round := 1; round <= 5; round++ {
		assert.False(t, s.Finished())
		bids := bidsFromSlots(t, s.Players(), map[string][2]float64{
			"Akos": {1, 1}, "Razvan": {0, 0}, "Kristof": {0, 0},
		})
		r, err := s.Settle(bids)
		require.NoError(t, err)
		assert.Equal(t, []string{"Akos"}, r.RoundWinners)
		if round < 5 {
			assert.Empty(t, r.GameWinners)
		} else {
			assert.Equal(t, []string{"Akos"}, r.GameWinners)
		}
		require.NoError(t, s.Apply(r))
	}

	assert.True(t, s.Finished())
	assert.Equal(t, []string{"Akos"}, s.Winners())
	akos, _ := s.Player("Akos")
	assert.Equal(t, 5, akos.Trophies)

	// Settlement keeps working after the game is decided.
	bids := bidsFromSlots(t, s.Players(), map[string][2]float64{
		"Akos": {0, 0}, "Razvan": {1, 0}, "Kristof": {0, 0},
	})
	r, err := s.Settle(bids)
	require.NoError(t, err)
	require.NoError(t, s.Apply(r))
	assert.Equal(t, []string{"Akos"}, s.Winners())
}

func TestStateWinnersAccumulate(t *testing.T) {
	t.Parallel()
	s, err := NewState("g", testRoster(), 1)
	require.NoError(t, err)

	r, err := s.Settle(bidsFromSlots(t, s.Players(), map[string][2]float64{
		"Akos": {1, 1}, "Razvan": {0, 0}, "Kristof": {0, 0},
	}))
	require.NoError(t, err)
	require.NoError(t, s.Apply(r))
	assert.Equal(t, []string{"Akos"}, s.Winners())

	// Razvan crosses the threshold later; Akos stays a winner.
	r, err = s.Settle(bidsFromSlots(t, s.Players(), map[string][2]float64{
		"Akos": {0, 0}, "Razvan": {1, 1}, "Kristof": {0, 0},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Akos", "Razvan"}, r.GameWinners)
	require.NoError(t, s.Apply(r))
	assert.Equal(t, []string{"Akos", "Razvan"}, s.Winners())
	assert.True(t, s.Snapshot().Finished)

	// A three-way tie adds Kristof without repeating earlier winners.
	r, err = s.Settle(bidsFromSlots(t, s.Players(), map[string][2]float64{
		"Akos": {0, 0}, "Razvan": {0, 0}, "Kristof": {0, 0},
	}))
	require.NoError(t, err)
	require.NoError(t, s.Apply(r))
	assert.Equal(t, []string{"Akos", "Razvan", "Kristof"}, s.Winners())
}

func TestStateSetOnline(t *testing.T) {
	t.Parallel()
	s, err := NewState("g", testRoster(), DefaultWinTrophies)
	require.NoError(t, err)

	require.NoError(t, s.SetOnline("Razvan", true))
	p, _ := s.Player("Razvan")
	assert.True(t, p.Online)
	require.ErrorIs(t, s.SetOnline("Zoltan", true), ErrUnknownPlayer)

	snap := s.Snapshot()
	assert.Equal(t, "g", snap.ID)
	assert.Len(t, snap.Players, 3)
	assert.False(t, snap.Finished)
}
