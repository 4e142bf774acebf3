package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/bidforbots/internal/game"
)

func TestNewMultiRoundMonitor(t *testing.T) {
	assert.Equal(t, NullRoundMonitor{}, NewMultiRoundMonitor())
	assert.Equal(t, NullRoundMonitor{}, NewMultiRoundMonitor(nil, nil))

	single := &recordingMonitor{}
	assert.Same(t, single, NewMultiRoundMonitor(nil, single))

	a, b := &recordingMonitor{}, &recordingMonitor{}
	m := NewMultiRoundMonitor(a, nil, b)

	result := &game.RoundResult{Round: 1}
	m.OnGameStart(game.Snapshot{})
	m.OnRoundComplete(result, game.Snapshot{})
	m.OnRoundFailed(&RoundError{Round: 2})
	m.OnGameComplete(game.Snapshot{Round: 1}, "done")

	for _, rec := range []*recordingMonitor{a, b} {
		assert.Equal(t, 1, rec.started)
		assert.Equal(t, []*game.RoundResult{result}, rec.completed)
		assert.Len(t, rec.failed, 1)
		assert.Equal(t, "done", rec.reason)
		assert.Equal(t, 1, rec.final.Round)
	}
}
