package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bidforbots/cmd/bidforbots/shared"
	"github.com/lox/bidforbots/internal/history"
)

func TestSpawnPlaysAndRecords(t *testing.T) {
	dir := t.TempDir()
	seed := int64(42)
	cmd := SpawnCmd{
		Names:       []string{"Akos", "Razvan", "Kristof"},
		Policies:    []string{"outbid", "zero", "split"},
		Rounds:      3,
		WinTrophies: 5,
		HistoryDir:  dir,
		Seed:        &seed,
		Quiet:       true,
		LogOptions:  shared.LogOptions{LogFormat: "json"},
	}
	require.NoError(t, cmd.Run())

	matches, err := filepath.Glob(filepath.Join(dir, "game-*", "session.toml"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	session, err := history.Load(matches[0])
	require.NoError(t, err)
	assert.Len(t, session.Rounds, 3)
	assert.Equal(t, "round limit 3 reached", session.Reason)

	results, err := session.Replay()
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSpawnRejectsMismatchedPolicies(t *testing.T) {
	cmd := SpawnCmd{
		Names:    []string{"Akos", "Razvan", "Kristof"},
		Policies: []string{"zero"},
	}
	assert.Error(t, cmd.Run())
}

func TestSpawnRejectsUnknownPolicy(t *testing.T) {
	cmd := SpawnCmd{
		Names:       []string{"Akos", "Razvan", "Kristof"},
		Policies:    []string{"zero", "zero", "psychic"},
		WinTrophies: 5,
	}
	assert.Error(t, cmd.Run())
}
