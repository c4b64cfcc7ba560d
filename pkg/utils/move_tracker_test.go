package utils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveTrackerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	mt := NewMoveTrackerWriter(&buf, "louvain")

	mt.LogMove(0, 1, 4, 4, 2, 0.75)
	mt.LogMove(1, 1, 0, 0, 1, 0.1)
	require.NoError(t, mt.Close())
	assert.Equal(t, 2, mt.Moves())

	var events []MoveEvent
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var e MoveEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	require.Len(t, events, 2)

	assert.Equal(t, 1, events[0].MoveNumber)
	assert.Equal(t, "louvain", events[0].Algorithm)
	assert.Equal(t, 4, events[0].Node)
	assert.Equal(t, 2, events[0].ToComm)
	assert.Equal(t, 2, events[1].MoveNumber)
	assert.Equal(t, 1, events[1].Level)
}

func TestMoveTrackerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moves.jsonl")
	mt, err := NewMoveTracker(path, "louvain")
	require.NoError(t, err)

	mt.LogMove(0, 1, 3, 3, 0, 1.5)
	require.NoError(t, mt.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"from_comm":3`)

	_, err = NewMoveTracker(filepath.Join(t.TempDir(), "missing", "moves.jsonl"), "louvain")
	assert.Error(t, err)
}

func TestNilMoveTracker(t *testing.T) {
	var mt *MoveTracker
	mt.LogMove(0, 1, 1, 1, 2, 0.5)
	assert.Equal(t, 0, mt.Moves())
	assert.NoError(t, mt.Close())
}
