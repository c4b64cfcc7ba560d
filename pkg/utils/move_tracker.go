package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// MoveEvent is one JSON line written per accepted node move
type MoveEvent struct {
	MoveNumber int     `json:"move"`
	Level      int     `json:"level"`
	Pass       int     `json:"pass"`
	Algorithm  string  `json:"algorithm"`
	Node       int     `json:"node"`
	FromComm   int     `json:"from_comm"`
	ToComm     int     `json:"to_comm"`
	Gain       float64 `json:"gain"`
	Timestamp  int64   `json:"timestamp"`
}

// MoveTracker records node moves as JSON lines. A nil *MoveTracker is valid
// and discards everything, so callers never need to check for it.
type MoveTracker struct {
	closer    io.Closer
	buf       *bufio.Writer
	encoder   *json.Encoder
	algorithm string

	moves int
	err   error
}

// NewMoveTracker creates the tracking file and returns a tracker writing to it
func NewMoveTracker(filename, algorithm string) (*MoveTracker, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create move tracking file %s: %w", filename, err)
	}
	mt := NewMoveTrackerWriter(file, algorithm)
	mt.closer = file
	return mt, nil
}

// NewMoveTrackerWriter returns a tracker writing to w. Close flushes but does
// not close w.
func NewMoveTrackerWriter(w io.Writer, algorithm string) *MoveTracker {
	buf := bufio.NewWriter(w)
	return &MoveTracker{
		buf:       buf,
		encoder:   json.NewEncoder(buf),
		algorithm: algorithm,
	}
}

// LogMove appends one move. The first write error is kept and reported by Close.
func (mt *MoveTracker) LogMove(level, pass, node, fromComm, toComm int, gain float64) {
	if mt == nil || mt.err != nil {
		return
	}

	mt.moves++
	event := MoveEvent{
		MoveNumber: mt.moves,
		Level:      level,
		Pass:       pass,
		Algorithm:  mt.algorithm,
		Node:       node,
		FromComm:   fromComm,
		ToComm:     toComm,
		Gain:       gain,
		Timestamp:  time.Now().Unix(),
	}

	if err := mt.encoder.Encode(event); err != nil {
		mt.err = fmt.Errorf("encode move %d: %w", mt.moves, err)
	}
}

// Moves returns the number of moves logged so far
func (mt *MoveTracker) Moves() int {
	if mt == nil {
		return 0
	}
	return mt.moves
}

// Close flushes buffered events and closes the file the tracker owns
func (mt *MoveTracker) Close() error {
	if mt == nil {
		return nil
	}

	err := mt.err
	if flushErr := mt.buf.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("flush move tracker: %w", flushErr)
	}
	if mt.closer != nil {
		if closeErr := mt.closer.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
		mt.closer = nil
	}
	return err
}
