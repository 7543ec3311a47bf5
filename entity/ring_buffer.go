package entity

import (
	"iter"
	"math"

	"github.com/oomph-ac/verdict/game"
)

const (
	// DefaultBufferCapacity is the amount of world states kept when no capacity is configured.
	DefaultBufferCapacity = 64
	// DefaultMaxRewindMs is the furthest back in time a lookup may land before it is clamped.
	DefaultMaxRewindMs = 200
)

// Rewind describes how a lookup in a WorldStateBuffer was resolved.
type Rewind uint8

const (
	// RewindEmpty means the buffer held no states and an empty world was returned.
	RewindEmpty Rewind = iota
	// RewindNearest means the state closest to the requested timestamp was returned.
	RewindNearest
	// RewindClamped means the closest state was too far from the requested timestamp, so the most
	// recently saved state was returned instead.
	RewindClamped
)

func (r Rewind) String() string {
	switch r {
	case RewindEmpty:
		return "empty"
	case RewindNearest:
		return "nearest"
	case RewindClamped:
		return "clamped"
	}
	return "unknown"
}

// WorldStateBuffer is a fixed-size circular buffer of world states used to rewind a match to the moment
// a client acted. It is not safe for concurrent use.
type WorldStateBuffer struct {
	buffer    []WorldState
	capacity  int
	head      int // Points to the next write position
	size      int // Current number of elements
	maxRewind uint64
}

// NewWorldStateBuffer creates a buffer holding up to capacity states that rewinds at most maxRewindMs
// milliseconds. Non-positive arguments fall back to the defaults.
func NewWorldStateBuffer(capacity int, maxRewindMs int64) *WorldStateBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	if maxRewindMs <= 0 {
		maxRewindMs = DefaultMaxRewindMs
	}
	return &WorldStateBuffer{
		buffer:    make([]WorldState, capacity),
		capacity:  capacity,
		maxRewind: uint64(maxRewindMs),
	}
}

// Save copies the state into the next slot of the buffer under the tick passed, overwriting the oldest
// state once the buffer is full. The slot's player slice is reused, so the caller keeps ownership of
// state.Players.
func (b *WorldStateBuffer) Save(tick int64, state WorldState) {
	slot := &b.buffer[b.head]
	slot.Tick = tick
	slot.Timestamp = state.Timestamp
	slot.Players = append(slot.Players[:0], state.Players...)

	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// StateAt returns a copy of the state closest to the timestamp passed. See Lookup.
func (b *WorldStateBuffer) StateAt(timestamp int64) WorldState {
	s, _ := b.Lookup(timestamp)
	return s
}

// Lookup returns a copy of the saved state whose timestamp is closest to the one passed, preferring the
// most recent state on ties. If even the closest state is further than the max rewind away, the most
// recently saved state is returned and the result is reported as clamped.
func (b *WorldStateBuffer) Lookup(timestamp int64) (WorldState, Rewind) {
	if b.size == 0 {
		return WorldState{}, RewindEmpty
	}

	idx, delta := b.closest(timestamp)
	if delta > b.maxRewind {
		return b.buffer[b.index(0)].Clone(), RewindClamped
	}
	return b.buffer[idx].Clone(), RewindNearest
}

// Interpolated returns a state with player positions linearly interpolated between the two saved states
// bracketing the timestamp. Players missing from the later state keep their earlier position. When the
// timestamp is not bracketed, or the rewind would be clamped, the result of Lookup is returned.
func (b *WorldStateBuffer) Interpolated(timestamp int64) (WorldState, Rewind) {
	if b.size == 0 {
		return WorldState{}, RewindEmpty
	}
	if _, delta := b.closest(timestamp); delta > b.maxRewind {
		return b.Lookup(timestamp)
	}

	var before, after *WorldState
	for s := range b.all() {
		if s.Timestamp <= timestamp && (before == nil || s.Timestamp > before.Timestamp) {
			before = s
		}
		if s.Timestamp >= timestamp && (after == nil || s.Timestamp < after.Timestamp) {
			after = s
		}
	}
	if before == nil || after == nil || before.Timestamp == after.Timestamp {
		return b.Lookup(timestamp)
	}

	t := float32(float64(timestamp-before.Timestamp) / float64(after.Timestamp-before.Timestamp))
	result := before.Clone()
	result.Timestamp = timestamp
	for i, p := range result.Players {
		if next, ok := after.Player(p.ID); ok {
			result.Players[i].Position = game.Lerp(p.Position, next.Position, t)
		}
	}
	return result, RewindNearest
}

// Latest returns a copy of the most recently saved state.
func (b *WorldStateBuffer) Latest() (WorldState, bool) {
	if b.size == 0 {
		return WorldState{}, false
	}
	return b.buffer[b.index(0)].Clone(), true
}

// Len returns the current number of states in the buffer.
func (b *WorldStateBuffer) Len() int {
	return b.size
}

// Capacity returns the maximum capacity of the buffer.
func (b *WorldStateBuffer) Capacity() int {
	return b.capacity
}

// MaxRewindMs returns the max rewind of the buffer in milliseconds.
func (b *WorldStateBuffer) MaxRewindMs() int64 {
	return int64(b.maxRewind)
}

// Clear removes all states from the buffer. Slots keep their player slices for reuse.
func (b *WorldStateBuffer) Clear() {
	b.head = 0
	b.size = 0
}

// closest scans the buffer from the most recent state backwards and returns the index of the state
// closest in time to the timestamp, along with the distance. A strict comparison keeps the most recent
// state on ties.
func (b *WorldStateBuffer) closest(timestamp int64) (int, uint64) {
	closestIdx, closestDelta := -1, uint64(math.MaxUint64)
	for i := 0; i < b.size; i++ {
		idx := b.index(i)
		if delta := game.AbsDiffInt64(b.buffer[idx].Timestamp, timestamp); closestIdx == -1 || delta < closestDelta {
			closestIdx, closestDelta = idx, delta
		}
	}
	return closestIdx, closestDelta
}

// all iterates over the saved states from the most recent to the oldest.
func (b *WorldStateBuffer) all() iter.Seq[*WorldState] {
	return func(yield func(*WorldState) bool) {
		for i := 0; i < b.size; i++ {
			if !yield(&b.buffer[b.index(i)]) {
				return
			}
		}
	}
}

// index returns the buffer index of the i-th most recent state.
func (b *WorldStateBuffer) index(i int) int {
	return (b.head - 1 - i + b.capacity) % b.capacity
}
