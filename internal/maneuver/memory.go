package maneuver

import (
	"strings"

	"navcore/internal/model"
)

const directionMemoryCapacity = 20

// DirectionMemory is a bounded ring of recent turn directions. It feeds
// the oscillation detector and tracks a preferred escape direction once
// the robot turns the same way three times in a row.
type DirectionMemory struct {
	entries  []Direction
	capacity int

	lastDirection Direction
	streak        int
	preferred     Direction
}

func NewDirectionMemory(capacity int) *DirectionMemory {
	if capacity <= 0 {
		capacity = directionMemoryCapacity
	}
	return &DirectionMemory{capacity: capacity}
}

// RecordAction records the direction of a turn action. Non-turn actions
// are ignored.
func (m *DirectionMemory) RecordAction(action model.Action) {
	switch action {
	case model.ActionTurnLeft:
		m.record(DirectionLeft)
	case model.ActionTurnRight:
		m.record(DirectionRight)
	}
}

// RecordConcept infers a direction from a concept name. Names mentioning
// both sides, or neither, record nothing.
func (m *DirectionMemory) RecordConcept(name string) {
	upper := strings.ToUpper(name)
	hasLeft := strings.Contains(upper, "LEFT")
	hasRight := strings.Contains(upper, "RIGHT")
	switch {
	case hasLeft && !hasRight:
		m.record(DirectionLeft)
	case hasRight && !hasLeft:
		m.record(DirectionRight)
	}
}

func (m *DirectionMemory) record(dir Direction) {
	m.entries = append(m.entries, dir)
	if len(m.entries) > m.capacity {
		m.entries = m.entries[1:]
	}

	if m.lastDirection == dir {
		m.streak++
		if m.streak >= 3 {
			m.preferred = dir
		}
	} else {
		m.streak = 1
		m.lastDirection = dir
	}
}

// Oscillating reports whether the last six recorded directions form a
// strict left/right alternation or contain four or more direction
// changes.
func (m *DirectionMemory) Oscillating() bool {
	if len(m.entries) < 6 {
		return false
	}
	recent := m.entries[len(m.entries)-6:]

	alternating := true
	for i := 1; i < len(recent); i++ {
		if recent[i] == recent[i-1] {
			alternating = false
			break
		}
	}
	if alternating {
		return true
	}

	changes := 0
	for i := 1; i < len(recent); i++ {
		if recent[i] != recent[i-1] {
			changes++
		}
	}
	return changes >= 4
}

// Preferred returns the preferred escape direction, empty if none has
// emerged yet.
func (m *DirectionMemory) Preferred() Direction {
	return m.preferred
}

// Recent returns up to the last n recorded directions, oldest first.
func (m *DirectionMemory) Recent(n int) []Direction {
	if n <= 0 || len(m.entries) == 0 {
		return nil
	}
	if n > len(m.entries) {
		n = len(m.entries)
	}
	out := make([]Direction, n)
	copy(out, m.entries[len(m.entries)-n:])
	return out
}

func (m *DirectionMemory) Len() int {
	return len(m.entries)
}
