package session

import "image"

// Motion turns polled pointer positions into movement. Hosts that only expose
// the current cursor and touch positions use it to disturb the surface on
// movement alone, as event-driven hosts do.
type Motion struct {
	cursor     image.Point
	haveCursor bool
	touches    map[int]image.Point
}

// NewMotion returns an empty tracker.
func NewMotion() *Motion {
	return &Motion{touches: make(map[int]image.Point)}
}

// Cursor records the cursor position and reports whether it moved. The first
// position seen is a baseline, not a movement.
func (m *Motion) Cursor(x, y int) bool {
	p := image.Pt(x, y)
	if !m.haveCursor {
		m.cursor, m.haveCursor = p, true
		return false
	}
	if p == m.cursor {
		return false
	}
	m.cursor = p
	return true
}

// Touch records a touch position and reports whether it should disturb the
// surface: a new touch counts, like a finger-down event, and so does a moved
// one.
func (m *Motion) Touch(id, x, y int) bool {
	p := image.Pt(x, y)
	if prev, ok := m.touches[id]; ok && prev == p {
		return false
	}
	m.touches[id] = p
	return true
}

// Retain forgets touches whose ids are not in active.
func (m *Motion) Retain(active []int) {
	for id := range m.touches {
		found := false
		for _, a := range active {
			if a == id {
				found = true
				break
			}
		}
		if !found {
			delete(m.touches, id)
		}
	}
}
