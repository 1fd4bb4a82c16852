package clipboard

import (
	"sync"

	"github.com/dmitrymomot/clipsync/core/logger"
)

// Membership is the handle returned by Join. It ends at most once, either on
// Close or, asynchronously, when the join context is done.
type Membership struct {
	hub    *Hub
	member *member
	roomID string
	open   Event
	stop   func() bool

	once    sync.Once
	removed bool
}

// ClientID returns the id the stream joined with.
func (m *Membership) ClientID() string { return m.member.clientID }

// RoomID returns the room the stream joined.
func (m *Membership) RoomID() string { return m.roomID }

// Open returns the event sent when the stream joined.
func (m *Membership) Open() Event { return m.open }

// Close removes the client from its room unless a newer join or an explicit
// Leave already replaced this membership. Only the first effective call
// reports true.
func (m *Membership) Close() bool {
	effective := m.release()
	if m.stop != nil {
		m.stop()
	}
	return effective
}

func (m *Membership) release() bool {
	var first bool
	m.once.Do(func() {
		first = true
		var roomID string
		roomID, m.removed = m.hub.detach(m.member)
		if m.removed {
			m.hub.logger.Info("client left room",
				logger.RoomID(roomID),
				logger.ClientID(m.member.clientID),
				logger.ClientName(m.member.clientName),
			)
		}
	})
	return first && m.removed
}
