package clipboard

// ResolveOpen returns the first event for a stream opening in roomID.
// Only a client whose last seen token differs from the room's current
// token gets the stored payload replayed; everyone else gets a handshake.
func (h *Hub) ResolveOpen(roomID, lastEventID string) Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolveOpenLocked(h.rooms[roomID], lastEventID)
}

func (h *Hub) resolveOpenLocked(r *room, lastEventID string) Event {
	if r == nil || r.latest == nil || lastEventID == "" || r.latest.Token == lastEventID {
		return h.handshake()
	}
	return Event{ID: r.latest.Token, Data: r.encoded}
}

func (h *Hub) handshake() Event {
	return Event{ID: h.newToken(), Data: []byte(HandshakeData)}
}
