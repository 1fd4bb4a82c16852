package clipboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/clipsync/core/logger"
)

// Hub is an in-memory registry of rooms and their members.
// All mutation runs under a single mutex, which also orders broadcasts
// within a room. Rooms are never evicted.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string]*room
	clients map[string]string // clientID -> roomID
	closed  bool

	logger   *slog.Logger
	newToken func() string
	now      func() time.Time
}

type room struct {
	id      string
	members []*member
	latest  *Snapshot
	encoded []byte // latest metadata as JSON
}

type member struct {
	clientID   string
	clientName string
	stream     Stream
}

// Stats is a point-in-time count of hub state.
type Stats struct {
	Rooms   int `json:"rooms"`
	Clients int `json:"clients"`
}

// New creates an empty hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		rooms:    make(map[string]*room),
		clients:  make(map[string]string),
		logger:   logger.Nop(),
		newToken: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(logger.Component("clipboard"))
	return h
}

// JoinParams describes a push stream joining a room.
type JoinParams struct {
	ClientID    string
	ClientName  string
	RoomID      string
	LastEventID string
	Stream      Stream
}

// Join registers the stream in the room and sends it the open event before
// any broadcast can reach it. A client already in another room leaves it
// first; a client rejoining the same room has its stream replaced in place.
// The membership ends on Close, or asynchronously once ctx is done.
// Handlers should call Close when the stream ends for immediate removal.
func (h *Hub) Join(ctx context.Context, p JoinParams) (*Membership, error) {
	switch {
	case p.ClientID == "":
		return nil, ErrClientIDRequired
	case p.RoomID == "":
		return nil, ErrRoomIDRequired
	case p.Stream == nil:
		return nil, ErrNilStream
	}

	m := &member{clientID: p.ClientID, clientName: p.ClientName, stream: p.Stream}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}

	if prev, ok := h.clients[p.ClientID]; ok && prev != p.RoomID {
		if old, ok := h.removeLocked(p.ClientID); ok {
			closeStream(old.stream)
		}
	}

	r := h.roomLocked(p.RoomID)
	if i := r.indexOf(p.ClientID); i >= 0 {
		closeStream(r.members[i].stream)
		r.members[i] = m
	} else {
		r.members = append(r.members, m)
	}
	h.clients[p.ClientID] = p.RoomID

	open := h.resolveOpenLocked(r, p.LastEventID)
	if err := m.stream.Send(open); err != nil {
		h.removeLocked(p.ClientID)
		closeStream(m.stream)
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	h.mu.Unlock()

	h.logger.InfoContext(ctx, "client joined room",
		logger.RoomID(p.RoomID),
		logger.ClientID(p.ClientID),
		logger.ClientName(p.ClientName),
		slog.Bool("resumed", !open.IsHandshake()),
	)

	ms := &Membership{hub: h, member: m, roomID: p.RoomID, open: open}
	ms.stop = context.AfterFunc(ctx, func() { ms.release() })
	return ms, nil
}

// Leave removes the client from its room and closes its stream.
// It reports whether the client was a member.
func (h *Hub) Leave(clientID string) bool {
	h.mu.Lock()
	roomID := h.clients[clientID]
	m, removed := h.removeLocked(clientID)
	if removed {
		closeStream(m.stream)
	}
	h.mu.Unlock()

	if removed {
		h.logger.Info("client left room", logger.RoomID(roomID), logger.ClientID(clientID))
	}
	return removed
}

// Clients returns the members of a room in registration order.
// The result is empty, not nil, for an unknown room.
func (h *Hub) Clients(roomID string) []ClientInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[roomID]
	if !ok {
		return []ClientInfo{}
	}
	out := make([]ClientInfo, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, ClientInfo{ClientID: m.clientID, ClientName: m.clientName})
	}
	return out
}

// RoomOf returns the room the client currently belongs to.
func (h *Hub) RoomOf(clientID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	roomID, ok := h.clients[clientID]
	return roomID, ok
}

// Latest returns the room's current payload.
func (h *Hub) Latest(roomID string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[roomID]
	if !ok || r.latest == nil {
		return Snapshot{}, false
	}
	return *r.latest, true
}

// Blob returns the attachment at index in the room's current payload.
func (h *Hub) Blob(roomID string, index int) (Blob, error) {
	snap, ok := h.Latest(roomID)
	if !ok {
		return Blob{}, ErrBlobNotFound
	}
	blobs := snap.Payload.Blobs()
	if index < 0 || index >= len(blobs) {
		return Blob{}, ErrBlobNotFound
	}
	return blobs[index], nil
}

// Stats reports the number of known rooms and joined clients.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statsLocked()
}

func (h *Hub) statsLocked() Stats {
	return Stats{Rooms: len(h.rooms), Clients: len(h.clients)}
}

// Healthcheck fails once the hub has been closed.
func (h *Hub) Healthcheck(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	return nil
}

// Close detaches every member and closes streams that implement io.Closer.
// Later joins and broadcasts fail with ErrHubClosed.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	stats := h.statsLocked()

	var closed int
	for _, r := range h.rooms {
		for _, m := range r.members {
			if closeStream(m.stream) {
				closed++
			}
		}
		r.members = nil
	}
	clear(h.clients)

	h.logger.Info("clipboard hub closed",
		logger.Count("rooms", stats.Rooms),
		logger.Count("clients", stats.Clients),
		logger.Count("streams_closed", closed),
	)
	return nil
}

func (h *Hub) roomLocked(roomID string) *room {
	r, ok := h.rooms[roomID]
	if !ok {
		r = &room{id: roomID}
		h.rooms[roomID] = r
	}
	return r
}

// removeLocked drops the client from both the room and the index.
func (h *Hub) removeLocked(clientID string) (*member, bool) {
	roomID, ok := h.clients[clientID]
	if !ok {
		return nil, false
	}
	delete(h.clients, clientID)

	r, ok := h.rooms[roomID]
	if !ok {
		return nil, false
	}
	i := r.indexOf(clientID)
	if i < 0 {
		return nil, false
	}
	m := r.members[i]
	r.members = slices.Delete(r.members, i, i+1)
	return m, true
}

// detach removes m only while it still owns the client's slot.
func (h *Hub) detach(m *member) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomID, ok := h.clients[m.clientID]
	if !ok {
		return "", false
	}
	r := h.rooms[roomID]
	if r == nil || !slices.Contains(r.members, m) {
		return "", false
	}
	_, removed := h.removeLocked(m.clientID)
	return roomID, removed
}

// closeStream ends streams that can be closed. Called with the hub lock held.
func closeStream(s Stream) bool {
	c, ok := s.(io.Closer)
	if ok {
		_ = c.Close()
	}
	return ok
}

func (r *room) indexOf(clientID string) int {
	return slices.IndexFunc(r.members, func(m *member) bool { return m.clientID == clientID })
}
