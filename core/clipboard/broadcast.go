package clipboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/clipsync/core/logger"
)

// BroadcastResult reports one fan-out for observability.
type BroadcastResult struct {
	Snapshot   Snapshot
	Recipients int
	Failed     int
}

// Broadcast stores payload as the room's current state under a fresh token
// and pushes its metadata to every member except the sender, in
// registration order. Failed deliveries are logged and counted, never retried.
func (h *Hub) Broadcast(ctx context.Context, senderID, roomID string, payload Payload) (BroadcastResult, error) {
	if roomID == "" {
		return BroadcastResult{}, ErrRoomIDRequired
	}

	snap := Snapshot{Payload: payload, SizeMB: ComputeSizeMB(payload.Blobs())}
	data, err := json.Marshal(snap.Metadata())
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("clipboard: encode payload: %w", err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return BroadcastResult{}, ErrHubClosed
	}

	snap.Token = h.newToken()
	snap.UploadedAt = h.now()

	r := h.roomLocked(roomID)
	r.latest = &snap
	r.encoded = data

	res := BroadcastResult{Snapshot: snap}
	ev := Event{ID: snap.Token, Data: data}
	for _, m := range r.members {
		if m.clientID == senderID {
			continue
		}
		if err := m.stream.Send(ev); err != nil {
			res.Failed++
			h.logger.WarnContext(ctx, "dropped clipboard delivery",
				logger.RoomID(roomID),
				logger.ClientID(m.clientID),
				logger.EventToken(snap.Token),
				logger.Error(err),
			)
			continue
		}
		res.Recipients++
	}
	h.mu.Unlock()

	h.logger.InfoContext(ctx, "clipboard broadcast",
		logger.RoomID(roomID),
		logger.ClientID(senderID),
		logger.EventToken(snap.Token),
		logger.Key("type", string(payload.Kind())),
		logger.Key("size_mb", snap.SizeMB.String()),
		logger.Count("recipients", res.Recipients),
		logger.Count("failed", res.Failed),
	)
	return res, nil
}
