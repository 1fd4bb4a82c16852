package clipboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipsync/core/clipboard"
)

func TestResolveOpen(t *testing.T) {
	t.Parallel()

	hub := newHub()

	t.Run("no payload yet", func(t *testing.T) {
		for _, last := range []string{"", "tok-1", "anything"} {
			ev := hub.ResolveOpen("R1", last)
			assert.True(t, ev.IsHandshake(), "last=%q", last)
		}
	})

	res, err := hub.Broadcast(context.Background(), "a", "R1", textPayload("hello"))
	require.NoError(t, err)
	current := res.Snapshot.Token

	t.Run("no last token", func(t *testing.T) {
		ev := hub.ResolveOpen("R1", "")
		assert.True(t, ev.IsHandshake())
		assert.NotEqual(t, current, ev.ID)
	})

	t.Run("client already has current payload", func(t *testing.T) {
		ev := hub.ResolveOpen("R1", current)
		assert.True(t, ev.IsHandshake())
		assert.NotEqual(t, current, ev.ID, "handshake uses a fresh token")
	})

	t.Run("client missed an update", func(t *testing.T) {
		ev := hub.ResolveOpen("R1", "stale-token")
		assert.False(t, ev.IsHandshake())
		assert.Equal(t, current, ev.ID)
		assert.JSONEq(t, `{"type":"text","value":"hello","sizeMB":0}`, string(ev.Data))
	})

	t.Run("handshake tokens are fresh", func(t *testing.T) {
		a := hub.ResolveOpen("R1", "")
		b := hub.ResolveOpen("R1", "")
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestJoinReplaysMissedPayload(t *testing.T) {
	t.Parallel()

	hub := newHub()
	res, err := hub.Broadcast(context.Background(), "a", "R1", textPayload("missed"))
	require.NoError(t, err)

	rec := &recorder{}
	m, err := hub.Join(context.Background(), clipboard.JoinParams{
		ClientID:    "b",
		RoomID:      "R1",
		LastEventID: "older",
		Stream:      rec,
	})
	require.NoError(t, err)

	require.Len(t, rec.Events(), 1)
	assert.Equal(t, res.Snapshot.Token, rec.Last().ID)
	assert.False(t, m.Open().IsHandshake())

	// Reconnecting with the token just received gets a handshake.
	rec2 := &recorder{}
	_, err = hub.Join(context.Background(), clipboard.JoinParams{
		ClientID:    "b",
		RoomID:      "R1",
		LastEventID: res.Snapshot.Token,
		Stream:      rec2,
	})
	require.NoError(t, err)
	assert.True(t, rec2.Last().IsHandshake())
}
