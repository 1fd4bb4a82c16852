// Package clipboard implements a room-scoped clipboard relay.
//
// A Hub keeps one current payload per room and the streams of the clients
// connected to it. A client belongs to at most one room: joining another
// room leaves the previous one, and rejoining the same room replaces the
// stream in place.
//
//	hub := clipboard.New(clipboard.WithLogger(log))
//
//	m, err := hub.Join(ctx, clipboard.JoinParams{
//		ClientID:    "laptop",
//		RoomID:      "home",
//		LastEventID: r.Header.Get("Last-Event-ID"),
//		Stream:      stream,
//	})
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
// Every stream first receives an open event. It carries the room's current
// payload when the client's last seen token is stale, otherwise a handshake
// whose body is HandshakeData. Broadcast stores a new payload under a fresh
// token and fans it out to every other member.
//
// Event bodies are the JSON form of Metadata. Blob bytes are never pushed;
// clients fetch them with Blob. Sizes are SizeMB values that encode with
// four decimals, such as 3.0000.
package clipboard
