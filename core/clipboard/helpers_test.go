package clipboard_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/clipsync/core/clipboard"
)

// recorder is a Stream that keeps every event it receives.
type recorder struct {
	mu     sync.Mutex
	events []clipboard.Event
	err    error
	closed bool
}

func (r *recorder) Send(ev clipboard.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) Events() []clipboard.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]clipboard.Event(nil), r.events...)
}

func (r *recorder) Last() clipboard.Event {
	ev := r.Events()
	return ev[len(ev)-1]
}

func (r *recorder) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *recorder) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

var errBrokenPipe = errors.New("broken pipe")

// sequentialTokens yields tok-1, tok-2, ...
func sequentialTokens() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("tok-%d", n.Add(1))
	}
}

func newHub() *clipboard.Hub {
	return clipboard.New(clipboard.WithTokenGenerator(sequentialTokens()))
}

func textPayload(value string) clipboard.Payload {
	p, err := clipboard.NewContent(clipboard.KindText, value, "")
	if err != nil {
		panic(err)
	}
	return p
}

func clientIDs(infos []clipboard.ClientInfo) []string {
	ids := make([]string, 0, len(infos))
	for _, c := range infos {
		ids = append(ids, c.ClientID)
	}
	return ids
}
