package clipsync

import (
	"errors"
	"sync"

	"github.com/dmitrymomot/clipsync/core/clipboard"
	"github.com/dmitrymomot/clipsync/core/response"
)

var (
	ErrStreamBacklogged = errors.New("stream buffer is full")
	ErrStreamClosed     = errors.New("stream is closed")
)

// chanStream adapts a clipboard.Stream onto a buffered channel drained by the
// transport. Send never blocks: a full buffer drops the event.
type chanStream[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
	encode func(clipboard.Event) T
}

func newChanStream[T any](size int, encode func(clipboard.Event) T) *chanStream[T] {
	return &chanStream[T]{ch: make(chan T, size), encode: encode}
}

func (s *chanStream[T]) Send(ev clipboard.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	select {
	case s.ch <- s.encode(ev):
		return nil
	default:
		return ErrStreamBacklogged
	}
}

// Close ends the channel so the transport finishes its response.
func (s *chanStream[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

func (s *chanStream[T]) C() <-chan T { return s.ch }

func newSSEStream(size int) *chanStream[response.Event] {
	return newChanStream(size, func(ev clipboard.Event) response.Event {
		return response.Event{ID: ev.ID, Data: ev.Data}
	})
}

// wsFrame is the websocket text frame for one event.
type wsFrame struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

func newWSStream(size int) *chanStream[wsFrame] {
	return newChanStream(size, func(ev clipboard.Event) wsFrame {
		return wsFrame{ID: ev.ID, Data: string(ev.Data)}
	})
}
