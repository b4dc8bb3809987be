package payment

import (
	"context"
	"sync"
)

// Mock is an offline widget. It approves every request unless Decline is set,
// and remembers the requests it saw.
type Mock struct {
	Decline bool

	mu       sync.Mutex
	requests []Request
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Open(ctx context.Context, req Request) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Decline {
		return Closed(), nil
	}
	return Success(req.Reference), nil
}

// Requests returns a copy of every request handed to the widget.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
