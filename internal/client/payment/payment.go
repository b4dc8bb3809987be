// Package payment abstracts the external payment widget that collects money
// for a ticket. A widget is handed a Request and reports exactly one Event:
// the payment succeeded, or the widget was closed. No failure payload exists;
// anything short of success is reported as closed.
package payment

import (
	"context"
	"errors"
)

// ErrDismissed may be returned by interactive steps to signal the user closed
// the widget. Widgets translate it into an EventClosed.
var ErrDismissed = errors.New("payment dismissed")

type EventKind string

const (
	EventSuccess EventKind = "success"
	EventClosed  EventKind = "closed"
)

// Request is what the widget needs to collect a payment.
type Request struct {
	PublicKey string
	Email     string
	// AmountMinor is in minor currency units (kobo).
	AmountMinor int64
	Reference   string
}

// Event is the single callback a widget delivers.
type Event struct {
	Kind EventKind
	// Reference is set for EventSuccess.
	Reference string
}

func Success(reference string) Event { return Event{Kind: EventSuccess, Reference: reference} }

func Closed() Event { return Event{Kind: EventClosed} }

// Widget collects a payment. Open blocks until the user finishes or dismisses
// the widget. A non-nil error means the widget itself could not run.
type Widget interface {
	Open(ctx context.Context, req Request) (Event, error)
}

// WidgetFunc adapts a function to Widget.
type WidgetFunc func(ctx context.Context, req Request) (Event, error)

func (f WidgetFunc) Open(ctx context.Context, req Request) (Event, error) {
	return f(ctx, req)
}
