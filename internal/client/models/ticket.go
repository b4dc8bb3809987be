package models

import (
	"errors"
	"fmt"
	"time"
)

// TicketLifetime is fixed at purchase: ExpiryDate = PurchaseDate + TicketLifetime.
const TicketLifetime = 7 * 24 * time.Hour

var (
	errMissingReference = errors.New("missing reference")
	errMissingOwner     = errors.New("missing owner")
	errBadExpiry        = errors.New("expiry must follow purchase")
)

// Ticket is the single active ticket slot.
type Ticket struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	PurchaseDate time.Time `json:"purchaseDate"`
	ExpiryDate   time.Time `json:"expiryDate"`
	// Amount is in major currency units (naira).
	Amount  int64  `json:"amount"`
	IsValid bool   `json:"isValid"`
	OwnerID string `json:"userId"`
}

// NewTicket builds a valid ticket purchased at now.
func NewTicket(id, reference, ownerID string, amount int64, now time.Time) *Ticket {
	return &Ticket{
		ID:           id,
		Reference:    reference,
		PurchaseDate: now,
		ExpiryDate:   now.Add(TicketLifetime),
		Amount:       amount,
		IsValid:      true,
		OwnerID:      ownerID,
	}
}

// ValidAt reports derived validity: the flag is set and now is before expiry.
func (t *Ticket) ValidAt(now time.Time) bool {
	return t.IsValid && now.Before(t.ExpiryDate)
}

// ExpiredAt reports whether the ticket has passed its expiry at now.
func (t *Ticket) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}

func (t *Ticket) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("ticket: %w", errMissingID)
	case t.Reference == "":
		return fmt.Errorf("ticket %s: %w", t.ID, errMissingReference)
	case t.OwnerID == "":
		return fmt.Errorf("ticket %s: %w", t.ID, errMissingOwner)
	case !t.ExpiryDate.After(t.PurchaseDate):
		return fmt.Errorf("ticket %s: %w", t.ID, errBadExpiry)
	}
	return nil
}
