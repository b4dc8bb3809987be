package models

import (
	"fmt"
	"time"
)

// TransactionTypeTicketPurchase is the only transaction type recorded today.
const TransactionTypeTicketPurchase = "Ticket Purchase"

// Transaction is one ledger line. Ledgers are append-only, newest first.
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
	Reference string    `json:"reference"`
}

func (t *Transaction) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("transaction: %w", errMissingID)
	case t.Reference == "":
		return fmt.Errorf("transaction %s: %w", t.ID, errMissingReference)
	}
	return nil
}
