// Package models defines the records persisted by the ticket wallet:
// accounts, the single ticket slot and ledger transactions.
package models

import (
	"errors"
	"fmt"
)

var (
	errMissingID       = errors.New("missing id")
	errMissingEmail    = errors.New("missing email")
	errMissingPassword = errors.New("missing password")
)

// Account is a locally registered user. Email is unique and compared
// case-sensitively. Password holds a verifier, never the raw password.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Validate checks the fields every stored account must carry.
func (a *Account) Validate() error {
	switch {
	case a.ID == "":
		return fmt.Errorf("account: %w", errMissingID)
	case a.Email == "":
		return fmt.Errorf("account %s: %w", a.ID, errMissingEmail)
	case a.Password == "":
		return fmt.Errorf("account %s: %w", a.ID, errMissingPassword)
	}
	return nil
}

// Public returns a copy of the account without the password verifier,
// suitable for display.
func (a Account) Public() Account {
	a.Password = ""
	return a
}
