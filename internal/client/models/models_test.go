package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var purchase = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewTicket_ExpiryIsSevenDaysAfterPurchase(t *testing.T) {
	tk := NewTicket("TICKET-1", "ref-1", "user-1", 1000, purchase)

	require.Equal(t, purchase, tk.PurchaseDate)
	require.Equal(t, purchase.Add(7*24*time.Hour), tk.ExpiryDate)
	require.True(t, tk.IsValid)
	require.NoError(t, tk.Validate())
}

func TestTicket_ValidAt(t *testing.T) {
	tk := NewTicket("TICKET-1", "ref-1", "user-1", 1000, purchase)

	require.True(t, tk.ValidAt(purchase))
	require.True(t, tk.ValidAt(tk.ExpiryDate.Add(-time.Nanosecond)))
	require.False(t, tk.ValidAt(tk.ExpiryDate), "expiry instant is no longer valid")
	require.True(t, tk.ExpiredAt(tk.ExpiryDate))

	tk.IsValid = false
	require.False(t, tk.ValidAt(purchase))
	require.False(t, tk.ExpiredAt(purchase))
}

func TestTicket_JSONKeys(t *testing.T) {
	tk := NewTicket("TICKET-1", "ref-1", "user-1", 2000, purchase)
	b, err := json.Marshal(tk)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"id", "reference", "purchaseDate", "expiryDate", "amount", "isValid", "userId"} {
		require.Contains(t, m, k)
	}
}

func TestValidate_RejectsPartialRecords(t *testing.T) {
	tests := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"account without id", &Account{Email: "a@x", Password: "v"}},
		{"account without email", &Account{ID: "user-1", Password: "v"}},
		{"account without password", &Account{ID: "user-1", Email: "a@x"}},
		{"ticket without id", &Ticket{Reference: "r", OwnerID: "u"}},
		{"ticket without reference", &Ticket{ID: "t", OwnerID: "u"}},
		{"ticket without owner", &Ticket{ID: "t", Reference: "r"}},
		{"ticket with zero dates", &Ticket{ID: "t", Reference: "r", OwnerID: "u"}},
		{"transaction without id", &Transaction{Reference: "r"}},
		{"transaction without reference", &Transaction{ID: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.v.Validate())
		})
	}
}

func TestAccount_PublicDropsPassword(t *testing.T) {
	a := Account{ID: "user-1", Email: "a@x", Password: "argon2id$aa$bb"}
	p := a.Public()
	require.Empty(t, p.Password)
	require.Equal(t, "argon2id$aa$bb", a.Password, "original must be untouched")
}
