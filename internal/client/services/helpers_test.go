package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophticket/internal/client/payment"
	"github.com/dmitrijs2005/gophticket/internal/client/storage"
	"github.com/dmitrijs2005/gophticket/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type wallet struct {
	st     *storage.MemoryStorage
	auth   AuthService
	ledger LedgerService
	ticket TicketService
	widget *payment.Mock
	clock  *fakeClock
}

func newWallet(t *testing.T) *wallet {
	t.Helper()
	w := &wallet{
		st:     storage.NewMemoryStorage(),
		widget: payment.NewMock(),
		clock:  newFakeClock(),
	}
	log := logging.NewDiscardLogger()
	w.auth = NewAuthService(w.st, log)
	w.ledger = NewLedgerService(w.st)
	w.ticket = NewTicketService(w.st, w.ledger, w.widget, "pk_test_123", log, WithClock(w.clock.Now))
	return w
}

func (w *wallet) signupAda(t *testing.T) {
	t.Helper()
	_, err := w.auth.Signup(context.Background(), SignupRequest{
		Name: "Ada", Email: "ada@x.com", Phone: "555", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
}

func confirmWith(answer bool, asked *int) Confirmer {
	return ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		*asked++
		return answer, nil
	})
}
