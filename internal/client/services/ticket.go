package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/dmitrijs2005/gophticket/internal/client/payment"
	"github.com/dmitrijs2005/gophticket/internal/client/qr"
	"github.com/dmitrijs2005/gophticket/internal/client/storage"
	"github.com/dmitrijs2005/gophticket/internal/client/store"
	"github.com/dmitrijs2005/gophticket/internal/common"
	"github.com/dmitrijs2005/gophticket/internal/logging"
	"github.com/google/uuid"
)

// Tier is a purchasable ticket price.
type Tier struct {
	Name  string
	Label string
	// AmountMinor is the price in kobo.
	AmountMinor int64
}

var Tiers = []Tier{
	{Name: "family", Label: "Family - max 4 people", AmountMinor: 200000},
	{Name: "individual", Label: "Individual", AmountMinor: 100000},
}

// DefaultTier is preselected when the buyer does not choose.
var DefaultTier = Tiers[0]

func TierByAmount(amountMinor int64) (Tier, bool) {
	for _, t := range Tiers {
		if t.AmountMinor == amountMinor {
			return t, true
		}
	}
	return Tier{}, false
}

func TierByName(name string) (Tier, bool) {
	for _, t := range Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

type TicketState string

const (
	StateNone           TicketState = "NONE"
	StatePendingPayment TicketState = "PENDING_PAYMENT"
	StateActive         TicketState = "ACTIVE"
	StateExpired        TicketState = "EXPIRED"
	// StateInvalidated covers a stored ticket whose isValid flag is cleared.
	StateInvalidated TicketState = "INVALIDATED"
)

// TicketService owns the single ticket slot.
//
// BeginPurchase hands a payment request to the widget and returns the
// widget's event; the caller delivers it back through HandlePaymentEvent.
// Purchase does both. A closed widget leaves every stored record untouched.
type TicketService interface {
	BeginPurchase(ctx context.Context, amountMinor int64) (payment.Event, error)
	HandlePaymentEvent(ctx context.Context, ev payment.Event) (*models.Ticket, error)
	ConfirmPurchase(ctx context.Context, reference string) (*models.Ticket, error)
	Purchase(ctx context.Context, amountMinor int64) (*models.Ticket, error)
	Ticket(ctx context.Context) (*models.Ticket, error)
	Status(ctx context.Context) (TicketState, error)
	IsValid(ctx context.Context) (bool, error)
	Invalidate(ctx context.Context, c Confirmer) (bool, error)
	Reset(ctx context.Context) error
	QRCodeURL(ctx context.Context) (string, error)
	QRImage(ctx context.Context) ([]byte, error)
}

type pendingPurchase struct {
	req       payment.Request
	tier      Tier
	accountID string
}

type ticketService struct {
	mu        sync.Mutex
	store     *store.Store
	ledger    LedgerService
	widget    payment.Widget
	qr        *qr.Client
	publicKey string
	logger    logging.Logger
	now       func() time.Time

	pending *pendingPurchase
}

type TicketOption func(*ticketService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TicketOption {
	return func(s *ticketService) { s.now = now }
}

// WithQR sets the QR image client. qr.New defaults are used otherwise.
func WithQR(c *qr.Client) TicketOption {
	return func(s *ticketService) { s.qr = c }
}

func NewTicketService(st storage.Storage, ledger LedgerService, widget payment.Widget, publicKey string,
	logger logging.Logger, opts ...TicketOption) TicketService {
	s := &ticketService{
		store:     store.New(st),
		ledger:    ledger,
		widget:    widget,
		publicKey: publicKey,
		logger:    logger,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.qr == nil {
		s.qr = qr.New("", 0, nil)
	}
	return s
}

func (s *ticketService) BeginPurchase(ctx context.Context, amountMinor int64) (payment.Event, error) {
	tier, ok := TierByAmount(amountMinor)
	if !ok {
		return payment.Event{}, fmt.Errorf("%w: %d", common.ErrUnsupportedAmount, amountMinor)
	}

	s.mu.Lock()
	acc, err := currentAccount(ctx, s.store)
	if err != nil {
		s.mu.Unlock()
		return payment.Event{}, err
	}
	req := payment.Request{
		PublicKey:   s.publicKey,
		Email:       acc.Email,
		AmountMinor: tier.AmountMinor,
		Reference:   "ref-" + uuid.NewString(),
	}
	s.pending = &pendingPurchase{req: req, tier: tier, accountID: acc.ID}
	s.mu.Unlock()

	s.logger.Info(ctx, "payment started", "reference", req.Reference, "amount", req.AmountMinor)

	// the widget may block on the user; the lock is not held
	ev, err := s.widget.Open(ctx, req)
	if err != nil {
		s.dropPending(req.Reference)
		return payment.Event{}, fmt.Errorf("payment widget: %w", err)
	}
	return ev, nil
}

func (s *ticketService) dropPending(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil && (reference == "" || s.pending.req.Reference == reference) {
		s.pending = nil
	}
}

func (s *ticketService) HandlePaymentEvent(ctx context.Context, ev payment.Event) (*models.Ticket, error) {
	switch ev.Kind {
	case payment.EventSuccess:
		return s.ConfirmPurchase(ctx, ev.Reference)
	case payment.EventClosed:
		s.dropPending("")
		s.logger.Info(ctx, "payment widget closed")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown payment event %q", ev.Kind)
	}
}

// ConfirmPurchase issues the ticket for the pending purchase and records the
// transaction under reference. Any previous ticket is replaced.
func (s *ticketService) ConfirmPurchase(ctx context.Context, reference string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, common.ErrNoPendingPurchase
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: empty payment reference", common.ErrValidation)
	}
	if reference != s.pending.req.Reference {
		s.logger.Warn(ctx, "payment reference differs from request",
			"requested", s.pending.req.Reference, "paid", reference)
	}

	acc, err := currentAccount(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if acc.ID != s.pending.accountID {
		s.logger.Warn(ctx, "session changed during payment",
			"reference", s.pending.req.Reference, "started_by", s.pending.accountID, "account_id", acc.ID)
		s.pending = nil
		return nil, fmt.Errorf("%w: started by another account", common.ErrNoPendingPurchase)
	}

	now := s.now()
	suffix, err := common.MakeRandHexString(3)
	if err != nil {
		return nil, fmt.Errorf("ticket id: %w", err)
	}
	amount := s.pending.tier.AmountMinor / 100
	t := models.NewTicket(fmt.Sprintf("TICKET-%d-%s", now.UnixMilli(), suffix), reference, acc.ID, amount, now)

	if prev, err := s.store.Ticket(ctx); err == nil && prev != nil && prev.ValidAt(now) {
		s.logger.Warn(ctx, "replacing valid ticket", "ticket_id", prev.ID)
	}

	err = s.ledger.RecordWith(ctx, models.Transaction{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Type:      models.TransactionTypeTicketPurchase,
		Amount:    amount,
		Date:      now,
		Reference: reference,
	}, func(ctx context.Context, txs []models.Transaction) error {
		return s.store.SaveTicketAndTransactions(ctx, t, txs)
	})
	if err != nil {
		return nil, fmt.Errorf("confirm purchase: %w", err)
	}

	s.pending = nil
	s.logger.Info(ctx, "ticket issued", "ticket_id", t.ID, "reference", reference, "amount", amount)
	return t, nil
}

func (s *ticketService) Purchase(ctx context.Context, amountMinor int64) (*models.Ticket, error) {
	ev, err := s.BeginPurchase(ctx, amountMinor)
	if err != nil {
		return nil, err
	}
	return s.HandlePaymentEvent(ctx, ev)
}

func (s *ticketService) Ticket(ctx context.Context) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTicket(ctx)
}

func (s *ticketService) loadTicket(ctx context.Context) (*models.Ticket, error) {
	t, err := s.store.Ticket(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, common.ErrNoTicket
	}
	return t, nil
}

func (s *ticketService) Status(ctx context.Context) (TicketState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return StatePendingPayment, nil
	}

	t, err := s.loadTicket(ctx)
	switch {
	case errors.Is(err, common.ErrNoTicket):
		return StateNone, nil
	case err != nil:
		return "", err
	case t.ExpiredAt(s.now()):
		return StateExpired, nil
	case !t.IsValid:
		return StateInvalidated, nil
	default:
		return StateActive, nil
	}
}

// IsValid is recomputed from the clock on every call.
func (s *ticketService) IsValid(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.loadTicket(ctx)
	if errors.Is(err, common.ErrNoTicket) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.ValidAt(s.now()), nil
}

// Invalidate deletes the ticket once the user confirms. Without a ticket the
// user is not asked.
func (s *ticketService) Invalidate(ctx context.Context, c Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.loadTicket(ctx)
	if errors.Is(err, common.ErrNoTicket) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ok, err := c.Confirm(ctx, InvalidatePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.store.ClearTicket(ctx); err != nil {
		return false, fmt.Errorf("invalidate: %w", err)
	}
	s.logger.Info(ctx, "ticket invalidated", "ticket_id", t.ID)
	return true, nil
}

// Reset clears the ticket and the ledger. Accounts and the session stay.
func (s *ticketService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Clear(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := s.store.ClearTicket(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.pending = nil
	s.logger.Info(ctx, "wallet reset")
	return nil
}

func (s *ticketService) QRCodeURL(ctx context.Context) (string, error) {
	t, err := s.Ticket(ctx)
	if err != nil {
		return "", err
	}
	return s.qr.URL(t)
}

func (s *ticketService) QRImage(ctx context.Context) ([]byte, error) {
	t, err := s.Ticket(ctx)
	if err != nil {
		return nil, err
	}
	return s.qr.Fetch(ctx, t)
}
