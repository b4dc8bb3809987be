// Package store maps wallet records onto the keyed blobs of a
// storage.Storage. It owns JSON encoding and validates every decoded record:
// a blob that does not decode, or decodes into a record missing required
// fields, fails with common.ErrStorage instead of producing a partial value.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/dmitrijs2005/gophticket/internal/client/storage"
	"github.com/dmitrijs2005/gophticket/internal/common"
)

// Storage keys. They match the browser localStorage layout the wallet
// data was first kept in.
const (
	KeyUsers        = "users"
	KeyCurrentUser  = "currentUser"
	KeyTransactions = "transactions"
	KeyTicket       = "ticketDetails"
)

type validator interface {
	Validate() error
}

type Store struct {
	st storage.Storage
}

func New(st storage.Storage) *Store {
	return &Store{st: st}
}

// Users returns every registered account in registration order.
func (s *Store) Users(ctx context.Context) ([]models.Account, error) {
	return loadList[models.Account](ctx, s.st, KeyUsers)
}

// CurrentUser returns the session snapshot, or nil when logged out.
func (s *Store) CurrentUser(ctx context.Context) (*models.Account, error) {
	return loadOne[models.Account](ctx, s.st, KeyCurrentUser)
}

// Ticket returns the stored ticket, or nil when the slot is empty.
func (s *Store) Ticket(ctx context.Context) (*models.Ticket, error) {
	return loadOne[models.Ticket](ctx, s.st, KeyTicket)
}

// Transactions returns the ledger, newest first.
func (s *Store) Transactions(ctx context.Context) ([]models.Transaction, error) {
	return loadList[models.Transaction](ctx, s.st, KeyTransactions)
}

func (s *Store) SaveUsers(ctx context.Context, users []models.Account) error {
	return save(ctx, s.st, KeyUsers, users)
}

func (s *Store) SaveCurrentUser(ctx context.Context, a *models.Account) error {
	return save(ctx, s.st, KeyCurrentUser, a)
}

// SaveUsersAndSession persists the account list and the session snapshot
// together, atomically when the backend supports it.
func (s *Store) SaveUsersAndSession(ctx context.Context, users []models.Account, current *models.Account) error {
	ub, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyUsers, err)
	}
	cb, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyCurrentUser, err)
	}
	if err := storage.SetMany(ctx, s.st, map[string][]byte{KeyUsers: ub, KeyCurrentUser: cb}); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) ClearCurrentUser(ctx context.Context) error {
	return remove(ctx, s.st, KeyCurrentUser)
}

func (s *Store) SaveTicket(ctx context.Context, t *models.Ticket) error {
	return save(ctx, s.st, KeyTicket, t)
}

// SaveTicketAndTransactions stores an issued ticket together with the
// ledger that records it, atomically when the backend supports it.
func (s *Store) SaveTicketAndTransactions(ctx context.Context, t *models.Ticket, txs []models.Transaction) error {
	tb, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyTicket, err)
	}
	xb, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyTransactions, err)
	}
	if err := storage.SetMany(ctx, s.st, map[string][]byte{KeyTicket: tb, KeyTransactions: xb}); err != nil {
		return fmt.Errorf("write ticket: %w", err)
	}
	return nil
}

func (s *Store) ClearTicket(ctx context.Context) error {
	return remove(ctx, s.st, KeyTicket)
}

// SaveTransactions writes the ledger. An empty ledger is stored as an
// absent key.
func (s *Store) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return s.ClearTransactions(ctx)
	}
	return save(ctx, s.st, KeyTransactions, txs)
}

func (s *Store) ClearTransactions(ctx context.Context) error {
	return remove(ctx, s.st, KeyTransactions)
}

func loadOne[T any, PT interface {
	*T
	validator
}](ctx context.Context, st storage.Storage, key string) (*T, error) {
	raw, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if raw == nil {
		return nil, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", common.ErrStorage, key, err)
	}
	if err := PT(&v).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrStorage, key, err)
	}
	return &v, nil
}

func loadList[T any, PT interface {
	*T
	validator
}](ctx context.Context, st storage.Storage, key string) ([]T, error) {
	raw, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if raw == nil {
		return []T{}, nil
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", common.ErrStorage, key, err)
	}
	for i := range list {
		if err := PT(&list[i]).Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", common.ErrStorage, key, i, err)
		}
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func save(ctx context.Context, st storage.Storage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := st.Set(ctx, key, b); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func remove(ctx context.Context, st storage.Storage, key string) error {
	if err := st.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
