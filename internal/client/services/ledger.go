package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/dmitrijs2005/gophticket/internal/client/storage"
	"github.com/dmitrijs2005/gophticket/internal/client/store"
	"github.com/dmitrijs2005/gophticket/internal/common"
)

// LedgerService is the append-only purchase history, newest first.
type LedgerService interface {
	Record(ctx context.Context, tx models.Transaction) error
	// RecordWith prepends tx and hands the new ledger to commit instead of
	// saving it, so callers can persist it alongside other records.
	RecordWith(ctx context.Context, tx models.Transaction, commit func(ctx context.Context, txs []models.Transaction) error) error
	List(ctx context.Context) ([]models.Transaction, error)
	Clear(ctx context.Context) error
}

type ledgerService struct {
	mu    sync.Mutex
	store *store.Store
}

func NewLedgerService(st storage.Storage) LedgerService {
	return &ledgerService{store: store.New(st)}
}

// Record prepends tx and persists the ledger. Duplicates are kept.
func (l *ledgerService) Record(ctx context.Context, tx models.Transaction) error {
	return l.RecordWith(ctx, tx, l.store.SaveTransactions)
}

func (l *ledgerService) RecordWith(ctx context.Context, tx models.Transaction, commit func(ctx context.Context, txs []models.Transaction) error) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	txs, err := l.store.Transactions(ctx)
	if err != nil {
		return err
	}

	txs = append([]models.Transaction{tx}, txs...)
	return commit(ctx, txs)
}

func (l *ledgerService) List(ctx context.Context) ([]models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Transactions(ctx)
}

// Clear empties the ledger by removing its key.
func (l *ledgerService) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.ClearTransactions(ctx)
}
