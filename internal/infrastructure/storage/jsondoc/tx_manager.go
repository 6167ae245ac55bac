package jsondoc

import (
	"context"

	"optipos/internal/core/tx"
)

type txCtxKey struct{}

func inTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(bool)
	return ok
}

// TxManager implements tx.Manager over the document store: the store lock
// is held for the whole transaction, a snapshot is taken up front, and on
// error the snapshot is restored so partial writes never reach disk.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager for the store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// RunInTransaction executes fn atomically against the document.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the outer transaction.
	if inTransaction(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap, err := m.store.snapshotLocked()
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txCtxKey{}, true)
	if err := fn(txCtx); err != nil {
		m.store.db = snap
		return err
	}

	return m.store.persistLocked()
}

// ReadOnly executes fn against a consistent view of the document.
// Writes made by fn are discarded at the end.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap, err := m.store.snapshotLocked()
	if err != nil {
		return err
	}
	defer func() { m.store.db = snap }()

	return fn(context.WithValue(ctx, txCtxKey{}, true))
}
