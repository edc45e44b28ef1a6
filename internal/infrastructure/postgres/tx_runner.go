package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/domain/repository"
)

// Ensure TxRunner satisfies the billing-layer port.
var _ billing.EinvoiceTxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside one PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunEinvoice begins a transaction, runs fn with tx-bound repositories and
// commits or rolls back. Invoice and artifact views share one tx-bound
// repository instance; the chain repository's counter lock is released
// when the transaction ends.
func (r *TxRunner) RunEinvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	artifactRepo repository.ArtifactRepository,
	chainRepo repository.ChainRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	chainRepo := NewChainRepository(tx)

	if err := fn(invoiceRepo, invoiceRepo, chainRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
