package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"zatca-pro/internal/domain/repository"
)

var _ repository.ChainRepository = (*ChainRepo)(nil)

// ChainRepo manages the per-taxpayer invoice counter. NextCounter must be
// called on a Querier bound to a transaction: the upsert takes a row lock
// on the taxpayer's counter row that holds until that transaction ends,
// which is what serializes concurrent invoice creations.
type ChainRepo struct {
	q Querier
}

// NewChainRepository builds the adapter. Pass a tx-bound Querier.
func NewChainRepository(q Querier) *ChainRepo {
	return &ChainRepo{q: q}
}

// NextCounter atomically increments and returns the taxpayer's counter
// (1 on first use).
func (r *ChainRepo) NextCounter(ctx context.Context, settingsID string) (int64, error) {
	const query = `
		INSERT INTO invoice_counters (settings_id, counter)
		VALUES ($1, 1)
		ON CONFLICT (settings_id)
		DO UPDATE SET counter = invoice_counters.counter + 1
		RETURNING counter`
	var counter int64
	if err := r.q.QueryRow(ctx, query, settingsID).Scan(&counter); err != nil {
		return 0, fmt.Errorf("next invoice counter: %w", err)
	}
	return counter, nil
}

// CurrentCounter returns the last assigned counter without locking
// (0 if the taxpayer has never issued an invoice).
func (r *ChainRepo) CurrentCounter(ctx context.Context, settingsID string) (int64, error) {
	const query = `SELECT counter FROM invoice_counters WHERE settings_id = $1`
	var counter int64
	err := r.q.QueryRow(ctx, query, settingsID).Scan(&counter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("current invoice counter: %w", err)
	}
	return counter, nil
}
