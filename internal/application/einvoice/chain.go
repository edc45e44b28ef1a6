package einvoice

import (
	"context"
	"fmt"

	"zatca-pro/internal/domain"
	domzatca "zatca-pro/internal/domain/zatca"
)

// ChainManager assigns the next invoice counter and previous-invoice-hash
// for a new invoice record, scoped per taxpayer. AssignChainState must be
// called inside the same transaction that persists the invoice: the
// counter row lock taken by CounterStore serializes concurrent creations,
// so two invoices can never receive the same counter and counter N is
// never finalized before counter N-1's hash is known.
type ChainManager struct {
	counters CounterStore
	prior    PriorInvoiceStore
}

// NewChainManager builds the manager.
func NewChainManager(counters CounterStore, prior PriorInvoiceStore) *ChainManager {
	return &ChainManager{counters: counters, prior: prior}
}

// AssignChainState returns the counter and PIH for a new invoice of the
// taxpayer. Counter 1 gets the regulator seed hash; later counters hash
// the prior invoice's signed XML. A missing prior record or artifact is a
// hard, retryable chain-integrity failure: the chain must not be
// extended by skipping it.
func (m *ChainManager) AssignChainState(ctx context.Context, settingsID string) (int64, string, error) {
	counter, err := m.counters.NextCounter(ctx, settingsID)
	if err != nil {
		return 0, "", fmt.Errorf("assign invoice counter: %w", err)
	}
	if counter == 1 {
		pih, err := domzatca.ExpectedPIH(counter, nil)
		return counter, pih, err
	}

	prev, err := m.prior.GetBySettingsAndCounter(settingsID, counter-1)
	if err != nil {
		return 0, "", fmt.Errorf("locate invoice with counter %d: %w", counter-1, err)
	}
	if prev == nil {
		return 0, "", fmt.Errorf("%w: no invoice with counter %d exists for taxpayer %s",
			domain.ErrChainIntegrity, counter-1, settingsID)
	}
	signedXML, err := m.prior.ReadSignedXML(ctx, prev.ID)
	if err != nil {
		return 0, "", fmt.Errorf("read signed XML of invoice %s: %w", prev.ID, err)
	}
	pih, err := domzatca.ExpectedPIH(counter, signedXML)
	if err != nil {
		return 0, "", err
	}
	return counter, pih, nil
}
