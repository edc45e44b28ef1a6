package einvoice_test

import (
	"context"
	"testing"

	appeinvoice "zatca-pro/internal/application/einvoice"
	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	pkgzatca "zatca-pro/pkg/zatca"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounters struct {
	next  int64
	calls int
}

func (f *fakeCounters) NextCounter(_ context.Context, _ string) (int64, error) {
	f.calls++
	return f.next, nil
}

type fakePrior struct {
	invoices map[int64]*entity.Invoice
	xml      map[string][]byte
}

func (f *fakePrior) GetBySettingsAndCounter(_ string, counter int64) (*entity.Invoice, error) {
	return f.invoices[counter], nil
}

func (f *fakePrior) ReadSignedXML(_ context.Context, invoiceID string) ([]byte, error) {
	return f.xml[invoiceID], nil
}

func TestAssignChainState_FirstInvoiceGetsSeed(t *testing.T) {
	m := appeinvoice.NewChainManager(&fakeCounters{next: 1}, &fakePrior{})

	counter, pih, err := m.AssignChainState(context.Background(), "bs-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter)
	assert.Equal(t, pkgzatca.SeedPIH, pih)
}

func TestAssignChainState_LaterInvoiceHashesPredecessor(t *testing.T) {
	signed := []byte("<Invoice>counter 4</Invoice>")
	prior := &fakePrior{
		invoices: map[int64]*entity.Invoice{4: {ID: "inv-4", Counter: 4}},
		xml:      map[string][]byte{"inv-4": signed},
	}
	m := appeinvoice.NewChainManager(&fakeCounters{next: 5}, prior)

	counter, pih, err := m.AssignChainState(context.Background(), "bs-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), counter)
	assert.Equal(t, pkgzatca.InvoiceHash(signed), pih)
}

func TestAssignChainState_MissingPredecessorIsChainFailure(t *testing.T) {
	m := appeinvoice.NewChainManager(&fakeCounters{next: 3}, &fakePrior{})

	_, _, err := m.AssignChainState(context.Background(), "bs-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChainIntegrity)
}

func TestAssignChainState_MissingArtifactIsChainFailure(t *testing.T) {
	prior := &fakePrior{
		invoices: map[int64]*entity.Invoice{1: {ID: "inv-1", Counter: 1}},
		xml:      map[string][]byte{}, // artifact lost
	}
	m := appeinvoice.NewChainManager(&fakeCounters{next: 2}, prior)

	_, _, err := m.AssignChainState(context.Background(), "bs-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChainIntegrity)
}
