package billing

import (
	"context"

	"zatca-pro/internal/domain/repository"
)

// EinvoiceTxRunner runs a function inside one transaction holding the
// repositories that invoice creation touches. The chain counter row lock
// taken inside fn lives until the transaction ends, which is what
// serializes concurrent creations per taxpayer.
type EinvoiceTxRunner interface {
	RunEinvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		artifactRepo repository.ArtifactRepository,
		chainRepo repository.ChainRepository,
	) error) error
}

// ZATCAConfig carries the Fatoora environment and stamp credentials for
// the use case and the orchestrator.
type ZATCAConfig struct {
	Environment string // sandbox | simulation | production
	BaseURL     string // overrides the environment endpoint when set
	CertPath    string
	CertKeyPath string
	CSIDToken   string
	CSIDSecret  string
}
