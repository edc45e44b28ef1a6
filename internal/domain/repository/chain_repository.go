package repository

import "context"

// ChainRepository defines the port for per-taxpayer chain state. Both
// operations must run inside the same transaction as the invoice insert:
// NextCounter takes a row-level lock on the taxpayer's counter record so
// concurrent creations serialize, and the counter is only consumed when
// that transaction commits.
type ChainRepository interface {
	// NextCounter atomically increments and returns the taxpayer's invoice
	// counter (1 on first use). The underlying row stays locked until the
	// surrounding transaction ends.
	NextCounter(ctx context.Context, settingsID string) (int64, error)

	// CurrentCounter returns the last assigned counter without locking
	// (0 if none). Read-only, for diagnostics and chain audits.
	CurrentCounter(ctx context.Context, settingsID string) (int64, error)
}

// ArtifactRepository reads the signed XML artifact of a persisted invoice,
// used to compute the previous-invoice-hash when extending the chain.
type ArtifactRepository interface {
	// ReadSignedXML returns the signed XML bytes of the invoice, or
	// (nil, nil) if the invoice exists but its artifact was never generated.
	ReadSignedXML(ctx context.Context, invoiceID string) ([]byte, error)
}
