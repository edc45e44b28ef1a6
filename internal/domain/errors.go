package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")
)

// Hard failure classes of the e-invoice pipeline. Soft field-level
// validation failures are carried in einvoice.Errors instead; these abort
// assembly or chain extension at the point of detection.
var (
	// ErrConfiguration: a tax category label or scheme code resolves to an
	// unrecognized value. Fix the configuration before reissuing.
	ErrConfiguration = errors.New("zatca configuration error")

	// ErrChainIntegrity: the prior invoice's signed XML artifact cannot be
	// located, so the previous-invoice-hash cannot be computed. Retryable
	// but blocking: no further invoices can be issued for the taxpayer
	// until the artifact is restored.
	ErrChainIntegrity = errors.New("invoice chain integrity error")

	// ErrConsistency: computed document totals do not reconcile.
	ErrConsistency = errors.New("invoice totals inconsistency")

	// ErrPrecondition: a referenced document is not in the state required
	// for the operation (e.g. offsetting a prepayment invoice that was
	// never cleared by ZATCA).
	ErrPrecondition = errors.New("precondition failed")
)
