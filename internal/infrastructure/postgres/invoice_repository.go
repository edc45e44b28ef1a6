package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)
var _ repository.ArtifactRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (usable with pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, settings_id, customer_id, number, uuid, counter, previous_invoice_hash,
	invoice_hash, type_code, transaction_code, payment_means, is_return,
	return_against, return_reason, issue_date, currency, tax_inclusive,
	tax_template_id, net_total, tax_total, grand_total, discount_amount,
	discount_percent, prepayment_total, payable_amount, allowance_charges,
	status, xml_signed, qr_code, submission_id, warnings, created_at, updated_at`

// Create persists the invoice header. Counter and PIH are written once
// here and never touched by Update.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	acJSON, err := jsonbOrNil(invoice.AllowanceCharges)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33)`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.SettingsID, nullIfEmpty(invoice.CustomerID), invoice.Number,
		invoice.UUID, invoice.Counter, invoice.PreviousInvoiceHash,
		nullIfEmpty(invoice.InvoiceHash), invoice.TypeCode, invoice.TransactionCode,
		nullIfEmpty(invoice.PaymentMeans), invoice.IsReturn,
		nullIfEmpty(invoice.ReturnAgainst), nullIfEmpty(invoice.ReturnReason),
		invoice.IssueDate, invoice.Currency, invoice.TaxInclusive,
		nullIfEmpty(invoice.TaxTemplateID), invoice.NetTotal, invoice.TaxTotal,
		invoice.GrandTotal, invoice.DiscountAmount, invoice.DiscountPercent,
		invoice.PrepaymentTotal, invoice.PayableAmount, acJSON,
		invoice.Status, nullIfEmpty(invoice.XMLSigned), nullIfEmpty(invoice.QRCode),
		nullIfEmpty(invoice.SubmissionID), nullIfEmpty(invoice.Warnings),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number or counter already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persists one invoice line.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, idx, item_name, item_code, unit_code,
		                           quantity, unit_price, net_amount, tax_percent, tax_amount,
		                           tax_template_id, discount_amount, discount_percent,
		                           is_prepayment, prepayment_invoice_id, prepayment_uuid,
		                           prepayment_issue_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.Idx, line.ItemName, nullIfEmpty(line.ItemCode),
		line.UnitCode, line.Quantity, line.UnitPrice, line.NetAmount, line.TaxPercent,
		line.TaxAmount, nullIfEmpty(line.TaxTemplateID), line.DiscountAmount,
		line.DiscountPercent, line.IsPrepayment, nullIfEmpty(line.PrepaymentInvoiceID),
		nullIfEmpty(line.PrepaymentUUID), nullIfEmpty(line.PrepaymentIssueDate),
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// CreateAllocation persists one prepayment allocation.
func (r *InvoiceRepo) CreateAllocation(alloc *entity.PrepaymentAllocation) error {
	if alloc.ID == "" {
		alloc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO prepayment_allocations (id, invoice_id, prepayment_invoice_id, allocated_amount)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		alloc.ID, alloc.InvoiceID, alloc.PrepaymentInvoiceID, alloc.AllocatedAmount,
	)
	if err != nil {
		return fmt.Errorf("insert prepayment allocation: %w", err)
	}
	return nil
}

// Update persists the submission pipeline fields. Counter and PIH are
// deliberately not in the SET list: chain state is immutable after Create.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_hash  = COALESCE($2, invoice_hash),
		    xml_signed    = COALESCE($3, xml_signed),
		    qr_code       = COALESCE($4, qr_code),
		    status        = $5,
		    submission_id = COALESCE($6, submission_id),
		    warnings      = COALESCE($7, warnings),
		    updated_at    = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID,
		nullIfEmpty(invoice.InvoiceHash),
		nullIfEmpty(invoice.XMLSigned),
		nullIfEmpty(invoice.QRCode),
		invoice.Status,
		nullIfEmpty(invoice.SubmissionID),
		nullIfEmpty(invoice.Warnings),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID returns a full invoice by ID (nil if absent).
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// GetBySettingsAndCounter locates the invoice holding a chain counter
// within one taxpayer scope (nil if absent).
func (r *InvoiceRepo) GetBySettingsAndCounter(settingsID string, counter int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE settings_id = $1 AND counter = $2`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, settingsID, counter))
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var customerID, invoiceHash, paymentMeans, returnAgainst, returnReason *string
	var taxTemplateID, xmlSigned, qrCode, submissionID, warnings *string
	var acJSON []byte
	err := row.Scan(
		&inv.ID, &inv.SettingsID, &customerID, &inv.Number, &inv.UUID, &inv.Counter,
		&inv.PreviousInvoiceHash, &invoiceHash, &inv.TypeCode, &inv.TransactionCode,
		&paymentMeans, &inv.IsReturn, &returnAgainst, &returnReason, &inv.IssueDate,
		&inv.Currency, &inv.TaxInclusive, &taxTemplateID, &inv.NetTotal, &inv.TaxTotal,
		&inv.GrandTotal, &inv.DiscountAmount, &inv.DiscountPercent, &inv.PrepaymentTotal,
		&inv.PayableAmount, &acJSON, &inv.Status, &xmlSigned, &qrCode, &submissionID,
		&warnings, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.CustomerID = derefStr(customerID)
	inv.InvoiceHash = derefStr(invoiceHash)
	inv.PaymentMeans = derefStr(paymentMeans)
	inv.ReturnAgainst = derefStr(returnAgainst)
	inv.ReturnReason = derefStr(returnReason)
	inv.TaxTemplateID = derefStr(taxTemplateID)
	inv.XMLSigned = derefStr(xmlSigned)
	inv.QRCode = derefStr(qrCode)
	inv.SubmissionID = derefStr(submissionID)
	inv.Warnings = derefStr(warnings)
	if err := unmarshalJSONB(acJSON, &inv.AllowanceCharges); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetStatus returns only the submission-state fields (light, for polling).
func (r *InvoiceRepo) GetStatus(id string) (*entity.Invoice, error) {
	const query = `
		SELECT id, settings_id, counter, status,
		       COALESCE(invoice_hash, ''), COALESCE(submission_id, ''), COALESCE(warnings, '')
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.SettingsID, &inv.Counter, &inv.Status,
		&inv.InvoiceHash, &inv.SubmissionID, &inv.Warnings,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice status: %w", err)
	}
	return &inv, nil
}

// GetLinesByInvoiceID returns the lines of an invoice ordered by index.
func (r *InvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, idx, item_name, COALESCE(item_code, ''), unit_code,
		       quantity, unit_price, net_amount, tax_percent, tax_amount,
		       COALESCE(tax_template_id, ''), discount_amount, discount_percent,
		       is_prepayment, COALESCE(prepayment_invoice_id, ''),
		       COALESCE(prepayment_uuid, ''), COALESCE(prepayment_issue_date, '')
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY idx`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Idx, &l.ItemName, &l.ItemCode,
			&l.UnitCode, &l.Quantity, &l.UnitPrice, &l.NetAmount, &l.TaxPercent,
			&l.TaxAmount, &l.TaxTemplateID, &l.DiscountAmount, &l.DiscountPercent,
			&l.IsPrepayment, &l.PrepaymentInvoiceID, &l.PrepaymentUUID,
			&l.PrepaymentIssueDate); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// GetAllocationsByInvoiceID returns the prepayment allocations of an invoice.
func (r *InvoiceRepo) GetAllocationsByInvoiceID(invoiceID string) ([]*entity.PrepaymentAllocation, error) {
	query := `
		SELECT id, invoice_id, prepayment_invoice_id, allocated_amount
		FROM prepayment_allocations WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list prepayment allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.PrepaymentAllocation
	for rows.Next() {
		var a entity.PrepaymentAllocation
		if err := rows.Scan(&a.ID, &a.InvoiceID, &a.PrepaymentInvoiceID, &a.AllocatedAmount); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ReadSignedXML returns the signed XML artifact of an invoice, or
// (nil, nil) when the invoice exists but was never signed.
func (r *InvoiceRepo) ReadSignedXML(ctx context.Context, invoiceID string) ([]byte, error) {
	const query = `SELECT COALESCE(xml_signed, '') FROM invoices WHERE id = $1`
	var xml string
	err := r.q.QueryRow(ctx, query, invoiceID).Scan(&xml)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read signed xml: %w", err)
	}
	if xml == "" {
		return nil, nil
	}
	return []byte(xml), nil
}
