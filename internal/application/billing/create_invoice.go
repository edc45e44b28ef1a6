package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/application/einvoice"
	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
	domzatca "zatca-pro/internal/domain/zatca"
	"zatca-pro/pkg/zatca"
)

// CreateInvoiceUseCase creates an invoice with its chain state reserved in
// one transaction and hands it to the orchestrator for the asynchronous
// ZATCA pipeline.
type CreateInvoiceUseCase struct {
	txRunner     EinvoiceTxRunner
	settingsRepo repository.BusinessSettingsRepository
	customerRepo repository.CustomerRepository
	templateRepo repository.TaxTemplateRepository
	invoiceRepo  repository.InvoiceRepository
	orchestrator *ZATCAOrchestrator
}

// NewCreateInvoiceUseCase builds the use case. orchestrator may be nil;
// invoices then stay in DRAFT regardless of the suppress flag.
func NewCreateInvoiceUseCase(
	txRunner EinvoiceTxRunner,
	settingsRepo repository.BusinessSettingsRepository,
	customerRepo repository.CustomerRepository,
	templateRepo repository.TaxTemplateRepository,
	invoiceRepo repository.InvoiceRepository,
	orchestrator *ZATCAOrchestrator,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		settingsRepo: settingsRepo,
		customerRepo: customerRepo,
		templateRepo: templateRepo,
		invoiceRepo:  invoiceRepo,
		orchestrator: orchestrator,
	}
}

// priorStore adapts the tx-bound invoice and artifact repositories into the
// single port the chain manager consumes.
type priorStore struct {
	repository.InvoiceRepository
	repository.ArtifactRepository
}

// CreateInvoice validates the request, derives lines, reserves counter and
// PIH inside the transaction that persists the DRAFT, then (unless
// suppressed) fires the asynchronous ZATCA processing.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, settingsID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if settingsID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	typeCode := in.TypeCode
	if typeCode == "" {
		typeCode = zatca.TypeCodeTaxInvoice
	}
	if !zatca.ValidInvoiceTypeCodes[typeCode] {
		return nil, fmt.Errorf("%w: invalid invoice type code %q", domain.ErrInvalidInput, typeCode)
	}
	if in.TransactionCode != zatca.TransactionStandard && in.TransactionCode != zatca.TransactionSimplified {
		return nil, fmt.Errorf("%w: transaction code must be %s or %s",
			domain.ErrInvalidInput, zatca.TransactionStandard, zatca.TransactionSimplified)
	}

	// Taxpayer settings (chain scope, seller party, defaults).
	settings, err := uc.settingsRepo.GetByID(settingsID)
	if err != nil || settings == nil {
		return nil, domain.ErrNotFound
	}
	if settings.Status != "" && settings.Status != "active" {
		return nil, fmt.Errorf("%w: taxpayer %s is %s", domain.ErrPrecondition, settingsID, settings.Status)
	}

	// Buyer: mandatory for standard invoices, optional for simplified.
	var customer *entity.Customer
	if in.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.SettingsID != settingsID {
			return nil, domain.ErrForbidden
		}
	} else if in.TransactionCode == zatca.TransactionStandard {
		return nil, fmt.Errorf("%w: standard invoices require a customer", domain.ErrInvalidInput)
	}

	// Validate items and resolve tax rates (read-only, outside the tx).
	docRate, err := uc.templateRate(in.TaxTemplateID, decimal.NewFromInt(zatca.StandardVATRate))
	if err != nil {
		return nil, err
	}
	for i := range in.Items {
		item := &in.Items[i]
		if item.ItemName == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: item %d", domain.ErrInvalidInput, i+1)
		}
		if item.UnitCode != "" && !zatca.ValidUnitCodes[item.UnitCode] {
			return nil, fmt.Errorf("%w: item %d unit code %q", domain.ErrInvalidInput, i+1, item.UnitCode)
		}
	}
	for i := range in.Prepayments {
		p := &in.Prepayments[i]
		if p.PrepaymentInvoiceID == "" || !p.Amount.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: prepayment allocation %d", domain.ErrInvalidInput, i+1)
		}
	}
	if in.IsReturn && (in.ReturnAgainst == "" || in.ReturnReason == "") {
		return nil, fmt.Errorf("%w: returns require return_against and return_reason", domain.ErrInvalidInput)
	}

	now := time.Now()
	invoiceID := uuid.New().String()
	currency := in.Currency
	if currency == "" {
		currency = settings.Currency
	}
	if currency == "" {
		currency = "SAR"
	}

	// Derive lines with preliminary amounts; the assembler recomputes and
	// cross-checks them during XML generation.
	lines := make([]*entity.InvoiceLine, 0, len(in.Items))
	var netTotal, taxTotal decimal.Decimal
	for i := range in.Items {
		item := &in.Items[i]
		rate := docRate
		if item.TaxTemplateID != "" {
			if rate, err = uc.templateRate(item.TaxTemplateID, docRate); err != nil {
				return nil, err
			}
		}
		gross := item.Quantity.Mul(item.UnitPrice)
		discount := item.DiscountAmount
		if discount.IsZero() && item.DiscountPercent.IsPositive() {
			discount = gross.Mul(item.DiscountPercent).Div(decimal.NewFromInt(100))
		}
		net := gross.Sub(discount)
		if in.TaxInclusive {
			net = gross.Sub(discount).Div(decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100))))
		}
		tax := net.Mul(rate).Div(decimal.NewFromInt(100))
		netTotal = netTotal.Add(net)
		taxTotal = taxTotal.Add(tax)
		lines = append(lines, &entity.InvoiceLine{
			ID:              uuid.New().String(),
			InvoiceID:       invoiceID,
			Idx:             i + 1,
			ItemName:        item.ItemName,
			ItemCode:        item.ItemCode,
			UnitCode:        item.UnitCode,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			NetAmount:       net,
			TaxPercent:      rate,
			TaxAmount:       tax,
			TaxTemplateID:   item.TaxTemplateID,
			DiscountAmount:  item.DiscountAmount,
			DiscountPercent: item.DiscountPercent,
		})
	}

	var prepaymentTotal decimal.Decimal
	allocations := make([]*entity.PrepaymentAllocation, 0, len(in.Prepayments))
	for _, p := range in.Prepayments {
		allocations = append(allocations, &entity.PrepaymentAllocation{
			ID:                  uuid.New().String(),
			InvoiceID:           invoiceID,
			PrepaymentInvoiceID: p.PrepaymentInvoiceID,
			AllocatedAmount:     p.Amount,
		})
		prepaymentTotal = prepaymentTotal.Add(p.Amount)
	}

	var charges []entity.AllowanceCharge
	var chargeTotal decimal.Decimal
	for _, c := range in.Charges {
		if !c.Amount.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: charge amount must be positive", domain.ErrInvalidInput)
		}
		charges = append(charges, entity.AllowanceCharge{
			IsCharge:    true,
			Amount:      c.Amount,
			BaseAmount:  c.BaseAmount,
			Reason:      c.Reason,
			ReasonCode:  c.ReasonCode,
			TaxCategory: c.TaxCategory,
			TaxRate:     c.TaxRate,
		})
		chargeTotal = chargeTotal.Add(c.Amount)
	}

	// A percent-only document discount is materialized here over the line
	// extension total, the same base assembly uses, so the stored header
	// totals and the assembled totals agree.
	discountAmount := in.DiscountAmount
	if discountAmount.IsZero() && in.DiscountPercent.IsPositive() {
		discountAmount = domzatca.DeriveAmount(in.DiscountPercent, netTotal).Round(2)
	}

	grandTotal := netTotal.Add(taxTotal).Add(chargeTotal).Sub(discountAmount)

	inv := &entity.Invoice{
		ID:               invoiceID,
		SettingsID:       settingsID,
		CustomerID:       in.CustomerID,
		UUID:             uuid.New().String(),
		TypeCode:         typeCode,
		TransactionCode:  in.TransactionCode,
		PaymentMeans:     in.PaymentMeans,
		IsReturn:         in.IsReturn,
		ReturnAgainst:    in.ReturnAgainst,
		ReturnReason:     in.ReturnReason,
		IssueDate:        now,
		Currency:         currency,
		TaxInclusive:     in.TaxInclusive,
		TaxTemplateID:    in.TaxTemplateID,
		NetTotal:         netTotal,
		TaxTotal:         taxTotal,
		GrandTotal:       grandTotal,
		DiscountAmount:   discountAmount,
		DiscountPercent:  in.DiscountPercent,
		PrepaymentTotal:  prepaymentTotal,
		PayableAmount:    grandTotal.Sub(prepaymentTotal),
		AllowanceCharges: charges,
		Status:           entity.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = uc.txRunner.RunEinvoice(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		artifactRepo repository.ArtifactRepository,
		chainRepo repository.ChainRepository,
	) error {
		// 1) Counter and PIH assignment. The counter row lock taken here is
		// held until commit, serializing concurrent creations per taxpayer.
		cm := einvoice.NewChainManager(chainRepo, priorStore{invoiceRepo, artifactRepo})
		counter, pih, err := cm.AssignChainState(ctx, settingsID)
		if err != nil {
			return err
		}
		inv.Counter = counter
		inv.PreviousInvoiceHash = pih
		inv.Number = in.Number
		if inv.Number == "" {
			inv.Number = fmt.Sprintf("INV-%06d", counter)
		}

		// 2) Persist the DRAFT header, lines and allocations atomically with
		// the counter consumption.
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}
		for _, alloc := range allocations {
			if err := invoiceRepo.CreateAllocation(alloc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3) Hand off to the asynchronous pipeline. A suppressed invoice keeps
	// its DRAFT state with counter and PIH already reserved; a later retry
	// reuses them.
	if !in.SuppressSubmit && uc.orchestrator != nil {
		uc.orchestrator.ProcessAsync(invoiceID)
	}

	customerName := ""
	if customer != nil {
		customerName = customer.Name
	}
	return toInvoiceResponse(inv, customerName, lines), nil
}

// templateRate resolves a tax template's percent rate, falling back to def
// when no template is referenced.
func (uc *CreateInvoiceUseCase) templateRate(templateID string, def decimal.Decimal) (decimal.Decimal, error) {
	if templateID == "" {
		return def, nil
	}
	tpl, err := uc.templateRepo.GetByID(templateID)
	if err != nil || tpl == nil {
		return decimal.Zero, fmt.Errorf("%w: tax template %s", domain.ErrNotFound, templateID)
	}
	return tpl.Rate, nil
}

// GetInvoice returns an invoice with its full line detail.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, settingsID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.SettingsID != settingsID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if inv.CustomerID != "" {
		if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
			customerName = customer.Name
		}
	}
	return toInvoiceResponse(inv, customerName, lines), nil
}

// GetInvoiceStatus returns the light submission-state view for polling.
func (uc *CreateInvoiceUseCase) GetInvoiceStatus(ctx context.Context, settingsID, id string) (*dto.InvoiceStatusResponse, error) {
	inv, err := uc.invoiceRepo.GetStatus(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.SettingsID != settingsID {
		return nil, domain.ErrForbidden
	}
	return &dto.InvoiceStatusResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		Counter:      inv.Counter,
		Status:       inv.Status,
		SubmissionID: inv.SubmissionID,
		Warnings:     inv.Warnings,
	}, nil
}

// GetInvoiceXML returns the signed XML artifact of an invoice.
func (uc *CreateInvoiceUseCase) GetInvoiceXML(ctx context.Context, settingsID, id string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.SettingsID != settingsID {
		return nil, domain.ErrForbidden
	}
	if inv.XMLSigned == "" {
		return nil, fmt.Errorf("%w: invoice %s has no signed XML yet", domain.ErrPrecondition, id)
	}
	return []byte(inv.XMLSigned), nil
}

func toInvoiceResponse(inv *entity.Invoice, customerName string, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		SettingsID:      inv.SettingsID,
		CustomerID:      inv.CustomerID,
		CustomerName:    customerName,
		Number:          inv.Number,
		UUID:            inv.UUID,
		Counter:         inv.Counter,
		TypeCode:        inv.TypeCode,
		TransactionCode: inv.TransactionCode,
		IssueDate:       inv.IssueDate.Format("2006-01-02"),
		Currency:        inv.Currency,
		NetTotal:        inv.NetTotal,
		TaxTotal:        inv.TaxTotal,
		GrandTotal:      inv.GrandTotal,
		PrepaymentTotal: inv.PrepaymentTotal,
		PayableAmount:   inv.PayableAmount,
		Status:          inv.Status,
		QRCode:          inv.QRCode,
		SubmissionID:    inv.SubmissionID,
		Warnings:        inv.Warnings,
		Lines:           make([]dto.InvoiceLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			Idx:          l.Idx,
			ItemName:     l.ItemName,
			ItemCode:     l.ItemCode,
			UnitCode:     l.UnitCode,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			NetAmount:    l.NetAmount,
			TaxPercent:   l.TaxPercent,
			TaxAmount:    l.TaxAmount,
			IsPrepayment: l.IsPrepayment,
		})
	}
	return resp
}
