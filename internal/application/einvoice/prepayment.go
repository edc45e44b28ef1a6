package einvoice

import (
	"fmt"

	"zatca-pro/internal/domain"
	dom "zatca-pro/internal/domain/einvoice"
	"zatca-pro/internal/domain/entity"
	domzatca "zatca-pro/internal/domain/zatca"

	"github.com/shopspring/decimal"
)

// buildPrepaymentLine derives one synthetic invoice line from a payment
// allocation against a previously-issued prepayment invoice. The
// referenced document must already be accepted by ZATCA and carry a UUID:
// a prepayment cannot be offset before it is itself compliant.
//
// idx indexes past the count of real item lines to guarantee uniqueness.
func buildPrepaymentLine(alloc *entity.PrepaymentAllocation, prepayment *entity.Invoice, cat domzatca.Category, idx int) (dom.LineValues, error) {
	if prepayment == nil {
		return dom.LineValues{}, fmt.Errorf("%w: prepayment invoice %s not found",
			domain.ErrPrecondition, alloc.PrepaymentInvoiceID)
	}
	if prepayment.UUID == "" || !submitted(prepayment.Status) {
		return dom.LineValues{}, fmt.Errorf("%w: prepayment invoice %s has not been submitted to ZATCA; it cannot be offset",
			domain.ErrPrecondition, prepayment.ID)
	}

	allocated := alloc.AllocatedAmount.Abs()
	taxable := domzatca.InclusiveNet(allocated, cat.Percent)
	tax := allocated.Sub(taxable)

	return dom.LineValues{
		Idx:             idx,
		ItemName:        "Prepayment adjustment",
		UnitCode:        "PCE",
		Quantity:        decimal.NewFromInt(1),
		UnitPrice:       decimal.Zero,
		NetAmount:       taxable.Round(2),
		TaxPercent:      cat.Percent,
		TaxAmount:       tax.Round(2),
		TaxCategoryCode: cat.Code,
		ReasonCode:      cat.ReasonCode,
		ReasonText:      cat.ArabicReason,
		IsPrepayment:    true,
		PrepaymentUUID:  prepayment.UUID,
		PrepaymentDate:  prepayment.IssueDate.Format("2006-01-02"),
	}, nil
}

func submitted(status string) bool {
	return status == entity.StatusAccepted || status == entity.StatusAcceptedWarning
}
