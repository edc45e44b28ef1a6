package billing

import (
	"zatca-pro/internal/application/einvoice"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
)

// TemplateStore adapts the tax template repository to the assembler's
// lookup port.
type TemplateStore struct {
	repo repository.TaxTemplateRepository
}

func NewTemplateStore(repo repository.TaxTemplateRepository) TemplateStore {
	return TemplateStore{repo: repo}
}

func (s TemplateStore) GetTaxTemplate(id string) (*entity.TaxTemplate, error) {
	return s.repo.GetByID(id)
}

// PrepaymentStore adapts the invoice repository to the assembler's
// prepayment lookup port.
type PrepaymentStore struct {
	repo repository.InvoiceRepository
}

func NewPrepaymentStore(repo repository.InvoiceRepository) PrepaymentStore {
	return PrepaymentStore{repo: repo}
}

func (s PrepaymentStore) GetPrepaymentInvoice(id string) (*entity.Invoice, error) {
	return s.repo.GetByID(id)
}

var (
	_ einvoice.TaxTemplateStore = TemplateStore{}
	_ einvoice.PrepaymentStore  = PrepaymentStore{}
)
