package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zatca-pro/internal/application/billing"
	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/application/einvoice"
	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
	"zatca-pro/pkg/zatca"
)

// ── In-memory fakes ───────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices    map[string]*entity.Invoice
	byCounter   map[int64]*entity.Invoice
	lines       map[string][]*entity.InvoiceLine
	allocations map[string][]*entity.PrepaymentAllocation
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:    map[string]*entity.Invoice{},
		byCounter:   map[int64]*entity.Invoice{},
		lines:       map[string][]*entity.InvoiceLine{},
		allocations: map[string][]*entity.PrepaymentAllocation{},
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.invoices[inv.ID] = inv
	r.byCounter[inv.Counter] = inv
	return nil
}

func (r *fakeInvoiceRepo) CreateLine(l *entity.InvoiceLine) error {
	r.lines[l.InvoiceID] = append(r.lines[l.InvoiceID], l)
	return nil
}

func (r *fakeInvoiceRepo) CreateAllocation(a *entity.PrepaymentAllocation) error {
	r.allocations[a.InvoiceID] = append(r.allocations[a.InvoiceID], a)
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.invoices[id], nil
}

func (r *fakeInvoiceRepo) GetBySettingsAndCounter(settingsID string, counter int64) (*entity.Invoice, error) {
	inv := r.byCounter[counter]
	if inv == nil || inv.SettingsID != settingsID {
		return nil, nil
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	return r.lines[invoiceID], nil
}

func (r *fakeInvoiceRepo) GetAllocationsByInvoiceID(invoiceID string) ([]*entity.PrepaymentAllocation, error) {
	return r.allocations[invoiceID], nil
}

func (r *fakeInvoiceRepo) GetStatus(id string) (*entity.Invoice, error) {
	return r.invoices[id], nil
}

// ReadSignedXML lets the same fake double as the artifact store.
func (r *fakeInvoiceRepo) ReadSignedXML(_ context.Context, invoiceID string) ([]byte, error) {
	inv := r.invoices[invoiceID]
	if inv == nil || inv.XMLSigned == "" {
		return nil, nil
	}
	return []byte(inv.XMLSigned), nil
}

type fakeChainRepo struct {
	counters map[string]int64
}

func (r *fakeChainRepo) NextCounter(_ context.Context, settingsID string) (int64, error) {
	r.counters[settingsID]++
	return r.counters[settingsID], nil
}

func (r *fakeChainRepo) CurrentCounter(_ context.Context, settingsID string) (int64, error) {
	return r.counters[settingsID], nil
}

type fakeTxRunner struct {
	invoiceRepo *fakeInvoiceRepo
	chainRepo   *fakeChainRepo
}

func (t *fakeTxRunner) RunEinvoice(ctx context.Context, fn func(
	repository.InvoiceRepository, repository.ArtifactRepository, repository.ChainRepository,
) error) error {
	return fn(t.invoiceRepo, t.invoiceRepo, t.chainRepo)
}

type fakeSettingsRepo struct {
	settings map[string]*entity.BusinessSettings
}

func (r *fakeSettingsRepo) Create(s *entity.BusinessSettings) error { r.settings[s.ID] = s; return nil }
func (r *fakeSettingsRepo) Update(s *entity.BusinessSettings) error { r.settings[s.ID] = s; return nil }
func (r *fakeSettingsRepo) GetByID(id string) (*entity.BusinessSettings, error) {
	return r.settings[id], nil
}
func (r *fakeSettingsRepo) List() ([]*entity.BusinessSettings, error) { return nil, nil }

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { r.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.customers[id], nil
}
func (r *fakeCustomerRepo) ListBySettings(string) ([]*entity.Customer, error) { return nil, nil }

type fakeTemplateRepo struct {
	templates map[string]*entity.TaxTemplate
}

func (r *fakeTemplateRepo) Create(t *entity.TaxTemplate) error { r.templates[t.ID] = t; return nil }
func (r *fakeTemplateRepo) GetByID(id string) (*entity.TaxTemplate, error) {
	return r.templates[id], nil
}
func (r *fakeTemplateRepo) ListBySettings(string) ([]*entity.TaxTemplate, error) { return nil, nil }

// ── Fixture ───────────────────────────────────────────────────────────────────

const (
	testSettings = "settings-1"
	testCustomer = "customer-1"
)

type fixture struct {
	uc       *billing.CreateInvoiceUseCase
	invoices *fakeInvoiceRepo
}

// newFixture wires the use case against in-memory stores, no orchestrator.
// Invoices therefore stay in DRAFT after creation.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	invoices := newFakeInvoiceRepo()
	settings := &fakeSettingsRepo{settings: map[string]*entity.BusinessSettings{
		testSettings: {
			ID:          testSettings,
			CompanyName: "Riyadh Trading Co",
			VATNumber:   "310122393500003",
			Currency:    "SAR",
			Status:      "active",
		},
		"settings-2": {
			ID:        "settings-2",
			VATNumber: "322222222200003",
			Status:    "active",
		},
	}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		testCustomer: {ID: testCustomer, SettingsID: testSettings, Name: "Acme LLC", VATNumber: "311111111100003"},
	}}
	templates := &fakeTemplateRepo{templates: map[string]*entity.TaxTemplate{
		"tpl-zero": {ID: "tpl-zero", SettingsID: testSettings, Title: "Zero Rated", Rate: decimal.Zero},
	}}
	runner := &fakeTxRunner{invoiceRepo: invoices, chainRepo: &fakeChainRepo{counters: map[string]int64{}}}

	return &fixture{
		uc:       billing.NewCreateInvoiceUseCase(runner, settings, customers, templates, invoices, nil),
		invoices: invoices,
	}
}

func simplifiedRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		TransactionCode: zatca.TransactionSimplified,
		Items: []dto.InvoiceItemRequest{
			{ItemName: "Coffee beans 1kg", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
		SuppressSubmit: true,
	}
}

func mustAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

// ── CreateInvoice ─────────────────────────────────────────────────────────────

func TestCreateInvoice_SimplifiedDraftWithChainState(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Counter)
	assert.Equal(t, "INV-000001", resp.Number)
	assert.Equal(t, zatca.TypeCodeTaxInvoice, resp.TypeCode)
	assert.Equal(t, entity.StatusDraft, resp.Status)
	mustAmount(t, "100", resp.NetTotal)
	mustAmount(t, "15", resp.TaxTotal)
	mustAmount(t, "115", resp.GrandTotal)
	mustAmount(t, "115", resp.PayableAmount)
	require.Len(t, resp.Lines, 1)
	mustAmount(t, "100", resp.Lines[0].NetAmount)

	stored := f.invoices.invoices[resp.ID]
	require.NotNil(t, stored)
	assert.Equal(t, zatca.SeedPIH, stored.PreviousInvoiceHash)
}

func TestCreateInvoice_SecondInvoiceHashesPredecessor(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.NoError(t, err)

	// Simulate the pipeline finishing: the stored signed artifact is what
	// the successor's PIH hashes.
	signedXML := "<Invoice>signed-first</Invoice>"
	f.invoices.invoices[first.ID].XMLSigned = signedXML

	second, err := f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(2), second.Counter)
	assert.Equal(t, "INV-000002", second.Number)
	stored := f.invoices.invoices[second.ID]
	assert.Equal(t, zatca.InvoiceHash([]byte(signedXML)), stored.PreviousInvoiceHash)
}

func TestCreateInvoice_MissingPredecessorArtifactFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.NoError(t, err)

	// Predecessor was never signed: the chain cannot be extended.
	_, err = f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChainIntegrity)
}

func TestCreateInvoice_StandardRequiresCustomer(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.TransactionCode = zatca.TransactionStandard

	_, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_StandardWithCustomer(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.TransactionCode = zatca.TransactionStandard
	req.CustomerID = testCustomer

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.NoError(t, err)
	assert.Equal(t, "Acme LLC", resp.CustomerName)
	assert.Equal(t, zatca.TransactionStandard, resp.TransactionCode)
}

func TestCreateInvoice_ForeignCustomerForbidden(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.CustomerID = testCustomer

	// The customer belongs to settings-1, not settings-2.
	_, err := f.uc.CreateInvoice(context.Background(), "settings-2", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_InvalidTypeCodeFails(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.TypeCode = "999"

	_, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_InvalidTransactionCodeFails(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.TransactionCode = "0300000"

	_, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoice_ZeroRatedTemplateOverridesRate(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.Items[0].TaxTemplateID = "tpl-zero"

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.NoError(t, err)
	mustAmount(t, "100", resp.NetTotal)
	mustAmount(t, "0", resp.TaxTotal)
	mustAmount(t, "100", resp.GrandTotal)
}

func TestCreateInvoice_TaxInclusivePricing(t *testing.T) {
	f := newFixture(t)

	req := dto.CreateInvoiceRequest{
		TransactionCode: zatca.TransactionSimplified,
		TaxInclusive:    true,
		Items: []dto.InvoiceItemRequest{
			{ItemName: "Service fee", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(115)},
		},
		SuppressSubmit: true,
	}

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.NoError(t, err)
	mustAmount(t, "100", resp.NetTotal)
	mustAmount(t, "15", resp.TaxTotal)
	mustAmount(t, "115", resp.GrandTotal)
}

// Assembler ports for the round-trip test below; simplified fixtures carry
// no tax templates and no prepayments.
type noTemplates struct{}

func (noTemplates) GetTaxTemplate(string) (*entity.TaxTemplate, error) {
	return nil, domain.ErrNotFound
}

type noPrepayments struct{}

func (noPrepayments) GetPrepaymentInvoice(string) (*entity.Invoice, error) {
	return nil, domain.ErrNotFound
}

// A percent-only document discount must be materialized into an absolute
// amount at creation so the stored header totals survive assembly intact.
func TestCreateInvoice_PercentOnlyDiscountRoundTripsThroughAssembly(t *testing.T) {
	f := newFixture(t)

	req := dto.CreateInvoiceRequest{
		TransactionCode: zatca.TransactionSimplified,
		DiscountPercent: decimal.NewFromInt(10),
		Items: []dto.InvoiceItemRequest{
			{ItemName: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
		},
		SuppressSubmit: true,
	}

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.NoError(t, err)

	// net 200, tax 30, 10% discount over the net = 20
	mustAmount(t, "200", resp.NetTotal)
	mustAmount(t, "30", resp.TaxTotal)
	mustAmount(t, "210", resp.GrandTotal)
	mustAmount(t, "210", resp.PayableAmount)

	stored := f.invoices.invoices[resp.ID]
	require.NotNil(t, stored)
	mustAmount(t, "20", stored.DiscountAmount)

	// The created header must pass the assembly totals cross-check.
	asm := einvoice.NewAssembler(noTemplates{}, noPrepayments{})
	res, errs, err := asm.Assemble(einvoice.AssembleInput{
		Settings: &entity.BusinessSettings{
			ID:                testSettings,
			CompanyName:       "Riyadh Trading Co",
			CompanyNameArabic: "شركة الرياض التجارية",
			VATNumber:         "310122393500003",
			BuildingNumber:    "2322",
			StreetName:        "King Fahd Road",
			District:          "Al Olaya",
			CityName:          "Riyadh",
			PostalZone:        "23333",
			CountryCode:       "SA",
			Currency:          "SAR",
			RoundingStrategy:  entity.RoundingDocumentLevel,
		},
		Invoice: stored,
		Lines:   f.invoices.lines[resp.ID],
	})
	require.NoError(t, err)
	assert.True(t, errs.Empty(), "unexpected violations: %v", errs)
	require.NotNil(t, res.Invoice.TaxInclusiveAmount)
	mustAmount(t, "210", *res.Invoice.TaxInclusiveAmount)
}

func TestCreateInvoice_PrepaymentReducesPayable(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.Prepayments = []dto.PrepaymentAllocationRequest{
		{PrepaymentInvoiceID: "prep-1", Amount: decimal.NewFromInt(23)},
	}

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.NoError(t, err)
	mustAmount(t, "115", resp.GrandTotal)
	mustAmount(t, "23", resp.PrepaymentTotal)
	mustAmount(t, "92", resp.PayableAmount)

	allocs := f.invoices.allocations[resp.ID]
	require.Len(t, allocs, 1)
	assert.Equal(t, "prep-1", allocs[0].PrepaymentInvoiceID)
}

func TestCreateInvoice_InactiveTaxpayerFails(t *testing.T) {
	inactive := &fakeSettingsRepo{settings: map[string]*entity.BusinessSettings{
		testSettings: {ID: testSettings, VATNumber: "310122393500003", Status: "suspended"},
	}}
	invoices := newFakeInvoiceRepo()
	runner := &fakeTxRunner{invoiceRepo: invoices, chainRepo: &fakeChainRepo{counters: map[string]int64{}}}
	uc := billing.NewCreateInvoiceUseCase(runner, inactive,
		&fakeCustomerRepo{customers: map[string]*entity.Customer{}},
		&fakeTemplateRepo{templates: map[string]*entity.TaxTemplate{}},
		invoices, nil)

	_, err := uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestCreateInvoice_ReturnRequiresReference(t *testing.T) {
	f := newFixture(t)

	req := simplifiedRequest()
	req.TypeCode = zatca.TypeCodeCreditNote
	req.IsReturn = true

	_, err := f.uc.CreateInvoice(context.Background(), testSettings, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Read operations ───────────────────────────────────────────────────────────

func TestGetInvoiceStatus_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.NoError(t, err)

	status, err := f.uc.GetInvoiceStatus(context.Background(), testSettings, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, status.Status)

	_, err = f.uc.GetInvoiceStatus(context.Background(), "settings-other", resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetInvoiceXML_RequiresSignedArtifact(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateInvoice(context.Background(), testSettings, simplifiedRequest())
	require.NoError(t, err)

	_, err = f.uc.GetInvoiceXML(context.Background(), testSettings, resp.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	f.invoices.invoices[resp.ID].XMLSigned = "<Invoice/>"
	xml, err := f.uc.GetInvoiceXML(context.Background(), testSettings, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "<Invoice/>", string(xml))
}
