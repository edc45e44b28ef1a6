package billing

import (
	"time"

	"github.com/google/uuid"

	"zatca-pro/internal/application/dto"
	"zatca-pro/internal/domain"
	"zatca-pro/internal/domain/entity"
	"zatca-pro/internal/domain/repository"
	domzatca "zatca-pro/internal/domain/zatca"
	pkgzatca "zatca-pro/pkg/zatca"
)

// CustomerUseCase covers buyer registration and lookup. Buyers are scoped
// to one taxpayer (BusinessSettings).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase builds the use case.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create registers a buyer. The VAT number, when present, must be a valid
// Saudi VAT registration number; alternate identifiers must follow the
// canonical buyer scheme order.
func (uc *CustomerUseCase) Create(settingsID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.VATNumber != "" && !pkgzatca.IsValidVATNumber(in.VATNumber) {
		return nil, domain.ErrInvalidInput
	}
	otherIDs, err := domzatca.ResolveSchemeIDs(toPartyIdentifiers(in.OtherIDs), pkgzatca.BuyerSchemeOrder)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:             uuid.New().String(),
		SettingsID:     settingsID,
		Name:           in.Name,
		NameArabic:     in.NameArabic,
		VATNumber:      in.VATNumber,
		OtherIDs:       otherIDs,
		BuildingNumber: in.BuildingNumber,
		StreetName:     in.StreetName,
		District:       in.District,
		CityName:       in.CityName,
		PostalZone:     in.PostalZone,
		CountryCode:    defaultCountry(in.CountryCode),
		Email:          in.Email,
		Phone:          in.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Update replaces a buyer's mutable fields. The buyer must belong to the
// caller's taxpayer.
func (uc *CustomerUseCase) Update(settingsID, customerID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.SettingsID != settingsID {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.VATNumber != "" && !pkgzatca.IsValidVATNumber(in.VATNumber) {
		return nil, domain.ErrInvalidInput
	}
	otherIDs, err := domzatca.ResolveSchemeIDs(toPartyIdentifiers(in.OtherIDs), pkgzatca.BuyerSchemeOrder)
	if err != nil {
		return nil, err
	}
	customer.Name = in.Name
	customer.NameArabic = in.NameArabic
	customer.VATNumber = in.VATNumber
	customer.OtherIDs = otherIDs
	customer.BuildingNumber = in.BuildingNumber
	customer.StreetName = in.StreetName
	customer.District = in.District
	customer.CityName = in.CityName
	customer.PostalZone = in.PostalZone
	customer.CountryCode = defaultCountry(in.CountryCode)
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get returns one buyer, enforcing taxpayer ownership.
func (uc *CustomerUseCase) Get(settingsID, customerID string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.SettingsID != settingsID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(customer), nil
}

// List returns the taxpayer's buyers.
func (uc *CustomerUseCase) List(settingsID string) ([]*dto.CustomerResponse, error) {
	list, err := uc.repo.ListBySettings(settingsID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		SettingsID:     c.SettingsID,
		Name:           c.Name,
		NameArabic:     c.NameArabic,
		VATNumber:      c.VATNumber,
		OtherIDs:       toPartyDTOs(c.OtherIDs),
		BuildingNumber: c.BuildingNumber,
		StreetName:     c.StreetName,
		District:       c.District,
		CityName:       c.CityName,
		PostalZone:     c.PostalZone,
		CountryCode:    c.CountryCode,
		Email:          c.Email,
		Phone:          c.Phone,
	}
}

func toPartyIdentifiers(in []dto.PartyIdentifierDTO) []entity.PartyIdentifier {
	out := make([]entity.PartyIdentifier, 0, len(in))
	for _, id := range in {
		out = append(out, entity.PartyIdentifier{Scheme: id.Scheme, Value: id.Value})
	}
	return out
}

func toPartyDTOs(in []entity.PartyIdentifier) []dto.PartyIdentifierDTO {
	out := make([]dto.PartyIdentifierDTO, 0, len(in))
	for _, id := range in {
		out = append(out, dto.PartyIdentifierDTO{Scheme: id.Scheme, Value: id.Value})
	}
	return out
}

func defaultCountry(code string) string {
	if code == "" {
		return "SA"
	}
	return code
}
