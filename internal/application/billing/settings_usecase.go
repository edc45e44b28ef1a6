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

// SettingsUseCase manages taxpayer (seller) profiles. Each profile scopes
// its own invoice counter and hash chain.
type SettingsUseCase struct {
	repo repository.BusinessSettingsRepository
}

// NewSettingsUseCase builds the use case.
func NewSettingsUseCase(repo repository.BusinessSettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Create registers a taxpayer. The VAT number and the national address
// fields are mandatory; alternate identifiers must follow the canonical
// seller scheme order.
func (uc *SettingsUseCase) Create(in dto.CreateBusinessSettingsRequest) (*dto.BusinessSettingsResponse, error) {
	if in.CompanyName == "" {
		return nil, domain.ErrInvalidInput
	}
	if !pkgzatca.IsValidVATNumber(in.VATNumber) {
		return nil, domain.ErrInvalidInput
	}
	if in.BuildingNumber == "" || in.StreetName == "" || in.District == "" ||
		in.CityName == "" || in.PostalZone == "" {
		return nil, domain.ErrInvalidInput
	}
	rounding, err := resolveRounding(in.RoundingStrategy)
	if err != nil {
		return nil, err
	}
	otherIDs, err := domzatca.ResolveSchemeIDs(toPartyIdentifiers(in.OtherIDs), pkgzatca.SellerSchemeOrder)
	if err != nil {
		return nil, err
	}
	currency := in.Currency
	if currency == "" {
		currency = "SAR"
	}
	now := time.Now()
	settings := &entity.BusinessSettings{
		ID:                uuid.New().String(),
		CompanyName:       in.CompanyName,
		CompanyNameArabic: in.CompanyNameArabic,
		VATNumber:         in.VATNumber,
		OtherIDs:          otherIDs,
		BuildingNumber:    in.BuildingNumber,
		StreetName:        in.StreetName,
		District:          in.District,
		CityName:          in.CityName,
		PostalZone:        in.PostalZone,
		CountryCode:       defaultCountry(in.CountryCode),
		Currency:          currency,
		RoundingStrategy:  rounding,
		Status:            "active",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// Update replaces a taxpayer's mutable fields. The VAT number cannot
// change once invoices are chained under it, so a changed value is
// rejected as a conflict.
func (uc *SettingsUseCase) Update(settingsID string, in dto.CreateBusinessSettingsRequest) (*dto.BusinessSettingsResponse, error) {
	settings, err := uc.repo.GetByID(settingsID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	if in.CompanyName == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.VATNumber != "" && in.VATNumber != settings.VATNumber {
		return nil, domain.ErrConflict
	}
	rounding, err := resolveRounding(in.RoundingStrategy)
	if err != nil {
		return nil, err
	}
	otherIDs, err := domzatca.ResolveSchemeIDs(toPartyIdentifiers(in.OtherIDs), pkgzatca.SellerSchemeOrder)
	if err != nil {
		return nil, err
	}
	settings.CompanyName = in.CompanyName
	settings.CompanyNameArabic = in.CompanyNameArabic
	settings.OtherIDs = otherIDs
	if in.BuildingNumber != "" {
		settings.BuildingNumber = in.BuildingNumber
	}
	if in.StreetName != "" {
		settings.StreetName = in.StreetName
	}
	if in.District != "" {
		settings.District = in.District
	}
	if in.CityName != "" {
		settings.CityName = in.CityName
	}
	if in.PostalZone != "" {
		settings.PostalZone = in.PostalZone
	}
	if in.CountryCode != "" {
		settings.CountryCode = in.CountryCode
	}
	if in.Currency != "" {
		settings.Currency = in.Currency
	}
	settings.RoundingStrategy = rounding
	settings.UpdatedAt = time.Now()
	if err := uc.repo.Update(settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// Get returns one taxpayer profile.
func (uc *SettingsUseCase) Get(settingsID string) (*dto.BusinessSettingsResponse, error) {
	settings, err := uc.repo.GetByID(settingsID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	return toSettingsResponse(settings), nil
}

// List returns all registered taxpayers.
func (uc *SettingsUseCase) List() ([]*dto.BusinessSettingsResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BusinessSettingsResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSettingsResponse(s))
	}
	return out, nil
}

func resolveRounding(s string) (string, error) {
	switch s {
	case "":
		return entity.RoundingDocumentLevel, nil
	case entity.RoundingDocumentLevel, entity.RoundingRowWise:
		return s, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

func toSettingsResponse(s *entity.BusinessSettings) *dto.BusinessSettingsResponse {
	return &dto.BusinessSettingsResponse{
		ID:                s.ID,
		CompanyName:       s.CompanyName,
		CompanyNameArabic: s.CompanyNameArabic,
		VATNumber:         s.VATNumber,
		OtherIDs:          toPartyDTOs(s.OtherIDs),
		BuildingNumber:    s.BuildingNumber,
		StreetName:        s.StreetName,
		District:          s.District,
		CityName:          s.CityName,
		PostalZone:        s.PostalZone,
		CountryCode:       s.CountryCode,
		Currency:          s.Currency,
		RoundingStrategy:  s.RoundingStrategy,
		Status:            s.Status,
	}
}
