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

var _ repository.BusinessSettingsRepository = (*BusinessSettingsRepo)(nil)

// BusinessSettingsRepo implements BusinessSettingsRepository.
type BusinessSettingsRepo struct {
	q Querier
}

// NewBusinessSettingsRepository builds the adapter. Pass a pool or tx.
func NewBusinessSettingsRepository(q Querier) *BusinessSettingsRepo {
	return &BusinessSettingsRepo{q: q}
}

const settingsColumns = `
	id, company_name, company_name_arabic, vat_number, other_ids,
	building_number, street_name, district, city_name, postal_zone,
	country_code, currency, rounding_strategy, status, created_at, updated_at`

// Create persists a taxpayer configuration.
func (r *BusinessSettingsRepo) Create(s *entity.BusinessSettings) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	idsJSON, err := jsonbOrNil(s.OtherIDs)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO business_settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(context.Background(), query,
		s.ID, s.CompanyName, s.CompanyNameArabic, s.VATNumber, idsJSON,
		s.BuildingNumber, s.StreetName, s.District, s.CityName, s.PostalZone,
		s.CountryCode, s.Currency, s.RoundingStrategy, s.Status,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("vat number already registered: %w", err)
		}
		return fmt.Errorf("insert business settings: %w", err)
	}
	return nil
}

// Update persists changes to a taxpayer configuration.
func (r *BusinessSettingsRepo) Update(s *entity.BusinessSettings) error {
	idsJSON, err := jsonbOrNil(s.OtherIDs)
	if err != nil {
		return err
	}
	query := `
		UPDATE business_settings
		SET company_name = $2, company_name_arabic = $3, vat_number = $4,
		    other_ids = $5, building_number = $6, street_name = $7,
		    district = $8, city_name = $9, postal_zone = $10,
		    country_code = $11, currency = $12, rounding_strategy = $13,
		    status = $14, updated_at = $15
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		s.ID, s.CompanyName, s.CompanyNameArabic, s.VATNumber, idsJSON,
		s.BuildingNumber, s.StreetName, s.District, s.CityName, s.PostalZone,
		s.CountryCode, s.Currency, s.RoundingStrategy, s.Status, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update business settings: %w", err)
	}
	return nil
}

// GetByID returns a taxpayer configuration (nil if absent).
func (r *BusinessSettingsRepo) GetByID(id string) (*entity.BusinessSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM business_settings WHERE id = $1`
	return scanSettings(r.q.QueryRow(context.Background(), query, id))
}

// List returns all taxpayer configurations.
func (r *BusinessSettingsRepo) List() ([]*entity.BusinessSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM business_settings ORDER BY company_name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list business settings: %w", err)
	}
	defer rows.Close()
	var list []*entity.BusinessSettings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSettings(row pgx.Row) (*entity.BusinessSettings, error) {
	var s entity.BusinessSettings
	var idsJSON []byte
	err := row.Scan(
		&s.ID, &s.CompanyName, &s.CompanyNameArabic, &s.VATNumber, &idsJSON,
		&s.BuildingNumber, &s.StreetName, &s.District, &s.CityName, &s.PostalZone,
		&s.CountryCode, &s.Currency, &s.RoundingStrategy, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business settings: %w", err)
	}
	if err := unmarshalJSONB(idsJSON, &s.OtherIDs); err != nil {
		return nil, err
	}
	return &s, nil
}
