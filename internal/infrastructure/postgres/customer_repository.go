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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implements CustomerRepository.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository builds the adapter. Pass a pool or tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `
	id, settings_id, name, name_arabic, vat_number, other_ids,
	building_number, street_name, district, city_name, postal_zone,
	country_code, email, phone, created_at, updated_at`

// Create persists a customer.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	idsJSON, err := jsonbOrNil(c.OtherIDs)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(context.Background(), query,
		c.ID, c.SettingsID, c.Name, nullIfEmpty(c.NameArabic), nullIfEmpty(c.VATNumber),
		idsJSON, nullIfEmpty(c.BuildingNumber), nullIfEmpty(c.StreetName),
		nullIfEmpty(c.District), nullIfEmpty(c.CityName), nullIfEmpty(c.PostalZone),
		nullIfEmpty(c.CountryCode), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update persists changes to a customer.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	idsJSON, err := jsonbOrNil(c.OtherIDs)
	if err != nil {
		return err
	}
	query := `
		UPDATE customers
		SET name = $2, name_arabic = $3, vat_number = $4, other_ids = $5,
		    building_number = $6, street_name = $7, district = $8,
		    city_name = $9, postal_zone = $10, country_code = $11,
		    email = $12, phone = $13, updated_at = $14
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.NameArabic), nullIfEmpty(c.VATNumber), idsJSON,
		nullIfEmpty(c.BuildingNumber), nullIfEmpty(c.StreetName), nullIfEmpty(c.District),
		nullIfEmpty(c.CityName), nullIfEmpty(c.PostalZone), nullIfEmpty(c.CountryCode),
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// GetByID returns a customer (nil if absent).
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// ListBySettings returns the customers of one taxpayer.
func (r *CustomerRepo) ListBySettings(settingsID string) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE settings_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, settingsID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var nameArabic, vatNumber, building, street, district, city *string
	var postal, country, email, phone *string
	var idsJSON []byte
	err := row.Scan(
		&c.ID, &c.SettingsID, &c.Name, &nameArabic, &vatNumber, &idsJSON,
		&building, &street, &district, &city, &postal, &country,
		&email, &phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.NameArabic = derefStr(nameArabic)
	c.VATNumber = derefStr(vatNumber)
	c.BuildingNumber = derefStr(building)
	c.StreetName = derefStr(street)
	c.District = derefStr(district)
	c.CityName = derefStr(city)
	c.PostalZone = derefStr(postal)
	c.CountryCode = derefStr(country)
	c.Email = derefStr(email)
	c.Phone = derefStr(phone)
	if err := unmarshalJSONB(idsJSON, &c.OtherIDs); err != nil {
		return nil, err
	}
	return &c, nil
}
