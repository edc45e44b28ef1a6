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

var _ repository.TaxTemplateRepository = (*TaxTemplateRepo)(nil)

// TaxTemplateRepo implements TaxTemplateRepository.
type TaxTemplateRepo struct {
	q Querier
}

// NewTaxTemplateRepository builds the adapter. Pass a pool or tx (Querier).
func NewTaxTemplateRepository(q Querier) *TaxTemplateRepo {
	return &TaxTemplateRepo{q: q}
}

// Create persists a tax template.
func (r *TaxTemplateRepo) Create(t *entity.TaxTemplate) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO tax_templates (id, settings_id, title, rate, category_label, custom_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.SettingsID, t.Title, t.Rate, t.CategoryLabel,
		nullIfEmpty(t.CustomReason), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tax template: %w", err)
	}
	return nil
}

// GetByID returns a tax template (nil if absent).
func (r *TaxTemplateRepo) GetByID(id string) (*entity.TaxTemplate, error) {
	const query = `
		SELECT id, settings_id, title, rate, category_label, COALESCE(custom_reason, ''),
		       created_at, updated_at
		FROM tax_templates WHERE id = $1`
	var t entity.TaxTemplate
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.SettingsID, &t.Title, &t.Rate, &t.CategoryLabel,
		&t.CustomReason, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax template: %w", err)
	}
	return &t, nil
}

// ListBySettings returns the tax templates of one taxpayer.
func (r *TaxTemplateRepo) ListBySettings(settingsID string) ([]*entity.TaxTemplate, error) {
	const query = `
		SELECT id, settings_id, title, rate, category_label, COALESCE(custom_reason, ''),
		       created_at, updated_at
		FROM tax_templates WHERE settings_id = $1 ORDER BY title`
	rows, err := r.q.Query(context.Background(), query, settingsID)
	if err != nil {
		return nil, fmt.Errorf("list tax templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.TaxTemplate
	for rows.Next() {
		var t entity.TaxTemplate
		if err := rows.Scan(&t.ID, &t.SettingsID, &t.Title, &t.Rate, &t.CategoryLabel,
			&t.CustomReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tax template: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
