package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.GuarantorRepository = (*GuarantorRepo)(nil)

// GuarantorRepo implementación de GuarantorRepository (usable con pool o tx).
type GuarantorRepo struct {
	q Querier
}

// NewGuarantorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGuarantorRepository(q Querier) *GuarantorRepo {
	return &GuarantorRepo{q: q}
}

// GetByID obtiene un fiador de la empresa.
func (r *GuarantorRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Guarantor, error) {
	query := `
		SELECT id, company_id, tax_id, first_name, last_name, address, phone, created_at, updated_at
		FROM guarantors WHERE company_id = $1 AND id = $2`
	var g entity.Guarantor
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&g.ID, &g.CompanyID, &g.TaxID, &g.FirstName, &g.LastName, &g.Address, &g.Phone, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guarantor: %w", err)
	}
	return &g, nil
}

// Create persiste un fiador nuevo.
func (r *GuarantorRepo) Create(ctx context.Context, g *entity.Guarantor) error {
	query := `
		INSERT INTO guarantors (id, company_id, tax_id, first_name, last_name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		g.ID, g.CompanyID, g.TaxID, g.FirstName, g.LastName, g.Address, g.Phone, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert guarantor: %w", err)
	}
	return nil
}

// upsertByTaxID registra el fiador o, si el documento ya existe en la empresa, actualiza sus datos.
// Devuelve el ID definitivo.
func (r *GuarantorRepo) upsertByTaxID(ctx context.Context, g *entity.Guarantor) (string, error) {
	query := `
		INSERT INTO guarantors (id, company_id, tax_id, first_name, last_name, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (company_id, tax_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			address    = EXCLUDED.address,
			phone      = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query,
		g.ID, g.CompanyID, g.TaxID, g.FirstName, g.LastName, g.Address, g.Phone, g.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert guarantor: %w", err)
	}
	return id, nil
}
