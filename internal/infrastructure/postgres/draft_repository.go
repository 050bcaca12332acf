package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo borradores de venta en JSONB.
type DraftRepo struct {
	q Querier
}

// NewDraftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: q}
}

// Save inserta o reemplaza el borrador. Un borrador de otra empresa con el mismo ID no se toca.
func (r *DraftRepo) Save(ctx context.Context, d *entity.SaleDraft) error {
	query := `
		INSERT INTO sale_drafts (id, company_id, customer_id, snapshot, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			snapshot    = EXCLUDED.snapshot,
			saved_at    = EXCLUDED.saved_at
		WHERE sale_drafts.company_id = EXCLUDED.company_id`
	_, err := r.q.Exec(ctx, query, d.ID, d.CompanyID, d.CustomerID, string(d.Snapshot), d.SavedAt)
	if err != nil {
		return fmt.Errorf("upsert sale draft: %w", err)
	}
	return nil
}

// GetByID obtiene el borrador de la empresa.
func (r *DraftRepo) GetByID(ctx context.Context, companyID, id string) (*entity.SaleDraft, error) {
	query := `
		SELECT id, company_id, customer_id, snapshot, saved_at
		FROM sale_drafts WHERE company_id = $1 AND id = $2`
	var (
		d        entity.SaleDraft
		snapshot []byte
	)
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(&d.ID, &d.CompanyID, &d.CustomerID, &snapshot, &d.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale draft: %w", err)
	}
	d.Snapshot = snapshot
	return &d, nil
}

// Delete elimina el borrador; no falla si ya no existe.
func (r *DraftRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sale_drafts WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete sale draft: %w", err)
	}
	return nil
}
