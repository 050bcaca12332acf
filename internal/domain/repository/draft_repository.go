package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// DraftRepository borradores de venta. Save es idempotente por ID (upsert).
type DraftRepository interface {
	Save(ctx context.Context, d *entity.SaleDraft) error
	GetByID(ctx context.Context, companyID, id string) (*entity.SaleDraft, error)
	Delete(ctx context.Context, companyID, id string) error
}
