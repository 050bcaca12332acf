package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// GuarantorRepository puerto de fiadores registrados.
type GuarantorRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Guarantor, error)
	// Create registra un fiador nuevo; ErrDuplicate si el documento ya existe en la empresa.
	Create(ctx context.Context, g *entity.Guarantor) error
}
