package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// InventoryRepository lectura del inventario vendible. Los IDs inexistentes se omiten del resultado.
type InventoryRepository interface {
	// GetModelsByIDs carga los modelos con su stock por color, descuentos y chasis identificados.
	GetModelsByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.VehicleModel, error)
	GetUnitsByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.IndividualUnit, error)
	ListModels(ctx context.Context, companyID string) ([]*entity.VehicleModel, error)
	ListAvailableUnits(ctx context.Context, companyID string) ([]*entity.IndividualUnit, error)
}
