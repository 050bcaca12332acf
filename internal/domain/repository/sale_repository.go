package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

// SaleRepository crea ventas. Create es atómico: registra la venta, sus líneas y cuotas, descuenta
// el stock y devuelve domain.ErrInsufficientStock si alguna línea ya no tiene existencias.
type SaleRepository interface {
	Create(ctx context.Context, companyID string, sub sale.Submission) (*entity.Sale, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
}
