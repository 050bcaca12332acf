package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// CustomerRepository puerto de lectura de clientes. GetBy* devuelve (nil, nil) si no existe.
type CustomerRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error)
	GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Customer, error)
	Search(ctx context.Context, companyID, term string, limit int) ([]*entity.Customer, error)
}
