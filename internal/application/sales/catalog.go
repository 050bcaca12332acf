package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

// CatalogUseCase consultas de apoyo del asistente: clientes e inventario vendible.
type CatalogUseCase struct {
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(customerRepo repository.CustomerRepository, inventoryRepo repository.InventoryRepository) *CatalogUseCase {
	return &CatalogUseCase{customerRepo: customerRepo, inventoryRepo: inventoryRepo}
}

// SearchCustomers busca por documento o nombre.
func (uc *CatalogUseCase) SearchCustomers(ctx context.Context, companyID, term string, limit int) ([]dto.CustomerResponse, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, domain.NewValidationError("q", "la búsqueda requiere al menos 2 caracteres")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	list, err := uc.customerRepo.Search(ctx, companyID, term, limit)
	if err != nil {
		return nil, fmt.Errorf("buscar clientes: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CustomerResponse{
			ID:       c.ID,
			TaxID:    c.TaxID,
			FullName: c.FullName(),
			Address:  c.Address,
			Phone:    c.Phone,
			Email:    c.Email,
		})
	}
	return out, nil
}

// ListModels modelos con precio efectivo por color y chasis disponibles. Los precios salen del
// mismo resolvedor que usa la venta.
func (uc *CatalogUseCase) ListModels(ctx context.Context, companyID string) ([]dto.ModelResponse, error) {
	models, err := uc.inventoryRepo.ListModels(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar modelos: %w", err)
	}
	resolver := pricing.NewResolver(pricing.NewStaticCatalog(models, nil))
	out := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, modelResponse(m, resolver))
	}
	return out, nil
}

func modelResponse(m *entity.VehicleModel, r *pricing.Resolver) dto.ModelResponse {
	resp := dto.ModelResponse{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		BasePrice: m.BasePrice,
		Colors:    []dto.ColorResponse{},
		Chassis:   []dto.ChassisResponse{},
	}
	colors := make([]string, 0, len(m.ColorStock))
	for c := range m.ColorStock {
		colors = append(colors, c)
	}
	sort.Strings(colors)
	for _, c := range colors {
		q, err := r.Resolve(pricing.Selection{Kind: pricing.SourceModel, ReferenceID: m.ID, Color: c})
		if err != nil {
			continue // descuento mal configurado: no se ofrece
		}
		resp.Colors = append(resp.Colors, dto.ColorResponse{Color: c, Stock: m.ColorStock[c], Discount: q.Discount, Price: q.UnitPrice})
	}
	for _, ch := range m.Chassis {
		q, err := r.Resolve(pricing.Selection{
			Kind: pricing.SourceModel, ReferenceID: m.ID, Color: ch.Color,
			Chassis: pricing.ChassisSelection{RecordID: ch.ID},
		})
		if err != nil {
			continue
		}
		resp.Chassis = append(resp.Chassis, dto.ChassisResponse{ID: ch.ID, Color: ch.Color, Chassis: ch.Chassis, Price: q.UnitPrice})
	}
	return resp
}

// ListUnits unidades individuales disponibles.
func (uc *CatalogUseCase) ListUnits(ctx context.Context, companyID string) ([]dto.UnitResponse, error) {
	units, err := uc.inventoryRepo.ListAvailableUnits(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar unidades: %w", err)
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID, Description: u.Description, Color: u.Color, Chassis: u.ChassisID, Price: u.Price.Round(2)})
	}
	return out, nil
}
