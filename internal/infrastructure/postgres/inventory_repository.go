package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo lectura del inventario vendible: modelos con stock por color y chasis
// identificados, más unidades individuales.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// GetModelsByIDs carga los modelos pedidos de la empresa; los IDs inexistentes se omiten.
func (r *InventoryRepo) GetModelsByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.VehicleModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, company_id, code, name, base_price, updated_at
		FROM vehicle_models WHERE company_id = $1 AND id = ANY($2)
		ORDER BY name`
	return r.loadModels(ctx, query, companyID, ids)
}

// ListModels todos los modelos de la empresa.
func (r *InventoryRepo) ListModels(ctx context.Context, companyID string) ([]*entity.VehicleModel, error) {
	query := `
		SELECT id, company_id, code, name, base_price, updated_at
		FROM vehicle_models WHERE company_id = $1
		ORDER BY name`
	return r.loadModels(ctx, query, companyID)
}

// loadModels lee las cabeceras y completa colores y chasis con una consulta por tabla.
func (r *InventoryRepo) loadModels(ctx context.Context, query string, args ...any) ([]*entity.VehicleModel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicle models: %w", err)
	}
	var (
		list []*entity.VehicleModel
		byID = make(map[string]*entity.VehicleModel)
		ids  []string
	)
	for rows.Next() {
		m := &entity.VehicleModel{
			ColorStock:    make(map[string]int),
			ColorDiscount: make(map[string]decimal.Decimal),
		}
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.Code, &m.Name, &m.BasePrice, &m.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan vehicle model: %w", err)
		}
		list = append(list, m)
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicle models: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.loadColors(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadChassis(ctx, ids, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *InventoryRepo) loadColors(ctx context.Context, ids []string, byID map[string]*entity.VehicleModel) error {
	rows, err := r.q.Query(ctx, `SELECT model_id, color, stock, discount FROM model_colors WHERE model_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("list model colors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			modelID, color string
			stock          int
			discount       decimal.NullDecimal
		)
		if err := rows.Scan(&modelID, &color, &stock, &discount); err != nil {
			return fmt.Errorf("scan model color: %w", err)
		}
		m := byID[modelID]
		m.ColorStock[color] = stock
		if discount.Valid {
			m.ColorDiscount[color] = discount.Decimal
		}
	}
	return rows.Err()
}

func (r *InventoryRepo) loadChassis(ctx context.Context, ids []string, byID map[string]*entity.VehicleModel) error {
	query := `
		SELECT id, model_id, color, chassis, stock, price, discount
		FROM chassis_records WHERE model_id = ANY($1) AND stock > 0
		ORDER BY chassis`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list chassis records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c        entity.ChassisRecord
			discount decimal.NullDecimal
		)
		if err := rows.Scan(&c.ID, &c.ModelID, &c.Color, &c.Chassis, &c.Stock, &c.Price, &discount); err != nil {
			return fmt.Errorf("scan chassis record: %w", err)
		}
		if discount.Valid {
			d := discount.Decimal
			c.Discount = &d
		}
		m := byID[c.ModelID]
		m.Chassis = append(m.Chassis, c)
	}
	return rows.Err()
}

// GetUnitsByIDs carga las unidades individuales pedidas (disponibles o no).
func (r *InventoryRepo) GetUnitsByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.IndividualUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, company_id, description, price, color, chassis_id, available, updated_at
		FROM individual_units WHERE company_id = $1 AND id = ANY($2)`
	return r.loadUnits(ctx, query, companyID, ids)
}

// ListAvailableUnits unidades individuales a la venta.
func (r *InventoryRepo) ListAvailableUnits(ctx context.Context, companyID string) ([]*entity.IndividualUnit, error) {
	query := `
		SELECT id, company_id, description, price, color, chassis_id, available, updated_at
		FROM individual_units WHERE company_id = $1 AND available
		ORDER BY description`
	return r.loadUnits(ctx, query, companyID)
}

func (r *InventoryRepo) loadUnits(ctx context.Context, query string, args ...any) ([]*entity.IndividualUnit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list individual units: %w", err)
	}
	defer rows.Close()
	var list []*entity.IndividualUnit
	for rows.Next() {
		var u entity.IndividualUnit
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Description, &u.Price, &u.Color, &u.ChassisID, &u.Available, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan individual unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
