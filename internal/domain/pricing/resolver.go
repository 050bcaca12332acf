package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Resolver resuelve el precio unitario y la cantidad máxima de una selección.
type Resolver struct {
	catalog Catalog
}

// NewResolver construye el resolvedor sobre un catálogo.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve devuelve {precio unitario, cantidad máxima} para la selección.
// Los problemas de datos se reportan como *domain.ValidationError.
func (r *Resolver) Resolve(sel Selection) (Quote, error) {
	if strings.TrimSpace(sel.ReferenceID) == "" {
		return Quote{}, domain.NewValidationError("reference_id", "debe seleccionar un producto")
	}
	switch sel.Kind {
	case SourceModel:
		return r.resolveModel(sel)
	case SourceIndividualUnit:
		return r.resolveUnit(sel)
	}
	return Quote{}, fmt.Errorf("%w: origen de línea desconocido %q", domain.ErrPrecondition, sel.Kind)
}

func (r *Resolver) resolveUnit(sel Selection) (Quote, error) {
	u, ok := r.catalog.Unit(sel.ReferenceID)
	if !ok {
		return Quote{}, domain.NewValidationError("reference_id", "la unidad seleccionada no existe")
	}
	if !u.Available {
		return Quote{}, domain.NewValidationError("reference_id", "la unidad seleccionada ya no está disponible")
	}
	// La unidad individual es atómica: no se divide ni se multiplica.
	return Quote{
		UnitPrice:   u.Price.Round(2),
		MaxQuantity: 1,
		TierStock:   1,
		Description: u.Description,
		Color:       u.Color,
		Chassis:     ChassisSelection{Identifier: u.ChassisID},
		Discount:    decimal.Zero,
	}, nil
}

func (r *Resolver) resolveModel(sel Selection) (Quote, error) {
	m, ok := r.catalog.Model(sel.ReferenceID)
	if !ok {
		return Quote{}, domain.NewValidationError("reference_id", "el modelo seleccionado no existe")
	}
	color := strings.TrimSpace(sel.Color)
	if color == "" {
		return Quote{}, domain.NewValidationError("color", "debe seleccionar un color")
	}
	stock, ok := m.ColorStock[color]
	if !ok {
		return Quote{}, domain.NewValidationError("color", fmt.Sprintf("el color %q no está disponible para %s", color, m.Name))
	}

	discount, hasDiscount := m.ColorDiscount[color]
	price := m.BasePrice
	q := Quote{MaxQuantity: stock, TierStock: stock, Description: m.Name, Color: color}

	switch {
	case sel.Chassis.RecordID != "":
		rec := findChassis(m, sel.Chassis.RecordID)
		if rec == nil {
			return Quote{}, domain.NewValidationError("chassis", "el chasis seleccionado no pertenece al modelo")
		}
		if rec.Color != color {
			return Quote{}, domain.NewValidationError("chassis", "el chasis seleccionado es de otro color")
		}
		if rec.Stock < 1 {
			return Quote{}, domain.NewValidationError("chassis", "el chasis seleccionado ya no está disponible")
		}
		if rec.Price.IsPositive() {
			price = rec.Price
		}
		if rec.Discount != nil {
			discount, hasDiscount = *rec.Discount, true
		}
		q.MaxQuantity = 1
		q.Chassis = ChassisSelection{RecordID: rec.ID, Identifier: rec.Chassis}
	case sel.Chassis.Identifier != "":
		id := strings.TrimSpace(sel.Chassis.Identifier)
		if id == "" {
			return Quote{}, domain.NewValidationError("chassis", "el número de chasis no puede estar vacío")
		}
		// Sin verificación de unicidad: es responsabilidad del almacén externo.
		q.Chassis = ChassisSelection{Identifier: id}
	}

	if hasDiscount {
		if discount.IsNegative() || discount.GreaterThan(hundred) {
			return Quote{}, domain.NewValidationError("discount", "el descuento configurado está fuera de 0..100")
		}
		price = ApplyDiscount(price, discount)
		q.Discount = discount
	} else {
		q.Discount = decimal.Zero
	}
	q.UnitPrice = price.Round(2)
	return q, nil
}

// ApplyDiscount base × (1 − d/100), redondeado al centavo.
func ApplyDiscount(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(hundred.Sub(percent)).Div(hundred).Round(2)
}

// CheckQuantity valida la cantidad pedida contra la cotización. Nunca recorta.
func CheckQuantity(quantity int, q Quote) *domain.ValidationError {
	if quantity < 1 {
		return domain.NewValidationError("quantity", "la cantidad debe ser al menos 1")
	}
	if quantity > q.MaxQuantity {
		return domain.NewValidationError("quantity",
			fmt.Sprintf("la cantidad (%d) supera el stock disponible (%d)", quantity, q.MaxQuantity))
	}
	return nil
}

func findChassis(m *entity.VehicleModel, id string) *entity.ChassisRecord {
	for i := range m.Chassis {
		if m.Chassis[i].ID == id {
			return &m.Chassis[i]
		}
	}
	return nil
}
