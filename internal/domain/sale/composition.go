package sale

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
)

// Composition lista ordenada de líneas (orden de inserción = orden de presentación).
// Es un valor: cada operación devuelve una composición nueva y deja intacta la anterior.
type Composition struct {
	items []LineItem
}

// ItemPatch cambios sobre una línea; nil = sin cambio.
type ItemPatch struct {
	Quantity  *int                      `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal          `json:"unit_price,omitempty"`
	Color     *string                   `json:"color,omitempty"`
	Chassis   *pricing.ChassisSelection `json:"chassis,omitempty"`
}

// NewComposition arma una composición con las líneas dadas (copiadas).
func NewComposition(items ...LineItem) Composition {
	return Composition{items: append([]LineItem(nil), items...)}
}

// Len número de líneas.
func (c Composition) Len() int { return len(c.items) }

// Items copia de las líneas.
func (c Composition) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Item línea en la posición i.
func (c Composition) Item(i int) (LineItem, bool) {
	if i < 0 || i >= len(c.items) {
		return LineItem{}, false
	}
	return c.items[i], true
}

// Total Σ cantidad × precio unitario. Se recalcula en cada llamada.
func (c Composition) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

// AddItem agrega la línea, o suma la cantidad a la línea existente con la misma identidad.
func (c Composition) AddItem(item LineItem) (Composition, error) {
	if ve := item.validate(); ve != nil {
		return c, ve
	}
	items := c.Items()
	for i := range items {
		if items[i].Identity() != item.Identity() {
			continue
		}
		merged := item
		merged.Quantity = items[i].Quantity + item.Quantity
		if ve := merged.validate(); ve != nil {
			return c, ve
		}
		items[i] = merged
		return c.withTiers(items, merged)
	}
	return c.withTiers(append(items, item), item)
}

// withTiers devuelve la composición con items si ningún nivel de stock queda excedido.
func (c Composition) withTiers(items []LineItem, fresh LineItem) (Composition, error) {
	if ve := checkTiers(items, tierStocks(items, fresh)); ve != nil {
		return c, ve
	}
	return Composition{items: items}, nil
}

// UpdateItem aplica el parche a la línea i. Cambiar el color vuelve a resolver precio, descuento y
// stock e invalida el chasis elegido; cambiar el chasis también vuelve a resolver.
func (c Composition) UpdateItem(i int, p ItemPatch, q Quoter) (Composition, error) {
	item, ok := c.Item(i)
	if !ok {
		return c, domain.NewValidationError("index", fmt.Sprintf("línea %d inexistente", i))
	}

	colorChanged := p.Color != nil && *p.Color != item.Color
	if colorChanged || p.Chassis != nil {
		if item.SourceKind == pricing.SourceIndividualUnit {
			return c, domain.NewValidationError("color", "una unidad individual tiene color y chasis fijos")
		}
		if q == nil {
			return c, fmt.Errorf("%w: resolvedor de precios requerido", domain.ErrPrecondition)
		}
		sel := item.Selection()
		if colorChanged {
			sel.Color = *p.Color
			sel.Chassis = pricing.ChassisSelection{}
		}
		if p.Chassis != nil {
			sel.Chassis = *p.Chassis
		}
		quote, err := q.Resolve(sel)
		if err != nil {
			return c, err
		}
		item.applyQuote(quote)
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = p.UnitPrice.Round(2)
	}
	if ve := item.validate(); ve != nil {
		return c, ve
	}

	items := c.Items()
	items[i] = item
	// Si el cambio la vuelve idéntica a otra línea, se fusionan en la primera posición.
	for j := range items {
		if j == i || items[j].Identity() != item.Identity() {
			continue
		}
		keep, drop := j, i
		if i < j {
			keep, drop = i, j
		}
		merged := item
		merged.Quantity = items[i].Quantity + items[j].Quantity
		if ve := merged.validate(); ve != nil {
			return c, ve
		}
		items[keep] = merged
		items = append(items[:drop], items[drop+1:]...)
		break
	}
	return c.withTiers(items, item)
}

// RemoveItem quita la línea i.
func (c Composition) RemoveItem(i int) (Composition, error) {
	if _, ok := c.Item(i); !ok {
		return c, domain.NewValidationError("index", fmt.Sprintf("línea %d inexistente", i))
	}
	items := c.Items()
	return Composition{items: append(items[:i], items[i+1:]...)}, nil
}

// MarshalJSON serializa como arreglo de líneas.
func (c Composition) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON lee un arreglo de líneas.
func (c *Composition) UnmarshalJSON(data []byte) error {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.items = items
	return nil
}
