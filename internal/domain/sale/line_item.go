package sale

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
)

// Quoter resuelve precios de selecciones; *pricing.Resolver lo implementa.
type Quoter interface {
	Resolve(sel pricing.Selection) (pricing.Quote, error)
}

// LineItem una selección comprada con su cantidad y precio resuelto.
type LineItem struct {
	SourceKind  pricing.SourceKind       `json:"source_kind"`
	ReferenceID string                   `json:"reference_id"`
	Color       string                   `json:"color,omitempty"`
	Chassis     pricing.ChassisSelection `json:"chassis"`
	Quantity    int                      `json:"quantity"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	MaxQuantity int                      `json:"max_quantity"`
	TierStock   int                      `json:"tier_stock"`
	Discount    decimal.Decimal          `json:"discount"`
	Description string                   `json:"description,omitempty"`
}

// NewLineItem resuelve la selección y valida la cantidad contra el stock del nivel resuelto.
func NewLineItem(sel pricing.Selection, quantity int, q Quoter) (LineItem, error) {
	if q == nil {
		return LineItem{}, fmt.Errorf("%w: resolvedor de precios requerido", domain.ErrPrecondition)
	}
	quote, err := q.Resolve(sel)
	if err != nil {
		return LineItem{}, err
	}
	if ve := pricing.CheckQuantity(quantity, quote); ve != nil {
		return LineItem{}, ve
	}
	item := LineItem{
		SourceKind:  sel.Kind,
		ReferenceID: sel.ReferenceID,
		Quantity:    quantity,
	}
	item.applyQuote(quote)
	return item, nil
}

// Subtotal cantidad × precio unitario.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Identity (origen, referencia, color, chasis): dos líneas con la misma identidad son la misma selección.
func (li LineItem) Identity() string {
	return strings.Join([]string{string(li.SourceKind), li.ReferenceID, strings.ToLower(li.Color), li.Chassis.Key()}, "|")
}

// TierKey (origen, referencia, color): las líneas con la misma clave descuentan del mismo stock,
// sin importar el chasis.
func (li LineItem) TierKey() string {
	return strings.Join([]string{string(li.SourceKind), li.ReferenceID, strings.ToLower(li.Color)}, "|")
}

// tierStock stock del nivel; las líneas guardadas sin ese dato usan su tope por línea.
func (li LineItem) tierStock() int {
	if li.TierStock > 0 {
		return li.TierStock
	}
	return li.MaxQuantity
}

// Selection selección equivalente para volver a resolver la línea.
func (li LineItem) Selection() pricing.Selection {
	return pricing.Selection{Kind: li.SourceKind, ReferenceID: li.ReferenceID, Color: li.Color, Chassis: li.Chassis}
}

// HasChassis indica si la línea ya tiene chasis (siempre cierto en unidades individuales).
func (li LineItem) HasChassis() bool {
	return li.SourceKind == pricing.SourceIndividualUnit || !li.Chassis.IsZero()
}

func (li *LineItem) applyQuote(q pricing.Quote) {
	li.UnitPrice = q.UnitPrice
	li.MaxQuantity = q.MaxQuantity
	li.TierStock = q.TierStock
	li.Discount = q.Discount
	li.Description = q.Description
	li.Color = q.Color
	li.Chassis = q.Chassis
}

func (li LineItem) validate() *domain.ValidationError {
	ve := &domain.ValidationError{}
	if li.Quantity < 1 {
		ve.Add("quantity", "la cantidad debe ser al menos 1")
	} else if li.Quantity > li.MaxQuantity {
		ve.Add("quantity", fmt.Sprintf("la cantidad (%d) supera el stock disponible (%d)", li.Quantity, li.MaxQuantity))
	}
	if li.UnitPrice.IsNegative() {
		ve.Add("unit_price", "el precio unitario no puede ser negativo")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// checkTiers suma las cantidades de las líneas que comparten nivel y marca items[i].quantity en
// cada línea de un nivel cuya suma supera su stock. stock[i] < 0 excluye la línea.
func checkTiers(items []LineItem, stock []int) *domain.ValidationError {
	type tier struct {
		total, stock int
		lines        []int
	}
	tiers := make(map[string]*tier)
	var order []string
	for i, it := range items {
		if stock[i] < 0 {
			continue
		}
		k := it.TierKey()
		t, ok := tiers[k]
		if !ok {
			t = &tier{stock: stock[i]}
			tiers[k] = t
			order = append(order, k)
		}
		if stock[i] < t.stock {
			t.stock = stock[i]
		}
		t.total += it.Quantity
		t.lines = append(t.lines, i)
	}
	ve := &domain.ValidationError{}
	for _, k := range order {
		t := tiers[k]
		if t.total <= t.stock {
			continue
		}
		for _, i := range t.lines {
			ve.Add(fmt.Sprintf("items[%d].quantity", i),
				fmt.Sprintf("%s %s: %d unidades entre todas las líneas y solo hay %d en stock",
					items[i].Description, items[i].Color, t.total, t.stock))
		}
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// tierStocks stock de nivel de cada línea, tras alinear las del nivel de fresh con su dato más reciente.
func tierStocks(items []LineItem, fresh LineItem) []int {
	out := make([]int, len(items))
	for i := range items {
		if fresh.TierStock > 0 && items[i].TierKey() == fresh.TierKey() {
			items[i].TierStock = fresh.TierStock
		}
		out[i] = items[i].tierStock()
	}
	return out
}
