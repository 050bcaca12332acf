package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SourceKind origen de una línea: modelo (nivel color/stock) o unidad individual de precio fijo.
type SourceKind string

const (
	SourceModel          SourceKind = "model"
	SourceIndividualUnit SourceKind = "individual_unit"
)

// Valid indica si el origen es conocido.
func (k SourceKind) Valid() bool {
	return k == SourceModel || k == SourceIndividualUnit
}

// ChassisSelection elección de chasis para una línea de modelo: un registro identificado (RecordID)
// o un identificador libre para stock no diferenciado (Identifier). Nunca ambos.
type ChassisSelection struct {
	RecordID   string `json:"record_id,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// IsZero indica que no se eligió chasis.
func (c ChassisSelection) IsZero() bool {
	return c.RecordID == "" && strings.TrimSpace(c.Identifier) == ""
}

// Key representación estable para comparar identidades de línea.
func (c ChassisSelection) Key() string {
	if c.RecordID != "" {
		return "rec:" + c.RecordID
	}
	if id := strings.TrimSpace(c.Identifier); id != "" {
		return "txt:" + strings.ToUpper(id)
	}
	return ""
}

// Selection lo que el asesor eligió: (modelo + color [+ chasis]) o unidad individual.
type Selection struct {
	Kind        SourceKind       `json:"source_kind"`
	ReferenceID string           `json:"reference_id"`
	Color       string           `json:"color,omitempty"`
	Chassis     ChassisSelection `json:"chassis"`
}

// Quote precio resuelto para una selección.
type Quote struct {
	UnitPrice   decimal.Decimal
	MaxQuantity int
	TierStock   int // stock compartido por todas las líneas del mismo modelo y color
	Description string
	Color       string
	Chassis     ChassisSelection
	Discount    decimal.Decimal // porcentaje aplicado (0 si no hubo)
}
