package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	SaleTypeCash     = "cash"
	SaleTypeFinanced = "financed"
)

// Sale cabecera de una venta creada a partir de una configuración finalizada.
type Sale struct {
	ID                string
	CompanyID         string
	CustomerID        string
	GuarantorID       string // vacío si la venta no tiene fiador
	SaleType          string
	TotalAmount       decimal.Decimal
	DownPayment       decimal.Decimal
	InstallmentCount  int
	Frequency         string
	InterestRate      decimal.Decimal
	PeriodicPayment   decimal.Decimal
	TotalWithInterest decimal.Decimal
	Notes             string
	CreatedAt         time.Time
}
