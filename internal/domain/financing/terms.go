package financing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// Terms condiciones de financiación de una venta. Las tasas se expresan en porcentaje.
type Terms struct {
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	InstallmentCount int             `json:"installment_count"`
	Frequency        Frequency       `json:"frequency"`
	StartDate        time.Time       `json:"start_date"`
}

// FinancedAmount total menos cuota inicial.
func (t Terms) FinancedAmount() decimal.Decimal {
	return t.TotalAmount.Sub(t.DownPayment)
}

// Validate revisa los campos corregibles por el usuario. maxRate es el techo de cordura configurado
// (cero = sin techo).
func (t Terms) Validate(maxRate decimal.Decimal) *domain.ValidationError {
	ve := &domain.ValidationError{}
	if t.DownPayment.IsNegative() {
		ve.Add("down_payment", "la cuota inicial no puede ser negativa")
	} else if t.DownPayment.GreaterThanOrEqual(t.TotalAmount) {
		ve.Add("down_payment", "la cuota inicial debe ser menor que el total de la venta")
	}
	if t.InterestRate.IsNegative() {
		ve.Add("interest_rate", "la tasa de interés no puede ser negativa")
	} else if maxRate.IsPositive() && t.InterestRate.GreaterThan(maxRate) {
		ve.Add("interest_rate", "la tasa de interés supera el máximo permitido ("+maxRate.String()+" %)")
	}
	if t.InstallmentCount < 1 {
		ve.Add("installment_count", "el número de cuotas debe ser al menos 1")
	}
	if !t.Frequency.Valid() {
		ve.Add("frequency", "periodicidad inválida")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// Schedule calcula el plan de pagos de las condiciones con la calculadora indicada.
func (t Terms) Schedule(c Calculator) (Schedule, error) {
	return c.ComputeSchedule(t.FinancedAmount(), t.InterestRate, t.InstallmentCount, t.Frequency, t.StartDate)
}
