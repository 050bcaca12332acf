package financing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// growthBound límite de (1+r)^n a partir del cual la fórmula compuesta deja de ser confiable.
const growthBound = 1e10

var one = decimal.NewFromInt(1)

// Method método con el que se calculó la cuota.
type Method string

const (
	MethodCompound       Method = "compound"
	MethodLinear         Method = "linear"          // tasa cero: capital / n
	MethodLinearFallback Method = "linear_fallback" // (1+r)^n no finito o fuera de rango
)

// Installment una cuota del plan de pagos.
type Installment struct {
	Index            int             `json:"index"`
	DueDate          time.Time       `json:"due_date"`
	TotalPayment     decimal.Decimal `json:"total_payment"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Schedule plan de amortización completo.
type Schedule struct {
	FinancedAmount  decimal.Decimal `json:"financed_amount"`
	PeriodicRate    decimal.Decimal `json:"periodic_rate"`
	PeriodicPayment decimal.Decimal `json:"periodic_payment"`
	Frequency       Frequency       `json:"frequency"`
	Method          Method          `json:"method"`
	Installments    []Installment   `json:"installments"`
}

// Empty indica si el plan no tiene cuotas.
func (s Schedule) Empty() bool { return len(s.Installments) == 0 }

// TotalPaid suma de todas las cuotas (capital + intereses).
func (s Schedule) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, in := range s.Installments {
		total = total.Add(in.TotalPayment)
	}
	return total
}

// TotalInterest suma de los intereses del plan.
func (s Schedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, in := range s.Installments {
		total = total.Add(in.InterestPortion)
	}
	return total
}

// Calculator calcula cuotas fijas y planes de amortización. No tiene efectos secundarios.
type Calculator struct {
	Convention RateConvention
}

// NewCalculator construye la calculadora con la convención de tasa configurada.
func NewCalculator(convention RateConvention) Calculator {
	if convention == "" {
		convention = RateAnnual
	}
	return Calculator{Convention: convention}
}

// ComputeSchedule genera el plan de pagos para el monto financiado.
// ratePercent se interpreta según la convención de la calculadora.
// Solo retorna error (domain.ErrPrecondition) ante argumentos imposibles; los casos numéricos
// degenerados se resuelven con la división lineal.
func (c Calculator) ComputeSchedule(financed, ratePercent decimal.Decimal, count int, freq Frequency, start time.Time) (Schedule, error) {
	if financed.IsNegative() {
		return Schedule{}, fmt.Errorf("%w: monto financiado negativo (%s)", domain.ErrPrecondition, financed)
	}
	if count < 0 {
		return Schedule{}, fmt.Errorf("%w: número de cuotas negativo (%d)", domain.ErrPrecondition, count)
	}
	if ratePercent.IsNegative() {
		return Schedule{}, fmt.Errorf("%w: tasa negativa (%s)", domain.ErrPrecondition, ratePercent)
	}
	if !freq.Valid() {
		return Schedule{}, fmt.Errorf("%w: periodicidad inválida %q", domain.ErrPrecondition, freq)
	}

	financed = financed.Round(2)
	s := Schedule{
		FinancedAmount:  financed,
		PeriodicRate:    decimal.Zero,
		PeriodicPayment: decimal.Zero,
		Frequency:       freq,
		Method:          MethodLinear,
		Installments:    []Installment{},
	}
	if financed.IsZero() || count == 0 {
		return s, nil
	}

	r := c.Convention.PeriodicRate(ratePercent, freq)
	payment, method := fixedPayment(financed, r, count)
	s.PeriodicRate = r
	s.PeriodicPayment = payment
	s.Method = method

	rate := r
	if method != MethodCompound {
		rate = decimal.Zero
	}

	balance := financed
	s.Installments = make([]Installment, 0, count)
	for i := 1; i <= count; i++ {
		interest := balance.Mul(rate).Round(2)
		var principal decimal.Decimal
		if i == count {
			// La última cuota absorbe el residuo del redondeo: Σ capital == monto financiado.
			principal = balance
		} else {
			principal = payment.Sub(interest)
			if principal.GreaterThan(balance) {
				principal = balance
			}
			if principal.IsNegative() {
				principal = decimal.Zero
			}
		}
		balance = balance.Sub(principal)
		s.Installments = append(s.Installments, Installment{
			Index:            i,
			DueDate:          freq.DueDate(start, i),
			TotalPayment:     principal.Add(interest),
			InterestPortion:  interest,
			PrincipalPortion: principal,
			RemainingBalance: balance,
		})
	}
	return s, nil
}

// fixedPayment cuota fija P·r(1+r)^n / ((1+r)^n − 1), o P/n cuando r = 0 o la potencia no es estable.
func fixedPayment(principal, r decimal.Decimal, n int) (decimal.Decimal, Method) {
	linear := principal.Div(decimal.NewFromInt(int64(n))).Round(2)
	if r.IsZero() {
		return linear, MethodLinear
	}
	// (1+r)^n en float64 solo para el tope de estabilidad y el factor; la cuota se arma en decimal.
	growth := math.Pow(1+r.InexactFloat64(), float64(n))
	if math.IsNaN(growth) || math.IsInf(growth, 0) || growth > growthBound || growth <= 1 {
		return linear, MethodLinearFallback
	}
	g := decimal.NewFromFloat(growth)
	return principal.Mul(r).Mul(g).Div(g.Sub(one)).Round(2), MethodCompound
}
