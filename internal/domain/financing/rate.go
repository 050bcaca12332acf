package financing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// RateConvention define cómo interpretar la tasa configurada en la venta.
type RateConvention string

const (
	// RateAnnual la tasa es nominal anual y se divide por los periodos del año de la periodicidad.
	RateAnnual RateConvention = "annual"
	// RatePeriodic la tasa ya es por periodo (p. ej. 2.5 % mensual con cuotas mensuales).
	RatePeriodic RateConvention = "periodic"
)

var hundred = decimal.NewFromInt(100)

// ParseRateConvention valida el valor de configuración; vacío = anual.
func ParseRateConvention(s string) (RateConvention, error) {
	switch RateConvention(strings.ToLower(strings.TrimSpace(s))) {
	case "", RateAnnual:
		return RateAnnual, nil
	case RatePeriodic:
		return RatePeriodic, nil
	}
	return "", fmt.Errorf("%w: convención de tasa desconocida %q", domain.ErrInvalidInput, s)
}

// PeriodicRate convierte una tasa en porcentaje a tasa periódica en fracción (2.5 -> 0.025).
func (c RateConvention) PeriodicRate(ratePercent decimal.Decimal, f Frequency) decimal.Decimal {
	r := ratePercent.Div(hundred)
	if c == RatePeriodic {
		return r
	}
	return r.Div(decimal.NewFromInt(int64(f.PeriodsPerYear())))
}
