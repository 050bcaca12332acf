package financing_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
)

var start = time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sumPrincipal(s financing.Schedule) decimal.Decimal {
	total := decimal.Zero
	for _, in := range s.Installments {
		total = total.Add(in.PrincipalPortion)
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes del plan
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeSchedule_CapitalSumaExactoYSaldoFinalCero(t *testing.T) {
	amounts := []string{"0.01", "1", "999.99", "1000000", "9000000", "12345678.91"}
	rates := []string{"0", "0.5", "12", "28.8", "36", "99.99"}
	counts := []int{1, 2, 7, 12, 36, 60}
	freqs := []financing.Frequency{financing.Daily, financing.Weekly, financing.Biweekly, financing.Monthly}

	calc := financing.NewCalculator(financing.RateAnnual)
	for _, a := range amounts {
		for _, r := range rates {
			for _, n := range counts {
				for _, f := range freqs {
					s, err := calc.ComputeSchedule(dec(a), dec(r), n, f, start)
					require.NoError(t, err)
					require.Len(t, s.Installments, n)

					assert.True(t, sumPrincipal(s).Equal(dec(a)),
						"Σ capital debe ser %s (tasa %s, n %d, %s), fue %s", a, r, n, f, sumPrincipal(s))
					last := s.Installments[n-1]
					assert.True(t, last.RemainingBalance.IsZero(), "el saldo final debe ser 0")
					for _, in := range s.Installments {
						assert.False(t, in.RemainingBalance.IsNegative(), "el saldo nunca es negativo")
						assert.True(t, in.TotalPayment.Equal(in.TotalPayment.Round(2)), "montos redondeados al centavo")
					}
				}
			}
		}
	}
}

func TestComputeSchedule_TasaCeroCuotasIgualesSinInteres(t *testing.T) {
	calc := financing.NewCalculator(financing.RateAnnual)
	s, err := calc.ComputeSchedule(dec("1000"), decimal.Zero, 3, financing.Monthly, start)
	require.NoError(t, err)

	assert.Equal(t, financing.MethodLinear, s.Method)
	assert.True(t, s.PeriodicPayment.Equal(dec("333.33")))
	for _, in := range s.Installments {
		assert.True(t, in.InterestPortion.IsZero())
		assert.True(t, in.TotalPayment.Sub(s.PeriodicPayment).Abs().LessThanOrEqual(dec("0.01")),
			"cada cuota es capital/n salvo el ajuste de centavos")
	}
	assert.True(t, s.Installments[2].TotalPayment.Equal(dec("333.34")), "la última cuota absorbe el residuo")
}

func TestComputeSchedule_CuotaDecreceConMasCuotas(t *testing.T) {
	calc := financing.NewCalculator(financing.RatePeriodic)
	prev := decimal.Zero
	for n := 1; n <= 72; n++ {
		s, err := calc.ComputeSchedule(dec("9000000"), dec("2.5"), n, financing.Monthly, start)
		require.NoError(t, err)
		if n > 1 {
			assert.True(t, s.PeriodicPayment.LessThan(prev), "n=%d: %s debe ser < %s", n, s.PeriodicPayment, prev)
		}
		prev = s.PeriodicPayment
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios concretos
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeSchedule_EscenarioA_TasaMensual(t *testing.T) {
	g := math.Pow(1.025, 12)
	want := math.Round(9000000*0.025*g/(g-1)*100) / 100

	// 2.5 % mensual expresado directamente como tasa periódica...
	periodic := financing.NewCalculator(financing.RatePeriodic)
	s, err := periodic.ComputeSchedule(dec("9000000"), dec("2.5"), 12, financing.Monthly, start)
	require.NoError(t, err)
	assert.Equal(t, financing.MethodCompound, s.Method)
	assert.InDelta(t, want, s.PeriodicPayment.InexactFloat64(), 0.011)
	require.Len(t, s.Installments, 12)
	assert.True(t, s.Installments[11].RemainingBalance.IsZero())
	assert.True(t, s.Installments[0].InterestPortion.Equal(dec("225000")))

	// ...o como 30 % nominal anual con la convención anual: mismo resultado.
	annual := financing.NewCalculator(financing.RateAnnual)
	s2, err := annual.ComputeSchedule(dec("9000000"), dec("30"), 12, financing.Monthly, start)
	require.NoError(t, err)
	assert.True(t, s.PeriodicPayment.Equal(s2.PeriodicPayment))
}

func TestComputeSchedule_EscenarioB_SinInteres(t *testing.T) {
	calc := financing.NewCalculator(financing.RateAnnual)
	s, err := calc.ComputeSchedule(dec("1000000"), decimal.Zero, 4, financing.Monthly, start)
	require.NoError(t, err)

	require.Len(t, s.Installments, 4)
	balances := []string{"750000", "500000", "250000", "0"}
	for i, in := range s.Installments {
		assert.True(t, in.TotalPayment.Equal(dec("250000")), "cuota %d", in.Index)
		assert.True(t, in.RemainingBalance.Equal(dec(balances[i])), "saldo cuota %d", in.Index)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Bordes y precondiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeSchedule_MontoCeroOCeroCuotas_PlanVacio(t *testing.T) {
	calc := financing.NewCalculator(financing.RateAnnual)

	s, err := calc.ComputeSchedule(decimal.Zero, dec("20"), 12, financing.Monthly, start)
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.True(t, s.PeriodicPayment.IsZero())

	s, err = calc.ComputeSchedule(dec("500000"), dec("20"), 0, financing.Monthly, start)
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestComputeSchedule_PotenciaInestable_UsaDivisionLineal(t *testing.T) {
	calc := financing.NewCalculator(financing.RatePeriodic)
	// (1.5)^365 desborda cualquier cota razonable.
	s, err := calc.ComputeSchedule(dec("3650000"), dec("50"), 365, financing.Daily, start)
	require.NoError(t, err)

	assert.Equal(t, financing.MethodLinearFallback, s.Method)
	assert.True(t, s.PeriodicPayment.Equal(dec("10000")))
	assert.True(t, s.TotalInterest().IsZero())
	assert.True(t, sumPrincipal(s).Equal(dec("3650000")))
}

func TestComputeSchedule_Precondiciones(t *testing.T) {
	calc := financing.NewCalculator(financing.RateAnnual)

	_, err := calc.ComputeSchedule(dec("-1"), dec("10"), 12, financing.Monthly, start)
	assert.True(t, errors.Is(err, domain.ErrPrecondition))

	_, err = calc.ComputeSchedule(dec("100"), dec("10"), -3, financing.Monthly, start)
	assert.True(t, errors.Is(err, domain.ErrPrecondition))

	_, err = calc.ComputeSchedule(dec("100"), dec("-10"), 3, financing.Monthly, start)
	assert.True(t, errors.Is(err, domain.ErrPrecondition))

	_, err = calc.ComputeSchedule(dec("100"), dec("10"), 3, financing.Frequency("yearly"), start)
	assert.True(t, errors.Is(err, domain.ErrPrecondition))
	assert.False(t, errors.Is(err, domain.ErrValidation), "una precondición no es un error de validación")
}

func TestComputeSchedule_FechasPorPeriodicidad(t *testing.T) {
	calc := financing.NewCalculator(financing.RateAnnual)

	s, err := calc.ComputeSchedule(dec("300"), decimal.Zero, 3, financing.Monthly, start)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), s.Installments[0].DueDate)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), s.Installments[1].DueDate)
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), s.Installments[2].DueDate)

	s, err = calc.ComputeSchedule(dec("300"), decimal.Zero, 2, financing.Biweekly, start)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 15), s.Installments[0].DueDate)
	assert.Equal(t, start.AddDate(0, 0, 30), s.Installments[1].DueDate)

	s, err = calc.ComputeSchedule(dec("300"), decimal.Zero, 2, financing.Weekly, start)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 14), s.Installments[1].DueDate)
}
