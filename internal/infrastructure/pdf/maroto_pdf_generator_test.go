package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/pdf"
)

func TestMarotoPDFGenerator_PlanDePagos(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	sched, err := financing.NewCalculator(financing.RatePeriodic).
		ComputeSchedule(decimal.NewFromInt(1000000), decimal.Zero, 4, financing.Monthly, start)
	require.NoError(t, err)

	cfg := sale.New("EMP-1")
	cfg.CustomerID = "C-1"
	cfg.PaymentType = sale.PaymentFinanced
	cfg.TotalAmount = decimal.NewFromInt(1000000)
	cfg.Financing = &sale.FinancingInput{
		DownPayment: decimal.Zero, InterestRate: decimal.Zero, InstallmentCount: 4,
		Frequency: financing.Monthly, StartDate: start,
	}
	cfg.Schedule = &sched

	out, err := pdf.NewMarotoPDFGenerator().GenerateSchedule(sales.ScheduleDocument{
		CompanyName:   "Motos del Valle",
		Customer:      &entity.Customer{TaxID: "1020304050", FirstName: "Laura", LastName: "Gómez"},
		Configuration: cfg,
		GeneratedAt:   start,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoPDFGenerator_SinPlan(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateSchedule(sales.ScheduleDocument{Configuration: sale.New("EMP-1")})
	assert.Error(t, err)
}
