package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
)

// FinancingUseCase simulador de crédito para cotizaciones rápidas, sin sesión.
type FinancingUseCase struct {
	calc    financing.Calculator
	maxRate decimal.Decimal
	now     func() time.Time
}

// NewFinancingUseCase construye el simulador con la convención de tasa configurada.
func NewFinancingUseCase(cfg Config) *FinancingUseCase {
	return &FinancingUseCase{
		calc:    financing.NewCalculator(cfg.RateConvention),
		maxRate: cfg.MaxInterestRate,
		now:     time.Now,
	}
}

// Simulate calcula el plan de pagos para un total y unas condiciones.
func (uc *FinancingUseCase) Simulate(in dto.SimulateRequest) (*dto.SimulateResponse, error) {
	input := financingInput(in.DownPayment, in.InterestRate, in.InstallmentCount, in.Frequency, in.StartDate)
	if input.StartDate.IsZero() {
		input.StartDate = uc.now()
	}
	terms := input.Terms(in.TotalAmount.Round(2))

	ve := &domain.ValidationError{}
	if !terms.TotalAmount.IsPositive() {
		ve.Add("total_amount", "el total debe ser mayor que cero")
	}
	if fe := terms.Validate(uc.maxRate); fe != nil {
		for _, f := range fe.Fields {
			if !ve.Has(f.Field) {
				ve.Add(f.Field, f.Message)
			}
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	sched, err := terms.Schedule(uc.calc)
	if err != nil {
		return nil, err
	}
	return &dto.SimulateResponse{Schedule: sched, Summary: summarize(terms.DownPayment, sched)}, nil
}
