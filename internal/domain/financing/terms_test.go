package financing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/domain/financing"
)

func TestTerms_ValidateReportaTodosLosCampos(t *testing.T) {
	terms := financing.Terms{
		TotalAmount:      dec("1000000"),
		DownPayment:      dec("1000000"),
		InterestRate:     dec("150"),
		InstallmentCount: 0,
		Frequency:        "yearly",
	}
	ve := terms.Validate(dec("100"))
	require.NotNil(t, ve)
	for _, f := range []string{"down_payment", "interest_rate", "installment_count", "frequency"} {
		assert.True(t, ve.Has(f), "debe reportar %s", f)
	}
}

func TestTerms_ValidateSinTecho(t *testing.T) {
	terms := financing.Terms{
		TotalAmount:      dec("1000000"),
		DownPayment:      decimal.Zero,
		InterestRate:     dec("500"),
		InstallmentCount: 12,
		Frequency:        financing.Monthly,
	}
	assert.Nil(t, terms.Validate(decimal.Zero))
	assert.True(t, terms.FinancedAmount().Equal(dec("1000000")))
}

func TestParseFrequency_AceptaEspanol(t *testing.T) {
	f, err := financing.ParseFrequency("Quincenal")
	require.NoError(t, err)
	assert.Equal(t, financing.Biweekly, f)
	assert.Equal(t, 24, f.PeriodsPerYear())

	_, err = financing.ParseFrequency("anual")
	assert.Error(t, err)
}

func TestRateConvention_PeriodicRate(t *testing.T) {
	assert.True(t, financing.RateAnnual.PeriodicRate(dec("24"), financing.Monthly).Equal(dec("0.02")))
	assert.True(t, financing.RatePeriodic.PeriodicRate(dec("2"), financing.Monthly).Equal(dec("0.02")))

	c, err := financing.ParseRateConvention("")
	require.NoError(t, err)
	assert.Equal(t, financing.RateAnnual, c)
}
