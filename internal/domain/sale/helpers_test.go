package sale_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

var today = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func catalogWithStock(red int) *pricing.StaticCatalog {
	model := &entity.VehicleModel{
		ID:            "M",
		Name:          "NKD 125",
		BasePrice:     dec("2000000"),
		ColorStock:    map[string]int{"red": red, "black": 2},
		ColorDiscount: map[string]decimal.Decimal{"red": dec("10")},
		Chassis: []entity.ChassisRecord{
			{ID: "CH-2", ModelID: "M", Color: "red", Chassis: "9C2KC1670LR000002", Stock: 1},
			{ID: "CH-4", ModelID: "M", Color: "black", Chassis: "9C2KC1670LR000004", Stock: 1},
		},
	}
	unit := &entity.IndividualUnit{ID: "U-1", Description: "Boxer CT100 usada", Price: dec("3500000"), Color: "white", ChassisID: "MD2A18AZ5KWA00001", Available: true}
	return pricing.NewStaticCatalog([]*entity.VehicleModel{model}, []*entity.IndividualUnit{unit})
}

func testQuoter() sale.Quoter { return pricing.NewResolver(catalogWithStock(5)) }

func testEnv(t *testing.T) sale.Env {
	t.Helper()
	wf, err := sale.NewWorkflow(sale.DefaultDocumentPolicy(), true)
	require.NoError(t, err)
	return sale.Env{
		Quoter:          testQuoter(),
		Calculator:      financing.NewCalculator(financing.RatePeriodic),
		MaxInterestRate: dec("100"),
		Workflow:        wf,
		Now:             func() time.Time { return today },
	}
}

func redModel(chassis pricing.ChassisSelection) pricing.Selection {
	return pricing.Selection{Kind: pricing.SourceModel, ReferenceID: "M", Color: "red", Chassis: chassis}
}

func mustApply(t *testing.T, c sale.Configuration, env sale.Env, events ...sale.Event) sale.Configuration {
	t.Helper()
	for _, ev := range events {
		var err error
		c, err = sale.Apply(c, ev, env)
		require.NoError(t, err, "evento %T", ev)
	}
	return c
}

func monthlyFinancing(down string) sale.FinancingInput {
	return sale.FinancingInput{
		DownPayment:      dec(down),
		InterestRate:     dec("2.5"),
		InstallmentCount: 12,
		Frequency:        financing.Monthly,
	}
}
