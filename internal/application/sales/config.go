package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain/financing"
)

// Config parámetros del módulo de ventas.
type Config struct {
	DealerName       string // encabezado de los documentos impresos
	RateConvention   financing.RateConvention
	MaxInterestRate  decimal.Decimal // porcentaje; cero = sin techo
	AutosaveInterval time.Duration   // cero = sin autoguardado periódico
	SessionTTL       time.Duration   // cero = las sesiones no expiran
	RequireChassis   bool
}

// DefaultConfig valores por defecto.
func DefaultConfig() Config {
	return Config{
		DealerName:       "Concesionario",
		RateConvention:   financing.RateAnnual,
		MaxInterestRate:  decimal.NewFromInt(100),
		AutosaveInterval: 30 * time.Second,
		SessionTTL:       2 * time.Hour,
		RequireChassis:   true,
	}
}
