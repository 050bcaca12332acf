package sales

import (
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

// ScheduleDocument datos para imprimir el plan de pagos.
type ScheduleDocument struct {
	CompanyName   string
	Customer      *entity.Customer
	Configuration sale.Configuration
	GeneratedAt   time.Time
}

// ScheduleDocumentGenerator genera el PDF del plan de pagos (implementado en infrastructure/pdf).
type ScheduleDocumentGenerator interface {
	GenerateSchedule(doc ScheduleDocument) ([]byte, error)
}
