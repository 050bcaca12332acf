package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain/financing"
)

// Env dependencias puras que necesitan los eventos. Quoter debe conocer los productos que el evento
// referencia; la capa de aplicación lo arma antes de aplicar.
type Env struct {
	Quoter          Quoter
	Calculator      financing.Calculator
	MaxInterestRate decimal.Decimal
	Workflow        *Workflow
	Now             func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) policy() DocumentPolicy {
	if e.Workflow != nil {
		return e.Workflow.Policy
	}
	return DefaultDocumentPolicy()
}

// Apply aplica el evento y recalcula los derivados. Si el evento falla devuelve la configuración
// original sin cambios.
func Apply(c Configuration, ev Event, env Env) (Configuration, error) {
	next, err := ev.apply(c, env)
	if err != nil {
		return c, err
	}
	next, err = Recompute(next, env)
	if err != nil {
		return c, err
	}
	next.Revision = c.Revision + 1
	return next, nil
}

// Recompute recalcula el total, el plan de pagos y la posición del asistente. Se invoca tras cada
// evento y al restaurar un borrador.
func Recompute(c Configuration, env Env) (Configuration, error) {
	c.TotalAmount = c.Composition.Total()
	c.Schedule = nil
	c.FinancingIssues = nil

	if c.PaymentType == PaymentFinanced && c.Financing != nil {
		terms := c.Financing.Terms(c.TotalAmount)
		if ve := terms.Validate(env.MaxInterestRate); ve != nil {
			c.FinancingIssues = ve.Fields
		} else {
			sched, err := terms.Schedule(env.Calculator)
			if err != nil {
				return c, err
			}
			c.Schedule = &sched
		}
	}

	// Un cambio puede dejar la posición actual inalcanzable: se retrocede al primer paso que bloquea.
	if w := env.Workflow; w != nil {
		if c.CurrentStep < 0 || c.CurrentStep > w.Terminal() {
			c.CurrentStep = 0
		}
		if blocking := w.Blocking(c, c.CurrentStep); len(blocking) > 0 {
			idx, _ := w.Index(blocking[0].ID)
			c.CurrentStep = idx
		}
	}
	return c, nil
}
