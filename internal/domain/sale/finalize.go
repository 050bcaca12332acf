package sale

import (
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// Finalize verifica los prerrequisitos de envío y arma la solicitud. Si algo falta devuelve un
// único ValidationError que nombra todos los problemas.
func Finalize(c Configuration, w *Workflow) (Submission, error) {
	if w == nil {
		return Submission{}, fmt.Errorf("%w: flujo de pasos requerido", domain.ErrPrecondition)
	}
	ve := &domain.ValidationError{}
	if c.CustomerID == "" {
		ve.Add(StepCustomer, "debe asociar un cliente a la venta")
	}
	if c.Composition.Len() == 0 {
		ve.Add(StepItems, "la venta no tiene productos")
	}
	switch c.PaymentType {
	case PaymentCash:
	case PaymentFinanced:
		if !c.HasSchedule() {
			ve.Add("schedule", "la venta financiada no tiene un plan de pagos válido")
		}
	default:
		ve.Add(StepPayment, "debe elegir la forma de pago")
	}
	for _, s := range w.Incomplete(c) {
		if ve.Has(s.ID) || (s.ID == StepPayment && ve.Has("schedule")) {
			continue
		}
		ve.Add(s.ID, "paso requerido incompleto: "+s.Title)
	}
	if !ve.Empty() {
		return Submission{}, ve
	}
	return buildSubmission(c), nil
}

// Revalidate vuelve a resolver cada línea con datos frescos de inventario y reporta las que ya no
// se pueden vender en la cantidad pedida.
func Revalidate(c Configuration, q Quoter) error {
	if q == nil {
		return fmt.Errorf("%w: resolvedor de precios requerido", domain.ErrPrecondition)
	}
	ve := &domain.ValidationError{}
	items := c.Composition.Items()
	stock := make([]int, len(items))
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		quote, err := q.Resolve(it.Selection())
		if err != nil {
			if fe, ok := domain.AsValidation(err); ok {
				for _, f := range fe.Fields {
					ve.Add(field+"."+f.Field, f.Message)
				}
				stock[i] = -1
				continue
			}
			return err
		}
		stock[i] = quote.TierStock
		if it.Quantity > quote.MaxQuantity {
			ve.Add(field+".quantity",
				fmt.Sprintf("%s: solo quedan %d unidades (pedidas %d)", it.Description, quote.MaxQuantity, it.Quantity))
		}
	}
	// Las líneas del mismo modelo y color comparten stock aunque difiera el chasis.
	if tv := checkTiers(items, stock); tv != nil {
		for _, f := range tv.Fields {
			if !ve.Has(f.Field) {
				ve.Add(f.Field, f.Message)
			}
		}
	}
	return ve.OrNil()
}
