package sale

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
)

const maxNotesLength = 2000

// Event acción del usuario sobre la configuración. Conjunto cerrado: ver los tipos de este archivo.
type Event interface {
	apply(c Configuration, env Env) (Configuration, error)
}

// SetCustomer asocia el cliente.
type SetCustomer struct{ CustomerID string }

func (e SetCustomer) apply(c Configuration, _ Env) (Configuration, error) {
	id := strings.TrimSpace(e.CustomerID)
	if id == "" {
		return c, domain.NewValidationError("customer_id", "debe indicar el cliente")
	}
	c.CustomerID = id
	return c, nil
}

// SetNeedsGuarantor marca si la venta requiere fiador.
type SetNeedsGuarantor struct{ Needs bool }

func (e SetNeedsGuarantor) apply(c Configuration, _ Env) (Configuration, error) {
	c.NeedsGuarantor = e.Needs
	if !e.Needs {
		c.Guarantor = nil
	}
	return c, nil
}

// SetGuarantor registra el fiador (existente o nuevo) y marca la venta como con fiador.
type SetGuarantor struct{ Guarantor Guarantor }

func (e SetGuarantor) apply(c Configuration, _ Env) (Configuration, error) {
	if e.Guarantor == nil {
		return c, domain.NewValidationError("guarantor", "debe indicar el fiador")
	}
	if ve := e.Guarantor.Validate(); ve != nil {
		return c, ve
	}
	c.Guarantor = e.Guarantor
	c.NeedsGuarantor = true
	return c, nil
}

// AddItem agrega una selección resuelta con el cotizador del entorno.
type AddItem struct {
	Selection pricing.Selection
	Quantity  int
}

func (e AddItem) apply(c Configuration, env Env) (Configuration, error) {
	item, err := NewLineItem(e.Selection, e.Quantity, env.Quoter)
	if err != nil {
		return c, err
	}
	comp, err := c.Composition.AddItem(item)
	if err != nil {
		return c, err
	}
	c.Composition = comp
	return c, nil
}

// UpdateItem modifica la línea Index.
type UpdateItem struct {
	Index int
	Patch ItemPatch
}

func (e UpdateItem) apply(c Configuration, env Env) (Configuration, error) {
	comp, err := c.Composition.UpdateItem(e.Index, e.Patch, env.Quoter)
	if err != nil {
		return c, err
	}
	c.Composition = comp
	return c, nil
}

// RemoveItem quita la línea Index.
type RemoveItem struct{ Index int }

func (e RemoveItem) apply(c Configuration, _ Env) (Configuration, error) {
	comp, err := c.Composition.RemoveItem(e.Index)
	if err != nil {
		return c, err
	}
	c.Composition = comp
	return c, nil
}

// SetPaymentType elige contado o crédito. Las condiciones de crédito ya ingresadas se conservan.
type SetPaymentType struct{ Type PaymentType }

func (e SetPaymentType) apply(c Configuration, _ Env) (Configuration, error) {
	if !e.Type.Valid() {
		return c, domain.NewValidationError("payment_type", fmt.Sprintf("forma de pago desconocida %q", e.Type))
	}
	c.PaymentType = e.Type
	return c, nil
}

// SetFinancing fija las condiciones de crédito y pasa la venta a financiada.
type SetFinancing struct{ Input FinancingInput }

func (e SetFinancing) apply(c Configuration, env Env) (Configuration, error) {
	in := e.Input
	if in.StartDate.IsZero() {
		in.StartDate = env.now()
	}
	if ve := in.Terms(c.Composition.Total()).Validate(env.MaxInterestRate); ve != nil {
		return c, ve
	}
	c.Financing = &in
	c.PaymentType = PaymentFinanced
	return c, nil
}

// SelectDocuments reemplaza la selección de documentos.
type SelectDocuments struct{ IDs []string }

func (e SelectDocuments) apply(c Configuration, env Env) (Configuration, error) {
	policy := env.policy()
	ve := &domain.ValidationError{}
	seen := make(map[string]bool, len(e.IDs))
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		if !policy.Known(id) {
			ve.Add("selected_document_ids", fmt.Sprintf("documento desconocido %q", id))
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if !ve.Empty() {
		return c, ve
	}
	c.SelectedDocumentIDs = ids
	return c, nil
}

// SetNotes reemplaza las observaciones.
type SetNotes struct{ Notes string }

func (e SetNotes) apply(c Configuration, _ Env) (Configuration, error) {
	if utf8.RuneCountInString(e.Notes) > maxNotesLength {
		return c, domain.NewValidationError("notes", fmt.Sprintf("las observaciones superan %d caracteres", maxNotesLength))
	}
	c.Notes = e.Notes
	return c, nil
}

// GoToStep navega al paso Step si todos los requeridos anteriores están completos.
type GoToStep struct{ Step int }

func (e GoToStep) apply(c Configuration, env Env) (Configuration, error) {
	if env.Workflow == nil {
		return c, fmt.Errorf("%w: flujo de pasos requerido", domain.ErrPrecondition)
	}
	k, err := env.Workflow.Jump(c, e.Step)
	if err != nil {
		return c, err
	}
	c.CurrentStep = k
	return c, nil
}
