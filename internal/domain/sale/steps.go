package sale

import (
	"github.com/jhoicas/concesionario-api/internal/domain/workflow"
)

// Pasos del asistente de venta.
const (
	StepCustomer  = "customer"
	StepGuarantor = "guarantor"
	StepItems     = "items"
	StepPayment   = "payment"
	StepDocuments = "documents"
	StepReview    = "review"
)

// Workflow asistente de venta: motor de pasos más la política de documentos que usa.
type Workflow struct {
	*workflow.Engine[Configuration]
	Policy DocumentPolicy
}

// NewWorkflow arma los pasos de la venta. requireChassis exige chasis en las líneas de modelo
// para completar el paso de productos.
func NewWorkflow(policy DocumentPolicy, requireChassis bool) (*Workflow, error) {
	engine, err := workflow.NewEngine(
		workflow.Step[Configuration]{
			ID:       StepCustomer,
			Title:    "Cliente",
			Complete: func(c Configuration) bool { return c.CustomerID != "" },
		},
		workflow.Step[Configuration]{
			ID:       StepGuarantor,
			Title:    "Fiador",
			Required: func(c Configuration) bool { return c.NeedsGuarantor },
			Complete: func(c Configuration) bool {
				return c.Guarantor != nil && c.Guarantor.Validate() == nil
			},
		},
		workflow.Step[Configuration]{
			ID:    StepItems,
			Title: "Productos",
			Complete: func(c Configuration) bool {
				if c.Composition.Len() == 0 {
					return false
				}
				if !requireChassis {
					return true
				}
				for _, it := range c.Composition.Items() {
					if !it.HasChassis() {
						return false
					}
				}
				return true
			},
		},
		workflow.Step[Configuration]{
			ID:    StepPayment,
			Title: "Forma de pago",
			Complete: func(c Configuration) bool {
				switch c.PaymentType {
				case PaymentCash:
					return true
				case PaymentFinanced:
					return c.HasSchedule()
				}
				return false
			},
		},
		workflow.Step[Configuration]{
			ID:       StepDocuments,
			Title:    "Documentos",
			Required: func(c Configuration) bool { return len(policy.Required(c)) > 0 },
			Complete: func(c Configuration) bool { return len(policy.Missing(c)) == 0 },
		},
		workflow.Step[Configuration]{
			ID:       StepReview,
			Title:    "Revisión",
			Required: func(Configuration) bool { return false },
		},
	)
	if err != nil {
		return nil, err
	}
	return &Workflow{Engine: engine, Policy: policy}, nil
}
