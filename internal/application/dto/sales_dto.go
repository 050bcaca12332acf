package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
	"github.com/jhoicas/concesionario-api/internal/domain/workflow"
)

// StartSessionRequest body para POST /api/sales/sessions. Con DraftID se retoma un borrador.
type StartSessionRequest struct {
	DraftID string `json:"draft_id,omitempty"`
}

// SessionResponse estado completo de una sesión de venta.
type SessionResponse struct {
	ID                string             `json:"id"`
	DraftID           string             `json:"draft_id"`
	Revision          int64              `json:"revision"`
	SavedRevision     int64              `json:"saved_revision"`
	CurrentStep       int                `json:"current_step"`
	Steps             []workflow.Status  `json:"steps"`
	RequiredDocuments []string           `json:"required_documents"`
	Documents         []sale.Document    `json:"documents"`
	Configuration     sale.Configuration `json:"configuration"`
	Summary           *FinancingSummary  `json:"financing_summary,omitempty"`
}

// FinancingSummary totales del plan de pagos vigente.
type FinancingSummary struct {
	FinancedAmount    decimal.Decimal  `json:"financed_amount"`
	PeriodicPayment   decimal.Decimal  `json:"periodic_payment"`
	TotalPaid         decimal.Decimal  `json:"total_paid"`
	TotalInterest     decimal.Decimal  `json:"total_interest"`
	TotalWithInterest decimal.Decimal  `json:"total_with_interest"`
	Method            financing.Method `json:"method"`
}

// SetCustomerRequest body para PUT /customer. Se acepta el ID o el documento del cliente.
type SetCustomerRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// SetGuarantorRequest body para PUT /guarantor.
// needs_guarantor=false quita el fiador; kind=existing usa id; kind=new usa los datos personales.
type SetGuarantorRequest struct {
	NeedsGuarantor *bool  `json:"needs_guarantor,omitempty"`
	Kind           string `json:"kind,omitempty"`
	ID             string `json:"id,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// AddItemRequest body para POST /items.
type AddItemRequest struct {
	SourceKind      string `json:"source_kind"`
	ReferenceID     string `json:"reference_id"`
	Color           string `json:"color,omitempty"`
	ChassisRecordID string `json:"chassis_record_id,omitempty"`
	Chassis         string `json:"chassis,omitempty"`
	Quantity        int    `json:"quantity"`
}

// UpdateItemRequest body para PATCH /items/:index. Campos nulos no cambian.
type UpdateItemRequest struct {
	Quantity        *int             `json:"quantity,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	Color           *string          `json:"color,omitempty"`
	ChassisRecordID *string          `json:"chassis_record_id,omitempty"`
	Chassis         *string          `json:"chassis,omitempty"`
}

// SetPaymentRequest body para PUT /payment. Para contado solo se usa payment_type.
type SetPaymentRequest struct {
	PaymentType      string          `json:"payment_type"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	InstallmentCount int             `json:"installment_count"`
	Frequency        string          `json:"frequency"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
}

// SelectDocumentsRequest body para PUT /documents.
type SelectDocumentsRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

// SetNotesRequest body para PUT /notes.
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// GoToStepRequest body para POST /step: índice, ID de paso o dirección ("next" | "back").
type GoToStepRequest struct {
	Step      *int   `json:"step,omitempty"`
	StepID    string `json:"step_id,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// SaveDraftResponse resultado de POST /draft.
type SaveDraftResponse struct {
	DraftID  string `json:"draft_id"`
	Saved    bool   `json:"saved"` // false = sin cambios desde el último guardado
	Revision int64  `json:"revision"`
}

// FinalizeResponse venta creada y la solicitud enviada.
type FinalizeResponse struct {
	SaleID     string          `json:"sale_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Submission sale.Submission `json:"submission"`
}

// SimulateRequest body para POST /api/financing/simulate.
type SimulateRequest struct {
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	InstallmentCount int             `json:"installment_count"`
	Frequency        string          `json:"frequency"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
}

// SimulateResponse plan de pagos simulado.
type SimulateResponse struct {
	Schedule financing.Schedule `json:"schedule"`
	Summary  FinancingSummary   `json:"summary"`
}
