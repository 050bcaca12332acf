package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

// SetCustomer asocia el cliente por ID o por documento; debe existir en la empresa.
func (uc *SaleUseCase) SetCustomer(ctx context.Context, companyID, sessionID string, in dto.SetCustomerRequest) (*dto.SessionResponse, error) {
	id := strings.TrimSpace(in.CustomerID)
	taxID := strings.TrimSpace(in.TaxID)
	if id == "" && taxID == "" {
		return nil, domain.NewValidationError("customer_id", "debe indicar el cliente o su documento")
	}
	customerID, err := uc.findCustomerID(ctx, companyID, id, taxID)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, companyID, sessionID, sale.SetCustomer{CustomerID: customerID})
}

func (uc *SaleUseCase) findCustomerID(ctx context.Context, companyID, id, taxID string) (string, error) {
	if id != "" {
		c, err := uc.customerRepo.GetByID(ctx, companyID, id)
		if err != nil {
			return "", fmt.Errorf("leer cliente: %w", err)
		}
		if c == nil || c.CompanyID != companyID {
			return "", domain.NewValidationError("customer_id", "el cliente no existe")
		}
		return c.ID, nil
	}
	c, err := uc.customerRepo.GetByCompanyAndTaxID(ctx, companyID, taxID)
	if err != nil {
		return "", fmt.Errorf("leer cliente: %w", err)
	}
	if c == nil {
		return "", domain.NewValidationError("tax_id", "no hay un cliente con ese documento")
	}
	return c.ID, nil
}

// SetGuarantor marca si la venta lleva fiador y registra el fiador existente o nuevo.
func (uc *SaleUseCase) SetGuarantor(ctx context.Context, companyID, sessionID string, in dto.SetGuarantorRequest) (*dto.SessionResponse, error) {
	if in.NeedsGuarantor != nil && !*in.NeedsGuarantor {
		return uc.apply(ctx, companyID, sessionID, sale.SetNeedsGuarantor{Needs: false})
	}
	switch sale.GuarantorKind(in.Kind) {
	case "":
		return uc.apply(ctx, companyID, sessionID, sale.SetNeedsGuarantor{Needs: true})
	case sale.GuarantorKindExisting:
		g, err := uc.guarantorRepo.GetByID(ctx, companyID, strings.TrimSpace(in.ID))
		if err != nil {
			return nil, fmt.Errorf("leer fiador: %w", err)
		}
		if g == nil || g.CompanyID != companyID {
			return nil, domain.NewValidationError("guarantor.id", "el fiador no existe")
		}
		return uc.apply(ctx, companyID, sessionID, sale.SetGuarantor{Guarantor: sale.ExistingGuarantor{ID: g.ID}})
	case sale.GuarantorKindNew:
		return uc.apply(ctx, companyID, sessionID, sale.SetGuarantor{Guarantor: sale.NewGuarantor{
			TaxID:     strings.TrimSpace(in.TaxID),
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Address:   strings.TrimSpace(in.Address),
			Phone:     strings.TrimSpace(in.Phone),
		}})
	default:
		return nil, domain.NewValidationError("guarantor.kind", fmt.Sprintf("tipo de fiador desconocido %q", in.Kind))
	}
}

// AddItem agrega un producto a la venta.
func (uc *SaleUseCase) AddItem(ctx context.Context, companyID, sessionID string, in dto.AddItemRequest) (*dto.SessionResponse, error) {
	kind := pricing.SourceKind(in.SourceKind)
	if !kind.Valid() {
		return nil, domain.NewValidationError("source_kind", fmt.Sprintf("origen desconocido %q", in.SourceKind))
	}
	if strings.TrimSpace(in.ReferenceID) == "" {
		return nil, domain.NewValidationError("reference_id", "debe indicar el producto")
	}
	return uc.apply(ctx, companyID, sessionID, sale.AddItem{
		Selection: pricing.Selection{
			Kind:        kind,
			ReferenceID: strings.TrimSpace(in.ReferenceID),
			Color:       strings.TrimSpace(in.Color),
			Chassis:     pricing.ChassisSelection{RecordID: in.ChassisRecordID, Identifier: in.Chassis},
		},
		Quantity: in.Quantity,
	})
}

// UpdateItem modifica la línea index.
func (uc *SaleUseCase) UpdateItem(ctx context.Context, companyID, sessionID string, index int, in dto.UpdateItemRequest) (*dto.SessionResponse, error) {
	patch := sale.ItemPatch{Quantity: in.Quantity, UnitPrice: in.UnitPrice, Color: in.Color}
	if in.ChassisRecordID != nil || in.Chassis != nil {
		ch := pricing.ChassisSelection{}
		if in.ChassisRecordID != nil {
			ch.RecordID = *in.ChassisRecordID
		}
		if in.Chassis != nil {
			ch.Identifier = *in.Chassis
		}
		patch.Chassis = &ch
	}
	return uc.apply(ctx, companyID, sessionID, sale.UpdateItem{Index: index, Patch: patch})
}

// RemoveItem quita la línea index.
func (uc *SaleUseCase) RemoveItem(ctx context.Context, companyID, sessionID string, index int) (*dto.SessionResponse, error) {
	return uc.apply(ctx, companyID, sessionID, sale.RemoveItem{Index: index})
}

// SetPayment elige contado, o crédito con sus condiciones.
func (uc *SaleUseCase) SetPayment(ctx context.Context, companyID, sessionID string, in dto.SetPaymentRequest) (*dto.SessionResponse, error) {
	switch sale.PaymentType(in.PaymentType) {
	case sale.PaymentCash:
		return uc.apply(ctx, companyID, sessionID, sale.SetPaymentType{Type: sale.PaymentCash})
	case sale.PaymentFinanced:
		input := financingInput(in.DownPayment, in.InterestRate, in.InstallmentCount, in.Frequency, in.StartDate)
		return uc.apply(ctx, companyID, sessionID, sale.SetFinancing{Input: input})
	default:
		return nil, domain.NewValidationError("payment_type", fmt.Sprintf("forma de pago desconocida %q", in.PaymentType))
	}
}

// SelectDocuments reemplaza los documentos seleccionados.
func (uc *SaleUseCase) SelectDocuments(ctx context.Context, companyID, sessionID string, in dto.SelectDocumentsRequest) (*dto.SessionResponse, error) {
	return uc.apply(ctx, companyID, sessionID, sale.SelectDocuments{IDs: in.DocumentIDs})
}

// SetNotes reemplaza las observaciones.
func (uc *SaleUseCase) SetNotes(ctx context.Context, companyID, sessionID string, in dto.SetNotesRequest) (*dto.SessionResponse, error) {
	return uc.apply(ctx, companyID, sessionID, sale.SetNotes{Notes: in.Notes})
}

// GoToStep navega por índice, por ID de paso o en una dirección.
func (uc *SaleUseCase) GoToStep(ctx context.Context, companyID, sessionID string, in dto.GoToStepRequest) (*dto.SessionResponse, error) {
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	current := sess.Snapshot().CurrentStep
	var target int
	switch {
	case in.Step != nil:
		target = *in.Step
	case in.StepID != "":
		idx, ok := uc.workflow.Index(in.StepID)
		if !ok {
			return nil, domain.NewValidationError("step_id", fmt.Sprintf("paso desconocido %q", in.StepID))
		}
		target = idx
	case in.Direction == "next":
		target = current + 1
		if target > uc.workflow.Terminal() {
			target = uc.workflow.Terminal()
		}
	case in.Direction == "back":
		target = uc.workflow.Back(current)
	default:
		return nil, domain.NewValidationError("step", "debe indicar el paso o la dirección (next | back)")
	}
	return uc.apply(ctx, companyID, sessionID, sale.GoToStep{Step: target})
}

// financingInput arma las condiciones. Una periodicidad ilegible se deja tal cual para que la
// validación la reporte junto con los demás campos.
func financingInput(down, rate decimal.Decimal, count int, freq string, start *time.Time) sale.FinancingInput {
	f, err := financing.ParseFrequency(freq)
	if err != nil {
		f = financing.Frequency(freq)
	}
	in := sale.FinancingInput{
		DownPayment:      down,
		InterestRate:     rate,
		InstallmentCount: count,
		Frequency:        f,
	}
	if start != nil {
		in.StartDate = *start
	}
	return in
}
