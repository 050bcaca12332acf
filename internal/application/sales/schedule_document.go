package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// ScheduleDocument genera el PDF del plan de pagos vigente de la sesión.
func (uc *SaleUseCase) ScheduleDocument(ctx context.Context, companyID, sessionID string) ([]byte, error) {
	if uc.docs == nil {
		return nil, fmt.Errorf("%w: generador de documentos no configurado", domain.ErrPrecondition)
	}
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	cfg := sess.Snapshot()
	if !cfg.HasSchedule() {
		return nil, domain.NewValidationError("schedule", "la venta no tiene un plan de pagos")
	}
	doc := ScheduleDocument{
		CompanyName:   uc.cfg.DealerName,
		Configuration: cfg,
		GeneratedAt:   uc.now(),
	}
	if cfg.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, companyID, cfg.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("leer cliente: %w", err)
		}
		doc.Customer = customer
	}
	pdf, err := uc.docs.GenerateSchedule(doc)
	if err != nil {
		return nil, fmt.Errorf("generar plan de pagos: %w", err)
	}
	return pdf, nil
}
