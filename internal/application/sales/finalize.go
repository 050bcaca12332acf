package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

// Finalize valida la venta, la revalida contra el inventario actual y la registra. Si el registro
// falla la sesión queda intacta para corregir y reintentar.
func (uc *SaleUseCase) Finalize(ctx context.Context, companyID, sessionID string) (*dto.FinalizeResponse, error) {
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.finalizing.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: la venta ya se está registrando", domain.ErrConflict)
	}
	defer sess.finalizing.Store(false)

	cfg := sess.Snapshot()
	sub, err := sale.Finalize(cfg, uc.workflow)
	if err != nil {
		return nil, err
	}

	// El inventario pudo cambiar desde que se agregaron las líneas.
	items := cfg.Composition.Items()
	sels := make([]pricing.Selection, 0, len(items))
	for _, it := range items {
		sels = append(sels, it.Selection())
	}
	quoter, err := uc.catalogQuoter(ctx, companyID, sels)
	if err != nil {
		return nil, err
	}
	if err := sale.Revalidate(cfg, quoter); err != nil {
		return nil, err
	}

	created, err := uc.saleRepo.Create(ctx, companyID, sub)
	if err != nil {
		uc.log.Warn().Err(err).Str("session_id", sess.ID).Msg("registro de venta fallido")
		return nil, err
	}

	uc.sessions.Delete(sess.ID)
	sess.close()
	if sess.SavedRevision() >= 0 {
		if err := uc.draftRepo.Delete(ctx, companyID, cfg.DraftID); err != nil {
			uc.log.Warn().Err(err).Str("draft_id", cfg.DraftID).Msg("no se pudo borrar el borrador de una venta registrada")
		}
	}

	uc.log.Info().
		Str("session_id", sess.ID).
		Str("sale_id", created.ID).
		Str("sale_type", string(sub.SaleType)).
		Str("total", sub.Payment.TotalAmount.String()).
		Int64("revision", cfg.Revision).
		Msg("venta registrada")
	return &dto.FinalizeResponse{SaleID: created.ID, CreatedAt: created.CreatedAt, Submission: sub}, nil
}
