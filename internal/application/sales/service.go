package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

// SaleUseCase orquesta las sesiones de venta: aplica eventos sobre la configuración, guarda
// borradores y envía la venta al almacén.
type SaleUseCase struct {
	customerRepo  repository.CustomerRepository
	guarantorRepo repository.GuarantorRepository
	inventoryRepo repository.InventoryRepository
	draftRepo     repository.DraftRepository
	saleRepo      repository.SaleRepository
	docs          ScheduleDocumentGenerator

	cfg      Config
	workflow *sale.Workflow
	calc     financing.Calculator
	sessions *SessionStore
	saves    singleflight.Group
	log      *logger.Logger
	now      func() time.Time

	// ctx de vida de los autoguardados; se cancela en Shutdown.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	customerRepo repository.CustomerRepository,
	guarantorRepo repository.GuarantorRepository,
	inventoryRepo repository.InventoryRepository,
	draftRepo repository.DraftRepository,
	saleRepo repository.SaleRepository,
	docs ScheduleDocumentGenerator,
	cfg Config,
	log *logger.Logger,
) (*SaleUseCase, error) {
	wf, err := sale.NewWorkflow(sale.DefaultDocumentPolicy(), cfg.RequireChassis)
	if err != nil {
		return nil, err
	}
	bgCtx, cancel := context.WithCancel(context.Background())
	return &SaleUseCase{
		customerRepo:  customerRepo,
		guarantorRepo: guarantorRepo,
		inventoryRepo: inventoryRepo,
		draftRepo:     draftRepo,
		saleRepo:      saleRepo,
		docs:          docs,
		cfg:           cfg,
		workflow:      wf,
		calc:          financing.NewCalculator(cfg.RateConvention),
		sessions:      NewSessionStore(),
		log:           log,
		now:           time.Now,
		bgCtx:         bgCtx,
		bgCancel:      cancel,
	}, nil
}

// SetClock reemplaza el reloj (pruebas).
func (uc *SaleUseCase) SetClock(now func() time.Time) { uc.now = now }

// Workflow asistente de pasos en uso.
func (uc *SaleUseCase) Workflow() *sale.Workflow { return uc.workflow }

func (uc *SaleUseCase) env(q sale.Quoter) sale.Env {
	return sale.Env{
		Quoter:          q,
		Calculator:      uc.calc,
		MaxInterestRate: uc.cfg.MaxInterestRate,
		Workflow:        uc.workflow,
		Now:             uc.now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida de la sesión
// ──────────────────────────────────────────────────────────────────────────────

// StartSession abre una sesión vacía o, con DraftID, retoma el borrador guardado.
func (uc *SaleUseCase) StartSession(ctx context.Context, companyID, userID string, in dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	var sess *Session
	if in.DraftID == "" {
		cfg := sale.New(companyID)
		cfg.DraftID = uuid.New().String()
		cfg, err := sale.Recompute(cfg, uc.env(nil))
		if err != nil {
			return nil, err
		}
		sess = newSession(uuid.New().String(), companyID, userID, cfg, uc.now())
	} else {
		var err error
		if sess, err = uc.resume(ctx, companyID, userID, in.DraftID); err != nil {
			return nil, err
		}
	}
	uc.sessions.Put(sess)
	uc.ensureAutosave(sess)

	uc.log.Info().
		Str("session_id", sess.ID).
		Str("company_id", companyID).
		Str("draft_id", sess.Snapshot().DraftID).
		Bool("resumed", in.DraftID != "").
		Msg("sesión de venta iniciada")
	return uc.toResponse(sess), nil
}

func (uc *SaleUseCase) resume(ctx context.Context, companyID, userID, draftID string) (*Session, error) {
	draft, err := uc.draftRepo.GetByID(ctx, companyID, draftID)
	if err != nil {
		return nil, fmt.Errorf("leer borrador: %w", err)
	}
	if draft == nil {
		return nil, domain.ErrNotFound
	}
	if draft.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	cfg, err := sale.UnmarshalSnapshot(draft.Snapshot)
	if err != nil {
		return nil, err
	}
	cfg.CompanyID = companyID
	cfg.DraftID = draft.ID
	if cfg, err = sale.Recompute(cfg, uc.env(nil)); err != nil {
		return nil, err
	}
	sess := newSession(uuid.New().String(), companyID, userID, cfg, uc.now())
	sess.savedRevision.Store(cfg.Revision)
	return sess, nil
}

// GetSession estado actual de la sesión.
func (uc *SaleUseCase) GetSession(companyID, sessionID string) (*dto.SessionResponse, error) {
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(sess), nil
}

// DiscardSession abandona la venta: cierra la sesión y borra el borrador si existía.
func (uc *SaleUseCase) DiscardSession(ctx context.Context, companyID, sessionID string) error {
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return err
	}
	uc.sessions.Delete(sess.ID)
	if !sess.close() {
		return domain.ErrNotFound
	}
	if sess.SavedRevision() >= 0 {
		if err := uc.draftRepo.Delete(ctx, companyID, sess.Snapshot().DraftID); err != nil {
			return fmt.Errorf("borrar borrador: %w", err)
		}
	}
	uc.log.Info().Str("session_id", sess.ID).Msg("sesión de venta descartada")
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos
// ──────────────────────────────────────────────────────────────────────────────

// apply aplica el evento sobre la sesión con un cotizador armado con el inventario que el evento
// referencia.
func (uc *SaleUseCase) apply(ctx context.Context, companyID, sessionID string, ev sale.Event) (*dto.SessionResponse, error) {
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	quoter, err := uc.quoterFor(ctx, companyID, sess.Snapshot(), ev)
	if err != nil {
		return nil, err
	}
	env := uc.env(quoter)
	if _, err := sess.Update(func(c sale.Configuration) (sale.Configuration, error) {
		// Descartada o registrada mientras se leía el inventario.
		if sess.isClosed() {
			return c, domain.ErrNotFound
		}
		return sale.Apply(c, ev, env)
	}); err != nil {
		return nil, err
	}
	sess.touch(uc.now())
	uc.ensureAutosave(sess)
	return uc.toResponse(sess), nil
}

// quoterFor carga solo los productos que el evento necesita resolver.
func (uc *SaleUseCase) quoterFor(ctx context.Context, companyID string, cfg sale.Configuration, ev sale.Event) (sale.Quoter, error) {
	var sel pricing.Selection
	switch e := ev.(type) {
	case sale.AddItem:
		sel = e.Selection
	case sale.UpdateItem:
		it, ok := cfg.Composition.Item(e.Index)
		if !ok {
			return nil, nil // el evento reporta el índice inválido
		}
		sel = it.Selection()
	default:
		return nil, nil
	}
	return uc.catalogQuoter(ctx, companyID, []pricing.Selection{sel})
}

func (uc *SaleUseCase) catalogQuoter(ctx context.Context, companyID string, sels []pricing.Selection) (*pricing.Resolver, error) {
	var modelIDs, unitIDs []string
	for _, s := range sels {
		switch s.Kind {
		case pricing.SourceModel:
			modelIDs = append(modelIDs, s.ReferenceID)
		case pricing.SourceIndividualUnit:
			unitIDs = append(unitIDs, s.ReferenceID)
		}
	}
	var (
		models []*entity.VehicleModel
		units  []*entity.IndividualUnit
		err    error
	)
	if len(modelIDs) > 0 {
		if models, err = uc.inventoryRepo.GetModelsByIDs(ctx, companyID, modelIDs); err != nil {
			return nil, fmt.Errorf("leer modelos: %w", err)
		}
	}
	if len(unitIDs) > 0 {
		if units, err = uc.inventoryRepo.GetUnitsByIDs(ctx, companyID, unitIDs); err != nil {
			return nil, fmt.Errorf("leer unidades: %w", err)
		}
	}
	return pricing.NewResolver(pricing.NewStaticCatalog(models, units)), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Borradores
// ──────────────────────────────────────────────────────────────────────────────

// SaveDraft guarda el borrador ahora. Comparte ejecución con un autoguardado en curso.
func (uc *SaleUseCase) SaveDraft(ctx context.Context, companyID, sessionID string) (*dto.SaveDraftResponse, error) {
	sess, err := uc.sessions.Get(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	saved, err := uc.saveDraft(ctx, sess)
	if err != nil {
		return nil, err
	}
	sess.touch(uc.now())
	return &dto.SaveDraftResponse{
		DraftID:  sess.Snapshot().DraftID,
		Saved:    saved,
		Revision: sess.SavedRevision(),
	}, nil
}

type saveResult struct{ saved bool }

// saveDraft persiste la foto actual de la sesión. Guardados concurrentes de la misma sesión se
// unifican (singleflight) y una revisión ya guardada no se vuelve a escribir. Una sesión cerrada
// no escribe.
func (uc *SaleUseCase) saveDraft(ctx context.Context, sess *Session) (bool, error) {
	v, err, _ := uc.saves.Do(sess.ID, func() (interface{}, error) {
		var res saveResult
		_, err := sess.whileOpen(func() error {
			var err error
			res, err = uc.writeDraft(ctx, sess)
			return err
		})
		return res, err
	})
	if err != nil {
		return false, err
	}
	return v.(saveResult).saved, nil
}

// finalDraft último borrador de una sesión recién cerrada por expiración o apagado.
func (uc *SaleUseCase) finalDraft(ctx context.Context, sess *Session) {
	if !sess.Snapshot().CanSaveDraft() {
		return
	}
	if _, err := uc.writeDraft(ctx, sess); err != nil {
		uc.log.Warn().Err(err).Str("session_id", sess.ID).Msg("último borrador no guardado")
	}
}

func (uc *SaleUseCase) writeDraft(ctx context.Context, sess *Session) (saveResult, error) {
	cfg := sess.Snapshot()
	if !cfg.CanSaveDraft() {
		return saveResult{}, domain.NewValidationError(sale.StepCustomer, "el borrador requiere un cliente")
	}
	if cfg.Revision == sess.SavedRevision() {
		return saveResult{}, nil
	}
	snapshot, err := sale.MarshalSnapshot(cfg)
	if err != nil {
		return saveResult{}, fmt.Errorf("serializar borrador: %w", err)
	}
	draft := &entity.SaleDraft{
		ID:         cfg.DraftID,
		CompanyID:  cfg.CompanyID,
		CustomerID: cfg.CustomerID,
		Snapshot:   snapshot,
		SavedAt:    uc.now(),
	}
	if err := uc.draftRepo.Save(ctx, draft); err != nil {
		return saveResult{}, fmt.Errorf("guardar borrador: %w", err)
	}
	sess.savedRevision.Store(cfg.Revision)
	uc.log.Debug().
		Str("session_id", sess.ID).
		Str("draft_id", draft.ID).
		Int64("revision", cfg.Revision).
		Msg("borrador guardado")
	return saveResult{saved: true}, nil
}

// ensureAutosave arranca el autoguardado de la sesión en cuanto tiene cliente.
func (uc *SaleUseCase) ensureAutosave(sess *Session) {
	if uc.cfg.AutosaveInterval <= 0 || !sess.Snapshot().CanSaveDraft() {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed || sess.autosaver != nil {
		return
	}
	zl := uc.log.With().Str("session_id", sess.ID).Logger()
	sess.autosaver = NewAutosaver(uc.cfg.AutosaveInterval, func(ctx context.Context) (bool, error) {
		return uc.saveDraft(ctx, sess)
	}, zl)
	sess.autosaver.Start(uc.bgCtx)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mantenimiento
// ──────────────────────────────────────────────────────────────────────────────

// Run expulsa periódicamente las sesiones inactivas hasta que ctx termina.
func (uc *SaleUseCase) Run(ctx context.Context) {
	if uc.cfg.SessionTTL <= 0 {
		<-ctx.Done()
		return
	}
	period := uc.cfg.SessionTTL / 4
	if period < time.Second {
		period = time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.EvictExpired(ctx)
		}
	}
}

// EvictExpired quita las sesiones que superaron el TTL. Las que tienen cliente dejan un último
// borrador para poder retomarlas.
func (uc *SaleUseCase) EvictExpired(ctx context.Context) int {
	expired := uc.sessions.Expired(uc.now(), uc.cfg.SessionTTL)
	for _, sess := range expired {
		if !sess.close() {
			continue
		}
		uc.finalDraft(ctx, sess)
		uc.log.Info().Str("session_id", sess.ID).Msg("sesión de venta expirada")
	}
	return len(expired)
}

// Shutdown detiene todos los autoguardados y guarda un último borrador de cada sesión con cliente.
func (uc *SaleUseCase) Shutdown(ctx context.Context) {
	for _, sess := range uc.sessions.All() {
		if sess.close() {
			uc.finalDraft(ctx, sess)
		}
	}
	uc.bgCancel()
}

// ──────────────────────────────────────────────────────────────────────────────
// Respuestas
// ──────────────────────────────────────────────────────────────────────────────

func (uc *SaleUseCase) toResponse(sess *Session) *dto.SessionResponse {
	cfg := sess.Snapshot()
	required := uc.workflow.Policy.Required(cfg)
	if required == nil {
		required = []string{}
	}
	resp := &dto.SessionResponse{
		ID:                sess.ID,
		DraftID:           cfg.DraftID,
		Revision:          cfg.Revision,
		SavedRevision:     sess.SavedRevision(),
		CurrentStep:       cfg.CurrentStep,
		Steps:             uc.workflow.Statuses(cfg, cfg.CurrentStep),
		RequiredDocuments: required,
		Documents:         uc.workflow.Policy.Catalog,
		Configuration:     cfg,
	}
	if cfg.HasSchedule() {
		s := summarize(cfg.Financing.DownPayment, *cfg.Schedule)
		resp.Summary = &s
	}
	return resp
}

func summarize(downPayment decimal.Decimal, s financing.Schedule) dto.FinancingSummary {
	paid := s.TotalPaid()
	return dto.FinancingSummary{
		FinancedAmount:    s.FinancedAmount,
		PeriodicPayment:   s.PeriodicPayment,
		TotalPaid:         paid,
		TotalInterest:     s.TotalInterest(),
		TotalWithInterest: downPayment.Round(2).Add(paid),
		Method:            s.Method,
	}
}
