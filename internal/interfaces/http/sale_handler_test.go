package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
	apphttp "github.com/jhoicas/concesionario-api/internal/interfaces/http"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memCustomers struct{}

func (memCustomers) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	if companyID == testCompanyID && id == "C-1" {
		return &entity.Customer{ID: "C-1", CompanyID: testCompanyID, TaxID: "1020304050", FirstName: "Laura", LastName: "Gómez"}, nil
	}
	return nil, nil
}

func (m memCustomers) GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Customer, error) {
	if taxID == "1020304050" {
		return m.GetByID(ctx, companyID, "C-1")
	}
	return nil, nil
}

func (m memCustomers) Search(ctx context.Context, companyID, _ string, _ int) ([]*entity.Customer, error) {
	c, _ := m.GetByID(ctx, companyID, "C-1")
	if c == nil {
		return nil, nil
	}
	return []*entity.Customer{c}, nil
}

type memGuarantors struct{}

func (memGuarantors) GetByID(context.Context, string, string) (*entity.Guarantor, error) {
	return nil, nil
}
func (memGuarantors) Create(context.Context, *entity.Guarantor) error { return nil }

type memInventory struct{}

func (memInventory) model() *entity.VehicleModel {
	return &entity.VehicleModel{
		ID: "M", CompanyID: testCompanyID, Code: "NKD125", Name: "NKD 125",
		BasePrice:     decimal.NewFromInt(2000000),
		ColorStock:    map[string]int{"red": 5},
		ColorDiscount: map[string]decimal.Decimal{"red": decimal.NewFromInt(10)},
	}
}

func (m memInventory) GetModelsByIDs(_ context.Context, _ string, ids []string) ([]*entity.VehicleModel, error) {
	for _, id := range ids {
		if id == "M" {
			return []*entity.VehicleModel{m.model()}, nil
		}
	}
	return nil, nil
}
func (memInventory) GetUnitsByIDs(context.Context, string, []string) ([]*entity.IndividualUnit, error) {
	return nil, nil
}
func (m memInventory) ListModels(context.Context, string) ([]*entity.VehicleModel, error) {
	return []*entity.VehicleModel{m.model()}, nil
}
func (memInventory) ListAvailableUnits(context.Context, string) ([]*entity.IndividualUnit, error) {
	return nil, nil
}

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]*entity.SaleDraft
}

func (m *memDrafts) Save(_ context.Context, d *entity.SaleDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.ID] = d
	return nil
}
func (m *memDrafts) GetByID(_ context.Context, _, id string) (*entity.SaleDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[id], nil
}
func (m *memDrafts) Delete(_ context.Context, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

type memSales struct{}

func (memSales) Create(_ context.Context, companyID string, sub sale.Submission) (*entity.Sale, error) {
	return &entity.Sale{ID: "VENTA-1", CompanyID: companyID, CustomerID: sub.CustomerID, CreatedAt: time.Now()}, nil
}
func (memSales) GetByID(context.Context, string, string) (*entity.Sale, error) { return nil, nil }

type stubPDF struct{}

func (stubPDF) GenerateSchedule(sales.ScheduleDocument) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func buildSalesApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := sales.DefaultConfig()
	cfg.AutosaveInterval = 0
	cfg.RequireChassis = false
	saleUC, err := sales.NewSaleUseCase(memCustomers{}, memGuarantors{}, memInventory{},
		&memDrafts{drafts: map[string]*entity.SaleDraft{}}, memSales{}, stubPDF{}, cfg, logger.Nop())
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SaleUC:      saleUC,
		FinancingUC: sales.NewFinancingUseCase(cfg),
		CatalogUC:   sales.NewCatalogUseCase(memCustomers{}, memInventory{}),
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
	})
	return app
}

// sessionBody lo que los tests leen de una sesión.
type sessionBody struct {
	ID            string `json:"id"`
	CurrentStep   int    `json:"current_step"`
	Configuration struct {
		TotalAmount decimal.Decimal `json:"total_amount"`
	} `json:"configuration"`
}

// call envía body como JSON con el token del rol indicado y decodifica la respuesta en out.
func call(t *testing.T, app *fiber.App, role, method, path string, body any, out any) int {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del asistente de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleHandler_VentaDeContadoCompleta(t *testing.T) {
	app := buildSalesApp(t)

	var s sessionBody
	require.Equal(t, http.StatusCreated, call(t, app, "vendedor", http.MethodPost, "/api/sales/sessions", nil, &s))
	base := "/api/sales/sessions/" + s.ID

	assert.Equal(t, http.StatusOK, call(t, app, "vendedor", http.MethodPut, base+"/customer",
		dto.SetCustomerRequest{TaxID: "1020304050"}, nil))
	assert.Equal(t, http.StatusOK, call(t, app, "vendedor", http.MethodPost, base+"/items",
		dto.AddItemRequest{SourceKind: "model", ReferenceID: "M", Color: "red", Quantity: 2}, &s))
	assert.True(t, s.Configuration.TotalAmount.Equal(decimal.NewFromInt(3600000)))

	assert.Equal(t, http.StatusOK, call(t, app, "vendedor", http.MethodPut, base+"/payment",
		dto.SetPaymentRequest{PaymentType: "cash"}, nil))
	assert.Equal(t, http.StatusOK, call(t, app, "vendedor", http.MethodPut, base+"/documents",
		dto.SelectDocumentsRequest{DocumentIDs: []string{"contrato_compraventa", "acta_entrega"}}, nil))

	var fin map[string]any
	require.Equal(t, http.StatusCreated, call(t, app, "vendedor", http.MethodPost, base+"/finalize", nil, &fin))
	assert.Equal(t, "VENTA-1", fin["sale_id"])
	submission := fin["submission"].(map[string]any)
	assert.Equal(t, "cash", submission["saleType"])
	assert.Equal(t, "C-1", submission["customerId"])

	assert.Equal(t, http.StatusNotFound, call(t, app, "vendedor", http.MethodGet, base, nil, nil))
}

func TestSaleHandler_FinalizeIncompletoDevuelveCampos(t *testing.T) {
	app := buildSalesApp(t)
	var s sessionBody
	require.Equal(t, http.StatusCreated, call(t, app, "vendedor", http.MethodPost, "/api/sales/sessions", nil, &s))

	var body dto.ErrorResponse
	status := call(t, app, "vendedor", http.MethodPost, "/api/sales/sessions/"+s.ID+"/finalize", nil, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", body.Code)
	fields := make([]string, 0, len(body.Fields))
	for _, f := range body.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "customer")
}

func TestSaleHandler_IndiceInvalido(t *testing.T) {
	app := buildSalesApp(t)
	var s sessionBody
	require.Equal(t, http.StatusCreated, call(t, app, "vendedor", http.MethodPost, "/api/sales/sessions", nil, &s))

	status := call(t, app, "vendedor", http.MethodDelete, "/api/sales/sessions/"+s.ID+"/items/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSaleHandler_SesionInexistente(t *testing.T) {
	app := buildSalesApp(t)
	assert.Equal(t, http.StatusNotFound, call(t, app, "vendedor", http.MethodGet, "/api/sales/sessions/no-existe", nil, nil))
}

func TestSaleHandler_BodegueroNoVende(t *testing.T) {
	app := buildSalesApp(t)
	assert.Equal(t, http.StatusForbidden, call(t, app, "bodeguero", http.MethodPost, "/api/sales/sessions", nil, nil))
	assert.Equal(t, http.StatusOK, call(t, app, "bodeguero", http.MethodGet, "/api/inventory/models", nil, nil))
}

func TestSaleHandler_SinToken(t *testing.T) {
	app := buildSalesApp(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "", http.MethodPost, "/api/sales/sessions", nil, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Simulador
// ──────────────────────────────────────────────────────────────────────────────

func TestFinancingHandler_Simulate(t *testing.T) {
	app := buildSalesApp(t)

	var out struct {
		Schedule struct {
			Installments []map[string]any `json:"installments"`
		} `json:"schedule"`
		Summary struct {
			PeriodicPayment decimal.Decimal `json:"periodic_payment"`
		} `json:"summary"`
	}
	status := call(t, app, "vendedor", http.MethodPost, "/api/financing/simulate", map[string]any{
		"total_amount": "1000000", "down_payment": "0", "interest_rate": "0",
		"installment_count": 4, "frequency": "mensual",
	}, &out)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Schedule.Installments, 4)
	assert.True(t, out.Summary.PeriodicPayment.Equal(decimal.NewFromInt(250000)))

	var body dto.ErrorResponse
	status = call(t, app, "vendedor", http.MethodPost, "/api/financing/simulate", map[string]any{
		"total_amount": "1000000", "installment_count": 0, "frequency": "monthly",
	}, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", body.Code)
}
