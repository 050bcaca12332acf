package sales_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

const company = "EMP-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── clientes / fiadores ───────────────────────────────────────────────────────

type fakeCustomers struct{ byID map[string]*entity.Customer }

func (f *fakeCustomers) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	c := f.byID[id]
	if c == nil || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCustomers) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	for _, c := range f.byID {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) Search(_ context.Context, companyID, _ string, _ int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.byID {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeGuarantors struct{ byID map[string]*entity.Guarantor }

func (f *fakeGuarantors) GetByID(_ context.Context, _, id string) (*entity.Guarantor, error) {
	return f.byID[id], nil
}

func (f *fakeGuarantors) Create(_ context.Context, g *entity.Guarantor) error {
	f.byID[g.ID] = g
	return nil
}

// ── inventario ───────────────────────────────────────────────────────────────

type fakeInventory struct {
	mu     sync.Mutex
	models map[string]*entity.VehicleModel
	units  map[string]*entity.IndividualUnit

	entered chan struct{}
	gate    chan struct{}
}

// hold detiene la próxima lectura de modelos: entered se cierra al llegar y la lectura sigue al
// cerrar release.
func (f *fakeInventory) hold() (entered <-chan struct{}, release chan<- struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entered, f.gate = make(chan struct{}), make(chan struct{})
	return f.entered, f.gate
}

func (f *fakeInventory) setStock(modelID, color string, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models[modelID].ColorStock[color] = stock
}

func (f *fakeInventory) GetModelsByIDs(_ context.Context, _ string, ids []string) ([]*entity.VehicleModel, error) {
	f.mu.Lock()
	entered, gate := f.entered, f.gate
	f.entered, f.gate = nil, nil
	f.mu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.VehicleModel
	for _, id := range ids {
		if m, ok := f.models[id]; ok {
			cp := *m
			cp.ColorStock = make(map[string]int, len(m.ColorStock))
			for k, v := range m.ColorStock {
				cp.ColorStock[k] = v
			}
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInventory) GetUnitsByIDs(_ context.Context, _ string, ids []string) ([]*entity.IndividualUnit, error) {
	var out []*entity.IndividualUnit
	for _, id := range ids {
		if u, ok := f.units[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeInventory) ListModels(ctx context.Context, companyID string) ([]*entity.VehicleModel, error) {
	ids := make([]string, 0, len(f.models))
	for id := range f.models {
		ids = append(ids, id)
	}
	return f.GetModelsByIDs(ctx, companyID, ids)
}

func (f *fakeInventory) ListAvailableUnits(_ context.Context, _ string) ([]*entity.IndividualUnit, error) {
	var out []*entity.IndividualUnit
	for _, u := range f.units {
		if u.Available {
			out = append(out, u)
		}
	}
	return out, nil
}

// ── borradores ───────────────────────────────────────────────────────────────

type fakeDrafts struct {
	mu      sync.Mutex
	drafts  map[string]*entity.SaleDraft
	saves   atomic.Int32
	deletes atomic.Int32
	delay   time.Duration
}

func newFakeDrafts() *fakeDrafts { return &fakeDrafts{drafts: make(map[string]*entity.SaleDraft)} }

func (f *fakeDrafts) Save(_ context.Context, d *entity.SaleDraft) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.drafts[d.ID] = &cp
	f.saves.Add(1)
	return nil
}

func (f *fakeDrafts) GetByID(_ context.Context, _, id string) (*entity.SaleDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[id], nil
}

func (f *fakeDrafts) Delete(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, id)
	f.deletes.Add(1)
	return nil
}

func (f *fakeDrafts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drafts)
}

// ── ventas / documentos ──────────────────────────────────────────────────────

type fakeSales struct {
	mu      sync.Mutex
	created []sale.Submission
	err     error
}

func (f *fakeSales) Create(_ context.Context, companyID string, sub sale.Submission) (*entity.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, sub)
	return &entity.Sale{ID: "VENTA-1", CompanyID: companyID, CustomerID: sub.CustomerID, CreatedAt: time.Now()}, nil
}

func (f *fakeSales) GetByID(_ context.Context, _, _ string) (*entity.Sale, error) { return nil, nil }

type fakeDocs struct{ last *sales.ScheduleDocument }

func (f *fakeDocs) GenerateSchedule(doc sales.ScheduleDocument) ([]byte, error) {
	f.last = &doc
	return []byte("%PDF-1.4"), nil
}

// ── armado ───────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *sales.SaleUseCase
	inventory *fakeInventory
	drafts    *fakeDrafts
	sales     *fakeSales
	docs      *fakeDocs
}

func newFixture(cfg sales.Config) *fixture {
	inv := &fakeInventory{
		models: map[string]*entity.VehicleModel{
			"M": {
				ID: "M", CompanyID: company, Code: "NKD125", Name: "NKD 125",
				BasePrice:     dec("2000000"),
				ColorStock:    map[string]int{"red": 5, "black": 2},
				ColorDiscount: map[string]decimal.Decimal{"red": dec("10")},
				Chassis: []entity.ChassisRecord{
					{ID: "CH-2", ModelID: "M", Color: "red", Chassis: "9C2KC1670LR000002", Stock: 1},
				},
			},
		},
		units: map[string]*entity.IndividualUnit{
			"U-1": {ID: "U-1", CompanyID: company, Description: "Boxer CT100 usada", Price: dec("3500000"), Color: "white", ChassisID: "MD2A", Available: true},
		},
	}
	f := &fixture{inventory: inv, drafts: newFakeDrafts(), sales: &fakeSales{}, docs: &fakeDocs{}}
	customers := &fakeCustomers{byID: map[string]*entity.Customer{
		"C-1": {ID: "C-1", CompanyID: company, TaxID: "1020304050", FirstName: "Laura", LastName: "Gómez"},
		"C-X": {ID: "C-X", CompanyID: "OTRA", TaxID: "99"},
	}}
	guarantors := &fakeGuarantors{byID: map[string]*entity.Guarantor{
		"F-1": {ID: "F-1", CompanyID: company, TaxID: "77", FirstName: "Ana"},
	}}
	uc, err := sales.NewSaleUseCase(customers, guarantors, inv, f.drafts, f.sales, f.docs, cfg, logger.Nop())
	if err != nil {
		panic(err)
	}
	f.uc = uc
	return f
}

func testConfig() sales.Config {
	cfg := sales.DefaultConfig()
	cfg.RateConvention = "periodic"
	cfg.AutosaveInterval = 0
	return cfg
}
