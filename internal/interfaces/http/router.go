package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/concesionario-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleUC      *sales.SaleUseCase
	FinancingUC *sales.FinancingUseCase
	CatalogUC   *sales.CatalogUseCase
	JWTSecret   string
	JWTIssuer   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	sellers := RequireRole(RoleAdmin, RoleVendedor)
	anyone := RequireRole(RoleAdmin, RoleVendedor, RoleBodeguero)

	// Simulador (cotizaciones rápidas)
	financingHandler := NewFinancingHandler(deps.FinancingUC)
	protected.Post("/financing/simulate", sellers, financingHandler.Simulate)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/customers", sellers, catalogHandler.SearchCustomers)
	protected.Get("/inventory/models", anyone, catalogHandler.ListModels)
	protected.Get("/inventory/units", anyone, catalogHandler.ListUnits)

	// Asistente de venta
	sessions := protected.Group("/sales/sessions", sellers)
	saleHandler := NewSaleHandler(deps.SaleUC)
	sessions.Post("/", saleHandler.Start)
	sessions.Get("/:id", saleHandler.Get)
	sessions.Delete("/:id", saleHandler.Discard)
	sessions.Put("/:id/customer", saleHandler.SetCustomer)
	sessions.Put("/:id/guarantor", saleHandler.SetGuarantor)
	sessions.Post("/:id/items", saleHandler.AddItem)
	sessions.Patch("/:id/items/:index", saleHandler.UpdateItem)
	sessions.Delete("/:id/items/:index", saleHandler.RemoveItem)
	sessions.Put("/:id/payment", saleHandler.SetPayment)
	sessions.Put("/:id/documents", saleHandler.SelectDocuments)
	sessions.Put("/:id/notes", saleHandler.SetNotes)
	sessions.Post("/:id/step", saleHandler.GoToStep)
	sessions.Post("/:id/draft", saleHandler.SaveDraft)
	sessions.Post("/:id/finalize", saleHandler.Finalize)
	sessions.Get("/:id/schedule.pdf", saleHandler.SchedulePDF)
}
