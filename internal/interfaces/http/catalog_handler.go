package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/concesionario-api/internal/application/sales"
)

// CatalogHandler consultas de clientes e inventario vendible (protegido).
type CatalogHandler struct {
	uc *sales.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *sales.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// SearchCustomers busca clientes por documento o nombre.
// GET /api/customers?q=...&limit=20
func (h *CatalogHandler) SearchCustomers(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.SearchCustomers(c.Context(), companyID, c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list})
}

// ListModels modelos con precio efectivo por color.
// GET /api/inventory/models
func (h *CatalogHandler) ListModels(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ListModels(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list})
}

// ListUnits unidades individuales disponibles.
// GET /api/inventory/units
func (h *CatalogHandler) ListUnits(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ListUnits(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list})
}
