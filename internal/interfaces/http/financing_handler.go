package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
)

// FinancingHandler simulador de crédito (protegido).
type FinancingHandler struct {
	uc *sales.FinancingUseCase
}

// NewFinancingHandler construye el handler.
func NewFinancingHandler(uc *sales.FinancingUseCase) *FinancingHandler {
	return &FinancingHandler{uc: uc}
}

// Simulate calcula un plan de pagos sin abrir una venta.
// POST /api/financing/simulate
func (h *FinancingHandler) Simulate(c *fiber.Ctx) error {
	var in dto.SimulateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Simulate(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
