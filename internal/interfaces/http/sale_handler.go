package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/concesionario-api/internal/application/dto"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
)

// SaleHandler asistente de venta: una sesión por venta en configuración (protegido).
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Start abre una sesión nueva o retoma un borrador.
// POST /api/sales/sessions
func (h *SaleHandler) Start(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.StartSession(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get estado de la sesión con el estado de cada paso.
// GET /api/sales/sessions/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetSession(companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Discard abandona la venta y borra su borrador.
// DELETE /api/sales/sessions/:id
func (h *SaleHandler) Discard(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.DiscardSession(c.Context(), companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetCustomer PUT /api/sales/sessions/:id/customer
func (h *SaleHandler) SetCustomer(c *fiber.Ctx) error {
	var in dto.SetCustomerRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.SetCustomer(c.Context(), companyID, id, in)
	})
}

// SetGuarantor PUT /api/sales/sessions/:id/guarantor
func (h *SaleHandler) SetGuarantor(c *fiber.Ctx) error {
	var in dto.SetGuarantorRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.SetGuarantor(c.Context(), companyID, id, in)
	})
}

// AddItem POST /api/sales/sessions/:id/items
func (h *SaleHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.AddItem(c.Context(), companyID, id, in)
	})
}

// UpdateItem PATCH /api/sales/sessions/:id/items/:index
func (h *SaleHandler) UpdateItem(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser un entero"})
	}
	var in dto.UpdateItemRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.UpdateItem(c.Context(), companyID, id, index, in)
	})
}

// RemoveItem DELETE /api/sales/sessions/:id/items/:index
func (h *SaleHandler) RemoveItem(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser un entero"})
	}
	return h.command(c, nil, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.RemoveItem(c.Context(), companyID, id, index)
	})
}

// SetPayment PUT /api/sales/sessions/:id/payment
func (h *SaleHandler) SetPayment(c *fiber.Ctx) error {
	var in dto.SetPaymentRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.SetPayment(c.Context(), companyID, id, in)
	})
}

// SelectDocuments PUT /api/sales/sessions/:id/documents
func (h *SaleHandler) SelectDocuments(c *fiber.Ctx) error {
	var in dto.SelectDocumentsRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.SelectDocuments(c.Context(), companyID, id, in)
	})
}

// SetNotes PUT /api/sales/sessions/:id/notes
func (h *SaleHandler) SetNotes(c *fiber.Ctx) error {
	var in dto.SetNotesRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.SetNotes(c.Context(), companyID, id, in)
	})
}

// GoToStep POST /api/sales/sessions/:id/step
func (h *SaleHandler) GoToStep(c *fiber.Ctx) error {
	var in dto.GoToStepRequest
	return h.command(c, &in, func(companyID, id string) (*dto.SessionResponse, error) {
		return h.uc.GoToStep(c.Context(), companyID, id, in)
	})
}

// SaveDraft guarda el borrador ahora.
// POST /api/sales/sessions/:id/draft
func (h *SaleHandler) SaveDraft(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.SaveDraft(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finalize valida y registra la venta. La sesión se cierra si el registro tuvo éxito.
// POST /api/sales/sessions/:id/finalize
func (h *SaleHandler) Finalize(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Finalize(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SchedulePDF plan de pagos en PDF.
// GET /api/sales/sessions/:id/schedule.pdf
func (h *SaleHandler) SchedulePDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, err := h.uc.ScheduleDocument(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="plan-de-pagos.pdf"`)
	return c.Send(pdf)
}

// command lee el body (si in != nil), ejecuta fn y responde con el estado de la sesión.
func (h *SaleHandler) command(c *fiber.Ctx, in any, fn func(companyID, sessionID string) (*dto.SessionResponse, error)) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if in != nil {
		if err := c.BodyParser(in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := fn(companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
