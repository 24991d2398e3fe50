package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
)

// RecetaHandler maneja las recetas médicas (protegido).
type RecetaHandler struct {
	uc *usecase.RecetaUseCase
}

// NewRecetaHandler construye el handler.
func NewRecetaHandler(uc *usecase.RecetaUseCase) *RecetaHandler {
	return &RecetaHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar receta (estado PENDIENTE, no toca inventario)
// @Tags         recetas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecetaRequest  true  "patient, doctor, items"
// @Success      201   {object}  dto.RecetaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/recetas [post]
func (h *RecetaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecetaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Patient == "" || in.Doctor == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "patient, doctor e items son requeridos"})
	}
	out, err := h.uc.Create(GetEmployeeID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Dispense godoc
// @Summary      Dispensar receta (descuenta todos los medicamentos en una sola transacción)
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya dispensada/cancelada o stock insuficiente"
// @Router       /api/recetas/{id}/dispense [post]
func (h *RecetaHandler) Dispense(c *fiber.Ctx) error {
	out, err := h.uc.Dispense(c.Context(), c.Params("id"), GetEmployeeID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar receta pendiente (solo metadatos, no toca inventario)
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id}/cancel [post]
func (h *RecetaHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener receta por ID
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecetaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recetas/{id} [get]
func (h *RecetaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recetas
// @Tags         recetas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecetaListResponse
// @Router       /api/recetas [get]
func (h *RecetaHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}
