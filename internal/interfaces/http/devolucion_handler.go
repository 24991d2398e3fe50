package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
)

// DevolucionHandler maneja las devoluciones a proveedor (protegido).
type DevolucionHandler struct {
	uc *usecase.DevolucionUseCase
}

// NewDevolucionHandler construye el handler.
func NewDevolucionHandler(uc *usecase.DevolucionUseCase) *DevolucionHandler {
	return &DevolucionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar devolución a proveedor (descuenta el stock en el mismo acto)
// @Tags         devoluciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDevolucionRequest  true  "supplier_id, product_id, quantity, reason"
// @Success      201   {object}  dto.DevolucionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/devoluciones [post]
func (h *DevolucionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDevolucionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SupplierID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "supplier_id, product_id y quantity > 0 son requeridos"})
	}
	out, err := h.uc.Create(c.Context(), GetEmployeeID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener devolución por ID
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.DevolucionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/devoluciones/{id} [get]
func (h *DevolucionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "devolución no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar devoluciones
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DevolucionListResponse
// @Router       /api/devoluciones [get]
func (h *DevolucionHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar devolución (no afecta el stock: el movimiento SUPPLIER_RETURN permanece)
// @Tags         devoluciones
// @Security     Bearer
// @Param        id   path  string  true  "ID de la devolución"
// @Success      204  "Sin contenido"
// @Router       /api/devoluciones/{id} [delete]
func (h *DevolucionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
