package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/usecase"
)

// CategoryHandler categorías de desembolso.
type CategoryHandler struct {
	uc *usecase.ExpenseCategoryUseCase
	v  *RequestValidator
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.ExpenseCategoryUseCase, v *RequestValidator) *CategoryHandler {
	return &CategoryHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar categorías de desembolso
// @Tags         categorias-desembolso
// @Produce      json
// @Security     BearerAuth
// @Param        activas  query  bool  false  "solo activas"
// @Success      200  {array}  dto.ExpenseCategoryResponse
// @Router       /api/categorias-desembolso [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.QueryBool("activas", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categorias-desembolso
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ExpenseCategoryRequest  true  "categoría"
// @Success      201  {object}  dto.ExpenseCategoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categorias-desembolso [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.ExpenseCategoryRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categorias-desembolso
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "ID de la categoría"
// @Param        body  body  dto.ExpenseCategoryRequest  true  "categoría"
// @Success      200  {object}  dto.ExpenseCategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categorias-desembolso/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.ExpenseCategoryRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Falla con 409 si hay desembolsos que la usan.
// @Tags         categorias-desembolso
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la categoría"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categorias-desembolso/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
