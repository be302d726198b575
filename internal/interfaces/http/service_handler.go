package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/usecase"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// ServiceHandler catálogo de servicios y calculadora de precios.
type ServiceHandler struct {
	uc *usecase.ServiceUseCase
	v  *RequestValidator
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *usecase.ServiceUseCase, v *RequestValidator) *ServiceHandler {
	return &ServiceHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar servicios
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        q          query  string  false  "búsqueda por nombre"
// @Param        categoria  query  string  false  "categoría"
// @Param        activos    query  bool    false  "solo activos"
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/servicios [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), repository.ServiceFilter{
		Search:     c.Query("q"),
		Category:   c.Query("categoria"),
		ActiveOnly: c.QueryBool("activos", false),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear servicio
// @Description  Sin precio explícito se usa el precio sugerido.
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ServiceRequest  true  "servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/servicios [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener servicio
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/servicios/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar servicio
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "ID del servicio"
// @Param        body  body  dto.ServiceRequest  true  "servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/servicios/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.ServiceRequest
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
// @Summary      Eliminar servicio
// @Tags         servicios
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del servicio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/servicios/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CalculatePrice godoc
// @Summary      Calcular precio sugerido
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PriceCalcRequest  true  "costos y margen"
// @Success      200   {object}  dto.PriceCalcResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/servicios/calcular-precio [post]
func (h *ServiceHandler) CalculatePrice(c *fiber.Ctx) error {
	var in dto.PriceCalcRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CalculatePrice(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecalculateAll godoc
// @Summary      Recalcular precios sugeridos
// @Description  Aplica los gastos generales vigentes a todo el catálogo.
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.RecalculateResponse
// @Router       /api/servicios/recalcular [post]
func (h *ServiceHandler) RecalculateAll(c *fiber.Ctx) error {
	out, err := h.uc.RecalculateAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
