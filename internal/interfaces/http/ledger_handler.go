package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/projects"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// LedgerHandler plan de pagos, pagos recibidos y desembolsos.
type LedgerHandler struct {
	uc *projects.LedgerUseCase
	v  *RequestValidator
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *projects.LedgerUseCase, v *RequestValidator) *LedgerHandler {
	return &LedgerHandler{uc: uc, v: v}
}

// ListPlans godoc
// @Summary      Plan de pagos del proyecto
// @Tags         plan-pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.PaymentPlanListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/plan-pagos [get]
func (h *LedgerHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.uc.ListPlans(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SavePlan godoc
// @Summary      Reemplazar el plan de pagos
// @Description  Guarda todas las cuotas en una transacción. Si los porcentajes no suman 100 responde 409 PERCENT_MISMATCH salvo confirmar=true.
// @Tags         plan-pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID del proyecto"
// @Param        body  body  dto.SavePlanRequest  true  "cuotas"
// @Success      200  {object}  dto.PaymentPlanListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/plan-pagos [put]
func (h *LedgerHandler) SavePlan(c *fiber.Ctx) error {
	var in dto.SavePlanRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SavePlan(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApplyTemplate godoc
// @Summary      Plan de pagos desde plantilla
// @Description  50-50 o 40-40-20. Sin guardar=true devuelve solo la vista previa.
// @Tags         plan-pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID del proyecto"
// @Param        body  body  dto.PlanTemplateRequest  true  "plantilla"
// @Success      200  {object}  dto.PaymentPlanListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/plan-pagos/plantilla [post]
func (h *LedgerHandler) ApplyTemplate(c *fiber.Ctx) error {
	var in dto.PlanTemplateRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ApplyTemplate(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePlan godoc
// @Summary      Actualizar una cuota
// @Tags         plan-pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "ID de la cuota"
// @Param        body  body  dto.PaymentPlanItemRequest  true  "cuota"
// @Success      200  {object}  dto.PaymentPlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/plan-pagos/{id} [put]
func (h *LedgerHandler) UpdatePlan(c *fiber.Ctx) error {
	var in dto.PaymentPlanItemRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdatePlan(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeletePlan godoc
// @Summary      Eliminar una cuota
// @Tags         plan-pagos
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cuota"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/plan-pagos/{id} [delete]
func (h *LedgerHandler) DeletePlan(c *fiber.Ctx) error {
	if err := h.uc.DeletePlan(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPayments godoc
// @Summary      Pagos recibidos del proyecto
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {array}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/pagos [get]
func (h *LedgerHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.uc.ListPayments(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar pago
// @Description  Si se indica la cuota, su estado pasa a parcial o pagado según lo abonado.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PaymentRequest  true  "pago"
// @Success      201  {object}  dto.PaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pagos [post]
func (h *LedgerHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegisterPayment(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeletePayment godoc
// @Summary      Eliminar pago
// @Tags         pagos
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del pago"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pagos/{id} [delete]
func (h *LedgerHandler) DeletePayment(c *fiber.Ctx) error {
	if err := h.uc.DeletePayment(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListDisbursements godoc
// @Summary      Listar desembolsos
// @Tags         desembolsos
// @Produce      json
// @Security     BearerAuth
// @Param        proyecto_id   query  string  false  "proyecto"
// @Param        categoria_id  query  string  false  "categoría"
// @Param        estado        query  string  false  "pendiente, aprobado o pagado"
// @Param        generales     query  bool    false  "solo gastos sin proyecto"
// @Success      200  {array}  dto.DisbursementResponse
// @Router       /api/desembolsos [get]
func (h *LedgerHandler) ListDisbursements(c *fiber.Ctx) error {
	out, err := h.uc.ListDisbursements(c.Context(), repository.DisbursementFilter{
		ProjectID:   c.Query("proyecto_id"),
		CategoryID:  c.Query("categoria_id"),
		Status:      entity.DisbursementStatus(c.Query("estado")),
		GeneralOnly: c.QueryBool("generales", false),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateDisbursement godoc
// @Summary      Registrar desembolso
// @Tags         desembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.DisbursementRequest  true  "desembolso"
// @Success      201  {object}  dto.DisbursementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/desembolsos [post]
func (h *LedgerHandler) CreateDisbursement(c *fiber.Ctx) error {
	var in dto.DisbursementRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateDisbursement(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateDisbursement godoc
// @Summary      Actualizar desembolso
// @Description  El estado no cambia por esta ruta; usar /estado.
// @Tags         desembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID del desembolso"
// @Param        body  body  dto.DisbursementRequest  true  "desembolso"
// @Success      200  {object}  dto.DisbursementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/desembolsos/{id} [put]
func (h *LedgerHandler) UpdateDisbursement(c *fiber.Ctx) error {
	var in dto.DisbursementRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateDisbursement(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeDisbursementStatus godoc
// @Summary      Avanzar estado del desembolso
// @Description  pendiente → aprobado → pagado; no se retrocede.
// @Tags         desembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                         true  "ID del desembolso"
// @Param        body  body  dto.DisbursementStatusRequest  true  "nuevo estado"
// @Success      200  {object}  dto.DisbursementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/desembolsos/{id}/estado [put]
func (h *LedgerHandler) ChangeDisbursementStatus(c *fiber.Ctx) error {
	var in dto.DisbursementStatusRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ChangeDisbursementStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteDisbursement godoc
// @Summary      Eliminar desembolso
// @Tags         desembolsos
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del desembolso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/desembolsos/{id} [delete]
func (h *LedgerHandler) DeleteDisbursement(c *fiber.Ctx) error {
	if err := h.uc.DeleteDisbursement(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
