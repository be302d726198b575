package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/projects"
)

// ProjectHandler proyectos: seguimiento, ciclo de vida y resumen financiero.
type ProjectHandler struct {
	uc *projects.ProjectUseCase
	v  *RequestValidator
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *projects.ProjectUseCase, v *RequestValidator) *ProjectHandler {
	return &ProjectHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar proyectos
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        estado      query  string  false  "activo, pausado, completado o cancelado"
// @Param        cliente_id  query  string  false  "cliente"
// @Success      200  {array}  dto.ProjectResponse
// @Router       /api/proyectos [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("estado"), c.Query("cliente_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Get godoc
// @Summary      Obtener proyecto con su resumen financiero
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos del proyecto
// @Tags         proyectos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "datos editables"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetProgress godoc
// @Summary      Actualizar avance
// @Description  El valor se limita a 0..100.
// @Tags         proyectos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID del proyecto"
// @Param        body  body  dto.ProgressRequest  true  "progreso"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/progreso [put]
func (h *ProjectHandler) SetProgress(c *fiber.Ctx) error {
	var in dto.ProgressRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetProgress(c.Context(), c.Params("id"), in.Progress)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen financiero del proyecto
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/resumen [get]
func (h *ProjectHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pause godoc
// @Summary      Pausar proyecto
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/pausar [post]
func (h *ProjectHandler) Pause(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.Pause)
}

// Resume godoc
// @Summary      Reanudar proyecto
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/reanudar [post]
func (h *ProjectHandler) Resume(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.Resume)
}

// Complete godoc
// @Summary      Completar proyecto
// @Description  Congela costo real y rentabilidad con los pagos y desembolsos a la fecha.
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/completar [post]
func (h *ProjectHandler) Complete(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.Complete)
}

// Cancel godoc
// @Summary      Cancelar proyecto
// @Tags         proyectos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id}/cancelar [post]
func (h *ProjectHandler) Cancel(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.Cancel)
}

func (h *ProjectHandler) lifecycle(c *fiber.Ctx, apply func(ctx context.Context, id string) (*dto.ProjectResponse, error)) error {
	out, err := apply(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
