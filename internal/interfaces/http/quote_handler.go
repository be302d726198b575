package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/billing"
	"github.com/jhoicas/rentability-pro/internal/application/dto"
)

// QuoteHandler cotizaciones, transiciones de estado y PDF.
type QuoteHandler struct {
	uc  *billing.QuoteUseCase
	pdf *billing.PDFUseCase
	v   *RequestValidator
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *billing.QuoteUseCase, pdf *billing.PDFUseCase, v *RequestValidator) *QuoteHandler {
	return &QuoteHandler{uc: uc, pdf: pdf, v: v}
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        estado      query  string  false  "borrador, enviada, vencida, aprobada o rechazada"
// @Param        cliente_id  query  string  false  "cliente"
// @Param        limit       query  int     false  "máximo de resultados"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}  dto.QuoteResponse
// @Router       /api/cotizaciones [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, errBadBody)
	}
	if err := h.v.Validate(&page); err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.List(c.Context(), c.Query("estado"), c.Query("cliente_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear cotización
// @Description  Se crea en borrador con número consecutivo; los totales se calculan en el servidor.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.QuoteRequest  true  "cotización con ítems"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [get]
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cotización
// @Description  Solo en borrador.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string            true  "ID de la cotización"
// @Param        body  body  dto.QuoteRequest  true  "cotización con ítems"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [put]
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	var in dto.QuoteRequest
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
// @Summary      Eliminar cotización
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [delete]
func (h *QuoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Send godoc
// @Summary      Enviar cotización
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/enviar [post]
func (h *QuoteHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BackToDraft godoc
// @Summary      Devolver a borrador
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/borrador [post]
func (h *QuoteHandler) BackToDraft(c *fiber.Ctx) error {
	out, err := h.uc.BackToDraft(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar cotización
// @Description  Requiere confirmar=true; crea el proyecto en la misma transacción.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true   "ID de la cotización"
// @Param        body  body  dto.ApproveQuoteRequest  false  "confirmación"
// @Success      200  {object}  dto.ApproveQuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/aprobar [post]
func (h *QuoteHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveQuoteRequest
	if err := h.v.bindOptional(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Approve(c.Context(), c.Params("id"), in.Confirm)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar cotización
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true   "ID de la cotización"
// @Param        body  body  dto.RejectQuoteRequest  false  "motivo"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/rechazar [post]
func (h *QuoteHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectQuoteRequest
	if err := h.v.bindOptional(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Reject(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar PDF de la cotización
// @Tags         cotizaciones
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadQuotePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, filename, "application/pdf")
}

// sendFile responde un archivo descargable.
func sendFile(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
