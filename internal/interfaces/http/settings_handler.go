package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/usecase"
)

// SettingsHandler configuración del negocio (mapas de valores, empresa, cotizaciones).
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
	v  *RequestValidator
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase, v *RequestValidator) *SettingsHandler {
	return &SettingsHandler{uc: uc, v: v}
}

// entryParams devuelve mapa y clave de la ruta ya decodificados ("Arriendo%20oficina" → "Arriendo oficina").
func entryParams(c *fiber.Ctx) (mapName, key string, err error) {
	if mapName, err = url.PathUnescape(utils.CopyString(c.Params("mapa"))); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "mapa mal codificado en la ruta")
	}
	if key, err = url.PathUnescape(utils.CopyString(c.Params("clave"))); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "clave mal codificada en la ruta")
	}
	return mapName, key, nil
}

// Get godoc
// @Summary      Configuración vigente
// @Tags         configuracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/configuracion [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.uc.Get())
}

// SetEntry godoc
// @Summary      Agregar o actualizar una clave
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        mapa   path  string               true  "mapa de configuración"
// @Param        clave  path  string               true  "clave"
// @Param        body   body  dto.MapEntryRequest  true  "valor"
// @Success      200  {object}  dto.SettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/configuracion/{mapa}/{clave} [put]
func (h *SettingsHandler) SetEntry(c *fiber.Ctx) error {
	var in dto.MapEntryRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	mapName, key, err := entryParams(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetEntry(c.Context(), mapName, key, in.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveEntry godoc
// @Summary      Eliminar una clave
// @Tags         configuracion
// @Produce      json
// @Security     BearerAuth
// @Param        mapa   path  string  true  "mapa de configuración"
// @Param        clave  path  string  true  "clave"
// @Success      200  {object}  dto.SettingsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/configuracion/{mapa}/{clave} [delete]
func (h *SettingsHandler) RemoveEntry(c *fiber.Ctx) error {
	mapName, key, err := entryParams(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RemoveEntry(c.Context(), mapName, key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReplaceMap godoc
// @Summary      Reemplazar un mapa completo
// @Description  Solo se persisten las diferencias con el valor actual.
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        mapa  path  string                 true  "mapa de configuración"
// @Param        body  body  dto.ReplaceMapRequest  true  "valores"
// @Success      200  {object}  dto.SettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/configuracion/{mapa} [put]
func (h *SettingsHandler) ReplaceMap(c *fiber.Ctx) error {
	var in dto.ReplaceMapRequest
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ReplaceMap(c.Context(), c.Params("mapa"), in.Values)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveCompany godoc
// @Summary      Datos de la empresa
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CompanyProfileDTO  true  "empresa"
// @Success      200  {object}  dto.SettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/configuracion/empresa [put]
func (h *SettingsHandler) SaveCompany(c *fiber.Ctx) error {
	var in dto.CompanyProfileDTO
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SaveCompany(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveQuoteDefaults godoc
// @Summary      Valores por defecto de cotizaciones
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.QuoteDefaultsDTO  true  "validez, IVA, prefijo, relleno y términos"
// @Success      200  {object}  dto.SettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/configuracion/cotizaciones [put]
func (h *SettingsHandler) SaveQuoteDefaults(c *fiber.Ctx) error {
	var in dto.QuoteDefaultsDTO
	if err := h.v.bind(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SaveQuoteDefaults(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Re-sincronizar el estado con la base de datos
// @Tags         configuracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SyncResponse
// @Router       /api/configuracion/sincronizar [post]
func (h *SettingsHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
