package handler

import (
	"fmt"
	"net/http"
	"strings"

	"clinica/internal/apierror"
	"clinica/internal/dto"
	"clinica/internal/middleware"
	"clinica/internal/service"

	"github.com/gin-gonic/gin"
)

type EstadoCuentaHandler struct {
	estados     service.EstadoCuentaService
	movimientos service.MovimientoService
	extractos   service.ExtractoService
}

func NewEstadoCuentaHandler(estados service.EstadoCuentaService, movimientos service.MovimientoService, extractos service.ExtractoService) *EstadoCuentaHandler {
	return &EstadoCuentaHandler{estados: estados, movimientos: movimientos, extractos: extractos}
}

// Obtener godoc
// @Summary Estado de cuenta de un paciente
// @Tags estados-cuenta
// @Produce json
// @Security BearerAuth
// @Param dni path string true "DNI del paciente"
// @Param areaId query string false "Área"
// @Param period query string false "Período AAAA-MM"
// @Success 200 {object} dto.EstadoCuentaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/statements/{dni} [get]
func (h *EstadoCuentaHandler) Obtener(c *gin.Context) {
	areaID, ok := optionalUUIDQuery(c, "areaId")
	if !ok {
		return
	}
	resp, err := h.estados.Obtener(c.Request.Context(), c.Param("dni"), areaID, c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Guardar godoc
// @Summary Guarda el estado de cuenta editado y postea el delta a la caja del área
// @Tags estados-cuenta
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dni path string true "DNI del paciente"
// @Param body body dto.GuardarEstadoCuentaRequest true "Filas y facturas"
// @Success 200 {object} dto.GuardarEstadoCuentaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/statements/{dni} [put]
func (h *EstadoCuentaHandler) Guardar(c *gin.Context) {
	var req dto.GuardarEstadoCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.estados.Guardar(c.Request.Context(), middleware.UsuarioID(c), c.Param("dni"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearMovimiento godoc
// @Summary Registra un pago o ajuste suelto
// @Tags estados-cuenta
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dni path string true "DNI del paciente"
// @Param body body dto.CrearMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/statements/{dni}/movements [post]
func (h *EstadoCuentaHandler) CrearMovimiento(c *gin.Context) {
	var req dto.CrearMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.movimientos.Crear(c.Request.Context(), middleware.UsuarioID(c), c.Param("dni"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarMovimiento godoc
// @Summary Elimina un movimiento
// @Tags estados-cuenta
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del movimiento"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/statements/movements/{id} [delete]
func (h *EstadoCuentaHandler) EliminarMovimiento(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.movimientos.Eliminar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Extracto godoc
// @Summary Extracto PDF del estado de cuenta
// @Tags estados-cuenta
// @Produce application/pdf
// @Security BearerAuth
// @Param dni path string true "DNI del paciente"
// @Param areaId query string true "Área"
// @Param period query string false "Período único AAAA-MM"
// @Param from query string false "Desde AAAA-MM"
// @Param to query string false "Hasta AAAA-MM"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Router /v1/statements/{dni}/extract [get]
func (h *EstadoCuentaHandler) Extracto(c *gin.Context) {
	areaID, ok := optionalUUIDQuery(c, "areaId")
	if !ok {
		return
	}
	if areaID == nil {
		c.JSON(http.StatusBadRequest, apierror.New("El área es obligatoria para el extracto"))
		return
	}

	desde, hasta := strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to"))
	if p := strings.TrimSpace(c.Query("period")); p != "" {
		desde, hasta = p, p
	}

	ext, err := h.extractos.Generar(c.Request.Context(), c.Param("dni"), *areaID, desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, ext.Nombre))
	c.Data(http.StatusOK, "application/pdf", ext.Contenido)
}
