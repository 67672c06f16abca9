package handler

import (
	"net/http"
	"strconv"

	"clinica/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Obtener godoc
// @Summary Saldos de la caja del área y sus últimos movimientos
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param areaId path string true "ID del área"
// @Param page query int false "Página" default(1)
// @Param limit query int false "Tamaño de página" default(50)
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{areaId} [get]
func (h *CajaHandler) Obtener(c *gin.Context) {
	areaID, ok := parseUUIDParam(c, "areaId")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.Obtener(c.Request.Context(), areaID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
