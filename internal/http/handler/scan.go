package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/dto"
	"bmgrades.app/tracker/internal/service"
)

type ScanHandler struct {
	scans service.ScanService
}

func NewScanHandler(scans service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

func (h *ScanHandler) Scan(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, res, err := h.scans.Scan(c.Request.Context(), userID, service.ScanRequest{
		Image:    req.Image,
		ScanType: req.ScanType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToScanResponse(m, res))
}
