package router

import (
	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/handler"
	"bmgrades.app/tracker/internal/http/middleware"
)

func ScanRouter(rg *gin.RouterGroup, h *handler.ScanHandler, bodyLimit int64) {
	rg.POST("/scan", middleware.BodyLimit(bodyLimit), h.Scan)
}
