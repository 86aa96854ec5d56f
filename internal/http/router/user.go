package router

import (
	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.POST("/sync", h.Sync)
	rg.GET("/:user_id", h.Get)
}
