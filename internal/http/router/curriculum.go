package router

import (
	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/handler"
)

func CurriculumRouter(rg *gin.RouterGroup, h *handler.CurriculumHandler) {
	rg.GET("/:bm_type", h.Get)
	rg.GET("/:bm_type/semesters/:semester", h.Semester)
}
