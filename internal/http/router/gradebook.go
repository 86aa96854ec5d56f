package router

import (
	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/handler"
)

// GradebookRouter mounts the per-user gradebook routes on a /:user_id group.
func GradebookRouter(rg *gin.RouterGroup, h *handler.GradebookHandler) {
	rg.GET("/state", h.State)
	rg.GET("/summary", h.Summary)

	rg.PUT("/bm-type", h.SetBMType)
	rg.PUT("/semester", h.SetSemester)
	rg.PUT("/maturnote-goal", h.SetMaturnoteGoal)

	rg.POST("/grades", h.AddGrade)
	rg.DELETE("/grades/:grade_id", h.RemoveGrade)

	rg.PUT("/semester-grades", h.SetSemesterGrades)

	rg.POST("/semester-plans", h.AddPlan)
	rg.DELETE("/semester-plans/:plan_id", h.RemovePlan)

	rg.PUT("/subject-goals", h.SetSubjectGoal)
	rg.DELETE("/subject-goals/:subject", h.ClearSubjectGoal)

	rg.PUT("/exam-grades", h.SetExamGrade)
	rg.DELETE("/exam-grades/:subject", h.ClearExamGrade)
}
