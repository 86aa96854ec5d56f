package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/grading"
	"bmgrades.app/tracker/internal/http/dto"
	"bmgrades.app/tracker/internal/service"
)

type GradebookHandler struct {
	gradebook service.GradebookService
}

func NewGradebookHandler(gradebook service.GradebookService) *GradebookHandler {
	return &GradebookHandler{gradebook: gradebook}
}

func (h *GradebookHandler) State(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	state, err := h.gradebook.State(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Summary accepts ?next_weight= in any weight notation; it is the weight
// assumed for the next assessment in required-grade projections.
func (h *GradebookHandler) Summary(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	nextWeight := 0.0
	if raw := c.Query("next_weight"); raw != "" {
		w, err := grading.ParseWeight(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		nextWeight = w
	}

	summary, err := h.gradebook.Summary(c.Request.Context(), userID, nextWeight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *GradebookHandler) AddGrade(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.AddGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.AddGrade(c.Request.Context(), userID, req.Subject, service.GradeInput{
		Grade:         req.Grade,
		Weight:        req.Weight.Value,
		DisplayWeight: req.Weight.Display,
		Date:          req.Date,
		Name:          req.Name,
	})
	h.respond(c, http.StatusCreated, m, err)
}

// RemoveGrade deletes a grade. The subject is passed as ?subject=.
func (h *GradebookHandler) RemoveGrade(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}
	gradeID, ok := int64Param(c, "grade_id")
	if !ok {
		return
	}
	subject, ok := subjectQuery(c)
	if !ok {
		return
	}

	m, err := h.gradebook.RemoveGrade(c.Request.Context(), userID, subject, gradeID)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) SetSemesterGrades(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.SemesterGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.SetSemesterGrades(c.Request.Context(), userID, req.Semester, req.Grades)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) AddPlan(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.AddPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.AddPlan(c.Request.Context(), userID, req.Subject, req.Grade, req.Weight.Value)
	h.respond(c, http.StatusCreated, m, err)
}

func (h *GradebookHandler) RemovePlan(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}
	planID, ok := int64Param(c, "plan_id")
	if !ok {
		return
	}
	subject, ok := subjectQuery(c)
	if !ok {
		return
	}

	m, err := h.gradebook.RemovePlan(c.Request.Context(), userID, subject, planID)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) SetSubjectGoal(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.SubjectGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.SetSubjectGoal(c.Request.Context(), userID, req.Subject, req.Goal)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) ClearSubjectGoal(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	m, err := h.gradebook.ClearSubjectGoal(c.Request.Context(), userID, c.Param("subject"))
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) SetExamGrade(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.ExamGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.SetExamGrade(c.Request.Context(), userID, req.Subject, req.Grade)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) ClearExamGrade(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	m, err := h.gradebook.ClearExamGrade(c.Request.Context(), userID, c.Param("subject"))
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) SetBMType(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.SetBMTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bmType, err := curriculum.ParseBMType(req.BMType)
	if err != nil {
		respondError(c, err)
		return
	}

	m, err := h.gradebook.SetBMType(c.Request.Context(), userID, bmType)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) SetSemester(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.SetSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.SetSemester(c.Request.Context(), userID, req.Semester)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) SetMaturnoteGoal(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	var req dto.SetMaturnoteGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.gradebook.SetMaturnoteGoal(c.Request.Context(), userID, req.Goal)
	h.respond(c, http.StatusOK, m, err)
}

func (h *GradebookHandler) respond(c *gin.Context, status int, m *service.Mutation, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, dto.ToMutationResponse(m))
}

func subjectQuery(c *gin.Context) (string, bool) {
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject is required"})
		return "", false
	}
	return subject, true
}
