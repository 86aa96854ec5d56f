package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/http/dto"
)

type CurriculumHandler struct {
	catalog *curriculum.Catalog
}

func NewCurriculumHandler(catalog *curriculum.Catalog) *CurriculumHandler {
	return &CurriculumHandler{catalog: catalog}
}

func (h *CurriculumHandler) lookup(c *gin.Context) (*curriculum.Curriculum, bool) {
	bmType, err := curriculum.ParseBMType(c.Param("bm_type"))
	if err == nil {
		var cur *curriculum.Curriculum
		if cur, err = h.catalog.Get(bmType); err == nil {
			return cur, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	return nil, false
}

func (h *CurriculumHandler) Get(c *gin.Context) {
	cur, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToCurriculumResponse(cur, cur.Subjects))
}

// Semester lists the subjects taught in one semester.
func (h *CurriculumHandler) Semester(c *gin.Context) {
	cur, ok := h.lookup(c)
	if !ok {
		return
	}
	semester, err := strconv.Atoi(c.Param("semester"))
	if err != nil || !cur.ValidSemester(semester) {
		respondError(c, gradebook.ErrInvalidSemester)
		return
	}
	c.JSON(http.StatusOK, dto.ToCurriculumResponse(cur, cur.SubjectsForSemester(semester)))
}
