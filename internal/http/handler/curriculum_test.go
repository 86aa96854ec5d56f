package handler_test

import (
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/http/handler"
	"bmgrades.app/tracker/internal/http/router"
)

var _ = Describe("CurriculumHandler", func() {
	var engine *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		engine = gin.New()
		router.CurriculumRouter(engine.Group("/curricula"), handler.NewCurriculumHandler(curriculum.MustLoad()))
	})

	It("returns the whole curriculum", func() {
		w := doJSON(engine, http.MethodGet, "/curricula/dl", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["bm_type"]).To(Equal("DL"))
		Expect(resp["semesters"]).To(BeNumerically("==", 6))
		Expect(resp["subjects"]).To(ContainElement(HaveKeyWithValue("name", curriculum.FinanzRechnung)))
	})

	It("lists the subjects of one semester", func() {
		w := doJSON(engine, http.MethodGet, "/curricula/TAL/semesters/5", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		subjects := decode(w)["subjects"]
		Expect(subjects).To(ContainElement(HaveKeyWithValue("name", curriculum.WirtschaftRecht)))
		Expect(subjects).NotTo(ContainElement(HaveKeyWithValue("name", curriculum.GeschichtePolitik)))
	})

	It("names the subjects examined at the final exam", func() {
		w := doJSON(engine, http.MethodGet, "/curricula/TAL/semesters/1", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		exam := decode(w)["exam_subjects"]
		Expect(exam).To(ConsistOf(
			curriculum.Deutsch, curriculum.Franzoesisch, curriculum.Englisch,
			curriculum.Mathematik, curriculum.Naturwissenschaften,
		))
		Expect(exam).NotTo(ContainElement(curriculum.IDAF))
	})

	It("returns 404 for an unknown BM type", func() {
		w := doJSON(engine, http.MethodGet, "/curricula/GESO", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 for a semester outside the programme", func() {
		w := doJSON(engine, http.MethodGet, "/curricula/TAL/semesters/7", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
