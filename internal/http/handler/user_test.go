package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/http/handler"
	"bmgrades.app/tracker/internal/model"
	"bmgrades.app/tracker/internal/store"
)

var _ = Describe("UserHandler", func() {
	var (
		router *gin.Engine
		svc    *mockUserService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockUserService{}
		h := handler.NewUserHandler(svc)
		router.POST("/sync", h.Sync)
		router.GET("/users/:user_id", h.Get)
	})

	It("returns 200 with the synced user", func() {
		svc.syncFn = func(_ context.Context, externalID, name string, _ *string, bmType string) (*model.User, error) {
			Expect(bmType).To(Equal("DL"))
			return &model.User{ID: 42, ExternalID: externalID, Name: name, BMType: bmType, CurrentSemester: 1, MaturnoteGoal: 5}, nil
		}

		w := doJSON(router, http.MethodPost, "/sync", map[string]string{
			"external_id": "sub-1",
			"name":        "Lea",
			"bm_type":     "DL",
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["id"]).To(Equal("42"))
		Expect(resp["bm_type"]).To(Equal("DL"))
	})

	It("returns 400 on invalid request body", func() {
		w := doJSON(router, http.MethodPost, "/sync", `{`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 without an external id", func() {
		w := doJSON(router, http.MethodPost, "/sync", map[string]string{"name": "Lea"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 for an unknown BM type", func() {
		svc.syncFn = func(context.Context, string, string, *string, string) (*model.User, error) {
			return nil, fmt.Errorf("%w: %q", curriculum.ErrUnknownBMType, "GESO")
		}
		w := doJSON(router, http.MethodPost, "/sync", map[string]string{"external_id": "sub-1", "bm_type": "GESO"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 when service fails", func() {
		svc.syncFn = func(context.Context, string, string, *string, string) (*model.User, error) {
			return nil, errors.New("boom")
		}
		w := doJSON(router, http.MethodPost, "/sync", map[string]string{"external_id": "sub-1"})
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(decode(w)["error"]).To(Equal("internal server error"))
	})

	It("returns 404 for an unknown user", func() {
		svc.getFn = func(context.Context, int64) (*model.User, error) {
			return nil, fmt.Errorf("getting user 9: %w", store.ErrNotFound)
		}
		w := doJSON(router, http.MethodGet, "/users/9", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 for a malformed user id", func() {
		w := doJSON(router, http.MethodGet, "/users/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
