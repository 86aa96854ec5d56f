package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/http/dto"
	"bmgrades.app/tracker/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.Sync(ctx, req.ExternalID, req.Name, req.Email, req.BMType)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "user signed in", "user_id", user.ID)
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := int64Param(c, "user_id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
