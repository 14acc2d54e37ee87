package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/services"
	"github.com/weiting/stellact/internal/middleware"
)

// UserController handles user-scoped reads
type UserController struct {
	interactionService services.InteractionService
	logger             zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(interactionService services.InteractionService, logger zerolog.Logger) *UserController {
	return &UserController{
		interactionService: interactionService,
		logger:             logger,
	}
}

// Interested lists the ids of actions the caller marked interested
// @Summary List interested action ids
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InterestedResponse
// @Router /users/me/interested [get]
func (c *UserController) Interested(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	resp, err := c.interactionService.InterestedIDs(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
