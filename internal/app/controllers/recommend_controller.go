package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/services"
	"github.com/weiting/stellact/internal/middleware"
)

// RecommendController handles action recommendations
type RecommendController struct {
	recommendService services.RecommendService
	logger           zerolog.Logger
}

// NewRecommendController creates a new RecommendController
func NewRecommendController(recommendService services.RecommendService, logger zerolog.Logger) *RecommendController {
	return &RecommendController{
		recommendService: recommendService,
		logger:           logger,
	}
}

// Recommend ranks actions for a free-text query. Ranking problems degrade to
// a heuristic instead of failing the request.
// @Summary Recommend actions
// @Tags recommend
// @Accept json
// @Produce json
// @Param request body dto.RecommendRequest true "Query and interest history"
// @Success 200 {object} dto.RecommendResponse
// @Router /ai/recommend [post]
func (c *RecommendController) Recommend(ctx *gin.Context) {
	var req dto.RecommendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := ""
	if user := middleware.CurrentUser(ctx); user != nil {
		userID = user.ID
	}

	resp, err := c.recommendService.Recommend(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
