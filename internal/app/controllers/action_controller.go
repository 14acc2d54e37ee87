package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/services"
	"github.com/weiting/stellact/internal/middleware"
	"github.com/weiting/stellact/internal/pkg/helpers"
)

// ActionController handles action browsing, creation, the join flow,
// reactions and the outcome gallery
type ActionController struct {
	actionService        services.ActionService
	participationService services.ParticipationService
	interactionService   services.InteractionService
	logger               zerolog.Logger
}

// NewActionController creates a new ActionController
func NewActionController(
	actionService services.ActionService,
	participationService services.ParticipationService,
	interactionService services.InteractionService,
	logger zerolog.Logger,
) *ActionController {
	return &ActionController{
		actionService:        actionService,
		participationService: participationService,
		interactionService:   interactionService,
		logger:               logger,
	}
}

// List returns a filtered page of actions
// @Summary List actions
// @Tags actions
// @Produce json
// @Param category query string false "Exact category match"
// @Param region query string false "Exact region match"
// @Param status query string false "Lifecycle status"
// @Param search query string false "Substring match over name, summary, background"
// @Param page query int false "1-based page"
// @Param pageSize query int false "Page size, capped at 50"
// @Success 200 {object} dto.ActionListResponse
// @Router /actions [get]
func (c *ActionController) List(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	filter := &dto.ActionFilterRequest{
		Category: ctx.Query("category"),
		Region:   ctx.Query("region"),
		Status:   ctx.Query("status"),
		Search:   ctx.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	resp, err := c.actionService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Get returns one action with its participations
// @Summary Get an action
// @Tags actions
// @Produce json
// @Param id path string true "Action id"
// @Success 200 {object} dto.ActionDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /actions/{id} [get]
func (c *ActionController) Get(ctx *gin.Context) {
	resp, err := c.actionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Create registers a new action owned by the caller
// @Summary Create an action
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateActionRequest true "Action payload"
// @Success 201 {object} dto.CreatedActionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /actions [post]
func (c *ActionController) Create(ctx *gin.Context) {
	var req dto.CreateActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid action payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.actionService.Create(ctx.Request.Context(), middleware.CurrentUser(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Update merges a partial payload into an existing action
// @Summary Update an action
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action id"
// @Param request body dto.UpdateActionRequest true "Fields to change"
// @Success 200 {object} dto.ActionResponse
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse
// @Router /actions/{id} [put]
func (c *ActionController) Update(ctx *gin.Context) {
	var req dto.UpdateActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.actionService.Update(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Join adds the caller as a participant
// @Summary Join an action
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action id"
// @Param request body dto.JoinActionRequest true "Join form"
// @Success 201 {object} dto.JoinActionResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown action"
// @Failure 409 {object} dto.ErrorResponse "Already joined or full"
// @Router /actions/{id}/join [post]
func (c *ActionController) Join(ctx *gin.Context) {
	var req dto.JoinActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.participationService.Join(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Interact toggles one reaction type on an action
// @Summary Toggle a reaction
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action id"
// @Param request body dto.InteractRequest true "Reaction type"
// @Success 200 {object} dto.InteractResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown action"
// @Router /actions/{id}/interact [post]
func (c *ActionController) Interact(ctx *gin.Context) {
	var req dto.InteractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.interactionService.Toggle(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AddOutcome appends an entry to the outcome gallery
// @Summary Add an outcome
// @Tags outcomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action id"
// @Param request body dto.OutcomeRequest true "Outcome payload"
// @Success 201 {object} dto.OutcomeResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /actions/{id}/outcomes [post]
func (c *ActionController) AddOutcome(ctx *gin.Context) {
	var req dto.OutcomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.actionService.AddOutcome(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateOutcome edits an outcome gallery entry
// @Summary Edit an outcome
// @Tags outcomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action id"
// @Param outcomeId path string true "Outcome id"
// @Param request body dto.OutcomeUpdateRequest true "Fields to change"
// @Success 200 {object} dto.OutcomeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /actions/{id}/outcomes/{outcomeId} [put]
func (c *ActionController) UpdateOutcome(ctx *gin.Context) {
	var req dto.OutcomeUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.actionService.UpdateOutcome(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), ctx.Param("outcomeId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteOutcome removes an outcome gallery entry
// @Summary Delete an outcome
// @Tags outcomes
// @Security BearerAuth
// @Param id path string true "Action id"
// @Param outcomeId path string true "Outcome id"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /actions/{id}/outcomes/{outcomeId} [delete]
func (c *ActionController) DeleteOutcome(ctx *gin.Context) {
	if err := c.actionService.DeleteOutcome(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), ctx.Param("outcomeId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
