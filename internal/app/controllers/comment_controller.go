package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/services"
	"github.com/weiting/stellact/internal/middleware"
	"github.com/weiting/stellact/internal/pkg/filestorage"
)

// CommentController handles comments, replies and image uploads
type CommentController struct {
	commentService services.CommentService
	fileStorage    filestorage.FileStorage
	logger         zerolog.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService, fileStorage filestorage.FileStorage, logger zerolog.Logger) *CommentController {
	return &CommentController{
		commentService: commentService,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

// AddComment posts a top-level comment on an action. Accepts JSON or a
// multipart form; a multipart "image" file is stored and its URL attached.
// @Summary Comment on an action
// @Tags comments
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Action id"
// @Success 201 {object} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse "Neither text nor image given"
// @Failure 404 {object} dto.ErrorResponse
// @Router /actions/{id}/comments [post]
func (c *CommentController) AddComment(ctx *gin.Context) {
	req, ok := c.bindCommentRequest(ctx)
	if !ok {
		return
	}

	resp, err := c.commentService.AddComment(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// AddReply posts a reply to a top-level comment. Replying to a reply fails
// as not found.
// @Summary Reply to a comment
// @Tags comments
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment id"
// @Success 201 {object} dto.ReplyResponse
// @Failure 403 {object} dto.ErrorResponse "Reply policy"
// @Failure 404 {object} dto.ErrorResponse "Unknown or non top-level comment"
// @Router /comments/{commentId}/reply [post]
func (c *CommentController) AddReply(ctx *gin.Context) {
	req, ok := c.bindCommentRequest(ctx)
	if !ok {
		return
	}

	resp, err := c.commentService.AddReply(ctx.Request.Context(), middleware.CurrentUser(ctx), ctx.Param("commentId"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// bindCommentRequest reads the comment payload from either JSON or a
// multipart form, storing an attached image file when present
func (c *CommentController) bindCommentRequest(ctx *gin.Context) (*dto.CommentRequest, bool) {
	var req dto.CommentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return nil, false
	}

	if fileHeader, err := ctx.FormFile("image"); err == nil && fileHeader != nil {
		url, err := c.fileStorage.SaveFile(fileHeader)
		if err != nil {
			c.logger.Error().Err(err).
				Str("filename", fileHeader.Filename).
				Msg("Failed to store comment image")
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to store image")))
			return nil, false
		}
		req.ImageURL = url
	}
	return &req, true
}
