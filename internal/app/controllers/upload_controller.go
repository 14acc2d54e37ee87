package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/pkg/filestorage"
)

// UploadController handles raw file uploads
type UploadController struct {
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(fileStorage filestorage.FileStorage, logger zerolog.Logger) *UploadController {
	return &UploadController{
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// Upload stores a multipart file and returns its public URL. Clients upload
// first, then reference the URL from a comment or outcome payload.
// @Summary Upload a file
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to store"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "No file in request"
// @Router /upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file field is required")))
		return
	}

	url, err := c.fileStorage.SaveFile(fileHeader)
	if err != nil {
		c.logger.Error().Err(err).
			Str("filename", fileHeader.Filename).
			Msg("Failed to store upload")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to store file")))
		return
	}

	ctx.JSON(http.StatusCreated, dto.UploadResponse{URL: url, Filename: fileHeader.Filename})
}
