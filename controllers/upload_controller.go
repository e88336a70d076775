package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/services"
)

type UploadController struct {
	uploadService *services.UploadService
}

func NewUploadController(uploadService *services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// PresignUpload returns a presigned PUT URL for a product image.
func (uc *UploadController) PresignUpload(ctx *gin.Context) {
	filename := strings.TrimSpace(ctx.Query("filename"))
	contentType := strings.TrimSpace(ctx.Query("contentType"))
	if contentType == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "contentType query parameter is required"})
		return
	}

	result, err := uc.uploadService.PresignProductImage(ctx.Request.Context(), filename, contentType)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
