package handlers

import (
	"net/http"

	"inkwell/internal/constants"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

// MediaHandler 编辑器里的图片上传走 JSON 接口，管理页走普通表单。
type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload handles image uploads from the editor and returns the public URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "获取上传文件失败: " + err.Error()})
		return
	}

	imageName, thumbName, err := h.mediaService.SaveCoverImage(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "保存图片失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":  "/uploads/" + imageName,
		"filename":  imageName,
		"thumbnail": thumbName,
	})
}

func (h *MediaHandler) DeleteImage(c *gin.Context) {
	var req struct {
		Filename  string `json:"filename" binding:"required"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "需要提供文件名"})
		return
	}

	h.mediaService.DeleteCoverImage(req.Filename, req.Thumbnail)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *MediaHandler) ListImages(c *gin.Context) {
	images, err := h.mediaService.ListImages()
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "读取图片列表失败"})
		return
	}

	render(c, http.StatusOK, "images.html", gin.H{
		"images":  images,
		"Flashes": takeFlashes(c, constants.FlashSuccess),
	})
}
