package handlers

import (
	"math"
	"net/http"
	"strconv"

	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	postService    *services.PostService
	settingService *services.SettingService
}

func NewSearchHandler(postService *services.PostService, settingService *services.SettingService) *SearchHandler {
	return &SearchHandler{postService: postService, settingService: settingService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize := h.settingService.Get().PostsPerPage
	if pageSize <= 0 {
		pageSize = 10
	}

	posts, total, err := h.postService.SearchPublishedPage(query, page, pageSize)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "搜索失败"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "search.html", gin.H{
		"posts":      posts,
		"query":      query,
		"Pagination": pagination,
	})
}
