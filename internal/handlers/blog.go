package handlers

import (
	"html/template"
	"log"
	"math"
	"net/http"
	"strconv"

	"inkwell/internal/constants"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	postService     *services.PostService
	commentService  *services.CommentService
	categoryService *services.CategoryService
	settingService  *services.SettingService
	statsService    *services.StatsService
}

func NewBlogHandler(
	postService *services.PostService,
	commentService *services.CommentService,
	categoryService *services.CategoryService,
	settingService *services.SettingService,
	statsService *services.StatsService,
) *BlogHandler {
	return &BlogHandler{
		postService:     postService,
		commentService:  commentService,
		categoryService: categoryService,
		settingService:  settingService,
		statsService:    statsService,
	}
}

func (h *BlogHandler) pageSize() int {
	size := h.settingService.Get().PostsPerPage
	if size <= 0 {
		size = 10
	}
	return size
}

func (h *BlogHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize := h.pageSize()

	// 可选的分类过滤
	var categoryID *uint
	if idStr := c.Query("category"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 64); err == nil {
			cid := uint(id)
			categoryID = &cid
		}
	}

	posts, total, err := h.postService.GetPublishedPage(page, pageSize, categoryID)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "加载文章失败"})
		return
	}

	categories, err := h.categoryService.GetAll()
	if err != nil {
		log.Printf("加载分类列表失败: %v", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "index.html", gin.H{
		"posts":      posts,
		"categories": categories,
		"Pagination": pagination,
	})
}

func (h *BlogHandler) ShowPost(c *gin.Context) {
	slug := c.Param("slug")
	isLoggedIn, _ := c.Get(constants.ContextKeyIsLoggedIn)

	post, err := h.postService.GetPostBySlug(slug, !isLoggedIn.(bool))
	if err != nil {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	comments, err := h.commentService.GetThreadedComments(post.ID)
	if err != nil {
		log.Printf("加载文章 %d 的评论失败: %v", post.ID, err)
	}

	// 只统计公开访问，后台预览不计数
	if post.IsPublished {
		if err := h.statsService.RecordPostView(post.ID, c.Request.URL.Path); err != nil {
			log.Printf("记录文章 %d 的访问失败: %v", post.ID, err)
		}
	}

	render(c, http.StatusOK, "post.html", gin.H{
		"post":     post,
		"content":  template.HTML(post.Content),
		"comments": comments,
		"Flashes":  takeFlashes(c, constants.FlashSuccess),
		"Errors":   takeFlashes(c, constants.FlashError),
	})
}

// AddComment 提交匿名评论后重定向回文章页。
func (h *BlogHandler) AddComment(c *gin.Context) {
	slug := c.Param("slug")
	post, err := h.postService.GetPostBySlug(slug, true)
	if err != nil {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	var parentID *uint
	if parentStr := c.PostForm("parent_id"); parentStr != "" {
		if id, err := strconv.ParseUint(parentStr, 10, 64); err == nil {
			pid := uint(id)
			parentID = &pid
		}
	}

	_, err = h.commentService.AddComment(
		post.ID,
		c.PostForm("nickname"),
		c.PostForm("content"),
		parentID,
		c.ClientIP(),
	)
	if err != nil {
		addFlash(c, constants.FlashError, "评论失败: "+err.Error())
	} else {
		addFlash(c, constants.FlashSuccess, "评论已发表！")
	}

	c.Redirect(http.StatusFound, "/post/"+slug)
}

// About 渲染关于页，内容来自站点设置里的 Markdown。
func (h *BlogHandler) About(c *gin.Context) {
	setting := h.settingService.Get()
	aboutHTML, err := utils.RenderMarkdown(setting.AboutContent)
	if err != nil {
		log.Printf("渲染关于页失败: %v", err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "页面渲染失败"})
		return
	}

	render(c, http.StatusOK, "about.html", gin.H{
		"content": aboutHTML,
	})
}

func (h *BlogHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{})
}
