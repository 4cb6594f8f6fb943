package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"inkwell/internal/constants"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	postService     *services.PostService
	categoryService *services.CategoryService
	commentService  *services.CommentService
	settingService  *services.SettingService
	mediaService    *services.MediaService
	statsService    *services.StatsService
}

func NewAdminHandler(
	postService *services.PostService,
	categoryService *services.CategoryService,
	commentService *services.CommentService,
	settingService *services.SettingService,
	mediaService *services.MediaService,
	statsService *services.StatsService,
) *AdminHandler {
	return &AdminHandler{
		postService:     postService,
		categoryService: categoryService,
		commentService:  commentService,
		settingService:  settingService,
		mediaService:    mediaService,
		statsService:    statsService,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats()
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "加载统计数据失败"})
		return
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"stats":   stats,
		"Flashes": takeFlashes(c, constants.FlashSuccess),
		"Errors":  takeFlashes(c, constants.FlashError),
	})
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	query := c.Query("query")
	pageSize := 10

	posts, total, err := h.postService.GetPageByAdmin(page, pageSize, query)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "加载文章失败"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "admin.html", gin.H{
		"posts":      posts,
		"Pagination": pagination,
		"Query":      query,
		"Flashes":    takeFlashes(c, constants.FlashSuccess),
		"Errors":     takeFlashes(c, constants.FlashError),
	})
}

func (h *AdminHandler) NewPost(c *gin.Context) {
	categories, err := h.categoryService.GetAll()
	if err != nil {
		log.Printf("加载分类失败: %v", err)
	}
	render(c, http.StatusOK, "editor.html", gin.H{
		"post":              nil,
		"categories":        categories,
		"currentCategoryID": uint(0),
	})
}

func (h *AdminHandler) Editor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	post, err := h.postService.GetPostByID(uint(id))
	if err != nil {
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	categories, err := h.categoryService.GetAll()
	if err != nil {
		log.Printf("加载分类失败: %v", err)
	}

	var currentCategoryID uint
	if post.CategoryID != nil {
		currentCategoryID = *post.CategoryID
	}

	render(c, http.StatusOK, "editor.html", gin.H{
		"post":              post,
		"categories":        categories,
		"currentCategoryID": currentCategoryID,
	})
}

func (h *AdminHandler) SavePost(c *gin.Context) {
	idStr := c.PostForm("id")

	var categoryID *uint
	if catStr := c.PostForm("category_id"); catStr != "" && catStr != "0" {
		if id, err := strconv.ParseUint(catStr, 10, 64); err == nil {
			cid := uint(id)
			categoryID = &cid
		}
	}

	input := services.PostInput{
		Title:           c.PostForm("title"),
		Content:         c.PostForm("content"),
		Tags:            c.PostForm("tags"),
		MetaDescription: c.PostForm("meta_description"),
		CategoryID:      categoryID,
		IsPublished:     c.PostForm("is_published") == "on",
	}

	var post *models.Post
	var err error
	if idStr == "" || idStr == "0" {
		post, err = h.postService.CreatePost(input, currentUserID(c))
	} else {
		id, _ := strconv.ParseUint(idStr, 10, 64)
		post, err = h.postService.UpdatePost(uint(id), input)
	}
	if err != nil {
		addFlash(c, constants.FlashError, "保存文章失败: "+err.Error())
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	// 封面是可选的：没有上传文件时保持现状
	if file, fileErr := c.FormFile("cover_image"); fileErr == nil {
		imageName, thumbName, saveErr := h.mediaService.SaveCoverImage(file)
		if saveErr != nil {
			addFlash(c, constants.FlashError, "封面处理失败: "+saveErr.Error())
			c.Redirect(http.StatusFound, "/admin/")
			return
		}
		if attachErr := h.postService.AttachCoverImage(post.ID, imageName, thumbName); attachErr != nil {
			addFlash(c, constants.FlashError, "关联封面失败: "+attachErr.Error())
			c.Redirect(http.StatusFound, "/admin/")
			return
		}
	}

	addFlash(c, constants.FlashSuccess, "文章已保存！")
	c.Redirect(http.StatusFound, "/admin/")
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		addFlash(c, constants.FlashError, "无效的文章 ID")
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	if err := h.postService.DeletePost(uint(id)); err != nil {
		addFlash(c, constants.FlashError, "删除文章失败")
	} else {
		addFlash(c, constants.FlashSuccess, "文章已删除")
	}
	c.Redirect(http.StatusFound, "/admin/")
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		addFlash(c, constants.FlashError, "无效的评论 ID")
		c.Redirect(http.StatusFound, "/admin/")
		return
	}

	if err := h.commentService.DeleteComment(uint(id)); err != nil {
		addFlash(c, constants.FlashError, "删除评论失败")
	} else {
		addFlash(c, constants.FlashSuccess, "评论已删除")
	}
	c.Redirect(http.StatusFound, "/admin/")
}

func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.GetAll()
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{"error": "加载分类失败"})
		return
	}

	render(c, http.StatusOK, "categories.html", gin.H{
		"categories": categories,
		"Flashes":    takeFlashes(c, constants.FlashSuccess),
		"Errors":     takeFlashes(c, constants.FlashError),
	})
}

func (h *AdminHandler) SaveCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		addFlash(c, constants.FlashError, "分类名不能为空")
		c.Redirect(http.StatusFound, "/admin/categories")
		return
	}

	idStr := c.PostForm("id")
	var err error
	if idStr == "" || idStr == "0" {
		_, err = h.categoryService.Create(name)
	} else {
		var id uint64
		id, err = strconv.ParseUint(idStr, 10, 64)
		if err == nil {
			err = h.categoryService.Rename(uint(id), name)
		}
	}

	if err != nil {
		addFlash(c, constants.FlashError, "保存分类失败: "+err.Error())
	} else {
		addFlash(c, constants.FlashSuccess, "分类已保存")
	}
	c.Redirect(http.StatusFound, "/admin/categories")
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		addFlash(c, constants.FlashError, "无效的分类 ID")
		c.Redirect(http.StatusFound, "/admin/categories")
		return
	}

	err = h.categoryService.Delete(uint(id))
	if errors.Is(err, services.ErrCategoryInUse) {
		addFlash(c, constants.FlashError, "该分类下仍有文章，请先移除或转移后再删除")
	} else if err != nil {
		addFlash(c, constants.FlashError, "删除分类失败")
	} else {
		addFlash(c, constants.FlashSuccess, "分类已删除")
	}
	c.Redirect(http.StatusFound, "/admin/categories")
}

func (h *AdminHandler) ShowSettingsPage(c *gin.Context) {
	render(c, http.StatusOK, "settings.html", gin.H{
		"Flashes": takeFlashes(c, constants.FlashSuccess),
		"Errors":  takeFlashes(c, constants.FlashError),
	})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	postsPerPage, _ := strconv.Atoi(c.PostForm("posts_per_page"))

	var faviconName string
	if file, err := c.FormFile("favicon"); err == nil {
		name, saveErr := h.mediaService.SaveRawFile(file)
		if saveErr != nil {
			addFlash(c, constants.FlashError, "保存站点图标失败: "+saveErr.Error())
			c.Redirect(http.StatusFound, "/admin/settings")
			return
		}
		faviconName = name
	}

	err := h.settingService.Update(func(s *models.SiteSetting) {
		s.SiteTitle = c.PostForm("site_title")
		s.SiteDescription = c.PostForm("site_description")
		s.FooterCopyrightText = c.PostForm("footer_copyright_text")
		s.GoogleAnalyticsID = c.PostForm("google_analytics_id")
		s.AboutContent = c.PostForm("about_content")
		s.PostsPerPage = postsPerPage
		if faviconName != "" {
			s.FaviconFilename = faviconName
		}
	})
	if err != nil {
		addFlash(c, constants.FlashError, "更新设置失败")
	} else {
		addFlash(c, constants.FlashSuccess, "设置已保存！")
	}
	c.Redirect(http.StatusFound, "/admin/settings")
}
