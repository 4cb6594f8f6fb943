package main

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"inkwell/internal/config"
	"inkwell/internal/handlers"
	"inkwell/internal/repository"
	"inkwell/internal/services"
	"inkwell/internal/tasks"
	"inkwell/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Global filesystems that will be populated by either assets_dev.go or assets_prod.go at startup.
var templatesFS fs.FS
var staticFS fs.FS

func createRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	add := func(name string, files ...string) {
		tpl, err := template.ParseFS(templatesFS, files...)
		if err != nil {
			log.Fatalf("解析模板失败： %s: %v", name, err)
		}
		r.Add(name, tpl)
	}

	add("index.html", "base.html", "index.html", "_pagination.html")
	add("post.html", "base.html", "post.html")
	add("about.html", "base.html", "about.html")
	add("search.html", "base.html", "search.html", "_pagination.html")
	add("login.html", "base.html", "login.html")
	add("dashboard.html", "base.html", "dashboard.html")
	add("admin.html", "base.html", "admin.html", "_pagination.html")
	add("editor.html", "base.html", "editor.html")
	add("categories.html", "base.html", "categories.html")
	add("images.html", "base.html", "images.html")
	add("settings.html", "base.html", "settings.html")
	add("restore.html", "base.html", "restore.html")
	add("404.html", "base.html", "404.html")
	add("error.html", "base.html", "error.html")

	return r
}

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Fatal("加载配置失败：", err)
	}
	cfg := config.Cfg

	// 初始化数据库
	db, err := utils.InitDatabase(cfg.DB.Path)
	if err != nil {
		log.Fatal("初始化数据库失败：", err)
	}

	// 初始化依赖
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	pageViewRepo := repository.NewPageViewRepository(db)

	settingService := services.NewSettingService(settingRepo)
	mediaService := services.NewMediaService(cfg.Storage.UploadDir)
	postService := services.NewPostService(postRepo, mediaService)
	categoryService := services.NewCategoryService(categoryRepo)
	commentService := services.NewCommentService(commentRepo, postRepo)
	statsService := services.NewStatsService(pageViewRepo, postRepo, commentRepo, categoryRepo)
	backupService := services.NewBackupService(
		postRepo, categoryRepo, commentRepo, settingRepo,
		cfg.Storage.UploadDir, cfg.Storage.TempDir,
	)

	blogHandler := handlers.NewBlogHandler(postService, commentService, categoryService, settingService, statsService)
	searchHandler := handlers.NewSearchHandler(postService, settingService)
	authHandler := handlers.NewAuthHandler(userRepo)
	adminHandler := handlers.NewAdminHandler(postService, categoryService, commentService, settingService, mediaService, statsService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	backupHandler := handlers.NewBackupHandler(backupService, settingService, cfg.Storage.TempDir)

	// 设置Gin路由
	r := gin.Default()
	r.HTMLRender = createRenderer()

	// 设置会话中间件
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("inkwell_session", store))

	// 加载设置的中间件
	r.Use(handlers.SettingsMiddleware(settingService))

	// 静态文件服务
	r.StaticFS("/static", http.FS(staticFS))
	r.Static("/uploads", cfg.Storage.UploadDir)

	// 博客路由
	r.GET("/", blogHandler.Index)
	r.GET("/post/:slug", blogHandler.ShowPost)
	r.POST("/post/:slug/comment", blogHandler.AddComment)
	r.GET("/about", blogHandler.About)
	r.GET("/search", searchHandler.Search)

	// 认证路由
	r.GET("/login", authHandler.ShowLoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// 后台路由
	admin := r.Group("/admin")
	admin.Use(handlers.AuthMiddleware())
	{
		admin.GET("/", adminHandler.Dashboard)
		admin.GET("/posts", adminHandler.ListPosts)
		admin.GET("/new", adminHandler.NewPost)
		admin.GET("/editor", adminHandler.Editor)
		admin.POST("/save", adminHandler.SavePost)
		admin.POST("/delete/:id", adminHandler.DeletePost)
		admin.POST("/comments/delete/:id", adminHandler.DeleteComment)

		admin.GET("/categories", adminHandler.ListCategories)
		admin.POST("/categories/save", adminHandler.SaveCategory)
		admin.POST("/categories/delete/:id", adminHandler.DeleteCategory)

		admin.POST("/upload", mediaHandler.Upload)
		admin.POST("/delete-image", mediaHandler.DeleteImage)
		admin.GET("/images", mediaHandler.ListImages)

		admin.GET("/settings", adminHandler.ShowSettingsPage)
		admin.POST("/settings", adminHandler.UpdateSettings)

		admin.GET("/export/all_content", backupHandler.ExportAllContent)
		admin.GET("/data/restore", backupHandler.ShowRestoreForm)
		admin.POST("/data/restore", backupHandler.Restore)
	}

	// 404处理
	r.NoRoute(blogHandler.NotFound)

	// 定时备份
	scheduler := tasks.NewScheduler(backupService, cfg.Backup.Dir, cfg.Backup.Cron, cfg.Backup.Keep)
	scheduler.Start()
	defer scheduler.Stop()

	// 启动服务器
	log.Println("服务器启动于", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal("服务器启动失败：", err)
	}
}
