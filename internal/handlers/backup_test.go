package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"inkwell/internal/constants"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type backupRouterEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

// setupBackupRouter 只挂备份相关的路由；/test/login 用来在测试里直接
// 写入会话，跳过真实的登录表单。
func setupBackupRouter(t *testing.T) *backupRouterEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Post{},
		&models.Comment{}, &models.SiteSetting{}, &models.PageView{},
	))

	uploadDir := t.TempDir()
	tempRoot := t.TempDir()

	backupService := services.NewBackupService(
		repository.NewPostRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewCommentRepository(db),
		repository.NewSettingRepository(db),
		uploadDir, tempRoot,
	)
	settingService := services.NewSettingService(repository.NewSettingRepository(db))
	handler := NewBackupHandler(backupService, settingService, tempRoot)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("inkwell_session", store))

	r.GET("/test/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyAuthenticated, true)
		session.Set(constants.SessionKeyUserID, uint(1))
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})

	admin := r.Group("/admin", AuthMiddleware())
	admin.GET("/export/all_content", handler.ExportAllContent)
	admin.POST("/data/restore", handler.Restore)

	return &backupRouterEnv{router: r, db: db}
}

func (env *backupRouterEnv) loginCookies(t *testing.T) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test/login", nil)
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func restoreRequest(t *testing.T, archivePath string, cookies []*http.Cookie) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("backup_file", filepath.Base(archivePath))
	require.NoError(t, err)
	data, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/admin/data/restore", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func writeHandlerTestArchive(t *testing.T, doc *models.ExportDocument) string {
	t.Helper()

	staging := t.TempDir()
	jsonData, err := json.Marshal(doc)
	require.NoError(t, err)
	manifestPath := filepath.Join(staging, "blog_export.json")
	require.NoError(t, os.WriteFile(manifestPath, jsonData, 0o644))

	archivePath := filepath.Join(t.TempDir(), "backup.zip")
	require.NoError(t, utils.CreateArchive(manifestPath, filepath.Join(staging, "images"), archivePath))
	return archivePath
}

func TestRestoreRequiresLogin(t *testing.T) {
	env := setupBackupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/data/restore", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRestoreRejectsNonZipExtension(t *testing.T) {
	env := setupBackupRouter(t)
	cookies := env.loginCookies(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("backup_file", "backup.tar.gz")
	require.NoError(t, err)
	_, err = fw.Write([]byte("tarball"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/admin/data/restore", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/data/restore", w.Header().Get("Location"))
}

func TestRestoreImportsArchive(t *testing.T) {
	env := setupBackupRouter(t)
	cookies := env.loginCookies(t)

	createdAt := "2025-06-01T09:00:00.000000Z"
	slugVal := "hello"
	archivePath := writeHandlerTestArchive(t, &models.ExportDocument{
		Version: models.ExportManifestVersion,
		Posts: []models.PostExport{
			{ID: 1, Title: "Hello", Content: "<p>hi</p>", Slug: &slugVal, CreatedAt: &createdAt},
		},
	})

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, restoreRequest(t, archivePath, cookies))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, env.db.Where("slug = ?", "hello").First(&post).Error)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, uint(1), post.UserID, "导入的文章归属于当前登录用户")
}

func TestRestoreCorruptArchiveRedirectsBack(t *testing.T) {
	env := setupBackupRouter(t)
	cookies := env.loginCookies(t)

	bogus := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(bogus, []byte("不是 zip"), 0o644))

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, restoreRequest(t, bogus, cookies))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/data/restore", w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExportAllContentDownloads(t *testing.T) {
	env := setupBackupRouter(t)
	cookies := env.loginCookies(t)

	require.NoError(t, env.db.Create(&models.Post{
		Title: "导出我", Slug: "export-me", Content: "<p>hi</p>", UserID: 1,
	}).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/export/all_content", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "blog_export_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".zip")
	assert.NotZero(t, w.Body.Len())
}
