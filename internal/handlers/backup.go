package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"inkwell/internal/constants"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

// BackupHandler 全站内容的导出下载与归档恢复。
type BackupHandler struct {
	backupService  *services.BackupService
	settingService *services.SettingService
	tempRoot       string
}

func NewBackupHandler(backupService *services.BackupService, settingService *services.SettingService, tempRoot string) *BackupHandler {
	return &BackupHandler{
		backupService:  backupService,
		settingService: settingService,
		tempRoot:       tempRoot,
	}
}

// ExportAllContent 导出全站内容并作为附件下载。
// 归档在响应写完后删除，失败时带错误提示跳回仪表盘。
func (h *BackupHandler) ExportAllContent(c *gin.Context) {
	archivePath, archiveName, err := h.backupService.ExportAll()
	if err != nil {
		log.Printf("导出站点内容失败: %v", err)
		addFlash(c, constants.FlashError, "导出内容时发生错误，请稍后重试。")
		c.Redirect(http.StatusFound, "/admin/")
		return
	}
	defer func() {
		if cleanErr := utils.RemoveTree(archivePath); cleanErr != nil {
			log.Printf("清理导出归档失败: %v", cleanErr)
		}
	}()

	c.FileAttachment(archivePath, archiveName)
}

func (h *BackupHandler) ShowRestoreForm(c *gin.Context) {
	render(c, http.StatusOK, "restore.html", gin.H{
		"Flashes": takeFlashes(c, constants.FlashSuccess),
		"Errors":  takeFlashes(c, constants.FlashError),
	})
}

// Restore 接收上传的备份归档并恢复全部内容。
// 所有失败路径都带提示跳回恢复表单，不让异常细节漏到浏览器。
func (h *BackupHandler) Restore(c *gin.Context) {
	file, err := c.FormFile("backup_file")
	if err != nil {
		addFlash(c, constants.FlashError, "获取上传文件失败，请重新选择备份文件。")
		c.Redirect(http.StatusFound, "/admin/data/restore")
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".zip") {
		addFlash(c, constants.FlashError, "请上传正确的 ZIP 备份文件。")
		c.Redirect(http.StatusFound, "/admin/data/restore")
		return
	}

	// 上传的归档先落到暂存目录，处理完无论成败都删除
	tempDir, err := utils.MakeTempDir(h.tempRoot)
	if err != nil {
		log.Printf("创建恢复暂存目录失败: %v", err)
		addFlash(c, constants.FlashError, "服务器存储异常，请稍后重试。")
		c.Redirect(http.StatusFound, "/admin/data/restore")
		return
	}
	defer func() {
		if cleanErr := utils.RemoveTree(tempDir); cleanErr != nil {
			log.Printf("清理上传归档失败: %v", cleanErr)
		}
	}()

	archivePath := filepath.Join(tempDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, archivePath); err != nil {
		log.Printf("保存上传归档失败: %v", err)
		addFlash(c, constants.FlashError, "保存上传文件失败，请稍后重试。")
		c.Redirect(http.StatusFound, "/admin/data/restore")
		return
	}

	stats, err := h.backupService.ImportAll(archivePath, currentUserID(c))
	if err != nil {
		log.Printf("恢复站点内容失败: %v", err)
		switch {
		case errors.Is(err, services.ErrMissingManifest):
			addFlash(c, constants.FlashError, "备份文件中找不到数据清单 blog_export.json。")
		case errors.Is(err, services.ErrInvalidArchive):
			addFlash(c, constants.FlashError, "备份文件无效或已损坏，请确认后重新上传。")
		default:
			addFlash(c, constants.FlashError, "恢复内容时发生错误，所有改动已回滚。")
		}
		c.Redirect(http.StatusFound, "/admin/data/restore")
		return
	}

	// 导入直接写库绕过了设置缓存
	h.settingService.Reload()

	addFlash(c, constants.FlashSuccess, fmt.Sprintf(
		"恢复完成：%d 个分类、%d 篇文章、%d 条评论。",
		stats.Categories, stats.Posts, stats.Comments,
	))
	c.Redirect(http.StatusFound, "/admin/")
}
