package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"inkwell/internal/constants"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/utils"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	// ErrInvalidArchive 上传的文件不是合法的 ZIP 容器。
	ErrInvalidArchive = errors.New("无效的备份归档")
	// ErrMissingManifest 归档里没有 blog_export.json 清单。
	ErrMissingManifest = errors.New("归档中缺少数据清单 blog_export.json")
)

// BackupService 负责全站内容的导出与恢复。
//
// 导出：读库 → 暂存目录复制图片 → 序列化清单 → 打包 ZIP，暂存目录无论
// 成败都会清理。恢复：解压 → 解析清单 → 按依赖顺序（分类 → 文章 → 评论）
// 插入并重映射外键 → 回链父评论 → 应用站点设置，整个批次在一个事务里提交。
type BackupService struct {
	postRepo    *repository.PostRepository
	catRepo     *repository.CategoryRepository
	commentRepo *repository.CommentRepository
	settingRepo *repository.SettingRepository
	uploadDir   string
	tempRoot    string
}

func NewBackupService(
	postRepo *repository.PostRepository,
	catRepo *repository.CategoryRepository,
	commentRepo *repository.CommentRepository,
	settingRepo *repository.SettingRepository,
	uploadDir, tempRoot string,
) *BackupService {
	return &BackupService{
		postRepo:    postRepo,
		catRepo:     catRepo,
		commentRepo: commentRepo,
		settingRepo: settingRepo,
		uploadDir:   uploadDir,
		tempRoot:    tempRoot,
	}
}

// ImportStats 一次恢复实际落库的记录数。
type ImportStats struct {
	Categories int
	Posts      int
	Comments   int
}

// ExportAll 导出全站内容为一个 ZIP 归档，返回归档路径和下载文件名。
// 归档写在临时目录里，调用方下载完成后负责删除。
func (s *BackupService) ExportAll() (archivePath, archiveName string, err error) {
	staging, err := utils.MakeTempDir(s.tempRoot)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if cleanErr := utils.RemoveTree(staging); cleanErr != nil {
			log.Printf("清理导出暂存目录失败: %v", cleanErr)
		}
	}()

	imagesDir := filepath.Join(staging, constants.ExportImagesDir)

	doc, err := s.buildExportDocument(imagesDir)
	if err != nil {
		return "", "", err
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("序列化备份清单失败: %w", err)
	}

	manifestPath := filepath.Join(staging, constants.ExportManifestName)
	if err := os.WriteFile(manifestPath, jsonData, 0o644); err != nil {
		return "", "", &utils.StorageError{Op: "write", Path: manifestPath, Err: err}
	}

	archiveName = fmt.Sprintf(constants.ExportArchivePattern, time.Now().Format("20060102_150405"))
	tempRoot := s.tempRoot
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	archivePath = filepath.Join(tempRoot, archiveName)

	if err := utils.CreateArchive(manifestPath, imagesDir, archivePath); err != nil {
		// 半成品归档不能留给调用方
		_ = utils.RemoveTree(archivePath)
		return "", "", err
	}

	return archivePath, archiveName, nil
}

// buildExportDocument 读出全部实体并把引用到的图片复制进暂存 images/ 目录。
// 单张图片缺失或复制失败只降级该文章的图片字段，不中断整体导出。
func (s *BackupService) buildExportDocument(imagesDir string) (*models.ExportDocument, error) {
	posts, err := s.postRepo.FindAllForExport()
	if err != nil {
		return nil, fmt.Errorf("读取文章失败: %w", err)
	}
	categories, err := s.catRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("读取分类失败: %w", err)
	}
	comments, err := s.commentRepo.FindAllForExport()
	if err != nil {
		return nil, fmt.Errorf("读取评论失败: %w", err)
	}
	setting, err := s.settingRepo.GetOrCreate()
	if err != nil {
		return nil, fmt.Errorf("读取站点设置失败: %w", err)
	}

	doc := &models.ExportDocument{
		Version:    models.ExportManifestVersion,
		Posts:      make([]models.PostExport, 0, len(posts)),
		Categories: make([]models.CategoryExport, 0, len(categories)),
		Comments:   make([]models.CommentExport, 0, len(comments)),
	}

	for _, post := range posts {
		var imagePath *string
		if post.ImageFilename != "" {
			src := filepath.Join(s.uploadDir, post.ImageFilename)
			if _, statErr := os.Stat(src); statErr == nil {
				if copyErr := utils.CopyInto(src, imagesDir); copyErr != nil {
					log.Printf("导出时复制图片 %s 失败: %v", post.ImageFilename, copyErr)
				} else {
					p := constants.ExportImagesDir + "/" + post.ImageFilename
					imagePath = &p
				}
			} else {
				log.Printf("导出时找不到文章 %d 的图片 %s，跳过", post.ID, post.ImageFilename)
			}
		}

		doc.Posts = append(doc.Posts, models.PostExport{
			ID:               post.ID,
			Title:            post.Title,
			Content:          post.Content,
			CreatedAt:        formatExportTime(&post.CreatedAt),
			UpdatedAt:        formatExportTime(&post.UpdatedAt),
			PublishedAt:      formatExportTime(post.PublishedAt),
			IsPublished:      post.IsPublished,
			FeaturedImageURL: imagePath,
			Tags:             optionalString(post.Tags),
			MetaDescription:  optionalString(post.MetaDescription),
			Slug:             optionalString(post.Slug),
			CategoryID:       post.CategoryID,
		})
	}

	for _, category := range categories {
		doc.Categories = append(doc.Categories, models.CategoryExport{
			ID:   category.ID,
			Name: category.Name,
		})
	}

	for _, comment := range comments {
		doc.Comments = append(doc.Comments, models.CommentExport{
			ID:        comment.ID,
			Nickname:  comment.Nickname,
			Content:   comment.Content,
			CreatedAt: formatExportTime(&comment.CreatedAt),
			PostID:    comment.PostID,
			ParentID:  comment.ParentID,
			IPAddress: optionalString(comment.IPAddress),
		})
	}

	doc.SiteSettings = &models.SiteSettingExport{
		SiteTitle:           setting.SiteTitle,
		SiteDescription:     optionalString(setting.SiteDescription),
		FooterCopyrightText: optionalString(setting.FooterCopyrightText),
		GoogleAnalyticsID:   optionalString(setting.GoogleAnalyticsID),
		AboutContent:        optionalString(setting.AboutContent),
	}

	return doc, nil
}

// ImportAll 从归档恢复全站内容。清单里的 id 不会被复用：分类、文章、评论
// 都以新 id 插入，旧 id 只活在本次恢复的内存重映射表里。数据库写入整体
// 在一个事务中，任何未处理的错误都会回滚全部改动。
func (s *BackupService) ImportAll(archivePath string, userID uint) (*ImportStats, error) {
	staging, err := utils.MakeTempDir(s.tempRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cleanErr := utils.RemoveTree(staging); cleanErr != nil {
			log.Printf("清理恢复暂存目录失败: %v", cleanErr)
		}
	}()

	if err := utils.ExtractArchive(archivePath, staging); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	manifestPath := filepath.Join(staging, constants.ExportManifestName)
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, ErrMissingManifest
	}

	jsonData, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &utils.StorageError{Op: "read", Path: manifestPath, Err: err}
	}

	var doc models.ExportDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("%w: 清单解析失败: %v", ErrInvalidArchive, err)
	}

	stats := &ImportStats{}
	err = s.postRepo.GetDB().Transaction(func(tx *gorm.DB) error {
		return s.importDocument(tx, &doc, staging, userID, stats)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *BackupService) importDocument(tx *gorm.DB, doc *models.ExportDocument, staging string, userID uint, stats *ImportStats) error {
	txPostRepo := repository.NewPostRepository(tx)
	txCatRepo := repository.NewCategoryRepository(tx)
	txCommentRepo := repository.NewCommentRepository(tx)
	txSettingRepo := repository.NewSettingRepository(tx)

	// --- 分类 ---
	// 归档 id 与导入前已有的分类撞上时就地改名；否则以新 id 插入并记录
	// 旧id→新id。撞 id 的判断只看导入前的快照，本次新插入的行不算。
	preExisting, err := txCatRepo.FindAll()
	if err != nil {
		return fmt.Errorf("读取现有分类失败: %w", err)
	}
	existingByID := make(map[uint]models.Category, len(preExisting))
	existingByName := make(map[string]models.Category, len(preExisting))
	for _, category := range preExisting {
		existingByID[category.ID] = category
		existingByName[category.Name] = category
	}

	categoryMap := make(map[uint]uint, len(doc.Categories))
	for _, record := range doc.Categories {
		if existing, ok := existingByID[record.ID]; ok {
			existing.Name = record.Name
			if err := txCatRepo.Update(&existing); err != nil {
				return fmt.Errorf("更新分类 %q 失败: %w", record.Name, err)
			}
			categoryMap[record.ID] = existing.ID
		} else if existing, ok := existingByName[record.Name]; ok {
			// 同名分类已存在，直接复用，分类名是唯一的
			categoryMap[record.ID] = existing.ID
		} else {
			category := &models.Category{Name: record.Name}
			if err := txCatRepo.Create(category); err != nil {
				return fmt.Errorf("导入分类 %q 失败: %w", record.Name, err)
			}
			categoryMap[record.ID] = category.ID
		}
		stats.Categories++
	}

	// --- 文章 ---
	// 按原始创建时间升序插入，始终分配新 id，归属于当前操作者。
	postRecords := make([]models.PostExport, len(doc.Posts))
	copy(postRecords, doc.Posts)
	sort.SliceStable(postRecords, func(i, j int) bool {
		return exportTimeLess(postRecords[i].CreatedAt, postRecords[j].CreatedAt)
	})

	postMap := make(map[uint]uint, len(postRecords))
	for _, record := range postRecords {
		imageFilename := s.restoreImage(record, staging)

		var categoryID *uint
		if record.CategoryID != nil {
			if newID, ok := categoryMap[*record.CategoryID]; ok {
				categoryID = &newID
			} else {
				log.Printf("文章 %q 引用了清单中不存在的分类 %d，置空", record.Title, *record.CategoryID)
			}
		}

		postSlug, err := s.ensureUniqueSlug(txPostRepo, record)
		if err != nil {
			return err
		}

		post := &models.Post{
			Title:           record.Title,
			Slug:            postSlug,
			Content:         record.Content,
			Tags:            derefString(record.Tags),
			MetaDescription: derefString(record.MetaDescription),
			ImageFilename:   imageFilename,
			IsPublished:     record.IsPublished,
			PublishedAt:     parseExportTime(record.PublishedAt),
			CategoryID:      categoryID,
			UserID:          userID,
		}
		if createdAt := parseExportTime(record.CreatedAt); createdAt != nil {
			post.CreatedAt = *createdAt
		}
		if updatedAt := parseExportTime(record.UpdatedAt); updatedAt != nil {
			post.UpdatedAt = *updatedAt
		}

		if err := txPostRepo.Create(post); err != nil {
			return fmt.Errorf("导入文章 %q 失败: %w", record.Title, err)
		}
		postMap[record.ID] = post.ID
		stats.Posts++
	}

	// --- 评论 ---
	// 第一趟只插入并记录 旧id→新id，父子关系留到第二趟回链，
	// 这样清单里“子在前、父在后”的前向引用也能正确解析。
	commentRecords := make([]models.CommentExport, len(doc.Comments))
	copy(commentRecords, doc.Comments)
	sort.SliceStable(commentRecords, func(i, j int) bool {
		return exportTimeLess(commentRecords[i].CreatedAt, commentRecords[j].CreatedAt)
	})

	commentMap := make(map[uint]uint, len(commentRecords))
	type pendingParent struct {
		newCommentID uint
		oldParentID  uint
	}
	var pending []pendingParent

	for _, record := range commentRecords {
		newPostID, ok := postMap[record.PostID]
		if !ok {
			log.Printf("评论 %d 引用了清单中不存在的文章 %d，跳过", record.ID, record.PostID)
			continue
		}

		comment := &models.Comment{
			Nickname:  record.Nickname,
			Content:   record.Content,
			PostID:    newPostID,
			IPAddress: derefString(record.IPAddress),
		}
		if createdAt := parseExportTime(record.CreatedAt); createdAt != nil {
			comment.CreatedAt = *createdAt
		}

		if err := txCommentRepo.Create(comment); err != nil {
			return fmt.Errorf("导入评论 %d 失败: %w", record.ID, err)
		}
		commentMap[record.ID] = comment.ID
		stats.Comments++

		if record.ParentID != nil {
			pending = append(pending, pendingParent{comment.ID, *record.ParentID})
		}
	}

	for _, p := range pending {
		newParentID, ok := commentMap[p.oldParentID]
		if !ok {
			log.Printf("评论 %d 的父评论 %d 无法解析，按顶层评论处理", p.newCommentID, p.oldParentID)
			continue
		}
		if err := txCommentRepo.UpdateParentID(p.newCommentID, newParentID); err != nil {
			return fmt.Errorf("回链父评论失败: %w", err)
		}
	}

	// --- 站点设置 ---
	if doc.SiteSettings != nil {
		setting, err := txSettingRepo.GetOrCreate()
		if err != nil {
			return fmt.Errorf("读取站点设置失败: %w", err)
		}
		setting.SiteTitle = doc.SiteSettings.SiteTitle
		setting.SiteDescription = derefString(doc.SiteSettings.SiteDescription)
		setting.FooterCopyrightText = derefString(doc.SiteSettings.FooterCopyrightText)
		setting.GoogleAnalyticsID = derefString(doc.SiteSettings.GoogleAnalyticsID)
		setting.AboutContent = derefString(doc.SiteSettings.AboutContent)
		if err := txSettingRepo.Save(setting); err != nil {
			return fmt.Errorf("恢复站点设置失败: %w", err)
		}
	}

	return nil
}

// restoreImage 把归档里的图片搬进正式上传目录，换上防碰撞的新文件名。
// 图片缺失或复制失败都只降级为无图，不影响文章本身的恢复。
func (s *BackupService) restoreImage(record models.PostExport, staging string) string {
	if record.FeaturedImageURL == nil {
		return ""
	}
	archiveRel := *record.FeaturedImageURL
	if !strings.HasPrefix(archiveRel, constants.ExportImagesDir+"/") {
		return ""
	}

	src := filepath.Join(staging, filepath.FromSlash(archiveRel))
	if _, err := os.Stat(src); err != nil {
		log.Printf("归档中找不到文章 %q 的图片 %s，跳过", record.Title, archiveRel)
		return ""
	}

	newName := utils.UniqueName(filepath.Base(archiveRel))
	if err := utils.CopyFile(src, filepath.Join(s.uploadDir, newName)); err != nil {
		log.Printf("恢复文章 %q 的图片失败: %v", record.Title, err)
		return ""
	}
	return newName
}

// ensureUniqueSlug 归档里的 slug 可能与现有文章冲突，必要时追加序号。
func (s *BackupService) ensureUniqueSlug(repo *repository.PostRepository, record models.PostExport) (string, error) {
	baseSlug := derefString(record.Slug)
	if baseSlug == "" {
		baseSlug = slug.Make(record.Title)
	}
	if baseSlug == "" {
		baseSlug = "untitled"
	}

	finalSlug := baseSlug
	counter := 1
	for {
		exists, err := repo.CheckSlugExists(finalSlug)
		if err != nil {
			return "", err
		}
		if !exists {
			return finalSlug, nil
		}
		finalSlug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}
}

// 导出时间使用 ISO-8601 UTC 并带 Z 后缀；恢复时剥掉 Z 按 UTC 解析。

var exportTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func formatExportTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	formatted := t.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
	return &formatted
}

func parseExportTime(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	raw := strings.TrimSuffix(*value, "Z")
	for _, layout := range exportTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return &t
		}
	}
	log.Printf("无法解析清单中的时间 %q，忽略", *value)
	return nil
}

func exportTimeLess(a, b *string) bool {
	ta, tb := parseExportTime(a), parseExportTime(b)
	if ta == nil {
		return false
	}
	if tb == nil {
		return true
	}
	return ta.Before(*tb)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
