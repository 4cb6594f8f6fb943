package services

import (
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gosimple/slug"
)

type PostService struct {
	repo         *repository.PostRepository
	mediaService *MediaService
}

func NewPostService(repo *repository.PostRepository, mediaService *MediaService) *PostService {
	return &PostService{
		repo:         repo,
		mediaService: mediaService,
	}
}

// PostInput 后台编辑器提交的字段。
type PostInput struct {
	Title           string
	Content         string
	Tags            string
	MetaDescription string
	CategoryID      *uint
	IsPublished     bool
}

func (s *PostService) CreatePost(input PostInput, userID uint) (*models.Post, error) {
	if input.Title == "" {
		input.Title = "未命名标题"
	}

	slugStr, err := s.generateUniqueSlug(input.Title, 0)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:           input.Title,
		Slug:            slugStr,
		Content:         input.Content,
		Tags:            input.Tags,
		MetaDescription: input.MetaDescription,
		CategoryID:      input.CategoryID,
		IsPublished:     input.IsPublished,
		UserID:          userID,
	}
	applyPublishPolicy(post, input.IsPublished)

	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(id uint, input PostInput) (*models.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		input.Title = "未命名标题"
	}

	// 标题变了才重新生成 slug，保持旧链接稳定
	if post.Title != input.Title {
		newSlug, err := s.generateUniqueSlug(input.Title, id)
		if err != nil {
			return nil, err
		}
		post.Slug = newSlug
	}

	post.Title = input.Title
	post.Content = input.Content
	post.Tags = input.Tags
	post.MetaDescription = input.MetaDescription
	post.CategoryID = input.CategoryID
	applyPublishPolicy(post, input.IsPublished)
	post.IsPublished = input.IsPublished

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// applyPublishPolicy 保证发布标记和发布时间不会互相矛盾：
// 转为发布时补上时间，取消发布时清掉时间。
func applyPublishPolicy(post *models.Post, isPublished bool) {
	if isPublished {
		if post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	} else {
		post.PublishedAt = nil
	}
}

// AttachCoverImage 处理封面上传：生成主图与缩略图，并清理被替换的旧文件。
func (s *PostService) AttachCoverImage(id uint, imageFilename, thumbnailFilename string) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if post.ImageFilename != "" {
		s.mediaService.DeleteCoverImage(post.ImageFilename, post.ThumbnailFilename)
	}

	return s.repo.UpdateFields(id, map[string]interface{}{
		"image_filename":     imageFilename,
		"thumbnail_filename": thumbnailFilename,
	})
}

func (s *PostService) DeletePost(id uint) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if post.ImageFilename != "" {
		s.mediaService.DeleteCoverImage(post.ImageFilename, post.ThumbnailFilename)
	}
	return s.repo.Delete(id)
}

func (s *PostService) GetPostByID(id uint) (*models.Post, error) {
	return s.repo.FindByID(id)
}

func (s *PostService) GetPostBySlug(slug string, publishedOnly bool) (*models.Post, error) {
	return s.repo.FindBySlug(slug, publishedOnly)
}

func (s *PostService) GetPublishedPage(page, pageSize int, categoryID *uint) ([]models.Post, int, error) {
	posts, err := s.repo.FindPublishedPage(page, pageSize, categoryID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPublished(categoryID)
	if err != nil {
		return nil, 0, err
	}
	return posts, int(total), nil
}

func (s *PostService) SearchPublishedPage(query string, page, pageSize int) ([]models.Post, int, error) {
	posts, err := s.repo.SearchPublishedPage(query, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPublishedByQuery(query)
	if err != nil {
		return nil, 0, err
	}
	return posts, int(total), nil
}

func (s *PostService) GetPageByAdmin(page, pageSize int, query string) ([]models.Post, int, error) {
	posts, err := s.repo.FindPageByAdmin(page, pageSize, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByAdmin(query)
	if err != nil {
		return nil, 0, err
	}
	return posts, int(total), nil
}

func (s *PostService) IncrementViews(id uint) error {
	return s.repo.IncrementViews(id)
}

// generateUniqueSlug checks for slug uniqueness and appends a counter if needed.
func (s *PostService) generateUniqueSlug(title string, postID uint) (string, error) {
	baseSlug := slug.Make(title)
	if baseSlug == "" {
		baseSlug = "untitled"
	}
	finalSlug := baseSlug
	counter := 1
	for {
		var exists bool
		var err error
		if postID == 0 {
			exists, err = s.repo.CheckSlugExists(finalSlug)
		} else {
			exists, err = s.repo.CheckSlugExistsForOtherPost(finalSlug, postID)
		}

		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		finalSlug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}
	return finalSlug, nil
}
