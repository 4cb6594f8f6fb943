package repository

import (
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

type PageViewRepository struct {
	db *gorm.DB
}

func NewPageViewRepository(db *gorm.DB) *PageViewRepository {
	return &PageViewRepository{db: db}
}

func (r *PageViewRepository) Create(view *models.PageView) error {
	return r.db.Create(view).Error
}

func (r *PageViewRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&models.PageView{}).Count(&count).Error
	return count, err
}

func (r *PageViewRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.PageView{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// PostViewCount 仪表盘“最多阅读”列表的一行。
type PostViewCount struct {
	PostID uint
	Title  string
	Views  int64
}

// TopPosts 按访问记录数取阅读最多的文章。
func (r *PageViewRepository) TopPosts(limit int) ([]PostViewCount, error) {
	var rows []PostViewCount
	err := r.db.Model(&models.PageView{}).
		Select("page_views.post_id as post_id, posts.title as title, count(*) as views").
		Joins("JOIN posts ON posts.id = page_views.post_id").
		Where("page_views.post_id IS NOT NULL").
		Group("page_views.post_id, posts.title").
		Order("views desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
