package repository

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *PostRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Category").First(&post, id).Error
	return &post, err
}

func (r *PostRepository) FindBySlug(slug string, publishedOnly bool) (*models.Post, error) {
	var post models.Post
	query := r.db.Preload("Category").Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.First(&post).Error
	return &post, err
}

func (r *PostRepository) CheckSlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) CheckSlugExistsForOtherPost(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) FindPublishedPage(page, pageSize int, categoryID *uint) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.Preload("Category").Where("is_published = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	offset := (page - 1) * pageSize
	err := query.Order("published_at desc").Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountPublished(categoryID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Post{}).Where("is_published = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	err := query.Count(&count).Error
	return count, err
}

// SearchPublishedPage 用 LIKE 在标题、正文和标签里做模糊检索。
func (r *PostRepository) SearchPublishedPage(query string, page, pageSize int) ([]models.Post, error) {
	var posts []models.Post
	pattern := "%" + query + "%"
	offset := (page - 1) * pageSize
	err := r.db.Preload("Category").
		Where("is_published = ?", true).
		Where("title LIKE ? OR content LIKE ? OR tags LIKE ?", pattern, pattern, pattern).
		Order("published_at desc").
		Offset(offset).Limit(pageSize).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountPublishedByQuery(query string) (int64, error) {
	var count int64
	pattern := "%" + query + "%"
	err := r.db.Model(&models.Post{}).
		Where("is_published = ?", true).
		Where("title LIKE ? OR content LIKE ? OR tags LIKE ?", pattern, pattern, pattern).
		Count(&count).Error
	return count, err
}

func (r *PostRepository) FindPageByAdmin(page, pageSize int, query string) ([]models.Post, error) {
	var posts []models.Post
	dbQuery := r.db.Preload("Category").Order("created_at desc")
	if query != "" {
		pattern := "%" + query + "%"
		dbQuery = dbQuery.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}
	offset := (page - 1) * pageSize
	err := dbQuery.Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountByAdmin(query string) (int64, error) {
	var count int64
	dbQuery := r.db.Model(&models.Post{})
	if query != "" {
		pattern := "%" + query + "%"
		dbQuery = dbQuery.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}
	err := dbQuery.Count(&count).Error
	return count, err
}

// FindAllForExport 按创建时间升序取全部文章，供导出管道使用。
func (r *PostRepository) FindAllForExport() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("created_at asc").Find(&posts).Error
	return posts, err
}

func (r *PostRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *PostRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PostRepository) GetDB() *gorm.DB {
	return r.db
}
