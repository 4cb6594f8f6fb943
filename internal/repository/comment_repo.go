package repository

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *CommentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, id).Error
	return &comment, err
}

func (r *CommentRepository) FindByPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at asc, id asc").Find(&comments).Error
	return comments, err
}

// FindAllForExport 按创建时间升序取全部评论，供导出管道使用。
func (r *CommentRepository) FindAllForExport() ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Order("created_at asc, id asc").Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Count(&count).Error
	return count, err
}

// UpdateParentID 评论插入完成后的第二趟父子回链。
func (r *CommentRepository) UpdateParentID(id uint, parentID uint) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).
		Update("parent_id", parentID).Error
}
