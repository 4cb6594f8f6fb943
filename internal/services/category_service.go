package services

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// ErrCategoryInUse 分类下还有文章时不允许删除。
var ErrCategoryInUse = errors.New("分类下仍有文章，无法删除")

type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetAll() ([]models.Category, error) {
	return s.repo.FindAll()
}

func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	return s.repo.FindByID(id)
}

func (s *CategoryService) Create(name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Rename(id uint, name string) error {
	category, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	category.Name = name
	return s.repo.Update(category)
}

// Delete 删除分类；仍被文章引用时返回 ErrCategoryInUse。
func (s *CategoryService) Delete(id uint) error {
	count, err := s.repo.CountPosts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}
