package repository

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FirstAdmin() (*models.User, error) {
	var user models.User
	err := r.db.Order("id asc").First(&user).Error
	return &user, err
}

func (r *UserRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}
