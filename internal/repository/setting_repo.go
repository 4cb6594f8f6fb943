package repository

import (
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetOrCreate 返回站点设置单例，不存在时创建带默认值的首行。
// 站点设置只能通过这里访问，避免“取第一行”的查询散落在各处。
func (r *SettingRepository) GetOrCreate() (*models.SiteSetting, error) {
	var setting models.SiteSetting
	err := r.db.Order("id asc").First(&setting).Error
	if err == nil {
		return &setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting = models.SiteSetting{
		SiteTitle:    "Inkwell",
		PostsPerPage: 10,
	}
	if err := r.db.Create(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepository) Save(setting *models.SiteSetting) error {
	return r.db.Save(setting).Error
}
