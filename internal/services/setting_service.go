package services

import (
	"log"
	"sync"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// SettingService 缓存站点设置单例，避免每个请求都查库。
type SettingService struct {
	repo         *repository.SettingRepository
	setting      *models.SiteSetting
	settingsLock sync.RWMutex
}

func NewSettingService(repo *repository.SettingRepository) *SettingService {
	s := &SettingService{repo: repo}
	s.loadSetting()
	return s
}

func (s *SettingService) loadSetting() {
	s.settingsLock.Lock()
	defer s.settingsLock.Unlock()

	setting, err := s.repo.GetOrCreate()
	if err != nil {
		log.Printf("无法加载站点设置: %v", err)
		return
	}
	s.setting = setting
}

// Get 从缓存返回站点设置的副本。
func (s *SettingService) Get() models.SiteSetting {
	s.settingsLock.RLock()
	defer s.settingsLock.RUnlock()

	if s.setting == nil {
		return models.SiteSetting{SiteTitle: "Inkwell", PostsPerPage: 10}
	}
	return *s.setting
}

// Update 写回站点设置并刷新缓存。
func (s *SettingService) Update(mutate func(*models.SiteSetting)) error {
	setting, err := s.repo.GetOrCreate()
	if err != nil {
		return err
	}
	mutate(setting)
	if setting.PostsPerPage <= 0 {
		setting.PostsPerPage = 10
	}
	if err := s.repo.Save(setting); err != nil {
		return err
	}
	s.loadSetting()
	return nil
}

// Reload 在导入备份等绕过本服务的写入之后刷新缓存。
func (s *SettingService) Reload() {
	s.loadSetting()
}
