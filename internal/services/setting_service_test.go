package services

import (
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingServiceCreatesSingleton(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(repository.NewSettingRepository(db))

	setting := service.Get()
	assert.NotEmpty(t, setting.SiteTitle)
	assert.Positive(t, setting.PostsPerPage)

	var count int64
	require.NoError(t, db.Model(&models.SiteSetting{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "站点设置是单例行")
}

func TestSettingServiceUpdate(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(repository.NewSettingRepository(db))

	err := service.Update(func(s *models.SiteSetting) {
		s.SiteTitle = "新标题"
		s.SiteDescription = "新描述"
		s.PostsPerPage = 5
	})
	require.NoError(t, err)

	// 缓存和数据库同时生效
	cached := service.Get()
	assert.Equal(t, "新标题", cached.SiteTitle)
	assert.Equal(t, 5, cached.PostsPerPage)

	var row models.SiteSetting
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "新标题", row.SiteTitle)

	var count int64
	require.NoError(t, db.Model(&models.SiteSetting{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "更新不应产生第二行")
}

func TestSettingServiceGuardsPostsPerPage(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(repository.NewSettingRepository(db))

	err := service.Update(func(s *models.SiteSetting) {
		s.PostsPerPage = 0
	})
	require.NoError(t, err)
	assert.Equal(t, 10, service.Get().PostsPerPage)
}

func TestSettingServiceReload(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(repository.NewSettingRepository(db))

	// 绕开服务直接改库，模拟备份恢复
	require.NoError(t, db.Model(&models.SiteSetting{}).
		Where("1 = 1").Update("site_title", "恢复后的标题").Error)

	assert.NotEqual(t, "恢复后的标题", service.Get().SiteTitle, "缓存还没刷新")
	service.Reload()
	assert.Equal(t, "恢复后的标题", service.Get().SiteTitle)
}
