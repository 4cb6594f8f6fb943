package models

import "gorm.io/gorm"

// SiteSetting 站点级配置，全表至多一行，只能通过 GetOrCreate 访问。
type SiteSetting struct {
	gorm.Model
	SiteTitle           string `gorm:"type:varchar(255)" json:"site_title" form:"site_title"`
	SiteDescription     string `gorm:"type:text" json:"site_description" form:"site_description"`
	FooterCopyrightText string `gorm:"type:varchar(255)" json:"footer_copyright_text" form:"footer_copyright_text"`
	GoogleAnalyticsID   string `gorm:"type:varchar(64)" json:"google_analytics_id" form:"google_analytics_id"`
	AboutContent        string `gorm:"type:text" json:"about_content" form:"about_content"`
	FaviconFilename     string `gorm:"type:varchar(255)" json:"favicon_filename"`
	PostsPerPage        int    `gorm:"default:10" json:"posts_per_page" form:"posts_per_page"`
}
