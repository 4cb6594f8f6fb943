package models

// 导出清单的数据传输结构。这是导出与恢复之间的稳定契约：
// 归档根目录固定放一个 blog_export.json，图片放在 images/ 下。
// 清单中的 id 只是归档内的标识符，恢复时一律重新分配，
// 仅用于重建 文章↔分类、评论↔文章、评论↔父评论 之间的引用关系。

const ExportManifestVersion = 1

type ExportDocument struct {
	Version      int                 `json:"version"`
	Posts        []PostExport        `json:"posts"`
	Categories   []CategoryExport    `json:"categories"`
	Comments     []CommentExport     `json:"comments"`
	SiteSettings *SiteSettingExport  `json:"site_settings"`
}

type PostExport struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	CreatedAt        *string `json:"created_at"`
	UpdatedAt        *string `json:"updated_at"`
	PublishedAt      *string `json:"published_at"`
	IsPublished      bool    `json:"is_published"`
	FeaturedImageURL *string `json:"featured_image_url"`
	Tags             *string `json:"tags"`
	MetaDescription  *string `json:"meta_description"`
	Slug             *string `json:"slug"`
	CategoryID       *uint   `json:"category_id"`
}

type CategoryExport struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CommentExport struct {
	ID        uint    `json:"id"`
	Nickname  string  `json:"nickname"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"created_at"`
	PostID    uint    `json:"post_id"`
	ParentID  *uint   `json:"parent_id"`
	IPAddress *string `json:"ip_address"`
}

type SiteSettingExport struct {
	SiteTitle           string  `json:"site_title"`
	SiteDescription     *string `json:"site_description"`
	FooterCopyrightText *string `json:"footer_copyright_text"`
	GoogleAnalyticsID   *string `json:"google_analytics_id"`
	AboutContent        *string `json:"about_content"`
}
