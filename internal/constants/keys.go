package constants

const (
	// Context Keys
	ContextKeyIsLoggedIn = "isLoggedIn"
	ContextKeySettings   = "settings"

	// Session Keys
	SessionKeyAuthenticated = "authenticated"
	SessionKeyUserID        = "user_id"

	// Flash Categories
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"

	// Archive Contract
	ExportManifestName   = "blog_export.json"
	ExportImagesDir      = "images"
	ExportArchivePattern = "blog_export_%s.zip" // 时间戳格式 20060102_150405
)
