package handlers

import (
	"net/http"

	"inkwell/internal/constants"
	"inkwell/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks if a user is authenticated via session flag.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		authenticated := session.Get(constants.SessionKeyAuthenticated)

		if authenticated == nil || !authenticated.(bool) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SettingsMiddleware loads the site settings and login state into the context.
func SettingsMiddleware(settingService *services.SettingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeySettings, settingService.Get())

		session := sessions.Default(c)
		isLoggedIn := session.Get(constants.SessionKeyAuthenticated)
		c.Set(constants.ContextKeyIsLoggedIn, isLoggedIn != nil && isLoggedIn.(bool))

		c.Next()
	}
}

// render is a helper function to render templates with common data.
func render(c *gin.Context, status int, templateName string, data gin.H) {
	if settings, exists := c.Get(constants.ContextKeySettings); exists {
		data["Settings"] = settings
	}
	if isLoggedIn, exists := c.Get(constants.ContextKeyIsLoggedIn); exists {
		data["IsLoggedIn"] = isLoggedIn
	}

	c.HTML(status, templateName, data)
}

// addFlash 追加一条一次性提示，下一个渲染的页面读取后即清除。
func addFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	_ = session.Save()
}

// takeFlashes 读取并清空指定类别的提示。
func takeFlashes(c *gin.Context, category string) []interface{} {
	session := sessions.Default(c)
	flashes := session.Flashes(category)
	_ = session.Save()
	return flashes
}

// currentUserID 从会话取当前登录用户的 id，未登录时返回 0。
func currentUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	value := session.Get(constants.SessionKeyUserID)
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}
