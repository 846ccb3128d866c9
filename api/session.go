package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"picstash/adapters/session"
	"picstash/adapters/userstore"
	"picstash/models"
)

const (
	SESSION_KEY_USER_ID      = "user_id"
	CONTEXT_KEY_CURRENT_USER = "current_user"
)

func (impl *ServerImpl) SessionMiddleware() gin.HandlerFunc {
	return session.GinMiddleware(
		impl.sessionStore,
		session.WithSessionKeyForCookie(impl.config.Session.KeyForCookie),
		session.WithCookieMaxAge(impl.config.Session.CookieMaxAge),
		session.WithCookieSecure(impl.config.Session.CookieSecure),
	)
}

// ResolveUser 讀取session中的使用者ID，查詢對應的使用者並附加到請求context
// 任何一步失敗都不會讓請求失敗，只會讓目前使用者維持未設定
func (impl *ServerImpl) ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := session.GetSession(c)
		if err != nil {
			c.Next()
			return
		}
		rawID := sess.Get(SESSION_KEY_USER_ID)
		if rawID == "" {
			c.Next()
			return
		}
		userID, err := uuid.Parse(rawID)
		if err != nil {
			c.Next()
			return
		}
		user, err := impl.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, userstore.ErrNotFound) {
				slog.Warn("Fail to resolve session user", slog.String("op", "ResolveUser"), slog.Any("error", err))
			}
			c.Next()
			return
		}
		c.Set(CONTEXT_KEY_CURRENT_USER, user)
		c.Next()
	}
}

// RequireUser 是圖片操作的存取閘門
// 未登入的請求一律重新導向到登入頁，不視為錯誤
func (impl *ServerImpl) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 取得由ResolveUser附加的目前使用者，未登入時回傳nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CONTEXT_KEY_CURRENT_USER)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
