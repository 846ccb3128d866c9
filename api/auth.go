package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"picstash/adapters/session"
	"picstash/adapters/userstore"
	"picstash/models"
)

// credentialsForm 是註冊與登入共用的表單
type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Render home page
// (GET /)
func (impl *ServerImpl) GetHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"User": CurrentUser(c),
	})
}

// Render signup form
// (GET /auth/signup)
func (impl *ServerImpl) GetSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", nil)
}

// Create a new account
// (POST /auth/signup)
func (impl *ServerImpl) PostSignup(c *gin.Context) {
	const op = "PostSignup"
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, ErrorKindAuthFailed, "username and password are required")
		return
	}
	// 使用者名稱視為不可信任的輸入，先清掉任何標記
	username := strings.TrimSpace(impl.sanitizer.Sanitize(form.Username))
	if username == "" {
		respondError(c, http.StatusBadRequest, ErrorKindAuthFailed, "username and password are required")
		return
	}
	// 雜湊密碼，之後不再出現明文
	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Fail to hash password", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to create user")
		return
	}
	// 建立使用者，圖片清單為空
	user := &models.User{
		Username: username,
		Password: string(hashed),
	}
	if err := impl.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			respondError(c, http.StatusConflict, ErrorKindStoreError, "username already taken")
			return
		}
		slog.Error("Fail to create user", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to create user")
		return
	}
	c.Redirect(http.StatusFound, "/auth/login")
}

// Render login form
// (GET /auth/login)
func (impl *ServerImpl) GetLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// Authenticate and establish a session
// (POST /auth/login)
func (impl *ServerImpl) PostLogin(c *gin.Context) {
	const op = "PostLogin"
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, ErrorKindAuthFailed, "username and password are required")
		return
	}
	// 查詢使用者，名稱有唯一性約束，最多一筆
	user, err := impl.users.FindByUsername(c.Request.Context(), form.Username)
	if errors.Is(err, userstore.ErrNotFound) {
		respondError(c, http.StatusOK, ErrorKindAuthFailed, "User does not exist")
		return
	}
	if err != nil {
		slog.Error("Fail to find user", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to look up user")
		return
	}
	// 驗證密碼
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		respondError(c, http.StatusOK, ErrorKindAuthFailed, "passwords don't match")
		return
	}
	// 在session中記錄使用者ID
	sess, err := session.GetSession(c)
	if err != nil {
		slog.Error("Fail to get session", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to establish session")
		return
	}
	sess.Set(SESSION_KEY_USER_ID, user.ID.String())
	if err := sess.Save(); err != nil {
		slog.Error("Fail to save session", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to establish session")
		return
	}
	c.Redirect(http.StatusFound, "/images")
}

// Clear the session
// (GET /auth/logout)
func (impl *ServerImpl) GetLogout(c *gin.Context) {
	const op = "GetLogout"
	// 沒有active session時登出是no-op，觀察到的行為相同
	if sess, err := session.GetSession(c); err == nil {
		sess.Delete(SESSION_KEY_USER_ID)
		if err := sess.Save(); err != nil {
			slog.Warn("Fail to save session on logout", slog.String("op", op), slog.Any("error", err))
		}
	}
	c.Redirect(http.StatusFound, "/")
}
