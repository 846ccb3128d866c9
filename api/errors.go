package api

import "github.com/gin-gonic/gin"

// ErrorKind 是對外錯誤的封閉分類
type ErrorKind string

const (
	// ErrorKindAuthFailed 表示帳號或密碼驗證失敗
	ErrorKindAuthFailed ErrorKind = "auth_failed"
	// ErrorKindNotFound 表示操作目標不存在或不屬於目前使用者
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindStoreError 表示儲存層操作失敗
	ErrorKindStoreError ErrorKind = "store_error"
)

// ErrorResponse 是所有失敗路徑共用的回應格式
type ErrorResponse struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind"`
}

// respondError 以統一的格式回覆錯誤
// NOTE: 每個失敗分支都必須回覆客戶端，不允許只記錄日誌而不回應
func respondError(c *gin.Context, status int, kind ErrorKind, message string) {
	c.JSON(status, ErrorResponse{
		Error: message,
		Kind:  kind,
	})
}
