package userstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"picstash/models"
)

var (
	// ErrNotFound 表示查詢的使用者或圖片不存在，或不屬於指定的使用者
	ErrNotFound = fmt.Errorf("record not found")
	// ErrDuplicateUsername 表示使用者名稱已被註冊
	ErrDuplicateUsername = fmt.Errorf("username already taken")
)

// IUserStore 是使用者及其圖片清單的持久化介面
// 圖片操作一律以擁有者的使用者ID為範圍，不會跨使用者存取
type IUserStore interface {
	// FindByID 以使用者ID查詢，回傳的Images依建立順序排列
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindByUsername 以使用者名稱查詢，名稱有唯一性約束，最多一筆
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Create 建立新使用者，名稱重複時回傳ErrDuplicateUsername
	Create(ctx context.Context, user *models.User) error
	// AppendImage 將圖片附加到使用者的清單尾端
	AppendImage(ctx context.Context, userID uuid.UUID, image *models.Image) error
	// UpdateImageURL 更新指定使用者所擁有圖片的URL
	UpdateImageURL(ctx context.Context, userID, imageID uuid.UUID, url string) error
	// RemoveImage 自使用者的清單中移除指定圖片
	RemoveImage(ctx context.Context, userID, imageID uuid.UUID) error
}
