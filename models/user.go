package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 代表系統中的使用者
// 包含登入用的使用者名稱與密碼雜湊，以及使用者擁有的圖片清單
type User struct {
	gorm.Model

	ID       uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Username string    `gorm:"type:varchar(255);uniqueIndex;not null;<-:create"`
	// Password 僅儲存bcrypt雜湊後的結果，註冊後不會再出現明文
	Password string `gorm:"type:varchar(255);not null"`

	// Images 依建立順序排列，生命週期完全隸屬於此使用者
	Images []Image `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate 在建立使用者前產生UUID
// NOTE: 在應用端產生而非使用資料庫預設值，讓測試用的sqlite也能運作
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
