package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image 代表使用者收藏的一張圖片連結
// 每張圖片只屬於一位使用者，僅透過擁有者的操作建立、修改與刪除
type Image struct {
	gorm.Model

	ID     uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;<-:create"`
	URL    string    `gorm:"type:text;not null"`

	User *User `gorm:"foreignKey:UserID"`
}

// BeforeCreate 在建立圖片前產生UUID
func (img *Image) BeforeCreate(tx *gorm.DB) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	return nil
}
