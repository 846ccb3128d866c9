package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"picstash/models"
)

// GormStore 以gorm實作IUserStore，單筆SQL語句以外不提供額外的原子性保證
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) IUserStore {
	return &GormStore{db: db}
}

// preloadImages 載入使用者的圖片清單並維持插入順序
func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "userstore.GormStore.FindByID"
	user := models.User{ID: id}
	if result := s.db.WithContext(ctx).Preload("Images", preloadImages).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: failed to find user: %w", op, result.Error)
	}
	return &user, nil
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "userstore.GormStore.FindByUsername"
	var user models.User
	if result := s.db.WithContext(ctx).Preload("Images", preloadImages).Where("username = ?", username).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: failed to find user: %w", op, result.Error)
	}
	return &user, nil
}

func (s *GormStore) Create(ctx context.Context, user *models.User) error {
	const op = "userstore.GormStore.Create"
	if result := s.db.WithContext(ctx).Create(user); result.Error != nil {
		// 需要開啟gorm的TranslateError才能辨識唯一性衝突
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("%s: failed to create user: %w", op, result.Error)
	}
	return nil
}

func (s *GormStore) AppendImage(ctx context.Context, userID uuid.UUID, image *models.Image) error {
	const op = "userstore.GormStore.AppendImage"
	image.UserID = userID
	if result := s.db.WithContext(ctx).Create(image); result.Error != nil {
		return fmt.Errorf("%s: failed to append image: %w", op, result.Error)
	}
	return nil
}

func (s *GormStore) UpdateImageURL(ctx context.Context, userID, imageID uuid.UUID, url string) error {
	const op = "userstore.GormStore.UpdateImageURL"
	result := s.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ? AND user_id = ?", imageID, userID).
		Update("url", url)
	if result.Error != nil {
		return fmt.Errorf("%s: failed to update image: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) RemoveImage(ctx context.Context, userID, imageID uuid.UUID) error {
	const op = "userstore.GormStore.RemoveImage"
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", imageID, userID).
		Delete(&models.Image{})
	if result.Error != nil {
		return fmt.Errorf("%s: failed to remove image: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
