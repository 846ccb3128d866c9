package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"picstash/adapters/userstore"
	"picstash/models"
)

// imageForm 是新增與編輯圖片共用的表單
type imageForm struct {
	URL string `form:"url" binding:"required"`
}

// imageView 是清單頁使用的資料
type imageView struct {
	ID  string
	URL string
}

// List owned images
// (GET /images)
func (impl *ServerImpl) GetImages(c *gin.Context) {
	const op = "GetImages"
	// 以使用者名稱重新查詢，讓清單反映其他請求造成的變動
	user, err := impl.users.FindByUsername(c.Request.Context(), CurrentUser(c).Username)
	if errors.Is(err, userstore.ErrNotFound) {
		// 使用者在session存續期間被刪除，視同未登入
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}
	if err != nil {
		slog.Error("Fail to load image list", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to load images")
		return
	}
	c.HTML(http.StatusOK, "images.html", gin.H{
		"Username": user.Username,
		"Images": lo.Map(user.Images, func(img models.Image, _ int) imageView {
			return imageView{ID: img.ID.String(), URL: img.URL}
		}),
	})
}

// Append an image to the owned list
// (POST /images)
func (impl *ServerImpl) PostImages(c *gin.Context) {
	const op = "PostImages"
	var form imageForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, ErrorKindStoreError, "url is required")
		return
	}
	// 以使用者名稱重新查詢後再附加
	user, err := impl.users.FindByUsername(c.Request.Context(), CurrentUser(c).Username)
	if err != nil {
		slog.Error("Fail to find user", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to create image")
		return
	}
	image := &models.Image{
		URL: strings.TrimSpace(impl.sanitizer.Sanitize(form.URL)),
	}
	if err := impl.users.AppendImage(c.Request.Context(), user.ID, image); err != nil {
		slog.Error("Fail to append image", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to create image")
		return
	}
	c.Redirect(http.StatusFound, "/images")
}

// Render edit form for a single image
// (GET /images/:imageID/edit)
func (impl *ServerImpl) GetImageEdit(c *gin.Context) {
	const op = "GetImageEdit"
	// 以session中的使用者ID查詢
	user, err := impl.users.FindByID(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		slog.Error("Fail to find user", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to load image")
		return
	}
	// 線性掃描清單，找不到時仍渲染空白表單，不回報not found
	var url string
	if imageID, parseErr := uuid.Parse(c.Param("imageID")); parseErr == nil {
		if img, found := lo.Find(user.Images, func(img models.Image) bool {
			return img.ID == imageID
		}); found {
			url = img.URL
		}
	}
	c.HTML(http.StatusOK, "edit.html", gin.H{
		"ID":  c.Param("imageID"),
		"URL": url,
	})
}

// Update the URL of a single image
// (POST /images/:imageID/edit)
func (impl *ServerImpl) PostImageEdit(c *gin.Context) {
	const op = "PostImageEdit"
	imageID, err := uuid.Parse(c.Param("imageID"))
	if err != nil {
		respondError(c, http.StatusNotFound, ErrorKindNotFound, "image not found")
		return
	}
	var form imageForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, ErrorKindStoreError, "url is required")
		return
	}
	// 以session使用者ID加圖片ID為範圍做定向更新
	url := strings.TrimSpace(impl.sanitizer.Sanitize(form.URL))
	if err := impl.users.UpdateImageURL(c.Request.Context(), CurrentUser(c).ID, imageID, url); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respondError(c, http.StatusNotFound, ErrorKindNotFound, "image not found")
			return
		}
		slog.Error("Fail to update image", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to update image")
		return
	}
	c.Redirect(http.StatusFound, "/images")
}

// Remove a single image
// (DELETE /images/:imageID)
func (impl *ServerImpl) DeleteImage(c *gin.Context) {
	const op = "DeleteImage"
	imageID, err := uuid.Parse(c.Param("imageID"))
	if err != nil {
		respondError(c, http.StatusNotFound, ErrorKindNotFound, "image not found")
		return
	}
	if err := impl.users.RemoveImage(c.Request.Context(), CurrentUser(c).ID, imageID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respondError(c, http.StatusNotFound, ErrorKindNotFound, "image not found")
			return
		}
		slog.Error("Fail to remove image", slog.String("op", op), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, ErrorKindStoreError, "failed to remove image")
		return
	}
	c.Redirect(http.StatusFound, "/images")
}
