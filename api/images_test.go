package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picstash/models"
)

// loginAs 準備一個已登入的使用者
func loginAs(t *testing.T, client *http.Client, baseURL, username string) {
	signup(t, client, baseURL, username, "secret")
	resp := login(t, client, baseURL, username, "secret")
	require.Equal(t, http.StatusFound, resp.StatusCode)
}

func ownedImages(t *testing.T, impl *ServerImpl, username string) []models.Image {
	user, err := impl.users.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	return user.Images
}

func TestSignupLoginCreateList(t *testing.T) {
	server, client, _ := setupTestServer(t)

	// 完整流程：註冊 → 登入 → 新增 → 清單
	signup(t, client, server.URL, "a", "p")
	resp := login(t, client, server.URL, "a", "p")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	createResp := createImage(t, client, server.URL, "http://x")
	assert.Equal(t, http.StatusFound, createResp.StatusCode)
	assert.Equal(t, "/images", createResp.Header.Get("Location"))

	listResp := get(t, client, server.URL+"/images")
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	body := readBody(t, listResp)
	assert.Equal(t, 1, strings.Count(body, `src="http://x"`))
}

func TestPostImages_AppendsInOrder(t *testing.T) {
	server, client, impl := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	createImage(t, client, server.URL, "http://example.com/url1")
	createImage(t, client, server.URL, "http://example.com/url2")

	images := ownedImages(t, impl, "alice")
	require.Len(t, images, 2)
	assert.Equal(t, "http://example.com/url1", images[0].URL)
	assert.Equal(t, "http://example.com/url2", images[1].URL)

	// 清單頁依插入順序渲染
	body := readBody(t, get(t, client, server.URL+"/images"))
	assert.Less(t, strings.Index(body, "url1"), strings.Index(body, "url2"))
}

func TestGetImageEdit(t *testing.T) {
	server, client, impl := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	createImage(t, client, server.URL, "http://example.com/pic.png")
	images := ownedImages(t, impl, "alice")
	require.Len(t, images, 1)

	resp := get(t, client, server.URL+"/images/"+images[0].ID.String()+"/edit")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "http://example.com/pic.png")
}

func TestGetImageEdit_UnknownImage(t *testing.T) {
	server, client, _ := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	// 找不到圖片時渲染空白表單而不是錯誤頁
	resp := get(t, client, server.URL+"/images/"+uuid.NewString()+"/edit")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `value=""`)
}

func TestPostImageEdit(t *testing.T) {
	server, client, impl := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	createImage(t, client, server.URL, "http://example.com/old.png")
	images := ownedImages(t, impl, "alice")
	require.Len(t, images, 1)

	resp := postForm(t, client, server.URL+"/images/"+images[0].ID.String()+"/edit", map[string][]string{
		"url": {"http://example.com/new.png"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/images", resp.Header.Get("Location"))

	images = ownedImages(t, impl, "alice")
	require.Len(t, images, 1)
	assert.Equal(t, "http://example.com/new.png", images[0].URL)
}

func TestPostImageEdit_UnknownImage(t *testing.T) {
	server, client, _ := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	resp := postForm(t, client, server.URL+"/images/"+uuid.NewString()+"/edit", map[string][]string{
		"url": {"http://example.com/new.png"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, ErrorKindNotFound, payload.Kind)
}

func TestPostImageEdit_OtherUsersImage(t *testing.T) {
	server, client, impl := setupTestServer(t)

	// alice建立一張圖片
	loginAs(t, client, server.URL, "alice")
	createImage(t, client, server.URL, "http://example.com/alice.png")
	aliceImages := ownedImages(t, impl, "alice")
	require.Len(t, aliceImages, 1)
	get(t, client, server.URL+"/auth/logout")

	// bob無法編輯alice的圖片
	loginAs(t, client, server.URL, "bob")
	resp := postForm(t, client, server.URL+"/images/"+aliceImages[0].ID.String()+"/edit", map[string][]string{
		"url": {"http://example.com/hijacked.png"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	aliceImages = ownedImages(t, impl, "alice")
	assert.Equal(t, "http://example.com/alice.png", aliceImages[0].URL)
}

func TestDeleteImage(t *testing.T) {
	server, client, impl := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	createImage(t, client, server.URL, "http://example.com/1.png")
	createImage(t, client, server.URL, "http://example.com/2.png")
	createImage(t, client, server.URL, "http://example.com/3.png")
	images := ownedImages(t, impl, "alice")
	require.Len(t, images, 3)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/images/"+images[1].ID.String(), nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/images", resp.Header.Get("Location"))

	// 只有指定的圖片被刪除，其餘的順序不變
	remaining := ownedImages(t, impl, "alice")
	require.Len(t, remaining, 2)
	assert.Equal(t, "http://example.com/1.png", remaining[0].URL)
	assert.Equal(t, "http://example.com/3.png", remaining[1].URL)
}

func TestDeleteImage_UnknownImage(t *testing.T) {
	server, client, _ := setupTestServer(t)
	loginAs(t, client, server.URL, "alice")

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/images/"+uuid.NewString(), nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, ErrorKindNotFound, payload.Kind)
}
