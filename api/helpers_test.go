package api

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"picstash/adapters/userstore"
	"picstash/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore 是session.IStore的記憶體實作，讓測試不需要連到Redis
type memStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]map[string]string)}
}

func (s *memStore) Load(ctx context.Context, name string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.data[name]))
	for k, v := range s.data[name] {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Save(ctx context.Context, name string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in := make(map[string]string, len(data))
	for k, v := range data {
		in[k] = v
	}
	s.data[name] = in
	return nil
}

// setupTestServer 建立一個使用sqlite in-memory資料庫的完整HTTP測試環境
func setupTestServer(t *testing.T) (*httptest.Server, *http.Client, *ServerImpl) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))

	impl := &ServerImpl{
		users:        userstore.NewGormStore(db),
		sessionStore: newMemStore(),
		sanitizer:    bluemonday.UGCPolicy(),
		db:           db,
		config: ServerConfig{
			Session: SessionConfig{
				KeyForCookie: "picstash_session",
				CookieMaxAge: time.Hour,
				CookieSecure: false,
			},
		},
	}

	router := gin.New()
	impl.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		// 不自動跟隨重導向，讓測試能驗證Location
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return server, client, impl
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func signup(t *testing.T, client *http.Client, baseURL, username, password string) *http.Response {
	return postForm(t, client, baseURL+"/auth/signup", url.Values{
		"username": {username},
		"password": {password},
	})
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) *http.Response {
	return postForm(t, client, baseURL+"/auth/login", url.Values{
		"username": {username},
		"password": {password},
	})
}

func createImage(t *testing.T, client *http.Client, baseURL, imageURL string) *http.Response {
	return postForm(t, client, baseURL+"/images", url.Values{
		"url": {imageURL},
	})
}

func get(t *testing.T, client *http.Client, target string) *http.Response {
	resp, err := client.Get(target)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
