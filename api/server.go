package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	redisAdapter "picstash/adapters/redis"
	"picstash/adapters/session"
	"picstash/adapters/userstore"
	"picstash/models"
)

type ServerImpl struct {
	users        userstore.IUserStore
	sessionStore session.IStore
	sanitizer    *bluemonday.Policy
	redisClient  *redis.Client
	db           *gorm.DB

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化資料庫連線
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Image{}); err != nil {
		return nil, fmt.Errorf("[%s] Fail to migrate models, err=%w", op, err)
	}

	// 初始化Redis連線
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	return &ServerImpl{
		users:        userstore.NewGormStore(db),
		sessionStore: redisAdapter.NewStore(redisClient, redisAdapter.WithStorePrefix(config.Redis.KeyPrefix+"session:")),
		sanitizer:    bluemonday.UGCPolicy(),
		redisClient:  redisClient,
		db:           db,
		config:       config,
	}, nil
}

func (impl *ServerImpl) Close() {
	// 關閉Redis連線
	impl.redisClient.Close()
	// 關閉資料庫連線
	if sqlDB, err := impl.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// RegisterRoutes 註冊所有路由
// 每個請求都會先經過session middleware與使用者解析，
// 圖片相關的路由另外需要通過登入檢查
func (impl *ServerImpl) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(loadTemplates())
	router.Use(impl.SessionMiddleware(), impl.ResolveUser())

	router.GET("/", impl.GetHome)

	auth := router.Group("/auth")
	{
		auth.GET("/signup", impl.GetSignup)
		auth.POST("/signup", impl.PostSignup)
		auth.GET("/login", impl.GetLogin)
		auth.POST("/login", impl.PostLogin)
		auth.GET("/logout", impl.GetLogout)
	}

	images := router.Group("/images", impl.RequireUser())
	{
		images.GET("", impl.GetImages)
		images.POST("", impl.PostImages)
		images.GET("/:imageID/edit", impl.GetImageEdit)
		images.POST("/:imageID/edit", impl.PostImageEdit)
		images.DELETE("/:imageID", impl.DeleteImage)
	}
}
