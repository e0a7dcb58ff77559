package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"quickai/internal/api"
	"quickai/internal/config"
	"quickai/internal/docparse"
	"quickai/internal/llm"
	"quickai/internal/media"
	"quickai/internal/model"
	"quickai/internal/storage"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	textGen, err := llm.NewTextGenerator(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise text generator")
		return
	}
	imageGen, err := llm.NewImageGenerator(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise image generator")
		return
	}
	transformer, err := media.NewCloudinary(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise media transformer")
		return
	}
	extractor := docparse.NewPDFExtractor()

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, textGen, imageGen, transformer, extractor)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(api.Metrics())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())

	aiGroup := protected.Group("/ai")
	aiGroup.POST("/generate-article", httpHandler.GenerateArticle)
	aiGroup.POST("/generate-blog-title", httpHandler.GenerateBlogTitle)
	aiGroup.POST("/generate-image", httpHandler.GenerateImage)
	aiGroup.POST("/remove-background", httpHandler.RemoveBackground)
	aiGroup.POST("/remove-object", httpHandler.RemoveObject)
	aiGroup.POST("/resume-review", httpHandler.ReviewResume)

	protected.PATCH("/account/plan", httpHandler.UpdateMyPlan)

	protected.GET("/creations", httpHandler.ListMyCreations)
	protected.GET("/creations/published", httpHandler.ListPublishedCreations)
	protected.POST("/creations/:id/toggle-like", httpHandler.ToggleCreationLike)

	// 本地存储时通过静态路由直接提供生成的图片
	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithField("host", serverHost).Info("server_start")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  300 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  600 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Error("server failed")
	}
}

// RequestIDMiddleware 为每个请求分配关联 ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-Id", requestID)
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   duration.String(),
			"size":       c.Writer.Size(),
			"client_ip":  c.ClientIP(),
		}).Info("http_request")
	}
}
