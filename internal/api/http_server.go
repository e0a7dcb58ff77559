package api

import (
	"time"

	"quickai/internal/auth"
	"quickai/internal/config"
	"quickai/internal/docparse"
	"quickai/internal/llm"
	"quickai/internal/media"
	"quickai/internal/model"
	"quickai/internal/quota"
	"quickai/internal/service"
	"quickai/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	storage     storage.Storage
	authManager *auth.Manager

	// 服务层
	generationService *service.GenerationService
	creationService   *service.CreationService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(
	cfg config.Config,
	repo model.Repository,
	store storage.Storage,
	textGen llm.TextGenerator,
	imageGen llm.ImageGenerator,
	transformer media.Transformer,
	extractor docparse.Extractor,
) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	gate := quota.NewGate(cfg.FreeUsageLimit)
	generationSvc := service.NewGenerationService(repo, gate, textGen, imageGen, transformer, extractor, store)
	creationSvc := service.NewCreationService(repo)

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		authManager:       authManager,
		generationService: generationSvc,
		creationService:   creationSvc,
	}, nil
}
