package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"quickai/internal/docparse"
	"quickai/internal/entity"
	"quickai/internal/llm"
	"quickai/internal/media"
	"quickai/internal/model"
	"quickai/internal/quota"
	"quickai/internal/storage"
)

// maxResumeBytes 简历文件大小上限，校验在任何服务商调用之前完成。
const maxResumeBytes = 5 << 20

const (
	defaultArticleTokens = 800
	blogTitleTokens      = 100
	resumeReviewTokens   = 1000
	defaultTemperature   = 0.7
)

// 拒绝类错误，由 API 层映射到对应的 HTTP 状态码。
var (
	ErrQuotaExhausted  = errors.New("Free quota exhausted. Please upgrade to continue.")
	ErrPremiumRequired = errors.New("This feature is only available to premium users.")
)

// ValidationError marks caller input problems detected before any provider
// cost is incurred.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidInput(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Caller is the per-request snapshot of the authenticated account. Plan and
// usage are read once at authorization time; later mutations do not affect
// decisions already taken for this request.
type Caller struct {
	ID        uint
	Premium   bool
	FreeUsage int
}

// operation describes how the generic generation flow treats one endpoint.
type operation struct {
	creationType string
	class        quota.Class
}

var (
	opArticle      = operation{creationType: entity.CreationTypeArticle, class: quota.ClassMetered}
	opBlogTitle    = operation{creationType: entity.CreationTypeBlogTitle, class: quota.ClassMetered}
	opImage        = operation{creationType: entity.CreationTypeImage, class: quota.ClassPremiumOnly}
	opRemoveBg     = operation{creationType: entity.CreationTypeImage, class: quota.ClassPremiumOnly}
	opRemoveObject = operation{creationType: entity.CreationTypeImage, class: quota.ClassPremiumOnly}
	opResumeReview = operation{creationType: entity.CreationTypeResumeReview, class: quota.ClassPremiumOnly}
)

// GenerationService 内容生成服务，封装生成相关的业务逻辑
type GenerationService struct {
	repo      model.Repository
	gate      *quota.Gate
	textGen   llm.TextGenerator
	imageGen  llm.ImageGenerator
	media     media.Transformer
	extractor docparse.Extractor
	store     storage.Storage
}

// NewGenerationService 创建生成服务实例
func NewGenerationService(
	repo model.Repository,
	gate *quota.Gate,
	textGen llm.TextGenerator,
	imageGen llm.ImageGenerator,
	transformer media.Transformer,
	extractor docparse.Extractor,
	store storage.Storage,
) *GenerationService {
	return &GenerationService{
		repo:      repo,
		gate:      gate,
		textGen:   textGen,
		imageGen:  imageGen,
		media:     transformer,
		extractor: extractor,
		store:     store,
	}
}

// run is the single generation flow every endpoint goes through: gate, then
// input validation, then the provider call, then the append-only creation
// record, then usage accounting for metered calls from free accounts.
// Nothing is persisted and no provider is contacted on a denied or invalid
// request.
func (s *GenerationService) run(
	ctx context.Context,
	caller Caller,
	op operation,
	prompt string,
	publish bool,
	validate func() error,
	invoke func(ctx context.Context) (string, error),
) (string, error) {
	logger := logrus.WithFields(logrus.Fields{
		"user_id": caller.ID,
		"type":    op.creationType,
		"class":   string(op.class),
	})

	decision := s.gate.Authorize(caller.Premium, caller.FreeUsage, op.class)
	if !decision.Allowed {
		logger.WithField("reason", string(decision.Reason)).Info("generation_denied")
		switch decision.Reason {
		case quota.ReasonQuotaExhausted:
			return "", ErrQuotaExhausted
		default:
			return "", ErrPremiumRequired
		}
	}

	if validate != nil {
		if err := validate(); err != nil {
			return "", err
		}
	}

	logger.Info("generation_start")

	content, err := invoke(ctx)
	if err != nil {
		logger.WithError(err).Error("generation_failed")
		return "", err
	}

	creation := &entity.DbCreation{
		UserID:  caller.ID,
		Prompt:  prompt,
		Content: content,
		Type:    op.creationType,
		Publish: publish,
	}
	if err := s.repo.CreateCreation(ctx, creation); err != nil {
		logger.WithError(err).Error("failed to persist creation")
		return "", fmt.Errorf("persist creation: %w", err)
	}

	if !caller.Premium && op.class == quota.ClassMetered {
		if err := s.repo.IncrementFreeUsage(ctx, caller.ID); err != nil {
			// The content is already generated and recorded, so the
			// caller still gets a success response.
			logger.WithError(err).Error("failed to increment free usage")
		}
	}

	logger.WithField("creation_id", creation.ID).Info("generation_success")
	return content, nil
}

// GenerateArticle 根据提示词生成文章
func (s *GenerationService) GenerateArticle(ctx context.Context, caller Caller, req entity.GenerateArticleRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	length := req.Length
	if length <= 0 {
		length = defaultArticleTokens
	}

	return s.run(ctx, caller, opArticle, prompt, false,
		func() error {
			if prompt == "" {
				return invalidInput("prompt is required")
			}
			return nil
		},
		func(ctx context.Context) (string, error) {
			return s.textGen.Complete(ctx, llm.CompletionRequest{
				Prompt:      prompt,
				Temperature: defaultTemperature,
				MaxTokens:   length,
			})
		})
}

// GenerateBlogTitle 根据提示词生成博客标题
func (s *GenerationService) GenerateBlogTitle(ctx context.Context, caller Caller, req entity.GenerateBlogTitleRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)

	return s.run(ctx, caller, opBlogTitle, prompt, false,
		func() error {
			if prompt == "" {
				return invalidInput("prompt is required")
			}
			return nil
		},
		func(ctx context.Context) (string, error) {
			return s.textGen.Complete(ctx, llm.CompletionRequest{
				Prompt:      prompt,
				Temperature: defaultTemperature,
				MaxTokens:   blogTitleTokens,
			})
		})
}

// GenerateImage 文生图，图片字节写入对象存储后以公开 URL 入库。
func (s *GenerationService) GenerateImage(ctx context.Context, caller Caller, req entity.GenerateImageRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)

	return s.run(ctx, caller, opImage, prompt, req.Publish,
		func() error {
			if prompt == "" {
				return invalidInput("prompt is required")
			}
			return nil
		},
		func(ctx context.Context) (string, error) {
			data, err := s.imageGen.GenerateImage(ctx, prompt)
			if err != nil {
				return "", err
			}
			key, err := s.store.Save(ctx, data, storage.SaveOptions{
				Category:  "generated",
				Extension: "png",
			})
			if err != nil {
				return "", fmt.Errorf("store generated image: %w", err)
			}
			return s.store.PublicURL(key), nil
		})
}

// RemoveBackground 抠除图片背景
func (s *GenerationService) RemoveBackground(ctx context.Context, caller Caller, image []byte) (string, error) {
	return s.run(ctx, caller, opRemoveBg, "Remove background from image", false,
		func() error {
			if len(image) == 0 {
				return invalidInput("image file is required")
			}
			return nil
		},
		func(ctx context.Context) (string, error) {
			asset, err := s.media.Upload(ctx, image, media.UploadOptions{
				Transformation: "e_background_removal",
			})
			if err != nil {
				return "", err
			}
			return asset.SecureURL, nil
		})
}

// RemoveObject 从图片中移除指定物体
func (s *GenerationService) RemoveObject(ctx context.Context, caller Caller, image []byte, object string) (string, error) {
	object = strings.TrimSpace(object)

	return s.run(ctx, caller, opRemoveObject, fmt.Sprintf("Remove %s from image", object), false,
		func() error {
			if len(image) == 0 {
				return invalidInput("image file is required")
			}
			if object == "" {
				return invalidInput("object name is required")
			}
			if strings.ContainsAny(object, " \t\n") {
				return invalidInput("please enter only one object name")
			}
			return nil
		},
		func(ctx context.Context) (string, error) {
			asset, err := s.media.Upload(ctx, image, media.UploadOptions{})
			if err != nil {
				return "", err
			}
			return s.media.BuildURL(asset.PublicID, "e_gen_remove:"+object), nil
		})
}

// ReviewResume 审阅 PDF 简历并生成反馈，文件大小在调用服务商前校验。
func (s *GenerationService) ReviewResume(ctx context.Context, caller Caller, resume []byte) (string, error) {
	return s.run(ctx, caller, opResumeReview, "Review the uploaded resume", false,
		func() error {
			if len(resume) == 0 {
				return invalidInput("resume file is required")
			}
			if len(resume) > maxResumeBytes {
				return invalidInput("resume file exceeds allowed size (5MB)")
			}
			return nil
		},
		func(ctx context.Context) (string, error) {
			text, err := s.extractor.ExtractText(resume)
			if err != nil {
				return "", fmt.Errorf("extract resume text: %w", err)
			}
			prompt := fmt.Sprintf("Review the following resume and provide constructive feedback on its strengths, weaknesses, and areas for improvement. Resume Content:\n\n%s", text)
			return s.textGen.Complete(ctx, llm.CompletionRequest{
				Prompt:      prompt,
				Temperature: defaultTemperature,
				MaxTokens:   resumeReviewTokens,
			})
		})
}
