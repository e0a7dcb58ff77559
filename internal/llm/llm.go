package llm

import (
	"context"
	"fmt"
	"strings"

	"quickai/internal/config"
)

// CompletionRequest carries one text-generation call.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// TextGenerator defines the interface for chat-completion style providers.
type TextGenerator interface {
	// Complete performs a synchronous completion and returns the generated text.
	Complete(ctx context.Context, request CompletionRequest) (string, error)
}

// ImageGenerator defines the interface for text-to-image providers.
type ImageGenerator interface {
	// GenerateImage returns the raw bytes of a generated image.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Image driver names accepted by IMAGE_DRIVER.
const (
	ImageDriverClipDrop   = "clipdrop"
	ImageDriverVolcengine = "volcengine"
)

// NewTextGenerator instantiates the configured text-generation provider.
func NewTextGenerator(cfg config.Config) (TextGenerator, error) {
	return NewGeminiText(cfg)
}

// NewImageGenerator instantiates the configured image-generation driver.
func NewImageGenerator(cfg config.Config) (ImageGenerator, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.ImageDriver))
	switch driver {
	case "", ImageDriverClipDrop:
		return NewClipDrop(cfg)
	case ImageDriverVolcengine:
		return NewVolcengineImages(cfg)
	default:
		return nil, fmt.Errorf("unsupported image driver: %s", cfg.ImageDriver)
	}
}
