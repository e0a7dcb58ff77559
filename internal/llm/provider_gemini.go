package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quickai/internal/config"

	"github.com/sirupsen/logrus"
)

// Gemini 的 OpenAI 兼容端点
const geminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"

type GeminiText struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func NewGeminiText(cfg config.Config) (*GeminiText, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, errors.New("gemini api key is not configured")
	}

	model := strings.TrimSpace(cfg.GeminiModel)
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiText{
		httpClient: &http.Client{},
		apiKey:     cfg.GeminiAPIKey,
		model:      model,
		baseURL:    geminiOpenAIBaseURL,
	}, nil
}

func (g *GeminiText) ProviderID() string {
	return "gemini"
}

// Complete runs a single-turn completion against the OpenAI-compatible
// Gemini endpoint.
func (g *GeminiText) Complete(ctx context.Context, request CompletionRequest) (string, error) {
	logger := providerLogger(ctx, g.ProviderID(), g.model)
	logger.WithFields(logrus.Fields{
		"prompt_length":  len([]rune(request.Prompt)),
		"prompt_preview": logSnippet(request.Prompt),
		"max_tokens":     request.MaxTokens,
	}).Info("llm_complete_start")

	content, err := CompleteChatOA(ctx, g.httpClient, g.apiKey, g.baseURL, g.model, request)
	if err != nil {
		logger.WithError(err).Error("llm_complete_failed")
		return "", err
	}

	logger.WithFields(logrus.Fields{
		"content_length":  len([]rune(content)),
		"content_preview": logSnippet(content),
	}).Info("llm_complete_success")
	return content, nil
}

var _ TextGenerator = (*GeminiText)(nil)
