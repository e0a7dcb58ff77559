package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"quickai/internal/config"

	"github.com/sirupsen/logrus"
)

// ClipDrop text-to-image 端点
const clipDropTextToImageURL = "https://clipdrop-api.co/text-to-image/v1"

// ClipDrop generates images from text prompts and returns raw PNG bytes.
type ClipDrop struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

func NewClipDrop(cfg config.Config) (*ClipDrop, error) {
	if strings.TrimSpace(cfg.ClipDropAPIKey) == "" {
		return nil, errors.New("clipdrop api key is not configured")
	}
	return &ClipDrop{
		httpClient: &http.Client{},
		apiKey:     cfg.ClipDropAPIKey,
		endpoint:   clipDropTextToImageURL,
	}, nil
}

func (c *ClipDrop) ProviderID() string {
	return "clipdrop"
}

func (c *ClipDrop) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	logger := providerLogger(ctx, c.ProviderID(), "")
	logger.WithFields(logrus.Fields{
		"prompt_length":  len([]rune(prompt)),
		"prompt_preview": logSnippet(prompt),
	}).Info("llm_generate_image_start")

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &form)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("llm_generate_image_request_failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status":       resp.StatusCode,
			"body_preview": logSnippet(string(body)),
		}).Error("llm_generate_image_response_error")
		return nil, fmt.Errorf("clipdrop http %d: %s", resp.StatusCode, logSnippet(string(body)))
	}

	if len(body) == 0 {
		return nil, errors.New("clipdrop response contained no image data")
	}

	logger.WithField("image_bytes", len(body)).Info("llm_generate_image_success")
	return body, nil
}

var _ ImageGenerator = (*ClipDrop)(nil)
