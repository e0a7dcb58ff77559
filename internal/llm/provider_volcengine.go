package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"quickai/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	volcModel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/volcengine"
)

//文档:https://www.volcengine.com/docs/82379/1824121

// VolcengineImages generates images with the Ark Seedream models. The API
// returns a download URL valid for 24 hours; the bytes are fetched eagerly
// so the caller can persist them to its own storage.
type VolcengineImages struct {
	httpClient *http.Client
	apiKey     string
	model      string
}

func NewVolcengineImages(cfg config.Config) (*VolcengineImages, error) {
	if strings.TrimSpace(cfg.VolcengineAPIKey) == "" {
		return nil, errors.New("volcengine api key is not configured")
	}
	model := strings.TrimSpace(cfg.VolcengineModel)
	if model == "" {
		model = "doubao-seedream-4-0-250828"
	}
	return &VolcengineImages{
		httpClient: &http.Client{},
		apiKey:     cfg.VolcengineAPIKey,
		model:      model,
	}, nil
}

func (v *VolcengineImages) ProviderID() string {
	return "volcengine"
}

func (v *VolcengineImages) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	logger := providerLogger(ctx, v.ProviderID(), v.model)
	logger.WithFields(logrus.Fields{
		"prompt_length":  len([]rune(prompt)),
		"prompt_preview": logSnippet(prompt),
	}).Info("llm_generate_image_start")

	imageURL, err := v.generateImageURL(ctx, prompt)
	if err != nil {
		logger.WithError(err).Error("llm_generate_image_failed")
		return nil, err
	}

	data, err := v.downloadImage(ctx, imageURL)
	if err != nil {
		logger.WithError(err).Error("llm_generate_image_download_failed")
		return nil, err
	}

	logger.WithField("image_bytes", len(data)).Info("llm_generate_image_success")
	return data, nil
}

func (v *VolcengineImages) generateImageURL(ctx context.Context, prompt string) (string, error) {
	client := arkruntime.NewClientWithApiKey(v.apiKey)

	var sequentialImageGeneration volcModel.SequentialImageGeneration = "disabled"
	generateReq := volcModel.GenerateImagesRequest{
		Model:                     v.model,
		Prompt:                    prompt,
		Size:                      volcengine.String("2K"),
		ResponseFormat:            volcengine.String(volcModel.GenerateImagesResponseFormatURL),
		Watermark:                 volcengine.Bool(false),
		SequentialImageGeneration: &sequentialImageGeneration,
	}

	stream, err := client.GenerateImagesStreaming(ctx, generateReq)
	if err != nil {
		return "", fmt.Errorf("volcengine generate images: %w", err)
	}
	defer stream.Close()

	var imageURL string
	var lastErrMsg string
	for {
		recv, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("volcengine stream: %w", err)
		}
		if recv.Type == "image_generation.partial_failed" && recv.Error != nil {
			lastErrMsg = recv.Error.Message
			if strings.EqualFold(recv.Error.Code, "InternalServiceError") {
				break
			}
		}
		if recv.Type == "image_generation.partial_succeeded" {
			if recv.Error == nil && recv.Url != nil {
				imageURL = *recv.Url
			}
		}
	}

	if strings.TrimSpace(imageURL) == "" {
		if lastErrMsg != "" {
			return "", errors.New(lastErrMsg)
		}
		return "", errors.New("volcengine response did not include an image url")
	}
	return imageURL, nil
}

func (v *VolcengineImages) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("downloaded image is empty")
	}
	return data, nil
}

var _ ImageGenerator = (*VolcengineImages)(nil)
