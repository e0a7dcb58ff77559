package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type oaMessage struct {
	Role    string `json:"role"` // "user"
	Content string `json:"content"`
}

type oaRequest struct {
	Model       string      `json:"model"`
	Messages    []oaMessage `json:"messages"`
	Temperature float32     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

type oaChoice struct {
	Index        int       `json:"index"`
	FinishReason string    `json:"finish_reason"`
	Message      oaMessage `json:"message"`
}

type oaResponse struct {
	Choices []oaChoice `json:"choices"`
}

type oaErrorResponse struct {
	Error struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CompleteChatOA runs one non-streaming chat completion against an
// OpenAI-compatible endpoint. baseURL is the full /chat/completions URL.
func CompleteChatOA(ctx context.Context, httpClient *http.Client, apiKey, baseURL, model string, request CompletionRequest) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", errors.New("api key missing")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	reqBody := oaRequest{
		Model:       model,
		Messages:    []oaMessage{{Role: "user", Content: request.Prompt}},
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
	}

	bs, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(bs))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"baseURL":      baseURL,
			"status":       resp.StatusCode,
			"body_preview": logSnippet(string(body)),
		}).Error("chat completion failed")
		var apiErr oaErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", errors.New(apiErr.Error.Message)
		}
		return "", fmt.Errorf("chat completion http %d", resp.StatusCode)
	}

	var completion oaResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("completion response has empty content")
	}
	return content, nil
}
