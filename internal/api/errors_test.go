package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"quickai/internal/entity"
	"quickai/internal/service"
)

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		status         int
		code           string
		message        string
		expectedStatus int
	}{
		{
			name:           "BadRequest",
			status:         http.StatusBadRequest,
			code:           ErrCodeInvalidRequest,
			message:        "invalid request",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "NotFound",
			status:         http.StatusNotFound,
			code:           ErrCodeCreationNotFound,
			message:        "creation not found",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "InternalError",
			status:         http.StatusInternalServerError,
			code:           ErrCodeInternalError,
			message:        "internal error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponse(c, tt.status, tt.code, tt.message)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp APIError
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, resp.Code)
			}
			if resp.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, resp.Message)
			}
		})
	}
}

func TestGenerationStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "quota denial", err: service.ErrQuotaExhausted, expected: http.StatusPaymentRequired},
		{name: "premium denial", err: service.ErrPremiumRequired, expected: http.StatusForbidden},
		{name: "validation error", err: &service.ValidationError{Message: "prompt is required"}, expected: http.StatusBadRequest},
		{name: "provider failure", err: errors.New("upstream unavailable"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generationStatus(tt.err); got != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRespondGeneration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondGeneration(c, "Hello world", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp entity.GenerateResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Success || resp.Content != "Hello world" || resp.Message != "" {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("quota denial carries message", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondGeneration(c, "", service.ErrQuotaExhausted)

		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", w.Code)
		}
		var resp entity.GenerateResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Success || resp.Content != "" || resp.Message == "" {
			t.Fatalf("unexpected response %+v", resp)
		}
	})
}
