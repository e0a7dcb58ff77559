package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClipDropGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("unexpected api key header: %q", r.Header.Get("x-api-key"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("prompt"); got != "a red balloon" {
			t.Errorf("expected prompt field, got %q", got)
		}
		w.Write(png)
	}))
	defer server.Close()

	provider := &ClipDrop{httpClient: server.Client(), apiKey: "secret", endpoint: server.URL}
	data, err := provider.GenerateImage(context.Background(), "a red balloon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(png) {
		t.Fatalf("expected image bytes to round-trip, got %d bytes", len(data))
	}
}

func TestClipDropGenerateImageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"out of credits"}`))
	}))
	defer server.Close()

	provider := &ClipDrop{httpClient: server.Client(), apiKey: "secret", endpoint: server.URL}
	if _, err := provider.GenerateImage(context.Background(), "p"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestNewClipDropRequiresKey(t *testing.T) {
	if _, err := NewClipDrop(configWithoutKeys()); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
