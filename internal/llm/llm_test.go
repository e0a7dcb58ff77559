package llm

import (
	"testing"

	"quickai/internal/config"
)

func configWithoutKeys() config.Config {
	return config.Config{}
}

func TestNewImageGeneratorSelectsDriver(t *testing.T) {
	cfg := config.Config{ImageDriver: "clipdrop", ClipDropAPIKey: "k"}
	gen, err := NewImageGenerator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gen.(*ClipDrop); !ok {
		t.Fatalf("expected ClipDrop driver, got %T", gen)
	}

	cfg = config.Config{ImageDriver: "volcengine", VolcengineAPIKey: "k"}
	gen, err = NewImageGenerator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gen.(*VolcengineImages); !ok {
		t.Fatalf("expected Volcengine driver, got %T", gen)
	}
}

func TestNewImageGeneratorRejectsUnknownDriver(t *testing.T) {
	if _, err := NewImageGenerator(config.Config{ImageDriver: "dalle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewTextGeneratorRequiresKey(t *testing.T) {
	if _, err := NewTextGenerator(configWithoutKeys()); err == nil {
		t.Fatal("expected error when gemini key missing")
	}
}
