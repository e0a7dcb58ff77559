package storage

import (
	"strings"
	"testing"
)

func TestSanitizePathSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase kept", input: "images", want: "images"},
		{name: "uppercase folded", input: "Generated", want: "generated"},
		{name: "specials dropped", input: "a/b..c", want: "abc"},
		{name: "dash and underscore kept", input: "my-file_1", want: "my-file_1"},
		{name: "empty", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizePathSegment(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildObjectPath(t *testing.T) {
	got := buildObjectPath("Generated", "My Image", "PNG")
	if !strings.HasPrefix(got, "generated/") {
		t.Fatalf("expected category prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "/my-image.png") {
		t.Fatalf("expected sanitized filename, got %q", got)
	}
	if strings.Contains(got, "..") {
		t.Fatalf("path traversal leaked into %q", got)
	}
}

func TestBuildObjectPathDefaults(t *testing.T) {
	got := buildObjectPath("", "", "")
	if !strings.HasPrefix(got, "misc/") {
		t.Fatalf("expected misc category, got %q", got)
	}
	if !strings.HasSuffix(got, ".bin") {
		t.Fatalf("expected bin extension, got %q", got)
	}
}

func TestJoinPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "a/b.png", want: "a/b.png"},
		{name: "with prefix", prefix: "uploads", key: "a/b.png", want: "uploads/a/b.png"},
		{name: "slashes trimmed", prefix: "/uploads/", key: "/a/b.png", want: "uploads/a/b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestJoinPublicBase(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{name: "relative base", base: "/files", key: "generated/a.png", want: "/files/generated/a.png"},
		{name: "absolute base", base: "https://cdn.example.com/", key: "/generated/a.png", want: "https://cdn.example.com/generated/a.png"},
		{name: "empty base", base: "", key: "a.png", want: "/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinPublicBase(tt.base, tt.key); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
