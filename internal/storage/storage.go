package storage

import (
	"context"
	"fmt"
	"strings"

	"quickai/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// SaveOptions 控制存储后端如何持久化文件。
type SaveOptions struct {
	Category  string
	Extension string
	BaseName  string
}

// Storage persists binary data and resolves a public URL for a stored key.
// Creation records carry the URL, so every backend must be able to produce
// one without a further round trip.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	PublicURL(key string) string
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir, cfg.StoragePublicBaseURL)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// joinPublicBase builds "<base>/<key>" tolerating stray slashes on either side.
func joinPublicBase(base, key string) string {
	trimmedBase := strings.TrimRight(strings.TrimSpace(base), "/")
	trimmedKey := strings.TrimLeft(strings.TrimSpace(key), "/")
	if trimmedBase == "" {
		return "/" + trimmedKey
	}
	return trimmedBase + "/" + trimmedKey
}
