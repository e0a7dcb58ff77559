package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"quickai/internal/config"
	"quickai/internal/utils"

	"github.com/sirupsen/logrus"
)

// Asset identifies an uploaded media object.
type Asset struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// UploadOptions控制上传时应用的转换
type UploadOptions struct {
	// Transformation is applied during upload (e.g. "e_background_removal").
	Transformation string
}

// Transformer uploads media and derives transformed delivery URLs.
type Transformer interface {
	Upload(ctx context.Context, data []byte, opts UploadOptions) (*Asset, error)
	// BuildURL derives a delivery URL applying the transformation to an
	// already uploaded asset, without re-uploading.
	BuildURL(publicID string, transformation string) string
}

// Cloudinary implements Transformer against the Cloudinary upload API.
type Cloudinary struct {
	httpClient *http.Client
	cloudName  string
	apiKey     string
	apiSecret  string
	uploadURL  string
	baseURL    string

	// now is overridable in tests so signatures are deterministic.
	now func() time.Time
}

func NewCloudinary(cfg config.Config) (*Cloudinary, error) {
	cloudName := strings.TrimSpace(cfg.CloudinaryCloudName)
	apiKey := strings.TrimSpace(cfg.CloudinaryAPIKey)
	apiSecret := strings.TrimSpace(cfg.CloudinaryAPISecret)
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	return &Cloudinary{
		httpClient: &http.Client{},
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		uploadURL:  fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName),
		baseURL:    fmt.Sprintf("https://res.cloudinary.com/%s/image/upload", cloudName),
		now:        time.Now,
	}, nil
}

// Upload sends the image bytes to the upload endpoint as an inline data URL.
// Signed params follow the Cloudinary contract: every field except file,
// api_key, and signature is sorted, joined, and SHA1-hashed with the secret.
func (c *Cloudinary) Upload(ctx context.Context, data []byte, opts UploadOptions) (*Asset, error) {
	if len(data) == 0 {
		return nil, errors.New("empty media payload")
	}

	logger := logrus.WithFields(logrus.Fields{
		"provider":       "cloudinary",
		"payload_bytes":  len(data),
		"transformation": opts.Transformation,
	})
	logger.Info("media_upload_start")

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", c.now().UTC().Unix()),
	}
	if trimmed := strings.TrimSpace(opts.Transformation); trimmed != "" {
		params["transformation"] = trimmed
	}

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("build form: %w", err)
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := writer.WriteField("signature", c.signParams(params)); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := writer.WriteField("file", detectDataURL(data)); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &form)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("media_upload_request_failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
		}).Error("media_upload_response_error")
		var apiErr cloudinaryErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, errors.New(apiErr.Error.Message)
		}
		return nil, fmt.Errorf("cloudinary upload http %d", resp.StatusCode)
	}

	var asset Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if asset.SecureURL == "" {
		return nil, errors.New("upload response did not include a secure url")
	}

	logger.WithField("public_id", asset.PublicID).Info("media_upload_success")
	return &asset, nil
}

// BuildURL derives the delivery URL for a transformation of an uploaded asset.
func (c *Cloudinary) BuildURL(publicID string, transformation string) string {
	trimmedID := strings.TrimSpace(publicID)
	trimmedTransform := strings.Trim(strings.TrimSpace(transformation), "/")
	if trimmedTransform == "" {
		return fmt.Sprintf("%s/%s", c.baseURL, trimmedID)
	}
	return fmt.Sprintf("%s/%s/%s", c.baseURL, trimmedTransform, trimmedID)
}

// signParams produces the SHA1 request signature over the sorted params.
func (c *Cloudinary) signParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// detectDataURL wraps raw bytes into a data URL with a sniffed content type.
func detectDataURL(data []byte) string {
	mimeType := http.DetectContentType(data)
	return "data:" + mimeType + ";base64," + utils.EncodeBase64(data)
}

type cloudinaryErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

var _ Transformer = (*Cloudinary)(nil)
