package api

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quickai/internal/entity"
)

// generationTimeout 单次生成调用的超时
const generationTimeout = 2 * time.Minute

// GenerateArticle 处理 POST /api/ai/generate-article
func (h *HTTPHandler) GenerateArticle(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.GenerateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()

	content, err := h.generationService.GenerateArticle(ctx, user.Caller(), req)
	recordGeneration(entity.CreationTypeArticle, err)
	respondGeneration(c, content, err)
}

// GenerateBlogTitle 处理 POST /api/ai/generate-blog-title
func (h *HTTPHandler) GenerateBlogTitle(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.GenerateBlogTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()

	content, err := h.generationService.GenerateBlogTitle(ctx, user.Caller(), req)
	recordGeneration(entity.CreationTypeBlogTitle, err)
	respondGeneration(c, content, err)
}

// GenerateImage 处理 POST /api/ai/generate-image
func (h *HTTPHandler) GenerateImage(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()

	content, err := h.generationService.GenerateImage(ctx, user.Caller(), req)
	recordGeneration(entity.CreationTypeImage, err)
	respondGeneration(c, content, err)
}

// RemoveBackground 处理 POST /api/ai/remove-background（multipart 上传）
func (h *HTTPHandler) RemoveBackground(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	image, ok := readFormFile(c, "image")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()

	content, err := h.generationService.RemoveBackground(ctx, user.Caller(), image)
	recordGeneration(entity.CreationTypeImage, err)
	respondGeneration(c, content, err)
}

// RemoveObject 处理 POST /api/ai/remove-object（multipart 上传 + object 字段）
func (h *HTTPHandler) RemoveObject(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	image, ok := readFormFile(c, "image")
	if !ok {
		return
	}
	object := c.PostForm("object")

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()

	content, err := h.generationService.RemoveObject(ctx, user.Caller(), image, object)
	recordGeneration(entity.CreationTypeImage, err)
	respondGeneration(c, content, err)
}

// ReviewResume 处理 POST /api/ai/resume-review（multipart 上传 PDF）
func (h *HTTPHandler) ReviewResume(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	resume, ok := readFormFile(c, "resume")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generationTimeout)
	defer cancel()

	content, err := h.generationService.ReviewResume(ctx, user.Caller(), resume)
	recordGeneration(entity.CreationTypeResumeReview, err)
	respondGeneration(c, content, err)
}

// readFormFile 读取 multipart 表单中的文件内容，失败时直接写出错误响应。
func readFormFile(c *gin.Context, field string) ([]byte, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, field+" file is required")
		return nil, false
	}
	data, err := readMultipartFile(header)
	if err != nil {
		logrus.WithError(err).WithField("field", field).Warn("failed to read uploaded file")
		BadRequest(c, ErrCodeInvalidRequest, "failed to read uploaded "+field)
		return nil, false
	}
	return data, true
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
