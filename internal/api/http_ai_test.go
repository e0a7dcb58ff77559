package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"quickai/internal/auth"
	"quickai/internal/config"
	"quickai/internal/entity"
	"quickai/internal/llm"
	"quickai/internal/media"
	"quickai/internal/storage"
)

type stubRepo struct {
	users      map[uint]*entity.DbUser
	creations  []entity.DbCreation
	increments map[uint]int
}

func newStubRepo(users ...*entity.DbUser) *stubRepo {
	repo := &stubRepo{users: map[uint]*entity.DbUser{}, increments: map[uint]int{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubRepo) CreateUser(ctx context.Context, user *entity.DbUser) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *stubRepo) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubRepo) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (r *stubRepo) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubRepo) UpdateUserPlan(ctx context.Context, id uint, plan string) error {
	if u, ok := r.users[id]; ok {
		u.Plan = plan
		return nil
	}
	return errors.New("record not found")
}

func (r *stubRepo) IncrementFreeUsage(ctx context.Context, id uint) error {
	r.increments[id]++
	if u, ok := r.users[id]; ok {
		u.FreeUsage++
	}
	return nil
}

func (r *stubRepo) CreateCreation(ctx context.Context, creation *entity.DbCreation) error {
	creation.ID = uint(len(r.creations) + 1)
	r.creations = append(r.creations, *creation)
	return nil
}

func (r *stubRepo) GetCreation(ctx context.Context, id uint) (*entity.DbCreation, error) {
	for i := range r.creations {
		if r.creations[i].ID == id {
			clone := r.creations[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListCreations(ctx context.Context, params *entity.CreationQuery) ([]entity.DbCreation, *entity.Meta, error) {
	return r.creations, &entity.Meta{Total: int64(len(r.creations))}, nil
}

func (r *stubRepo) SetCreationLikes(ctx context.Context, id uint, likes entity.StringArray) error {
	for i := range r.creations {
		if r.creations[i].ID == id {
			r.creations[i].Likes = likes
			return nil
		}
	}
	return errors.New("not found")
}

type stubTextGen struct {
	calls  int
	result string
	err    error
}

func (g *stubTextGen) Complete(ctx context.Context, request llm.CompletionRequest) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.result, nil
}

type stubImageGen struct {
	calls int
}

func (g *stubImageGen) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	g.calls++
	return []byte("png-bytes"), nil
}

type stubTransformer struct {
	uploads int
}

func (t *stubTransformer) Upload(ctx context.Context, data []byte, opts media.UploadOptions) (*media.Asset, error) {
	t.uploads++
	return &media.Asset{PublicID: "asset1", SecureURL: "https://res.example.com/asset1.png"}, nil
}

func (t *stubTransformer) BuildURL(publicID string, transformation string) string {
	return "https://res.example.com/" + transformation + "/" + publicID
}

type stubExtractor struct {
	calls int
}

func (e *stubExtractor) ExtractText(data []byte) (string, error) {
	e.calls++
	return "extracted resume text", nil
}

type apiTestEnv struct {
	repo        *stubRepo
	textGen     *stubTextGen
	imageGen    *stubImageGen
	transformer *stubTransformer
	extractor   *stubExtractor
	handler     *HTTPHandler
	router      *gin.Engine
	cfg         config.Config
}

func newAPITestEnv(t *testing.T, users ...*entity.DbUser) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		FreeUsageLimit:       10,
		JWTSecret:            "test-secret",
		JWTIssuer:            "quickai-test",
		JWTExpirationMinutes: 60,
	}

	env := &apiTestEnv{
		repo:        newStubRepo(users...),
		textGen:     &stubTextGen{result: "generated text"},
		imageGen:    &stubImageGen{},
		transformer: &stubTransformer{},
		extractor:   &stubExtractor{},
		cfg:         cfg,
	}

	store, err := storage.NewLocalStorage(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}

	handler, err := NewHTTPHandler(cfg, env.repo, store, env.textGen, env.imageGen, env.transformer, env.extractor)
	if err != nil {
		t.Fatalf("NewHTTPHandler failed: %v", err)
	}
	env.handler = handler

	router := gin.New()
	authed := router.Group("/api", handler.AuthMiddleware())
	authed.POST("/ai/generate-article", handler.GenerateArticle)
	authed.POST("/ai/generate-blog-title", handler.GenerateBlogTitle)
	authed.POST("/ai/generate-image", handler.GenerateImage)
	authed.POST("/ai/remove-background", handler.RemoveBackground)
	authed.POST("/ai/remove-object", handler.RemoveObject)
	authed.POST("/ai/resume-review", handler.ReviewResume)
	authed.PATCH("/account/plan", handler.UpdateMyPlan)
	env.router = router

	return env
}

func (env *apiTestEnv) token(t *testing.T, user *entity.DbUser) string {
	t.Helper()
	manager, err := auth.NewManager(env.cfg.JWTSecret, env.cfg.JWTIssuer, time.Hour)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	token, _, err := manager.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func (env *apiTestEnv) doJSON(t *testing.T, token, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *apiTestEnv) doMultipart(t *testing.T, token, path, fileField, fileName string, fileData []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write(fileData); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeGenerateResponse(t *testing.T, w *httptest.ResponseRecorder) entity.GenerateResponse {
	t.Helper()
	var resp entity.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestGenerateArticleEndToEnd(t *testing.T) {
	user := &entity.DbUser{ID: 1, Email: "a@example.com", Plan: entity.PlanFree, FreeUsage: 9, IsActive: true}
	env := newAPITestEnv(t, user)
	env.textGen.result = "Hello world"

	w := env.doJSON(t, env.token(t, user), "/api/ai/generate-article", entity.GenerateArticleRequest{Prompt: "Write about Go", Length: 800})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeGenerateResponse(t, w)
	if !resp.Success || resp.Content != "Hello world" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if env.repo.increments[1] != 1 {
		t.Fatalf("expected one usage increment, got %d", env.repo.increments[1])
	}
	if len(env.repo.creations) != 1 {
		t.Fatalf("expected one creation record, got %d", len(env.repo.creations))
	}
}

func TestGenerateBlogTitleQuotaDenied(t *testing.T) {
	user := &entity.DbUser{ID: 1, Email: "a@example.com", Plan: entity.PlanFree, FreeUsage: 10, IsActive: true}
	env := newAPITestEnv(t, user)

	w := env.doJSON(t, env.token(t, user), "/api/ai/generate-blog-title", entity.GenerateBlogTitleRequest{Prompt: "Go tips"})

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeGenerateResponse(t, w)
	if resp.Success || resp.Message == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if env.textGen.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", env.textGen.calls)
	}
	if env.repo.increments[1] != 0 {
		t.Fatalf("expected no usage increment, got %d", env.repo.increments[1])
	}
}

func TestGenerateImageRequiresPremium(t *testing.T) {
	user := &entity.DbUser{ID: 1, Email: "a@example.com", Plan: entity.PlanFree, IsActive: true}
	env := newAPITestEnv(t, user)

	w := env.doJSON(t, env.token(t, user), "/api/ai/generate-image", entity.GenerateImageRequest{Prompt: "a cat"})

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	if env.imageGen.calls != 0 {
		t.Fatalf("expected no image provider calls, got %d", env.imageGen.calls)
	}
}

func TestRemoveBackgroundPremiumUpload(t *testing.T) {
	user := &entity.DbUser{ID: 2, Email: "p@example.com", Plan: entity.PlanPremium, FreeUsage: 3, IsActive: true}
	env := newAPITestEnv(t, user)

	w := env.doMultipart(t, env.token(t, user), "/api/ai/remove-background", "image", "photo.jpg", []byte("jpeg-bytes"), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeGenerateResponse(t, w)
	if !resp.Success || resp.Content != "https://res.example.com/asset1.png" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if env.repo.increments[2] != 0 {
		t.Fatalf("premium-only operation must not touch usage, got %d increments", env.repo.increments[2])
	}
}

func TestRemoveObjectEmbedsObjectName(t *testing.T) {
	user := &entity.DbUser{ID: 2, Email: "p@example.com", Plan: entity.PlanPremium, IsActive: true}
	env := newAPITestEnv(t, user)

	w := env.doMultipart(t, env.token(t, user), "/api/ai/remove-object", "image", "photo.jpg", []byte("jpeg-bytes"), map[string]string{"object": "watch"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeGenerateResponse(t, w)
	if !strings.Contains(resp.Content, "e_gen_remove:watch") {
		t.Fatalf("expected gen_remove URL, got %q", resp.Content)
	}
}

func TestReviewResumeOversizedRejectedBeforeProvider(t *testing.T) {
	user := &entity.DbUser{ID: 2, Email: "p@example.com", Plan: entity.PlanPremium, IsActive: true}
	env := newAPITestEnv(t, user)

	oversized := make([]byte, (5<<20)+1)
	w := env.doMultipart(t, env.token(t, user), "/api/ai/resume-review", "resume", "cv.pdf", oversized, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if env.extractor.calls != 0 {
		t.Fatalf("expected no extraction calls, got %d", env.extractor.calls)
	}
	if env.textGen.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", env.textGen.calls)
	}
}

func TestGenerationRequiresAuth(t *testing.T) {
	env := newAPITestEnv(t)

	raw, _ := json.Marshal(entity.GenerateArticleRequest{Prompt: "topic"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
