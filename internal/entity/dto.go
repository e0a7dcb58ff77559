package entity

// GenerateArticleRequest is the JSON body of POST /api/ai/generate-article.
type GenerateArticleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

// GenerateBlogTitleRequest is the JSON body of POST /api/ai/generate-blog-title.
type GenerateBlogTitleRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImageRequest is the JSON body of POST /api/ai/generate-image.
type GenerateImageRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

// GenerateResponse is the uniform reply of every generation endpoint.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}
