package models

// ChatCompletionRequest is the payload accepted by the completion proxy.
type ChatCompletionRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// Response modes. Live responses come from the upstream provider; demo
// responses are synthesised locally when no credential is configured.
const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// ChatResponse mirrors the upstream completion shape so web and CLI
// clients can parse live and demo replies uniformly.
type ChatResponse struct {
	ID      string   `json:"id"`
	Created int64    `json:"created"`
	Mode    string   `json:"mode,omitempty"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a single chat completion choice
type Choice struct {
	Message ChatMessage `json:"message"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
