package llm

// Request carries one prompt call to a text-generation backend.
type Request struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float32 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
}

// Usage reports token accounting for a completed call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Result is the structured outcome of a generation call.
// Success=false implies Content is empty and ErrorKind is populated.
type Result struct {
	Success      bool   `json:"success"`
	Content      string `json:"content,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	ErrorKind    string `json:"error,omitempty"`
	ErrorMessage string `json:"message,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

// Well-known ErrorKind values shared across adapters.
const (
	ErrKindAPIKeyMissing      = "api_key_missing"
	ErrKindRateLimit          = "rate_limit"
	ErrKindAPIError           = "api_error"
	ErrKindAllProvidersFailed = "all_providers_failed"
)

// Failure builds a structured failure result.
func Failure(kind, message string) *Result {
	return &Result{
		Success:      false,
		ErrorKind:    kind,
		ErrorMessage: message,
	}
}
