package observability

// Semantic conventions for attribute keys shared across packages.
// Package-specific keys (workflow steps, agents) live next to their users.
const (
	AttrError             = "error"
	AttrStatus            = "status"
	AttrStatusDescription = "status.description"

	AttrLLMProvider     = "llm.provider"
	AttrLLMModel        = "llm.model"
	AttrLLMEndpoint     = "llm.endpoint"
	AttrLLMFinishReason = "llm.finish_reason"
	AttrLLMTokensTotal  = "llm.tokens.total"

	AttrHTTPMethod     = "http.method"
	AttrHTTPURL        = "http.url"
	AttrHTTPStatusCode = "http.status_code"
)
