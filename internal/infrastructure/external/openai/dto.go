package openai

// ══════════════════════════════════════════════════════════════════════════════
// CHAT COMPLETIONS WIRE FORMAT
// ══════════════════════════════════════════════════════════════════════════════

// MessageDTO is one message in a chat completion request or response.
type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequestDTO is the body of POST /chat/completions.
type ChatRequestDTO struct {
	Model       string       `json:"model"`
	Messages    []MessageDTO `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature"`
}

// ChoiceDTO is one generated alternative.
type ChoiceDTO struct {
	Index        int        `json:"index"`
	Message      MessageDTO `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

// UsageDTO reports token consumption.
type UsageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponseDTO is the body of a successful completion.
type ChatResponseDTO struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []ChoiceDTO `json:"choices"`
	Usage   UsageDTO    `json:"usage"`
}

// ErrorResponseDTO is the body of a failed request.
type ErrorResponseDTO struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
