package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is a single-turn or multi-turn completion request.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`
	Messages         []Message         `json:"messages"`                // conversation, system prompt excluded
	SystemPrompt     string            `json:"system_prompt,omitempty"` // sent the way each backend expects
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

// GenerationConfig holds sampling parameters. Zero values are left out of
// the provider request, except Temperature which callers set explicitly.
type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p,omitempty"`
}

// ResponseFormat asks for a response type where the backend supports it.
type ResponseFormat struct {
	// Type is "text" or "json_object".
	Type string `json:"type,omitempty"`
}

// ResponseFormatJSON requests a JSON object answer.
var ResponseFormatJSON = &ResponseFormat{Type: "json_object"}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Add returns the element-wise sum of u and other. Either may be nil.
func (u *Usage) Add(other *Usage) *Usage {
	if u == nil && other == nil {
		return nil
	}
	sum := &Usage{}
	for _, x := range []*Usage{u, other} {
		if x == nil {
			continue
		}
		sum.PromptTokens += x.PromptTokens
		sum.CompletionTokens += x.CompletionTokens
		sum.TotalTokens += x.TotalTokens
	}
	return sum
}

type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	// Refusal is set when the model declined for safety or policy reasons.
	Refusal string `json:"refusal,omitempty"`
}

// Normalized finish reasons.
const (
	FinishStop          = "stop"
	FinishLength        = "length"
	FinishContentFilter = "content_filter"
)

/*
	##### ENUMS #####
*/

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// NewRequest builds the request shape used by the blueprint service: one
// system prompt and one user message.
func NewRequest(model, systemPrompt, userPrompt string, cfg *GenerationConfig) ChatRequest {
	return ChatRequest{
		Model:            model,
		SystemPrompt:     systemPrompt,
		Messages:         []Message{{Role: RoleUser, Content: userPrompt}},
		GenerationConfig: cfg,
	}
}

// IsStopFinish is the default IsStopMessage logic shared by the backends.
func IsStopFinish(message *ChatResponse) bool {
	if message == nil {
		return true
	}
	switch message.FinishReason {
	case FinishStop, FinishContentFilter:
		return true
	case FinishLength:
		return false
	}
	return message.Content == ""
}
