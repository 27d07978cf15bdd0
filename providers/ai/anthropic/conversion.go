package anthropic

import (
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/blueprint/providers/ai"
)

// defaultMaxTokens is sent when the caller leaves MaxTokens unset, because
// the Messages API rejects requests without it.
const defaultMaxTokens = 8192

func requestFromGeneric(request ai.ChatRequest, model string) anthropicRequest {
	out := anthropicRequest{
		Model:     model,
		System:    request.SystemPrompt,
		MaxTokens: defaultMaxTokens,
	}

	var extraSystem []string
	for _, m := range request.Messages {
		role := "user"
		switch m.Role {
		case ai.RoleSystem:
			extraSystem = append(extraSystem, m.Content)
			continue
		case ai.RoleAssistant:
			role = "assistant"
		}
		out.Messages = append(out.Messages, anthropicMessage{
			Role:    role,
			Content: []anthropicContentBlock{{Type: "text", Text: m.Content}},
		})
	}
	if len(extraSystem) > 0 {
		out.System = strings.Join(append([]string{out.System}, extraSystem...), "\n\n")
		out.System = strings.TrimSpace(out.System)
	}

	if cfg := request.GenerationConfig; cfg != nil {
		temperature := float64(cfg.Temperature)
		out.Temperature = &temperature
		if cfg.TopP > 0 {
			topP := float64(cfg.TopP)
			out.TopP = &topP
		}
		if cfg.MaxTokens > 0 {
			out.MaxTokens = cfg.MaxTokens
		}
	}

	return out
}

func responseToGeneric(resp anthropicResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		FinishReason: mapStopReason(resp.StopReason),
		Usage: &ai.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
	if result.Id == "" {
		result.Id = fmt.Sprintf("anthropic-%d", time.Now().UnixNano())
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	result.Content = text.String()

	if resp.StopReason == "refusal" {
		result.Refusal = result.Content
	}

	return result
}

// mapStopReason converts an Anthropic stop_reason to the normalized finish
// reason used by ai.ChatResponse.
func mapStopReason(stopReason string) string {
	switch stopReason {
	case "max_tokens":
		return ai.FinishLength
	case "refusal":
		return ai.FinishContentFilter
	default:
		return ai.FinishStop
	}
}
