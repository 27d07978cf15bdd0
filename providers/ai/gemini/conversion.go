package gemini

import (
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/blueprint/providers/ai"
)

func requestFromGeneric(request ai.ChatRequest) generateContentRequest {
	out := generateContentRequest{}

	if request.SystemPrompt != "" {
		out.SystemInstruction = &systemInstruction{Parts: []part{{Text: request.SystemPrompt}}}
	}

	for _, m := range request.Messages {
		switch m.Role {
		case ai.RoleSystem:
			// Gemini has a single system instruction; extra system messages
			// are folded into it.
			if out.SystemInstruction == nil {
				out.SystemInstruction = &systemInstruction{}
			}
			out.SystemInstruction.Parts = append(out.SystemInstruction.Parts, part{Text: m.Content})
		case ai.RoleAssistant:
			out.Contents = append(out.Contents, content{Role: "model", Parts: []part{{Text: m.Content}}})
		default:
			out.Contents = append(out.Contents, content{Role: "user", Parts: []part{{Text: m.Content}}})
		}
	}

	var cfg generationConfig
	set := false
	if gc := request.GenerationConfig; gc != nil {
		temperature := float64(gc.Temperature)
		cfg.Temperature = &temperature
		if gc.TopP > 0 {
			topP := float64(gc.TopP)
			cfg.TopP = &topP
		}
		if gc.MaxTokens > 0 {
			maxTokens := gc.MaxTokens
			cfg.MaxOutputTokens = &maxTokens
		}
		set = true
	}
	if request.ResponseFormat != nil && request.ResponseFormat.Type == ai.ResponseFormatJSON.Type {
		cfg.ResponseMimeType = "application/json"
		set = true
	}
	if set {
		out.GenerationConfig = &cfg
	}

	return out
}

func responseToGeneric(resp generateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ResponseID,
		Model: resp.ModelVersion,
	}
	if result.Id == "" {
		result.Id = fmt.Sprintf("gemini-%d", time.Now().UnixNano())
	}

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount + resp.UsageMetadata.ThoughtsTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			result.FinishReason = ai.FinishContentFilter
			result.Refusal = resp.PromptFeedback.BlockReason
		}
		return result
	}

	candidate := resp.Candidates[0]
	result.FinishReason = mapFinishReason(candidate.FinishReason)

	if candidate.Content != nil {
		var text strings.Builder
		for _, p := range candidate.Content.Parts {
			// Thinking summaries are not part of the answer.
			if p.Thought {
				continue
			}
			text.WriteString(p.Text)
		}
		result.Content = text.String()
	}

	return result
}

func mapFinishReason(reason string) string {
	switch reason {
	case "MAX_TOKENS":
		return ai.FinishLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return ai.FinishContentFilter
	default:
		return ai.FinishStop
	}
}
