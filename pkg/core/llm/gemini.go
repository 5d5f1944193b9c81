package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

// callTimeout is the hard deadline for one generateContent round trip.
const callTimeout = 60 * time.Second

// GeminiProvider implements the Provider interface for Google's Gemini
// models via the official GenAI SDK.
type GeminiProvider struct {
	Model  string // e.g. "gemini-2.0-flash"
	APIKey string // falls back to GEMINI_API_KEY when empty
}

var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.7)),
	}

	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			config.ResponseMIMEType = "application/json"
		}
	}

	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	result, err := client.Models.GenerateContent(
		callCtx,
		model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return extractText(result)
}

// extractText pulls the first candidate's first text part. A non-STOP finish
// reason is a hard failure carrying the reason; any other missing piece is a
// parse error.
func extractText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini response carried no candidates")
	}

	cand := result.Candidates[0]
	if cand.FinishReason != "" && cand.FinishReason != genai.FinishReasonStop {
		return "", &GenerationTerminatedError{Reason: string(cand.FinishReason)}
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response carried no content parts")
	}

	text := cand.Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("gemini response text part was empty")
	}
	return text, nil
}

func (p *GeminiProvider) AdaptInstructions(raw string) string {
	return raw
}
