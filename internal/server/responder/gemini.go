package responder

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/kairo-health/kairo-server/internal/common"
)

// systemInstruction pins the responder's persona: supportive,
// non-diagnostic, concise.
const systemInstruction = "You are KAI, a supportive and empathetic AI therapist. " +
	"Your goal is to listen, understand, and provide gentle, helpful guidance. " +
	"Do not give medical advice. Focus on active listening, validation, and " +
	"suggesting mindfulness techniques. Keep your responses concise and caring."

const maxOutputTokens = 500

// GeminiResponder talks to the Gemini API with a fixed per-call
// configuration: the persona instruction, a response-length cap, and
// medium-and-above blocking for harassment and hate speech.
type GeminiResponder struct {
	client *genai.Client
	model  string
}

func NewGeminiResponder(ctx context.Context, apiKey, model string) (*GeminiResponder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}

	return &GeminiResponder{client: client, model: model}, nil
}

func (r *GeminiResponder) Generate(ctx context.Context, history []Turn, newText string) (string, error) {

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  RoleUser,
		Parts: []*genai.Part{{Text: newText}},
	})

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		MaxOutputTokens: maxOutputTokens,
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
			},
		},
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		// A caller-side deadline is reported the same way as a provider
		// outage so the turn is never half-recorded.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", common.ErrProviderUnavailable
		}
		return "", fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", common.ErrProviderUnavailable
	}

	return text, nil
}
