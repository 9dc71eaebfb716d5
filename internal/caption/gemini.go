package caption

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Prompt sent with every image. The model is asked for JSON so the happy path
// needs no free-text heuristics.
const geminiPrompt = "Generate a humorous two-part meme text for this image. " +
	"Format the response as JSON with 'topText' and 'bottomText' fields. " +
	"Keep each line under 60 characters and make it funny but not overly offensive."

// GeminiConfig holds configuration for the Gemini caption generator.
type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY,required"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-pro"`
}

// GeminiGenerator implements Generator on top of the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed caption generator.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, image []byte, mimeType string) (Pair, error) {
	if len(image) == 0 {
		return Pair{}, ErrNoImage
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(1)
	model.SetTopP(0.95)
	model.SetTopK(64)
	model.SetMaxOutputTokens(256)

	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" || format == mimeType {
		format = "jpeg"
	}

	res, err := model.GenerateContent(ctx,
		genai.Text(geminiPrompt),
		genai.ImageData(format, image),
	)
	if err != nil {
		return Pair{}, errors.Join(ErrGenerationFailed, err)
	}

	return ParseResponse(responseText(res)), nil
}

// responseText flattens the first candidate's text parts.
func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResponse extracts a caption pair from raw model output. JSON is tried
// first (the model often wraps it in prose or code fences), then the first
// two non-empty lines, then DefaultPair. It never fails: an unusable
// response degrades to the default.
func ParseResponse(raw string) Pair {
	if match := jsonObjectPattern.FindString(raw); match != "" {
		var pair Pair
		if err := json.Unmarshal([]byte(match), &pair); err == nil && pair.Top != "" && pair.Bottom != "" {
			return pair
		}
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	pair := DefaultPair
	if len(lines) > 0 {
		pair.Top = lines[0]
	}
	if len(lines) > 1 {
		pair.Bottom = lines[1]
	} else if len(lines) > 0 {
		pair.Bottom = DefaultPair.Bottom
	}
	return pair
}
