package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/hugh/ritum/pkg/config"
)

var ErrNotConfigured = errors.New("GOOGLE_API_KEY is not configured")

// ErrContentBlocked is matched by every *BlockedError.
var ErrContentBlocked = errors.New("content blocked by the model")

type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("content blocked by the model: %s", e.Reason)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrContentBlocked
}

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini calls the Generative Language API. Without an API key every call
// fails with ErrNotConfigured.
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
}

var _ Generator = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg config.AIConfig, opts ...option.ClientOption) (*Gemini, error) {
	g := &Gemini{limiter: rate.NewLimiter(rate.Limit(1), 2)}
	if cfg.GoogleAPIKey == "" {
		return g, nil
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.GoogleAPIKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	g.client = client
	g.model = client.GenerativeModel(cfg.Model)
	return g, nil
}

func (g *Gemini) Configured() bool {
	return g.client != nil
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &BlockedError{Reason: blockReason(blocked)}
		}
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		reason := "NO_CANDIDATES"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			reason = resp.Candidates[0].FinishReason.String()
		}
		return "", &BlockedError{Reason: reason}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

func blockReason(e *genai.BlockedError) string {
	switch {
	case e.PromptFeedback != nil:
		return e.PromptFeedback.BlockReason.String()
	case e.Candidate != nil:
		return e.Candidate.FinishReason.String()
	}
	return "UNKNOWN"
}
