package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hugh/ritum/internal/ai"
)

type AIHandler struct {
	generator ai.Generator
	logger    *slog.Logger
}

func NewAIHandler(generator ai.Generator, logger *slog.Logger) *AIHandler {
	return &AIHandler{generator: generator, logger: logger}
}

type PromptRequest struct {
	Facts string `json:"facts"`
}

type PromptResponse struct {
	GeneratedPrompt string `json:"generated_prompt"`
}

type PetitionRequest struct {
	Prompt string `json:"prompt"`
}

type PetitionResponse struct {
	GeneratedPetition string `json:"generated_petition"`
}

// GeneratePrompt handles POST /ai/generate-prompt. No model call is made.
func (h *AIHandler) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Facts) == "" {
		writeValidation(w, map[string]string{"facts": "Facts are required"})
		return
	}

	writeJSON(w, http.StatusOK, PromptResponse{GeneratedPrompt: ai.BuildPrompt(req.Facts)})
}

// GeneratePetition handles POST /ai/generate-petition
func (h *AIHandler) GeneratePetition(w http.ResponseWriter, r *http.Request) {
	var req PetitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeValidation(w, map[string]string{"prompt": "Prompt is required"})
		return
	}

	text, err := h.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "AI generation is not configured")
		case errors.Is(err, ai.ErrContentBlocked):
			h.logger.Warn("petition generation blocked", "error", err)
			writeError(w, http.StatusBadGateway, "The model refused to generate content for this prompt")
		default:
			h.logger.Error("generating petition", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to generate petition")
		}
		return
	}

	writeJSON(w, http.StatusOK, PetitionResponse{GeneratedPetition: text})
}
