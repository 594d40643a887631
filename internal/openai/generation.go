package openai

import (
	"context"
	"encoding/json"
	"fmt"
)

// GenerationModel is the fixed text-generation model identifier
// recorded in note metadata.
const GenerationModel = "gpt-4o-mini"

// NoSummarySentinel replaces the summary when the model response is
// unparseable or omits one.
const NoSummarySentinel = "No summary generated"

type GeneratedNote struct {
	Summary      string `json:"summary"`
	ClinicalNote string `json:"clinicalNote"`
}

const systemPrompt = "You are a professional medical scribe. Generate accurate, concise clinical documentation."

const promptTemplate = `You are a medical scribe assistant. Given the following transcribed audio from a healthcare consultation, create a structured clinical note.

Transcribed Text:
%s

Please provide:
1. A brief summary (2-3 sentences)
2. A detailed clinical note in SOAP format (Subjective, Objective, Assessment, Plan) if applicable, or a well-structured narrative note.

Format your response as JSON with the following structure:
{
  "summary": "Brief summary here",
  "clinicalNote": "Detailed clinical note here"
}`

// GenerateClinicalNote asks the model for a summary and a clinical note
// derived from transcribedText. A malformed model response never fails
// the call: the summary falls back to NoSummarySentinel and the
// clinical note falls back to the transcript, so content is never
// empty. Call-level failures are returned as errors.
func (c *Client) GenerateClinicalNote(ctx context.Context, transcribedText string) (*GeneratedNote, error) {
	content, err := c.createChatCompletion(ctx, chatCompletionRequest{
		Model: GenerationModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(promptTemplate, transcribedText)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.3,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Summary           string `json:"summary"`
		ClinicalNote      string `json:"clinicalNote"`
		ClinicalNoteSnake string `json:"clinical_note"`
	}
	// A parse failure leaves every field empty and the fallbacks below
	// take over.
	_ = json.Unmarshal([]byte(content), &parsed)

	result := &GeneratedNote{
		Summary:      parsed.Summary,
		ClinicalNote: parsed.ClinicalNote,
	}
	if result.Summary == "" {
		result.Summary = NoSummarySentinel
	}
	if result.ClinicalNote == "" {
		result.ClinicalNote = parsed.ClinicalNoteSnake
	}
	if result.ClinicalNote == "" {
		result.ClinicalNote = transcribedText
	}
	return result, nil
}
