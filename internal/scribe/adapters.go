package scribe

import (
	"context"

	"scribe/internal/openai"
)

// Transcription is the provider-neutral speech-to-text result.
type Transcription struct {
	Text     string
	Duration *float64
}

// GeneratedNote is the provider-neutral note-generation result.
type GeneratedNote struct {
	Summary      string
	ClinicalNote string
}

// Transcriber converts a staged audio file into text. Implementations
// are all-or-nothing: no partial transcript is ever returned.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcription, error)
}

// NoteGenerator derives a summary and clinical note from a transcript.
type NoteGenerator interface {
	Generate(ctx context.Context, transcript string) (*GeneratedNote, error)
}

// OpenAIAdapter implements both adapters against the OpenAI API. Any
// provider-level failure is normalized to a single opaque error per
// operation.
type OpenAIAdapter struct {
	Client *openai.Client
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	result, err := a.Client.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, Upstream("Failed to transcribe audio", err)
	}
	return &Transcription{Text: result.Text, Duration: result.Duration}, nil
}

func (a *OpenAIAdapter) Generate(ctx context.Context, transcript string) (*GeneratedNote, error) {
	result, err := a.Client.GenerateClinicalNote(ctx, transcript)
	if err != nil {
		return nil, Upstream("Failed to generate clinical note", err)
	}
	return &GeneratedNote{Summary: result.Summary, ClinicalNote: result.ClinicalNote}, nil
}
