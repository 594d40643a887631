// Package scribe implements the audio ingestion pipeline: a staged
// audio upload is transcribed, turned into a structured clinical note
// and persisted, with the staged file cleaned up on every failure path.
package scribe

import (
	"context"
	"errors"

	"scribe/internal/database/models"
	"scribe/internal/database/repositories"
	"scribe/internal/openai"

	"github.com/google/uuid"
)

// DefaultAuthor is recorded as the note author when no createdBy is
// supplied.
const DefaultAuthor = "system"

type Pipeline struct {
	patients    repositories.PatientRepository
	notes       repositories.NoteRepository
	transcriber Transcriber
	generator   NoteGenerator
}

func NewPipeline(patients repositories.PatientRepository, notes repositories.NoteRepository, transcriber Transcriber, generator NoteGenerator) *Pipeline {
	return &Pipeline{
		patients:    patients,
		notes:       notes,
		transcriber: transcriber,
		generator:   generator,
	}
}

type AudioNoteRequest struct {
	// File is the staged upload. The pipeline takes ownership of it.
	File      *StagedFile
	PatientID string
	Title     string
	CreatedBy string
}

type AudioNoteResult struct {
	Note          *models.Note
	Transcription string
	Summary       string
	AudioFile     string
}

// ProcessAudioNote runs the upload → transcribe → generate → persist
// chain. The three external operations are strictly sequential; there
// are no retries. On any failure after the file is staged the file is
// discarded and the original error is returned unchanged. On success
// the file is released as the note's durable audio artifact.
func (p *Pipeline) ProcessAudioNote(ctx context.Context, req AudioNoteRequest) (*AudioNoteResult, error) {
	if req.File == nil {
		return nil, Validation("No audio file uploaded")
	}

	if req.PatientID == "" {
		req.File.Discard()
		return nil, Validation("patientId is required")
	}
	if req.Title == "" {
		req.File.Discard()
		return nil, Validation("title is required")
	}

	// An id that is not a UUID can never match a patient row, so it is
	// reported the same way as an absent one.
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		req.File.Discard()
		return nil, NotFound("Patient not found")
	}
	if _, err := p.patients.GetByID(ctx, patientID); err != nil {
		req.File.Discard()
		if errors.Is(err, repositories.ErrPatientNotFound) {
			return nil, NotFound("Patient not found")
		}
		return nil, err
	}

	transcription, err := p.transcriber.Transcribe(ctx, req.File.Path())
	if err != nil {
		req.File.Discard()
		return nil, err
	}

	generated, err := p.generator.Generate(ctx, transcription.Text)
	if err != nil {
		req.File.Discard()
		return nil, err
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = DefaultAuthor
	}
	transcriptionModel := openai.TranscriptionModel
	generationModel := openai.GenerationModel
	audioFileURL := req.File.URL()

	note := &models.Note{
		PatientID:     patientID,
		Title:         req.Title,
		Content:       generated.ClinicalNote,
		InputType:     models.InputTypeAudio,
		OriginalInput: &transcription.Text,
		AudioFileURL:  &audioFileURL,
		Status:        models.StatusCompleted,
		CreatedBy:     &createdBy,
		Metadata: models.NoteMetadata{
			Duration:           transcription.Duration,
			TranscriptionModel: &transcriptionModel,
			GenerationModel:    &generationModel,
		},
	}
	if err := p.notes.Create(ctx, note); err != nil {
		req.File.Discard()
		return nil, err
	}

	req.File.Release()
	return &AudioNoteResult{
		Note:          note,
		Transcription: transcription.Text,
		Summary:       generated.Summary,
		AudioFile:     req.File.Name(),
	}, nil
}
