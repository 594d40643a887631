package models

import (
	"time"

	"github.com/google/uuid"
)

// Note input types and statuses.
const (
	InputTypeText  = "text"
	InputTypeAudio = "audio"

	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

type NoteMetadata struct {
	Duration           *float64 `json:"duration,omitempty"`
	TranscriptionModel *string  `json:"transcriptionModel,omitempty"`
	GenerationModel    *string  `json:"generationModel,omitempty"`
	Confidence         *float64 `json:"confidence,omitempty"`
}

type Note struct {
	ID            uuid.UUID    `json:"id"`
	PatientID     uuid.UUID    `json:"patientId"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	InputType     string       `json:"inputType"`
	OriginalInput *string      `json:"originalInput"`
	AudioFileURL  *string      `json:"audioFileUrl"`
	Metadata      NoteMetadata `json:"metadata"`
	Status        string       `json:"status"`
	CreatedBy     *string      `json:"createdBy"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type NoteWithPatient struct {
	Note
	Patient PatientSummary `json:"patient"`
}
