package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"scribe/internal/database/dto"
	"scribe/internal/database/models"

	"github.com/google/uuid"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	GetByIDWithPatient(ctx context.Context, id uuid.UUID) (*models.NoteWithPatient, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]models.Note, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.NoteWithPatient, error)
	Update(ctx context.Context, id uuid.UUID, patch *dto.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	SearchByTitle(ctx context.Context, term string, limit int) ([]models.NoteWithPatient, error)
}

type noteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `id, patient_id, title, content, input_type, original_input, audio_file_url,
	metadata_duration, metadata_transcription_model, metadata_generation_model,
	metadata_confidence, status, created_by, created_at, updated_at`

const noteJoinQuery = `
	SELECT n.id, n.patient_id, n.title, n.content, n.input_type, n.original_input,
		n.audio_file_url, n.metadata_duration, n.metadata_transcription_model,
		n.metadata_generation_model, n.metadata_confidence, n.status, n.created_by,
		n.created_at, n.updated_at,
		p.id, p.first_name, p.last_name, p.date_of_birth, p.medical_record_number
	FROM notes n
	INNER JOIN patients p ON n.patient_id = p.id`

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	n := models.Note{}
	err := row.Scan(
		&n.ID,
		&n.PatientID,
		&n.Title,
		&n.Content,
		&n.InputType,
		&n.OriginalInput,
		&n.AudioFileURL,
		&n.Metadata.Duration,
		&n.Metadata.TranscriptionModel,
		&n.Metadata.GenerationModel,
		&n.Metadata.Confidence,
		&n.Status,
		&n.CreatedBy,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func scanNoteWithPatient(row interface{ Scan(...any) error }) (*models.NoteWithPatient, error) {
	n := models.NoteWithPatient{}
	err := row.Scan(
		&n.ID,
		&n.PatientID,
		&n.Title,
		&n.Content,
		&n.InputType,
		&n.OriginalInput,
		&n.AudioFileURL,
		&n.Metadata.Duration,
		&n.Metadata.TranscriptionModel,
		&n.Metadata.GenerationModel,
		&n.Metadata.Confidence,
		&n.Status,
		&n.CreatedBy,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.Patient.ID,
		&n.Patient.FirstName,
		&n.Patient.LastName,
		&n.Patient.DateOfBirth,
		&n.Patient.MedicalRecordNumber,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.InputType == "" {
		note.InputType = models.InputTypeText
	}
	if note.Status == "" {
		note.Status = models.StatusDraft
	}
	query := `
		INSERT INTO notes (patient_id, title, content, input_type, original_input, audio_file_url,
			metadata_duration, metadata_transcription_model, metadata_generation_model,
			metadata_confidence, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		note.PatientID,
		note.Title,
		note.Content,
		note.InputType,
		note.OriginalInput,
		note.AudioFileURL,
		note.Metadata.Duration,
		note.Metadata.TranscriptionModel,
		note.Metadata.GenerationModel,
		note.Metadata.Confidence,
		note.Status,
		note.CreatedBy,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating note: %v", err)
	}
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting note: %v", err)
	}
	return note, nil
}

func (r *noteRepository) GetByIDWithPatient(ctx context.Context, id uuid.UUID) (*models.NoteWithPatient, error) {
	note, err := scanNoteWithPatient(r.db.QueryRowContext(ctx, noteJoinQuery+` WHERE n.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting note: %v", err)
	}
	return note, nil
}

func (r *noteRepository) GetByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %v", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %v", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %v", err)
	}
	return notes, nil
}

func (r *noteRepository) GetAll(ctx context.Context, limit, offset int) ([]models.NoteWithPatient, error) {
	rows, err := r.db.QueryContext(ctx, noteJoinQuery+` ORDER BY n.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %v", err)
	}
	defer rows.Close()
	return collectNotesWithPatient(rows)
}

// Update only touches fields present in the patch. An empty patch is
// equivalent to a plain lookup.
func (r *noteRepository) Update(ctx context.Context, id uuid.UUID, patch *dto.NotePatch) (*models.Note, error) {
	var fields []string
	var values []any

	if patch.Title != nil {
		values = append(values, *patch.Title)
		fields = append(fields, fmt.Sprintf("title = $%d", len(values)))
	}
	if patch.Content != nil {
		values = append(values, *patch.Content)
		fields = append(fields, fmt.Sprintf("content = $%d", len(values)))
	}
	if patch.Status != nil {
		values = append(values, *patch.Status)
		fields = append(fields, fmt.Sprintf("status = $%d", len(values)))
	}

	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	values = append(values, id)
	query := fmt.Sprintf(`UPDATE notes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(fields, ", "), len(values), noteColumns)

	note, err := scanNote(r.db.QueryRowContext(ctx, query, values...))
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating note: %v", err)
	}
	return note, nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting note: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %v", err)
	}
	return rowsAffected > 0, nil
}

func (r *noteRepository) SearchByTitle(ctx context.Context, term string, limit int) ([]models.NoteWithPatient, error) {
	query := noteJoinQuery + ` WHERE n.title ILIKE $1 ORDER BY n.created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("error searching notes: %v", err)
	}
	defer rows.Close()
	return collectNotesWithPatient(rows)
}

func collectNotesWithPatient(rows *sql.Rows) ([]models.NoteWithPatient, error) {
	notes := []models.NoteWithPatient{}
	for rows.Next() {
		note, err := scanNoteWithPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %v", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %v", err)
	}
	return notes, nil
}
