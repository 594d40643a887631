package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"scribe/internal/database"
	"scribe/internal/database/dto"
	"scribe/internal/database/models"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("scribe_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func createTestPatient(t *testing.T, repo PatientRepository) *models.Patient {
	t.Helper()
	patient := &models.Patient{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: models.NewDate(1990, time.May, 1),
		Gender:      strPtr("female"),
	}
	if err := repo.Create(context.Background(), patient); err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}
	return patient
}

func TestPatientRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	patient := createTestPatient(t, repo)
	if patient.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}

	got, err := repo.GetByID(ctx, patient.ID)
	if err != nil {
		t.Fatalf("failed to get patient: %v", err)
	}
	if got.FirstName != "Ada" || got.LastName != "Lovelace" {
		t.Errorf("unexpected patient %+v", got)
	}
	if !got.DateOfBirth.Equal(models.NewDate(1990, time.May, 1).Time) {
		t.Errorf("unexpected date of birth %v", got.DateOfBirth)
	}

	// Partial update touches only the provided fields.
	updated, err := repo.Update(ctx, patient.ID, &dto.PatientPatch{
		PhoneNumber: strPtr("555-0100"),
	})
	if err != nil {
		t.Fatalf("failed to update patient: %v", err)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != "555-0100" {
		t.Errorf("expected phone number to be set, got %v", updated.PhoneNumber)
	}
	if updated.FirstName != "Ada" {
		t.Errorf("expected first name to be untouched, got %q", updated.FirstName)
	}

	// Empty patch is equivalent to a plain lookup.
	same, err := repo.Update(ctx, patient.ID, &dto.PatientPatch{})
	if err != nil {
		t.Fatalf("failed on empty patch: %v", err)
	}
	if !same.UpdatedAt.Equal(updated.UpdatedAt) {
		t.Error("expected empty patch to leave the row unchanged")
	}

	deleted, err := repo.Delete(ctx, patient.ID)
	if err != nil {
		t.Fatalf("failed to delete patient: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}
	deleted, err = repo.Delete(ctx, patient.ID)
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if deleted {
		t.Error("expected idempotent delete to report no removed row")
	}
	if _, err := repo.GetByID(ctx, patient.ID); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestPatientRepository_SearchByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	createTestPatient(t, repo)

	patients, err := repo.SearchByName(ctx, "love", 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(patients) != 1 {
		t.Fatalf("expected one match, got %d", len(patients))
	}
	if patients, _ = repo.SearchByName(ctx, "nobody", 50); len(patients) != 0 {
		t.Errorf("expected no matches, got %d", len(patients))
	}
}

func TestNoteRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	patientRepo := NewPatientRepository(db)
	repo := NewNoteRepository(db)
	ctx := context.Background()

	patient := createTestPatient(t, patientRepo)

	duration := 12.5
	note := &models.Note{
		PatientID:     patient.ID,
		Title:         "Visit",
		Content:       "S: headache.",
		InputType:     models.InputTypeAudio,
		OriginalInput: strPtr("Patient reports mild headache"),
		AudioFileURL:  strPtr("/uploads/audio-1-1.wav"),
		Status:        models.StatusCompleted,
		CreatedBy:     strPtr("system"),
		Metadata: models.NoteMetadata{
			Duration:           &duration,
			TranscriptionModel: strPtr("whisper-1"),
			GenerationModel:    strPtr("gpt-4o-mini"),
		},
	}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	got, err := repo.GetByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("failed to get note: %v", err)
	}
	if got.Content != "S: headache." || got.InputType != models.InputTypeAudio {
		t.Errorf("unexpected note %+v", got)
	}
	if got.Metadata.Duration == nil || *got.Metadata.Duration != duration {
		t.Errorf("unexpected metadata duration %v", got.Metadata.Duration)
	}
	if got.Metadata.TranscriptionModel == nil || *got.Metadata.TranscriptionModel != "whisper-1" {
		t.Errorf("unexpected transcription model %v", got.Metadata.TranscriptionModel)
	}

	joined, err := repo.GetByIDWithPatient(ctx, note.ID)
	if err != nil {
		t.Fatalf("failed to get joined note: %v", err)
	}
	if joined.Patient.ID != patient.ID || joined.Patient.LastName != "Lovelace" {
		t.Errorf("unexpected joined patient %+v", joined.Patient)
	}

	updated, err := repo.Update(ctx, note.ID, &dto.NotePatch{Status: strPtr(models.StatusDraft)})
	if err != nil {
		t.Fatalf("failed to update note: %v", err)
	}
	if updated.Status != models.StatusDraft {
		t.Errorf("expected status draft, got %q", updated.Status)
	}
	if updated.Content != "S: headache." {
		t.Errorf("expected content to be untouched, got %q", updated.Content)
	}

	byPatient, err := repo.GetByPatient(ctx, patient.ID, 50, 0)
	if err != nil {
		t.Fatalf("failed to list notes by patient: %v", err)
	}
	if len(byPatient) != 1 {
		t.Errorf("expected one note for patient, got %d", len(byPatient))
	}

	deleted, err := repo.Delete(ctx, note.ID)
	if err != nil || !deleted {
		t.Fatalf("expected note to be deleted, got (%v, %v)", deleted, err)
	}
}

func TestNoteRepository_DefaultsOnCreate(t *testing.T) {
	db := setupTestDB(t)
	patientRepo := NewPatientRepository(db)
	repo := NewNoteRepository(db)
	ctx := context.Background()

	patient := createTestPatient(t, patientRepo)
	note := &models.Note{PatientID: patient.ID, Title: "Plain"}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	if note.InputType != models.InputTypeText {
		t.Errorf("expected default input type text, got %q", note.InputType)
	}
	if note.Status != models.StatusDraft {
		t.Errorf("expected default status draft, got %q", note.Status)
	}
}

func TestNoteRepository_CascadeOnPatientDelete(t *testing.T) {
	db := setupTestDB(t)
	patientRepo := NewPatientRepository(db)
	repo := NewNoteRepository(db)
	ctx := context.Background()

	patient := createTestPatient(t, patientRepo)
	note := &models.Note{PatientID: patient.ID, Title: "Visit"}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	if _, err := patientRepo.Delete(ctx, patient.ID); err != nil {
		t.Fatalf("failed to delete patient: %v", err)
	}
	if _, err := repo.GetByID(ctx, note.ID); err != ErrNoteNotFound {
		t.Errorf("expected note to cascade on patient delete, got %v", err)
	}
}
