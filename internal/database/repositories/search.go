package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"scribe/internal/database/models"
)

type SearchRepository interface {
	SearchQuery(ctx context.Context, query string) (*models.SearchResult, error)
}

type searchRepository struct {
	db *sql.DB
}

func NewSearchRepository(db *sql.DB) SearchRepository {
	return &searchRepository{db: db}
}

// SearchQuery runs a prefix-matching full-text search over note titles
// and contents and over patient names.
func (s *searchRepository) SearchQuery(ctx context.Context, query string) (*models.SearchResult, error) {
	tsQuery := "to_tsquery('english', $1)"
	notesQuery := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE to_tsvector('english', title) @@ ` + tsQuery + ` OR
		      to_tsvector('english', content) @@ ` + tsQuery + `
		ORDER BY ts_rank(to_tsvector('english', title || ' ' || content), ` + tsQuery + `) DESC
	`
	patientsQuery := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE to_tsvector('simple', first_name || ' ' || last_name) @@ to_tsquery('simple', $1)
		ORDER BY last_name, first_name
	`

	formattedQuery := formatTsQuery(query)

	notesRows, err := s.db.QueryContext(ctx, notesQuery, formattedQuery)
	if err != nil {
		return nil, fmt.Errorf("error searching notes: %v", err)
	}
	defer notesRows.Close()

	notes := []models.Note{}
	for notesRows.Next() {
		note, err := scanNote(notesRows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %v", err)
		}
		notes = append(notes, *note)
	}
	if err := notesRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %v", err)
	}

	patientsRows, err := s.db.QueryContext(ctx, patientsQuery, formattedQuery)
	if err != nil {
		return nil, fmt.Errorf("error searching patients: %v", err)
	}
	defer patientsRows.Close()

	patients, err := collectPatients(patientsRows)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{
		Notes:    notes,
		Patients: patients,
	}, nil
}

func formatTsQuery(query string) string {
	words := strings.Fields(query)
	for i, word := range words {
		word = strings.ReplaceAll(word, "'", "''")
		// Add prefix matching
		words[i] = word + ":*"
	}
	return strings.Join(words, " & ")
}
