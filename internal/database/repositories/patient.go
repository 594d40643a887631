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

var ErrPatientNotFound = errors.New("patient not found")

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Patient, error)
	Update(ctx context.Context, id uuid.UUID, patch *dto.PatientPatch) (*models.Patient, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	SearchByName(ctx context.Context, term string, limit int) ([]models.Patient, error)
}

type patientRepository struct {
	db *sql.DB
}

func NewPatientRepository(db *sql.DB) PatientRepository {
	return &patientRepository{db: db}
}

const patientColumns = `id, first_name, last_name, date_of_birth, gender, phone_number, email,
	address_street, address_city, address_state, address_zip_code,
	medical_record_number, created_at, updated_at`

func scanPatient(row interface{ Scan(...any) error }) (*models.Patient, error) {
	p := models.Patient{}
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.PhoneNumber,
		&p.Email,
		&p.Address.Street,
		&p.Address.City,
		&p.Address.State,
		&p.Address.ZipCode,
		&p.MedicalRecordNumber,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	query := `
		INSERT INTO patients (first_name, last_name, date_of_birth, gender, phone_number, email,
			address_street, address_city, address_state, address_zip_code, medical_record_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.PhoneNumber,
		patient.Email,
		patient.Address.Street,
		patient.Address.City,
		patient.Address.State,
		patient.Address.ZipCode,
		patient.MedicalRecordNumber,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating patient: %v", err)
	}
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	patient, err := scanPatient(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting patient: %v", err)
	}
	return patient, nil
}

func (r *patientRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY last_name, first_name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying patients: %v", err)
	}
	defer rows.Close()
	return collectPatients(rows)
}

// Update only touches fields present in the patch. An empty patch is
// equivalent to a plain lookup.
func (r *patientRepository) Update(ctx context.Context, id uuid.UUID, patch *dto.PatientPatch) (*models.Patient, error) {
	var fields []string
	var values []any
	add := func(column string, value any) {
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(values)+1))
		values = append(values, value)
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Address != nil {
		if patch.Address.Street != nil {
			add("address_street", *patch.Address.Street)
		}
		if patch.Address.City != nil {
			add("address_city", *patch.Address.City)
		}
		if patch.Address.State != nil {
			add("address_state", *patch.Address.State)
		}
		if patch.Address.ZipCode != nil {
			add("address_zip_code", *patch.Address.ZipCode)
		}
	}
	if patch.MedicalRecordNumber != nil {
		add("medical_record_number", *patch.MedicalRecordNumber)
	}

	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	values = append(values, id)
	query := fmt.Sprintf(`UPDATE patients SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(fields, ", "), len(values), patientColumns)

	patient, err := scanPatient(r.db.QueryRowContext(ctx, query, values...))
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating patient: %v", err)
	}
	return patient, nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting patient: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %v", err)
	}
	return rowsAffected > 0, nil
}

func (r *patientRepository) SearchByName(ctx context.Context, term string, limit int) ([]models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients
		WHERE first_name ILIKE $1 OR last_name ILIKE $1
		ORDER BY last_name, first_name LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("error searching patients: %v", err)
	}
	defer rows.Close()
	return collectPatients(rows)
}

func collectPatients(rows *sql.Rows) ([]models.Patient, error) {
	patients := []models.Patient{}
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning patient: %v", err)
		}
		patients = append(patients, *patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %v", err)
	}
	return patients, nil
}
