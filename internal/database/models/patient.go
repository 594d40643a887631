package models

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
}

type Patient struct {
	ID                  uuid.UUID `json:"id"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	DateOfBirth         Date      `json:"dateOfBirth"`
	Gender              *string   `json:"gender"`
	PhoneNumber         *string   `json:"phoneNumber"`
	Email               *string   `json:"email"`
	Address             Address   `json:"address"`
	MedicalRecordNumber *string   `json:"medicalRecordNumber"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// PatientSummary is the denormalized patient shape attached to a note
// fetched with its owning patient.
type PatientSummary struct {
	ID                  uuid.UUID `json:"id"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	DateOfBirth         Date      `json:"dateOfBirth"`
	MedicalRecordNumber *string   `json:"medicalRecordNumber"`
}
