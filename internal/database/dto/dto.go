package dto

import "scribe/internal/database/models"

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type AddressPatch struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
}

// PatientPatch is a partial update for a patient. Nil fields are left
// unchanged so the set of updatable columns stays enumerable.
type PatientPatch struct {
	FirstName           *string       `json:"firstName"`
	LastName            *string       `json:"lastName"`
	DateOfBirth         *models.Date  `json:"dateOfBirth"`
	Gender              *string       `json:"gender"`
	PhoneNumber         *string       `json:"phoneNumber"`
	Email               *string       `json:"email"`
	Address             *AddressPatch `json:"address"`
	MedicalRecordNumber *string       `json:"medicalRecordNumber"`
}

// NotePatch is a partial update for a note. Only title, content and
// status are updatable after creation.
type NotePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}
