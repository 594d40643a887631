package server

import (
	"errors"

	"scribe/internal/database/dto"
	"scribe/internal/database/models"
	"scribe/internal/database/repositories"
	"scribe/internal/scribe"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (s *FiberServer) createPatient(c *fiber.Ctx) error {
	patient := models.Patient{}
	if err := c.BodyParser(&patient); err != nil {
		return scribe.Validation("invalid request body")
	}
	if patient.FirstName == "" || patient.LastName == "" {
		return scribe.Validation("firstName and lastName are required")
	}
	if patient.DateOfBirth.IsZero() {
		return scribe.Validation("dateOfBirth is required")
	}
	if err := s.patients.Create(c.Context(), &patient); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   patient,
	})
}

func (s *FiberServer) getPatient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Patient not found")
	}
	patient, err := s.patients.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrPatientNotFound) {
			return scribe.NotFound("Patient not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   patient,
	})
}

func (s *FiberServer) getAllPatients(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	patients, err := s.patients.GetAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(patients),
		"data":    patients,
	})
}

func (s *FiberServer) updatePatient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Patient not found")
	}
	patch := dto.PatientPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return scribe.Validation("invalid request body")
	}
	patient, err := s.patients.Update(c.Context(), id, &patch)
	if err != nil {
		if errors.Is(err, repositories.ErrPatientNotFound) {
			return scribe.NotFound("Patient not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   patient,
	})
}

func (s *FiberServer) deletePatient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Patient not found")
	}
	deleted, err := s.patients.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return scribe.NotFound("Patient not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *FiberServer) searchPatients(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return scribe.Validation("Search query parameter 'q' is required")
	}
	limit := c.QueryInt("limit", 50)
	patients, err := s.patients.SearchByName(c.Context(), q, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(patients),
		"data":    patients,
	})
}
