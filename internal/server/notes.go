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

func (s *FiberServer) createNote(c *fiber.Ctx) error {
	note := models.Note{}
	if err := c.BodyParser(&note); err != nil {
		return scribe.Validation("invalid request body")
	}
	if note.PatientID == uuid.Nil {
		return scribe.Validation("patientId is required")
	}
	if note.Title == "" {
		return scribe.Validation("title is required")
	}
	if note.CreatedBy == nil {
		if email := authorEmail(c); email != "" {
			note.CreatedBy = &email
		}
	}
	if err := s.notes.Create(c.Context(), &note); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   note,
	})
}

func (s *FiberServer) getNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Note not found")
	}

	var data any
	if c.QueryBool("includePatient") {
		data, err = s.notes.GetByIDWithPatient(c.Context(), id)
	} else {
		data, err = s.notes.GetByID(c.Context(), id)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return scribe.NotFound("Note not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func (s *FiberServer) getAllNotes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	notes, err := s.notes.GetAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(notes),
		"data":    notes,
	})
}

func (s *FiberServer) getNotesByPatient(c *fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return scribe.NotFound("Patient not found")
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	notes, err := s.notes.GetByPatient(c.Context(), patientID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(notes),
		"data":    notes,
	})
}

func (s *FiberServer) updateNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Note not found")
	}
	patch := dto.NotePatch{}
	if err := c.BodyParser(&patch); err != nil {
		return scribe.Validation("invalid request body")
	}
	note, err := s.notes.Update(c.Context(), id, &patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return scribe.NotFound("Note not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   note,
	})
}

func (s *FiberServer) deleteNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Note not found")
	}
	deleted, err := s.notes.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return scribe.NotFound("Note not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *FiberServer) searchNotes(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return scribe.Validation("Search query parameter 'q' is required")
	}
	limit := c.QueryInt("limit", 50)
	notes, err := s.notes.SearchByTitle(c.Context(), q, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(notes),
		"data":    notes,
	})
}
