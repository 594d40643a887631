package server

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scribe/internal/database/repositories"
	"scribe/internal/scribe"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// allowedAudioTypes is the upload whitelist. video/mp4 is accepted
// because some recorders label m4a audio that way.
var allowedAudioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/wave":  true,
	"audio/x-wav": true,
	"audio/webm":  true,
	"audio/ogg":   true,
	"audio/m4a":   true,
	"audio/mp4":   true,
	"audio/x-m4a": true,
	"video/mp4":   true,
}

func (s *FiberServer) createAudioNote(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		// Nothing was staged, so there is nothing to clean up.
		return scribe.Validation("No audio file uploaded")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedAudioTypes[contentType] {
		return scribe.Validation(fmt.Sprintf("Invalid file type. Only audio files are allowed. Got: %s", contentType))
	}
	if fileHeader.Size > maxAudioSize {
		return scribe.Validation("Audio file exceeds the 25 MB limit")
	}

	name := fmt.Sprintf("audio-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1e9), filepath.Ext(fileHeader.Filename))
	dst := filepath.Join(s.uploadDir, name)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return err
	}
	if err := c.SaveFile(fileHeader, dst); err != nil {
		return err
	}

	createdBy := c.FormValue("createdBy")
	if createdBy == "" {
		createdBy = authorEmail(c)
	}

	result, err := s.pipeline.ProcessAudioNote(c.Context(), scribe.AudioNoteRequest{
		File:      scribe.NewStagedFile(dst),
		PatientID: c.FormValue("patientId"),
		Title:     c.FormValue("title"),
		CreatedBy: createdBy,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"note": result.Note,
			"processing": fiber.Map{
				"transcription": result.Transcription,
				"summary":       result.Summary,
				"audioFile":     result.AudioFile,
			},
		},
	})
}

func (s *FiberServer) getAudioFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return scribe.NotFound("Note not found")
	}
	note, err := s.notes.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return scribe.NotFound("Note not found")
		}
		return err
	}
	if note.AudioFileURL == nil {
		return scribe.NotFound("No audio file associated with this note")
	}

	filePath := filepath.Join(s.uploadDir, strings.TrimPrefix(*note.AudioFileURL, "/uploads/"))
	if _, err := os.Stat(filePath); err != nil {
		return scribe.NotFound("Audio file not found")
	}
	return c.SendFile(filePath)
}
