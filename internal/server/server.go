package server

import (
	"errors"
	"os"
	"path/filepath"

	"scribe/internal/database"
	"scribe/internal/database/repositories"
	"scribe/internal/openai"
	"scribe/internal/scribe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
)

// maxAudioSize is the upload limit for a single audio file.
const maxAudioSize = 25 * 1024 * 1024

type FiberServer struct {
	*fiber.App

	db       database.Service
	patients repositories.PatientRepository
	notes    repositories.NoteRepository
	users    repositories.UserRepository
	search   repositories.SearchRepository
	pipeline *scribe.Pipeline

	// uploadDir is where staged audio lands; the public /uploads paths
	// resolve into it.
	uploadDir string
	jwtSecret []byte
}

func New() *FiberServer {
	db := database.New()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join("static", "uploads")
	}

	patients := repositories.NewPatientRepository(db.DB())
	notes := repositories.NewNoteRepository(db.DB())
	ai := &scribe.OpenAIAdapter{Client: openai.NewClient(openai.ClientConfig{
		APIKey: os.Getenv("OPENAI_API_KEY"),
	})}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "secret"
	}

	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader: "scribe",
			AppName:      "scribe",
			BodyLimit:    maxAudioSize + 1024*1024,
			ErrorHandler: errorHandler,
		}),
		db:        db,
		patients:  patients,
		notes:     notes,
		users:     repositories.NewUserRepository(db.DB()),
		search:    repositories.NewSearchRepository(db.DB()),
		pipeline:  scribe.NewPipeline(patients, notes, ai, ai),
		uploadDir: uploadDir,
		jwtSecret: []byte(jwtSecret),
	}
	server.App.Use(favicon.New())
	server.App.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5173",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization,X-Requested-With",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		MaxAge:       3600,
	}))
	server.App.Use(logger.New())
	server.App.Use(pprof.New(pprof.Config{
		Next: nil,
	}))
	return server
}

// errorHandler shapes every failure as {"status":"error","message":...}.
func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *scribe.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.Code).JSON(fiber.Map{
			"status":  "error",
			"message": appErr.Message,
		})
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"status":  "error",
			"message": fiberErr.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": "Internal Server Error",
	})
}
