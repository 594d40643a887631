package server

import (
	"fmt"
	"runtime"
	"time"

	"scribe/internal/database/dto"
	"scribe/internal/database/models"
	"scribe/internal/utils"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "AI Scribe Notes Management API",
			"version": "1.0.0",
		})
	})
	s.App.Post("/login", s.login)
	s.App.Post("/register", s.registerUser)
	s.App.Get("/health", s.healthHandler)
	// endpoint to monitor memory
	s.App.Get("/memory", func(c *fiber.Ctx) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		memoryInfo := fmt.Sprintf("Alloc = %v MiB, TotalAlloc = %v MiB, Sys = %v MiB, NumGC = %v",
			bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
		return c.SendString(memoryInfo)
	})

	s.App.Use(jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: s.jwtSecret},
	}))

	s.App.Post("/api/patients", s.createPatient)
	s.App.Get("/api/patients", s.getAllPatients)
	s.App.Get("/api/patients/search", s.searchPatients)
	s.App.Get("/api/patients/:id", s.getPatient)
	s.App.Patch("/api/patients/:id", s.updatePatient)
	s.App.Delete("/api/patients/:id", s.deletePatient)

	s.App.Post("/api/notes", s.createNote)
	s.App.Get("/api/notes", s.getAllNotes)
	s.App.Get("/api/notes/search", s.searchNotes)
	s.App.Get("/api/notes/patient/:patientId", s.getNotesByPatient)
	s.App.Post("/api/notes/audio", s.createAudioNote)
	s.App.Get("/api/notes/:id/audio", s.getAudioFile)
	s.App.Get("/api/notes/:id", s.getNote)
	s.App.Patch("/api/notes/:id", s.updateNote)
	s.App.Delete("/api/notes/:id", s.deleteNote)

	s.App.Get("/api/users/me", s.currentUser)
	s.App.Post("/api/users/reset-password", s.resetPassword)

	s.App.Get("/api/search", s.searchAll)
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	return c.JSON(s.db.Health())
}

func (s *FiberServer) login(c *fiber.Ctx) error {
	credentials := dto.LoginCredentials{}
	if err := c.BodyParser(&credentials); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	user, err := s.users.GetByEmail(c.Context(), credentials.Email)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	if !utils.CheckPasswordHash(credentials.Password, user.Password) {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"token": t})
}

func (s *FiberServer) registerUser(c *fiber.Ctx) error {
	user := models.User{}
	if err := c.BodyParser(&user); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if user.Email == "" || user.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}
	var err error
	user.Password, err = utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	if err := s.users.Create(c.Context(), &user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "created user successfully"})
}

func tokenClaims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// authorEmail is the authenticated user's email, or "" outside the JWT
// middleware.
func authorEmail(c *fiber.Ctx) string {
	email, _ := tokenClaims(c)["email"].(string)
	return email
}

func (s *FiberServer) searchAll(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Search query parameter 'q' is required")
	}
	result, err := s.search.SearchQuery(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": result})
}
