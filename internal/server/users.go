package server

import (
	"errors"

	"scribe/internal/database/dto"
	"scribe/internal/database/repositories"
	"scribe/internal/scribe"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserID is the authenticated user's id from the token subject,
// or uuid.Nil when the token predates subject claims.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	sub, _ := tokenClaims(c)["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (s *FiberServer) currentUser(c *fiber.Ctx) error {
	id := currentUserID(c)
	if id == uuid.Nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	user, err := s.users.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return scribe.NotFound("User not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   user,
	})
}

func (s *FiberServer) resetPassword(c *fiber.Ctx) error {
	id := currentUserID(c)
	if id == uuid.Nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	req := dto.ResetPasswordRequest{}
	if err := c.BodyParser(&req); err != nil {
		return scribe.Validation("invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return scribe.Validation("oldPassword and newPassword are required")
	}

	err := s.users.ResetPassword(c.Context(), id, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return scribe.NotFound("User not found")
		}
		if errors.Is(err, repositories.ErrIncorrectPassword) {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect password")
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "password updated successfully"})
}
