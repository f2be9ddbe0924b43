package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// State returns the caller's view model
func State(c *fiber.Ctx) error {
	return c.JSON(shellFrom(c).Snapshot())
}

// Transcribe triggers one transcription of the staged file
func Transcribe(c *fiber.Ctx) error {
	shell := shellFrom(c)
	if err := shell.Transcribe(); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(shell.Snapshot())
}
