package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Copy records that the browser wrote the transcript to the clipboard
func Copy(c *fiber.Ctx) error {
	shell := shellFrom(c)
	if err := shell.Copy(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(shell.Snapshot())
}

// Download sends the transcript as transcript.md straight from memory
func Download(c *fiber.Ctx) error {
	dl, err := shellFrom(c).Download()
	if err != nil {
		return respondError(c, err)
	}

	c.Attachment(dl.Name)
	c.Set(fiber.HeaderContentType, dl.ContentType+"; charset=utf-8")
	return c.Send(dl.Body)
}
