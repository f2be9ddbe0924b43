package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/podcast-transcript/internal/apperrors"
	"github.com/codebuildervaibhav/podcast-transcript/internal/session"
)

// SessionCookie carries the id of the browser's shell
const SessionCookie = "transcriber_session"

const localsShell = "shell"

// SessionMiddleware attaches the caller's shell, creating one on first visit
func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shell, created := store.GetOrCreate(c.Cookies(SessionCookie))
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    shell.ID(),
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(localsShell, shell)
		return c.Next()
	}
}

func shellFrom(c *fiber.Ctx) *session.Shell {
	shell, _ := c.Locals(localsShell).(*session.Shell)
	return shell
}

// respondError writes the JSON error body along with the current state
func respondError(c *fiber.Ctx, err error) error {
	e := apperrors.As(err)
	body := fiber.Map{
		"error": e.Message,
		"code":  e.Code(),
	}
	if shell := shellFrom(c); shell != nil {
		body["state"] = shell.Snapshot()
	}
	return c.Status(e.HTTPStatus()).JSON(body)
}
