package web

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/podcast-transcript/internal/transcription"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Accept string
	Model  string
}

// Index renders the single page once and serves it from memory
func Index(model string) fiber.Handler {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, pageData{
		Accept: transcription.PickerAccept,
		Model:  model,
	}); err != nil {
		panic("web: render index: " + err.Error())
	}
	page := buf.Bytes()

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.Send(page)
	}
}
