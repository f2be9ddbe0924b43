package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// UploadHandler stages and clears files
type UploadHandler struct {
	maxSizeMB int
	logger    *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(maxSizeMB int, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		maxSizeMB: maxSizeMB,
		logger:    logger,
	}
}

// Handle stages the uploaded file through the picker or drop path
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
			"code":  "ERR_NO_FILE",
		})
	}

	source := c.FormValue("source", types.SourcePicker)
	if source != types.SourcePicker && source != types.SourceDrop {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Unknown upload source %q", source),
			"code":  "ERR_INVALID_SOURCE",
		})
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if fh.Size > maxSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB),
			"code":  "ERR_FILE_TOO_LARGE",
		})
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.String("file", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read file",
			"code":  "ERR_READ_FAILED",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.String("file", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read file",
			"code":  "ERR_READ_FAILED",
		})
	}

	file := types.SelectedFile{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get(fiber.HeaderContentType),
		Size:     fh.Size,
		Data:     data,
	}

	shell := shellFrom(c)
	if source == types.SourceDrop {
		err = shell.DropFile(file)
	} else {
		err = shell.SelectFile(file)
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(shell.Snapshot())
}

// Clear unstages the current file
func (h *UploadHandler) Clear(c *fiber.Ctx) error {
	shell := shellFrom(c)
	if err := shell.ClearFile(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(shell.Snapshot())
}
