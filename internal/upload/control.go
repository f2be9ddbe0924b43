package upload

import (
	"github.com/codebuildervaibhav/podcast-transcript/internal/apperrors"
	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// State is whether a file is staged
type State string

const (
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

var (
	// ErrUnsupportedFile rejects a drop whose declared type is not audio/mpeg
	ErrUnsupportedFile = apperrors.New(apperrors.KindUnsupportedFile, "Please drop an MP3 file.")
	// ErrDisabled is returned for interactions while a transcription runs
	ErrDisabled = apperrors.New(apperrors.KindConflict, "File selection is disabled while transcribing.")
)

// Control holds the staged file and the interaction flags of the upload
// area. It is not safe for concurrent use; the owning shell serializes calls.
type Control struct {
	file     *types.SelectedFile
	disabled bool
	dragging bool
}

// Select stages a file chosen through the picker
func (c *Control) Select(file types.SelectedFile) error {
	if c.disabled {
		return ErrDisabled
	}
	c.file = &file
	return nil
}

// Drop stages a dropped file. Only the declared MIME type is checked.
func (c *Control) Drop(file types.SelectedFile) error {
	c.dragging = false
	if c.disabled {
		return ErrDisabled
	}
	if file.MIMEType != types.MIMETypeMP3 {
		return ErrUnsupportedFile
	}
	c.file = &file
	return nil
}

// Clear drops the staged file and its contents
func (c *Control) Clear() error {
	if c.disabled {
		return ErrDisabled
	}
	c.file = nil
	return nil
}

// DragEnter marks the area as a drop target unless disabled
func (c *Control) DragEnter() {
	if !c.disabled {
		c.dragging = true
	}
}

// DragLeave clears the drop-target flag
func (c *Control) DragLeave() {
	c.dragging = false
}

// SetDisabled toggles whether interactions are suppressed
func (c *Control) SetDisabled(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.dragging = false
	}
}

// Disabled reports whether interactions are suppressed
func (c *Control) Disabled() bool { return c.disabled }

// Dragging reports whether a file is being dragged over the drop zone
func (c *Control) Dragging() bool { return c.dragging }

// File returns the staged file, if any
func (c *Control) File() (types.SelectedFile, bool) {
	if c.file == nil {
		return types.SelectedFile{}, false
	}
	return *c.file, true
}

// State reports Empty or Populated
func (c *Control) State() State {
	if c.file == nil {
		return StateEmpty
	}
	return StatePopulated
}
