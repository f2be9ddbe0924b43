package output

import (
	"sync"
	"time"
)

const (
	// CopiedResetAfter is how long the copied indicator stays on
	CopiedResetAfter = 2000 * time.Millisecond

	DownloadName        = "transcript.md"
	DownloadContentType = "text/markdown"
)

// Download is a transcript packaged as a file
type Download struct {
	Name        string
	ContentType string
	Body        []byte
}

// Panel presents one immutable transcript and tracks the copied indicator
type Panel struct {
	transcript string
	resetAfter time.Duration
	onChange   func()

	mu     sync.Mutex
	copied bool
	gen    uint64
	timer  *time.Timer
}

// NewPanel creates a panel. onChange, if set, is called after every change
// of the copied indicator, without the panel lock held.
func NewPanel(transcript string, onChange func()) *Panel {
	return &Panel{
		transcript: transcript,
		resetAfter: CopiedResetAfter,
		onChange:   onChange,
	}
}

// Transcript returns the text shown in the panel
func (p *Panel) Transcript() string {
	return p.transcript
}

// Copied reports the indicator
func (p *Panel) Copied() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copied
}

// MarkCopied records a successful clipboard write. The indicator turns off
// again after the reset delay; calling again restarts the delay.
func (p *Panel) MarkCopied() {
	p.mu.Lock()
	p.copied = true
	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.resetAfter, func() { p.reset(gen) })
	p.mu.Unlock()

	p.changed()
}

func (p *Panel) reset(gen uint64) {
	p.mu.Lock()
	// a newer MarkCopied owns the indicator
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.copied = false
	p.timer = nil
	p.mu.Unlock()

	p.changed()
}

// Download packages the transcript as transcript.md
func (p *Panel) Download() Download {
	return Download{
		Name:        DownloadName,
		ContentType: DownloadContentType,
		Body:        []byte(p.transcript),
	}
}

// Close stops a pending reset timer
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Panel) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}
