package editing

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var ErrEmptyClipboard = errors.New("clipboard is empty")

// SystemClipboard is the OS clipboard.
type SystemClipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// OSClipboard talks to the desktop clipboard through xclip, pbcopy or the
// Windows API.
type OSClipboard struct{}

func (OSClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (OSClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboardAvailable reports whether a clipboard utility was found.
func SystemClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// Clipboard keeps the last copied clip in process and mirrors it to the
// system clipboard when one is configured.
type Clipboard struct {
	system  SystemClipboard
	clip    *Clip
	written string
}

// NewClipboard returns a clipboard backed by system. A nil system keeps
// everything in process.
func NewClipboard(system SystemClipboard) *Clipboard {
	return &Clipboard{system: system}
}

// Copy stores clip and writes tsv to the system clipboard. The in-process
// copy always succeeds; the returned error only concerns the system side.
func (c *Clipboard) Copy(clip *Clip, tsv string) error {
	c.clip = clip
	c.written = tsv
	if c.system == nil {
		return nil
	}
	return c.system.WriteAll(tsv)
}

// Contents returns the clip to paste. Text copied elsewhere since our last
// Copy wins over the in-process buffer and is parsed with resolve.
func (c *Clipboard) Contents(resolve func(shortID string) (string, bool)) (*Clip, error) {
	if c.system != nil {
		text, err := c.system.ReadAll()
		if err == nil && strings.TrimSpace(text) != "" && text != c.written {
			return ParseTSV(text, resolve)
		}
	}
	if c.clip == nil {
		return nil, ErrEmptyClipboard
	}
	return c.clip, nil
}
