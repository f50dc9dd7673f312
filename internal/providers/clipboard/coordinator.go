package clipboard

import (
	"context"
	"errors"
	"sync"

	"github.com/filescope/filescope/internal/providers/transfer"
)

// Mode is what a paste will do with the held items.
type Mode string

const (
	ModeNone Mode = ""
	ModeCopy Mode = "copy"
	ModeCut  Mode = "cut"
)

// ErrEmpty is returned when pasting with nothing on the clipboard.
var ErrEmpty = errors.New("clipboard is empty")

// Coordinator holds the file clipboard for the whole process. Copy and
// cut replace the current contents; a copy clipboard survives any number
// of pastes while a cut clipboard is consumed by the first one.
type Coordinator struct {
	mu     sync.Mutex
	mode   Mode
	items  []string
	engine *transfer.Engine
}

// NewCoordinator creates an empty clipboard backed by engine.
func NewCoordinator(engine *transfer.Engine) *Coordinator {
	return &Coordinator{engine: engine}
}

// SetCopy stages items for copying.
func (c *Coordinator) SetCopy(items []string) {
	c.set(ModeCopy, items)
}

// SetCut stages items for moving.
func (c *Coordinator) SetCut(items []string) {
	c.set(ModeCut, items)
}

func (c *Coordinator) set(mode Mode, items []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(items) == 0 {
		c.mode = ModeNone
		c.items = nil
		return
	}
	c.mode = mode
	c.items = append([]string(nil), items...)
}

// Contents reports the held items without consuming them.
func (c *Coordinator) Contents() (Mode, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, append([]string(nil), c.items...)
}

// Clear empties the clipboard.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeNone
	c.items = nil
}

// Paste applies the clipboard to destDir. A cut clipboard empties after
// the paste regardless of per-item outcomes; items that failed to move
// are still on disk at their original paths and reported in the results.
func (c *Coordinator) Paste(ctx context.Context, destDir, transferID string) ([]transfer.ItemResult, error) {
	c.mu.Lock()
	mode := c.mode
	items := append([]string(nil), c.items...)
	c.mu.Unlock()

	if mode == ModeNone || len(items) == 0 {
		return nil, ErrEmpty
	}

	var results []transfer.ItemResult
	switch mode {
	case ModeCut:
		results = c.engine.Move(ctx, items, destDir, transferID)
		c.Clear()
	default:
		results = c.engine.Copy(ctx, items, destDir, transferID)
	}
	return results, nil
}
