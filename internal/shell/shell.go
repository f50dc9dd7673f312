// Package shell hands paths to the desktop environment: opening a file
// with its default application or revealing it in the system file
// manager. Failures are logged, never propagated, because the request is
// fire-and-forget from the client's point of view.
package shell

import (
	"context"
	"os/exec"

	"github.com/filescope/filescope/internal/logging"
	"go.uber.org/zap"
)

// Opener launches desktop actions.
type Opener struct {
	log *logging.Logger

	// Injectable for tests.
	run func(ctx context.Context, name string, args ...string) error
}

// NewOpener creates an opener.
func NewOpener(log *logging.Logger) *Opener {
	if log == nil {
		log = logging.NewNop()
	}
	o := &Opener{log: log}
	o.run = func(ctx context.Context, name string, args ...string) error {
		return exec.CommandContext(ctx, name, args...).Run()
	}
	return o
}

// Open hands path to the default application.
func (o *Opener) Open(ctx context.Context, path string) {
	name, args := openCommand(path)
	if err := o.run(ctx, name, args...); err != nil {
		o.log.Warn("open failed", zap.String("path", path), zap.Error(err))
	}
}

// Reveal shows path selected in the system file manager.
func (o *Opener) Reveal(ctx context.Context, path string) {
	name, args := revealCommand(path)
	if err := o.run(ctx, name, args...); err != nil {
		o.log.Warn("reveal failed", zap.String("path", path), zap.Error(err))
	}
}
