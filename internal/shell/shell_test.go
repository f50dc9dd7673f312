package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenInvokesPlatformCommand(t *testing.T) {
	o := NewOpener(nil)
	var gotName string
	var gotArgs []string
	o.run = func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	o.Open(context.Background(), "/tmp/report.pdf")

	wantName, wantArgs := openCommand("/tmp/report.pdf")
	assert.Equal(t, wantName, gotName)
	assert.Equal(t, wantArgs, gotArgs)
}

func TestRevealInvokesPlatformCommand(t *testing.T) {
	o := NewOpener(nil)
	var gotName string
	var gotArgs []string
	o.run = func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	o.Reveal(context.Background(), "/tmp/report.pdf")

	wantName, wantArgs := revealCommand("/tmp/report.pdf")
	assert.Equal(t, wantName, gotName)
	assert.Equal(t, wantArgs, gotArgs)
}

func TestFailuresDoNotPanic(t *testing.T) {
	o := NewOpener(nil)
	o.run = func(ctx context.Context, name string, args ...string) error {
		return errors.New("no display")
	}

	assert.NotPanics(t, func() {
		o.Open(context.Background(), "/tmp/x")
		o.Reveal(context.Background(), "/tmp/x")
	})
}
