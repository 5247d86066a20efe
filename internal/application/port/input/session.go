package input

import (
	"context"
	"time"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

type SessionConfig struct {
	Headless bool
	Bin      string
	Viewport entity.Viewport
	Timeout  time.Duration
}

// SessionController guarantees callers exactly one live page.
type SessionController interface {
	Configure(cfg SessionConfig)

	// Ensure returns the current browser and page, launching or
	// repairing the session when needed.
	Ensure(ctx context.Context) (output.Browser, output.Page, error)

	// Browser and Page never trigger session creation; they return nil
	// when no session exists.
	Browser() output.Browser
	Page() output.Page

	SetViewport(v entity.Viewport) error
	Timeout() time.Duration

	Close() error
}
