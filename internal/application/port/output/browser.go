package output

import (
	"context"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

// DriverPort launches browser processes. Implementations own executable
// discovery and the devtools handshake.
type DriverPort interface {
	Launch(ctx context.Context, cfg entity.LaunchConfig) (Browser, error)
}

type Browser interface {
	// Alive reports whether the devtools connection still answers.
	Alive() bool

	Pages() ([]Page, error)
	NewPage(ctx context.Context, url string) (Page, error)

	// OnTargetCreated registers a handler for every new top-level
	// target. The returned func stops delivery.
	OnTargetCreated(handler func(entity.Target)) (cancel func())
	CloseTarget(id string) error

	Cookies() ([]entity.Cookie, error)
	SetCookies(cookies []entity.Cookie) error

	Close() error
}

type Page interface {
	TargetID() string

	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Reload(ctx context.Context) error
	WaitNavigation(ctx context.Context) error

	Info() (entity.PageInfo, error)
	HTML(ctx context.Context) (string, error)
	Eval(ctx context.Context, js string, args ...any) (any, error)
	EvalOnNewDocument(js string) error

	Element(ctx context.Context, selector string) (Element, error)
	Elements(selector string) ([]Element, error)

	Press(ctx context.Context, key string) error
	Scroll(ctx context.Context, dx, dy float64) error

	SetViewport(v entity.Viewport) error

	// Screenshot returns the raw PNG produced by the browser.
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)

	Close() error
}

type Element interface {
	Click(ctx context.Context) error

	// Input types text into the element. With clear set the current
	// content is replaced, otherwise text is appended.
	Input(ctx context.Context, text string, clear bool) error
	Text() (string, error)
	Attribute(name string) (*string, error)
	ScrollIntoView() error

	// Screenshot returns a PNG of the element's bounding box.
	Screenshot(ctx context.Context) ([]byte, error)
}
