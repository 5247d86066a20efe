package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
)

var _ output.Element = (*Element)(nil)

type Element struct {
	el *rod.Element
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Input types text into the element. With clear set, the current
// content is selected first so the typed text replaces it.
func (e *Element) Input(ctx context.Context, text string, clear bool) error {
	el := e.el.Context(ctx)

	if clear {
		if err := el.SelectAllText(); err != nil {
			return fmt.Errorf("input failed: %w", err)
		}
		if text == "" {
			if err := el.Type(input.Backspace); err != nil {
				return fmt.Errorf("input failed: %w", err)
			}
			return nil
		}
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *Element) Text() (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", fmt.Errorf("get text: %w", err)
	}
	return text, nil
}

func (e *Element) Attribute(name string) (*string, error) {
	val, err := e.el.Attribute(name)
	if err != nil {
		return nil, fmt.Errorf("get attribute %s: %w", name, err)
	}
	return val, nil
}

func (e *Element) ScrollIntoView() error {
	if err := e.el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	return nil
}

func (e *Element) Screenshot(ctx context.Context) ([]byte, error) {
	bin, err := e.el.Context(ctx).Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("element screenshot: %w", err)
	}
	return bin, nil
}
