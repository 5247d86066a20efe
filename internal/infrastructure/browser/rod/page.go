package rod

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

var _ output.Page = (*Page)(nil)

type Page struct {
	page *rod.Page
}

func (p *Page) TargetID() string {
	return string(p.page.TargetID)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return navError(err)
	}
	if err := pg.WaitLoad(); err != nil {
		return navError(err)
	}
	return nil
}

func (p *Page) Back(ctx context.Context) error {
	pg := p.page.Context(ctx)
	if err := pg.NavigateBack(); err != nil {
		return navError(err)
	}
	if err := pg.WaitLoad(); err != nil {
		return navError(err)
	}
	return nil
}

func (p *Page) Forward(ctx context.Context) error {
	pg := p.page.Context(ctx)
	if err := pg.NavigateForward(); err != nil {
		return navError(err)
	}
	if err := pg.WaitLoad(); err != nil {
		return navError(err)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	pg := p.page.Context(ctx)
	if err := pg.Reload(); err != nil {
		return navError(err)
	}
	if err := pg.WaitLoad(); err != nil {
		return navError(err)
	}
	return nil
}

func (p *Page) WaitNavigation(ctx context.Context) error {
	wait := p.page.Context(ctx).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	wait()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrTimeout, err)
	}
	return nil
}

func (p *Page) Info() (entity.PageInfo, error) {
	info, err := p.page.Info()
	if err != nil {
		return entity.PageInfo{}, fmt.Errorf("page info: %w", err)
	}
	return entity.PageInfo{URL: info.URL, Title: info.Title}, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("get html: %w", err)
	}
	return html, nil
}

func (p *Page) Eval(ctx context.Context, js string, args ...any) (any, error) {
	obj, err := p.page.Context(ctx).Eval(normalizeScript(js), args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", entity.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrScript, err)
	}
	return obj.Value.Val(), nil
}

func (p *Page) EvalOnNewDocument(js string) error {
	if _, err := p.page.EvalOnNewDocument(js); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrScript, err)
	}
	return nil
}

func (p *Page) Element(ctx context.Context, selector string) (output.Element, error) {
	pg := p.page.Context(ctx)

	var el *rod.Element
	var err error
	if isXPath(selector) {
		el, err = pg.ElementX(selector)
	} else {
		el, err = pg.Element(selector)
	}
	if err != nil {
		return nil, elementError(selector, err)
	}
	return &Element{el: el}, nil
}

func (p *Page) Elements(selector string) ([]output.Element, error) {
	var els rod.Elements
	var err error
	if isXPath(selector) {
		els, err = p.page.ElementsX(selector)
	} else {
		els, err = p.page.Elements(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

func (p *Page) Press(ctx context.Context, key string) error {
	k, err := lookupKey(key)
	if err != nil {
		return err
	}
	if err := p.page.Context(ctx).Keyboard.Press(k); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

func (p *Page) Scroll(ctx context.Context, dx, dy float64) error {
	if err := p.page.Context(ctx).Mouse.Scroll(dx, dy, 1); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (p *Page) SetViewport(v entity.Viewport) error {
	scale := v.Scale
	if scale <= 0 {
		scale = entity.DefaultViewportScale
	}
	err := p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             v.Width,
		Height:            v.Height,
		DeviceScaleFactor: scale,
		Mobile:            false,
	})
	if err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	bin, err := p.page.Context(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return bin, nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "./")
}

var arrowFunc = regexp.MustCompile(`^\([^)]*\)\s*=>|^[\w$]+\s*=>`)

// normalizeScript accepts either a function expression or a bare
// expression/statement list and returns something the driver can call.
func normalizeScript(js string) string {
	s := strings.TrimSpace(js)
	if s == "" {
		return "() => undefined"
	}
	if strings.HasPrefix(s, "function") || strings.HasPrefix(s, "async function") || arrowFunc.MatchString(s) {
		return s
	}
	if strings.Contains(s, ";") || strings.Contains(s, "\n") {
		return "() => { " + s + " }"
	}
	return "() => (" + s + ")"
}

var keyMap = map[string]input.Key{
	"enter":      input.Enter,
	"tab":        input.Tab,
	"escape":     input.Escape,
	"esc":        input.Escape,
	"backspace":  input.Backspace,
	"delete":     input.Delete,
	"space":      input.Key(' '),
	"arrowup":    input.ArrowUp,
	"up":         input.ArrowUp,
	"arrowdown":  input.ArrowDown,
	"down":       input.ArrowDown,
	"arrowleft":  input.ArrowLeft,
	"left":       input.ArrowLeft,
	"arrowright": input.ArrowRight,
	"right":      input.ArrowRight,
	"home":       input.Home,
	"end":        input.End,
	"pageup":     input.PageUp,
	"pagedown":   input.PageDown,
}

func lookupKey(name string) (input.Key, error) {
	if k, ok := keyMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return input.Key(runes[0]), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
