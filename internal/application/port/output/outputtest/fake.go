// Package outputtest provides in-memory fakes for the driver ports.
package outputtest

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

var (
	_ output.DriverPort = (*FakeDriver)(nil)
	_ output.Browser    = (*FakeBrowser)(nil)
	_ output.Page       = (*FakePage)(nil)
	_ output.Element    = (*FakeElement)(nil)
)

type FakeDriver struct {
	mu       sync.Mutex
	Launches int
	FailNext bool
	Last     *FakeBrowser
}

func (d *FakeDriver) Launch(ctx context.Context, cfg entity.LaunchConfig) (output.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Launches++
	if d.FailNext {
		d.FailNext = false
		return nil, fmt.Errorf("%w: no compatible executable found", entity.ErrLaunch)
	}

	d.Last = &FakeBrowser{LaunchConfig: cfg}
	return d.Last, nil
}

func (d *FakeDriver) LaunchCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Launches
}

type FakeBrowser struct {
	mu sync.Mutex

	LaunchConfig  entity.LaunchConfig
	Dead          bool
	PageList      []*FakePage
	ClosedTargets []string
	CookieJar     []entity.Cookie

	handler func(entity.Target)
	pageSeq int
}

func (b *FakeBrowser) Alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.Dead
}

func (b *FakeBrowser) Pages() ([]output.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Dead {
		return nil, fmt.Errorf("browser closed")
	}

	out := make([]output.Page, 0, len(b.PageList))
	for _, p := range b.PageList {
		if !p.IsClosed() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (b *FakeBrowser) NewPage(ctx context.Context, url string) (output.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Dead {
		return nil, fmt.Errorf("browser closed")
	}

	b.pageSeq++
	p := &FakePage{
		ID:  fmt.Sprintf("page-%d", b.pageSeq),
		URL: url,
	}
	b.PageList = append(b.PageList, p)
	return p, nil
}

// AddPage registers an already constructed page, as if the browser had
// grown it outside the controller's command.
func (b *FakeBrowser) AddPage(p *FakePage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PageList = append(b.PageList, p)
}

func (b *FakeBrowser) OnTargetCreated(handler func(entity.Target)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handler = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handler = nil
	}
}

// EmitTarget delivers a target event to the registered handler
// synchronously.
func (b *FakeBrowser) EmitTarget(t entity.Target) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()

	if handler != nil {
		handler(t)
	}
}

func (b *FakeBrowser) CloseTarget(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ClosedTargets = append(b.ClosedTargets, id)
	for _, p := range b.PageList {
		if p.ID == id {
			p.MarkClosed()
		}
	}
	return nil
}

func (b *FakeBrowser) Cookies() ([]entity.Cookie, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]entity.Cookie, len(b.CookieJar))
	copy(out, b.CookieJar)
	return out, nil
}

func (b *FakeBrowser) SetCookies(cookies []entity.Cookie) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.CookieJar = append(b.CookieJar, cookies...)
	return nil
}

func (b *FakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Dead = true
	for _, p := range b.PageList {
		p.MarkClosed()
	}
	return nil
}

type FakePage struct {
	mu sync.Mutex

	ID     string
	URL    string
	Title  string
	Closed bool

	Viewport         entity.Viewport
	ViewportSets     int
	OverrideInstalls int
	EvalScripts      []string
	PressedKeys      []string
	Navigations      []string
	ScrollX, ScrollY float64
	Reloads          int

	HTMLContent string
	EvalResult  any
	NavErr      error
	WaitNavErr  error
	InfoErr     error

	ShotWidth, ShotHeight int

	ElementMap map[string]*FakeElement
}

func (p *FakePage) TargetID() string { return p.ID }

func (p *FakePage) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Closed
}

func (p *FakePage) MarkClosed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
}

func (p *FakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Closed {
		return fmt.Errorf("%w: page closed", entity.ErrNavigation)
	}
	if p.NavErr != nil {
		return p.NavErr
	}
	p.URL = url
	p.Navigations = append(p.Navigations, url)
	return nil
}

func (p *FakePage) Back(ctx context.Context) error    { return nil }
func (p *FakePage) Forward(ctx context.Context) error { return nil }

func (p *FakePage) Reload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Reloads++
	return nil
}

func (p *FakePage) WaitNavigation(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.WaitNavErr
}

func (p *FakePage) Info() (entity.PageInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Closed {
		return entity.PageInfo{}, fmt.Errorf("page closed")
	}
	if p.InfoErr != nil {
		return entity.PageInfo{}, p.InfoErr
	}
	return entity.PageInfo{URL: p.URL, Title: p.Title}, nil
}

func (p *FakePage) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Closed {
		return "", fmt.Errorf("page closed")
	}
	return p.HTMLContent, nil
}

func (p *FakePage) Eval(ctx context.Context, js string, args ...any) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Closed {
		return nil, fmt.Errorf("%w: page closed", entity.ErrScript)
	}
	p.EvalScripts = append(p.EvalScripts, js)
	return p.EvalResult, nil
}

func (p *FakePage) EvalOnNewDocument(js string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.OverrideInstalls++
	return nil
}

// Element returns a registered element immediately. Unknown selectors
// block until the context expires, mirroring a driver-side wait.
func (p *FakePage) Element(ctx context.Context, selector string) (output.Element, error) {
	p.mu.Lock()
	el, ok := p.ElementMap[selector]
	p.mu.Unlock()

	if ok {
		return el, nil
	}

	<-ctx.Done()
	return nil, fmt.Errorf("%w: %s", entity.ErrTimeout, selector)
}

func (p *FakePage) Elements(selector string) ([]output.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.ElementMap[selector]
	if !ok {
		return nil, nil
	}
	return []output.Element{el}, nil
}

func (p *FakePage) Press(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.PressedKeys = append(p.PressedKeys, key)
	return nil
}

func (p *FakePage) Scroll(ctx context.Context, dx, dy float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ScrollX += dx
	p.ScrollY += dy
	return nil
}

func (p *FakePage) SetViewport(v entity.Viewport) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Viewport = v
	p.ViewportSets++
	return nil
}

func (p *FakePage) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	p.mu.Lock()
	w, h := p.ShotWidth, p.ShotHeight
	p.mu.Unlock()

	if w <= 0 {
		w = 40
	}
	if h <= 0 {
		h = 30
	}
	return pngBytes(w, h)
}

func (p *FakePage) Close() error {
	p.MarkClosed()
	return nil
}

type FakeElement struct {
	mu sync.Mutex

	TextValue string
	Attrs     map[string]string

	Clicks           int
	LastInput        string
	LastInputCleared bool
	ScrolledIntoView bool

	ShotWidth, ShotHeight int
}

func (e *FakeElement) Click(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Clicks++
	return nil
}

func (e *FakeElement) Input(ctx context.Context, text string, clear bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.LastInput = text
	e.LastInputCleared = clear
	return nil
}

func (e *FakeElement) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.TextValue, nil
}

func (e *FakeElement) Attribute(name string) (*string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	val, ok := e.Attrs[name]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (e *FakeElement) ScrollIntoView() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ScrolledIntoView = true
	return nil
}

func (e *FakeElement) Screenshot(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	w, h := e.ShotWidth, e.ShotHeight
	e.mu.Unlock()

	if w <= 0 {
		w = 20
	}
	if h <= 0 {
		h = 10
	}
	return pngBytes(w, h)
}

func pngBytes(w, h int) ([]byte, error) {
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 140, B: 160, A: 255})
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
