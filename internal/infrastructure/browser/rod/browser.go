package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

var _ output.Browser = (*Browser)(nil)

type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (b *Browser) Alive() bool {
	_, err := b.browser.Version()
	return err == nil
}

func (b *Browser) Pages() ([]output.Page, error) {
	pages, err := b.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	out := make([]output.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, &Page{page: p})
	}
	return out, nil
}

func (b *Browser) NewPage(ctx context.Context, url string) (output.Page, error) {
	if url == "" {
		url = "about:blank"
	}
	p, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &Page{page: p.Context(b.browser.GetContext())}, nil
}

// OnTargetCreated delivers every new top-level target to handler until
// the returned cancel func is called or the browser disconnects.
func (b *Browser) OnTargetCreated(handler func(entity.Target)) func() {
	ctx, cancel := context.WithCancel(b.browser.GetContext())

	wait := b.browser.Context(ctx).EachEvent(func(e *proto.TargetTargetCreated) {
		info := e.TargetInfo
		handler(entity.Target{
			ID:       string(info.TargetID),
			Type:     string(info.Type),
			URL:      info.URL,
			OpenerID: string(info.OpenerID),
		})
	})
	go wait()

	return cancel
}

func (b *Browser) CloseTarget(id string) error {
	_, err := proto.TargetCloseTarget{TargetID: proto.TargetTargetID(id)}.Call(b.browser)
	return err
}

func (b *Browser) Cookies() ([]entity.Cookie, error) {
	cookies, err := b.browser.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}

	out := make([]entity.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, entity.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return out, nil
}

func (b *Browser) SetCookies(cookies []entity.Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  proto.TimeSinceEpoch(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		})
	}

	if err := b.browser.SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

func (b *Browser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}
