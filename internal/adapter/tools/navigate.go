package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

type launchInput struct {
	Headless *bool `json:"headless,omitempty" jsonschema:"run the browser without a visible window; defaults to the server configuration"`
	Width    int   `json:"width,omitempty" jsonschema:"initial viewport width in pixels"`
	Height   int   `json:"height,omitempty" jsonschema:"initial viewport height in pixels"`
}

type launchOutput struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Headless bool   `json:"headless"`
}

func (t *Tools) launch(ctx context.Context, req *mcp.CallToolRequest, in launchInput) (*mcp.CallToolResult, launchOutput, error) {
	cfg := t.cfg.Session
	if in.Headless != nil {
		cfg.Headless = *in.Headless
	}
	resize := in.Width > 0 && in.Height > 0
	if resize {
		cfg.Viewport = entity.Viewport{
			Width:  in.Width,
			Height: in.Height,
			Scale:  entity.DefaultViewportScale,
		}
	}
	t.session.Configure(cfg)

	_, page, err := t.session.Ensure(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserLaunch, err), launchOutput{}, nil
	}

	// A browser that was already running keeps its page; apply the
	// requested viewport to it.
	if resize {
		if err := t.session.SetViewport(cfg.Viewport); err != nil {
			t.logger.Debug("Apply launch viewport", "error", err)
		}
	}

	info, err := page.Info()
	if err != nil {
		return t.fail(entity.ToolBrowserLaunch, err), launchOutput{}, nil
	}
	return nil, launchOutput{URL: info.URL, Title: info.Title, Headless: cfg.Headless}, nil
}

type navigateInput struct {
	URL string `json:"url" jsonschema:"full URL including protocol, e.g. https://example.com"`
}

func (t *Tools) navigate(ctx context.Context, req *mcp.CallToolRequest, in navigateInput) (*mcp.CallToolResult, pageStateOutput, error) {
	if in.URL == "" {
		return errorResult("url is required"), pageStateOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserNavigate, err), pageStateOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	if err := page.Navigate(opCtx, in.URL); err != nil {
		return t.fail(entity.ToolBrowserNavigate, err), pageStateOutput{}, nil
	}
	return nil, t.pageState(page), nil
}

func (t *Tools) goBack(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, pageStateOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGoBack, err), pageStateOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	if err := page.Back(opCtx); err != nil {
		return t.fail(entity.ToolBrowserGoBack, err), pageStateOutput{}, nil
	}
	return nil, t.pageState(page), nil
}

func (t *Tools) goForward(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, pageStateOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGoForward, err), pageStateOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	if err := page.Forward(opCtx); err != nil {
		return t.fail(entity.ToolBrowserGoForward, err), pageStateOutput{}, nil
	}
	return nil, t.pageState(page), nil
}

func (t *Tools) reload(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, pageStateOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserReload, err), pageStateOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	if err := page.Reload(opCtx); err != nil {
		return t.fail(entity.ToolBrowserReload, err), pageStateOutput{}, nil
	}
	return nil, t.pageState(page), nil
}

type waitNavigationInput struct {
	TimeoutMS int `json:"timeout_ms,omitempty" jsonschema:"how long to wait in milliseconds; defaults to the session timeout"`
}

func (t *Tools) waitForNavigation(ctx context.Context, req *mcp.CallToolRequest, in waitNavigationInput) (*mcp.CallToolResult, pageStateOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserWaitForNavigation, err), pageStateOutput{}, nil
	}

	timeout := t.session.Timeout()
	if in.TimeoutMS > 0 {
		timeout = time.Duration(in.TimeoutMS) * time.Millisecond
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := page.WaitNavigation(opCtx); err != nil {
		return t.fail(entity.ToolBrowserWaitForNavigation, err), pageStateOutput{}, nil
	}
	return nil, t.pageState(page), nil
}

type titleOutput struct {
	Title string `json:"title"`
}

func (t *Tools) getTitle(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, titleOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGetTitle, err), titleOutput{}, nil
	}

	info, err := page.Info()
	if err != nil {
		return t.fail(entity.ToolBrowserGetTitle, err), titleOutput{}, nil
	}
	return nil, titleOutput{Title: info.Title}, nil
}

type urlOutput struct {
	URL string `json:"url"`
}

func (t *Tools) getURL(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, urlOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGetURL, err), urlOutput{}, nil
	}

	info, err := page.Info()
	if err != nil {
		return t.fail(entity.ToolBrowserGetURL, err), urlOutput{}, nil
	}
	return nil, urlOutput{URL: info.URL}, nil
}

func (t *Tools) close(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, actionOutput, error) {
	if t.session.Browser() == nil {
		return nil, actionOutput{Result: "no active browser session"}, nil
	}
	if err := t.session.Close(); err != nil {
		return t.fail(entity.ToolBrowserClose, err), actionOutput{}, nil
	}
	return nil, actionOutput{Result: "browser closed"}, nil
}
