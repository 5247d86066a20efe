// Package tools exposes the managed browser as a catalogue of MCP
// tools. Every handler ensures the session first, runs one driver
// operation and reports failures as tool results instead of crashing
// the server.
package tools

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/input"
	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

type Config struct {
	// Session is the base browser configuration; browser_launch
	// re-applies it with per-call overrides.
	Session input.SessionConfig
	// FindTimeout bounds element lookups. Zero falls back to the
	// session timeout.
	FindTimeout time.Duration
}

type Tools struct {
	session input.SessionController
	logger  output.LoggerPort
	cfg     Config
}

func New(session input.SessionController, cfg Config, logger output.LoggerPort) *Tools {
	return &Tools{
		session: session,
		logger:  logger,
		cfg:     cfg,
	}
}

// Register adds every browser tool to server.
func Register(server *mcp.Server, t *Tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserLaunch.String(),
		Description: "Start the managed browser if it is not already running. Width and height " +
			"override the configured viewport. Calling this is optional: every other tool starts " +
			"the browser on demand.",
	}, t.launch)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserNavigate.String(),
		Description: "Navigate to a URL and wait until the document has loaded. Returns the final " +
			"URL, which may differ from the requested one due to redirects. Use this as the first " +
			"step when starting work on a new website.",
	}, t.navigate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGoBack.String(),
		Description: "Go back one entry in the page history.",
	}, t.goBack)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGoForward.String(),
		Description: "Go forward one entry in the page history.",
	}, t.goForward)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserReload.String(),
		Description: "Reload the current page.",
	}, t.reload)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserWaitForNavigation.String(),
		Description: "Wait until the page settles after an action that triggers a navigation, such " +
			"as clicking a link or submitting a form.",
	}, t.waitForNavigation)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserClick.String(),
		Description: "Click the first element matched by a CSS or XPath selector. XPath is detected " +
			"by a leading / or ./ . The element is scrolled into view automatically.",
	}, t.click)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserType.String(),
		Description: "Type text into the element matched by the selector. Existing content is " +
			"replaced unless clear is set to false. To submit a form afterwards, press Enter or " +
			"click the submit button.",
	}, t.typeText)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserPressKey.String(),
		Description: "Press a keyboard key on the current page, e.g. Enter, Tab, Escape, ArrowDown " +
			"or a single character.",
	}, t.pressKey)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserScroll.String(),
		Description: "Scroll the page by pixel offsets, or scroll the element matched by selector " +
			"into view. Use this to reveal content below the fold before reading or capturing it.",
	}, t.scroll)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGetText.String(),
		Description: "Return the visible text of the first element matched by the selector.",
	}, t.getText)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGetAttribute.String(),
		Description: "Return the value of an attribute on the first element matched by the selector.",
	}, t.getAttribute)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserQuery.String(),
		Description: "Return every element matched by the selector with its text and the requested " +
			"attributes. Perfect for repeated structures like mail lists, products or news items.",
	}, t.query)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGetTitle.String(),
		Description: "Return the title of the current page.",
	}, t.getTitle)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGetURL.String(),
		Description: "Return the URL of the current page.",
	}, t.getURL)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserGetContent.String(),
		Description: "Return the page content with scripts, styles and presentation attributes " +
			"stripped. Set format to text for plain visible text, or pass a selector to extract a " +
			"single subtree.",
	}, t.getContent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserWaitForSelector.String(),
		Description: "Wait until an element matching the selector appears on the page.",
	}, t.waitForSelector)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserEvaluate.String(),
		Description: "Run JavaScript in the page and return the JSON-encoded result. Accepts a " +
			"function, an arrow function or a bare expression.",
	}, t.evaluate)

	mcp.AddTool(server, &mcp.Tool{
		Name: entity.ToolBrowserScreenshot.String(),
		Description: "Capture the viewport, the full page or a single element as an image. The " +
			"image is scaled and compressed to stay within transport limits.",
	}, t.screenshot)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserSetViewport.String(),
		Description: "Resize the page viewport.",
	}, t.setViewport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserGetCookies.String(),
		Description: "Return all cookies of the current browser session.",
	}, t.getCookies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserSetCookies.String(),
		Description: "Store the provided cookies in the browser.",
	}, t.setCookies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        entity.ToolBrowserClose.String(),
		Description: "Close the browser. The next tool call starts a fresh session.",
	}, t.close)
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// fail converts err into a tool-level failure so the server keeps
// serving after a bad call.
func (t *Tools) fail(tool entity.ToolName, err error) *mcp.CallToolResult {
	t.logger.Warn("Tool failed", "tool", tool.String(), "error", err)
	return errorResult(err.Error())
}

func (t *Tools) page(ctx context.Context) (output.Page, error) {
	_, page, err := t.session.Ensure(ctx)
	return page, err
}

// opCtx bounds a single driver operation with the session timeout.
func (t *Tools) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.session.Timeout())
}

// findCtx bounds an element lookup and the action on its result.
func (t *Tools) findCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.findTimeout())
}

func (t *Tools) findTimeout() time.Duration {
	if t.cfg.FindTimeout > 0 {
		return t.cfg.FindTimeout
	}
	return t.session.Timeout()
}

type noInput struct{}

type actionOutput struct {
	Result string `json:"result"`
}

type pageStateOutput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (t *Tools) pageState(p output.Page) pageStateOutput {
	info, err := p.Info()
	if err != nil {
		return pageStateOutput{}
	}
	return pageStateOutput{URL: info.URL, Title: info.Title}
}

// clip shortens s to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
