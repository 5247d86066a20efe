package integration

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NORMAL-EX/chrome-control/internal/adapter/mcpserver"
	"github.com/NORMAL-EX/chrome-control/internal/adapter/tools"
	"github.com/NORMAL-EX/chrome-control/internal/application/port/input"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/browser/rod"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/logger"
	"github.com/NORMAL-EX/chrome-control/internal/usecase/session"
)

// setupSession wires the controller to a real browser. Skipped in
// short mode and on machines without a compatible executable.
func setupSession(t *testing.T) (*session.Controller, input.SessionConfig) {
	t.Helper()
	if testing.Short() {
		t.Skip("real browser test, skipped in short mode")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no chrome or chromium executable found")
	}

	cfg := input.SessionConfig{
		Headless: true,
		Viewport: entity.DefaultViewport(),
		Timeout:  15 * time.Second,
	}
	ctrl := session.NewController(rod.NewDriver(rod.DefaultDriverConfig()), logger.Nop())
	ctrl.Configure(cfg)
	t.Cleanup(func() { _ = ctrl.Close() })
	return ctrl, cfg
}

func TestSession_WindowOpenNavigatesInPlace(t *testing.T) {
	ctrl, _ := setupSession(t)
	ctx := testCtx(t)

	server := servePage(t, `<!DOCTYPE html>
<html>
<body>
	<button id="open">Open</button>
	<script>
		document.getElementById('open').addEventListener('click', function() {
			window.open('/target');
		});
	</script>
</body>
</html>`)

	browser, page, err := ctrl.Ensure(ctx)
	require.NoError(t, err)
	require.NoError(t, page.Navigate(ctx, server.URL))

	el, err := page.Element(ctx, "#open")
	require.NoError(t, err)
	require.NoError(t, el.Click(ctx))

	require.Eventually(t, func() bool {
		info, err := page.Info()
		return err == nil && strings.Contains(info.URL, "/target")
	}, 5*time.Second, 100*time.Millisecond, "window.open should navigate the managed page")

	pages, err := browser.Pages()
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestSession_SuppressesPopupTargets(t *testing.T) {
	ctrl, _ := setupSession(t)
	ctx := testCtx(t)

	server := servePage(t, `<!DOCTYPE html>
<html>
<body><a id="out" href="/target" target="_blank">out</a></body>
</html>`)

	browser, page, err := ctrl.Ensure(ctx)
	require.NoError(t, err)
	require.NoError(t, page.Navigate(ctx, server.URL))

	el, err := page.Element(ctx, "#out")
	require.NoError(t, err)
	require.NoError(t, el.Click(ctx))

	// Give the popup time to appear and the interceptor time to act.
	time.Sleep(500 * time.Millisecond)

	pages, err := browser.Pages()
	require.NoError(t, err)
	assert.Len(t, pages, 1, "the popup target must be closed")

	// The managed page must stay usable.
	_, page, err = ctrl.Ensure(ctx)
	require.NoError(t, err)
	assert.NoError(t, page.Navigate(ctx, server.URL))
}

func TestSession_EnsureIsIdempotent(t *testing.T) {
	ctrl, _ := setupSession(t)
	ctx := testCtx(t)

	b1, p1, err := ctrl.Ensure(ctx)
	require.NoError(t, err)
	b2, p2, err := ctrl.Ensure(ctx)
	require.NoError(t, err)

	assert.Same(t, b1, b2)
	assert.Equal(t, p1.TargetID(), p2.TargetID())
}

func TestSession_ReacquiresAfterPageClose(t *testing.T) {
	ctrl, _ := setupSession(t)
	ctx := testCtx(t)

	_, p1, err := ctrl.Ensure(ctx)
	require.NoError(t, err)
	require.NoError(t, p1.Close())

	_, p2, err := ctrl.Ensure(ctx)
	require.NoError(t, err)

	server := servePage(t, `<!DOCTYPE html><html><body>alive</body></html>`)
	assert.NoError(t, p2.Navigate(ctx, server.URL))
}

func TestTools_EndToEndOverMCP(t *testing.T) {
	ctrl, cfg := setupSession(t)
	ctx := testCtx(t)

	tl := tools.New(ctrl, tools.Config{Session: cfg, FindTimeout: 5 * time.Second}, logger.Nop())
	srv := mcpserver.New(tl, mcpserver.Config{Version: "test"}, logger.Nop())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := mcp.NewClient(&mcp.Implementation{Name: "integration-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	page := servePage(t, `<!DOCTYPE html>
<html>
<head>
	<title>Integration Test</title>
	<style>body { color: red; }</style>
</head>
<body>
	<h1>Welcome</h1>
	<input id="searchBox" type="text" />
	<button id="searchBtn">Search</button>
	<div id="results"></div>
	<script>
		document.getElementById('searchBtn').addEventListener('click', function() {
			const query = document.getElementById('searchBox').value;
			document.getElementById('results').textContent = 'Results for: ' + query;
		});
	</script>
</body>
</html>`)

	call := func(name string, args map[string]any) *mcp.CallToolResult {
		t.Helper()
		res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
		require.NoError(t, err, "tool %s", name)
		require.False(t, res.IsError, "tool %s returned error: %+v", name, res.Content)
		return res
	}

	res := call("browser_navigate", map[string]any{"url": page.URL})
	state, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Integration Test", state["title"])

	call("browser_type", map[string]any{"selector": "#searchBox", "text": "test query"})
	call("browser_click", map[string]any{"selector": "#searchBtn"})

	res = call("browser_get_text", map[string]any{"selector": "#results"})
	text, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Results for: test query", text["text"])

	res = call("browser_query", map[string]any{"selector": "button", "attributes": []string{"id"}})
	query, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, query["count"])

	res = call("browser_get_content", map[string]any{})
	content, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	html, _ := content["content"].(string)
	assert.Contains(t, html, "Results for: test query")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<style>")

	res = call("browser_screenshot", map[string]any{})
	require.NotEmpty(t, res.Content)
	img, ok := res.Content[0].(*mcp.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	require.Greater(t, len(img.Data), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, img.Data[:2], "expected a JPEG payload")

	res = call("browser_close", map[string]any{})
	closed, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "browser closed", closed["result"])
}
