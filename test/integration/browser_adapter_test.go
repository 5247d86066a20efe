package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/browser/rod"
)

// launchBrowser starts a real headless browser. Skipped in short mode
// and on machines without a compatible executable.
func launchBrowser(t *testing.T) output.Browser {
	t.Helper()
	if testing.Short() {
		t.Skip("real browser test, skipped in short mode")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no chrome or chromium executable found")
	}

	driver := rod.NewDriver(rod.DefaultDriverConfig())
	browser, err := driver.Launch(context.Background(), entity.LaunchConfig{
		Headless: true,
		Viewport: entity.DefaultViewport(),
	})
	require.NoError(t, err, "failed to launch browser")
	t.Cleanup(func() { _ = browser.Close() })
	return browser
}

func servePage(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server
}

func openPage(t *testing.T, browser output.Browser, url string) output.Page {
	t.Helper()
	ctx := testCtx(t)
	page, err := browser.NewPage(ctx, "")
	require.NoError(t, err)
	require.NoError(t, page.Navigate(ctx, url))
	return page
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDriver_NavigateReportsFinalState(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body><h1>Hello World</h1></body>
</html>`)

	page := openPage(t, browser, server.URL)

	info, err := page.Info()
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/", info.URL)
	assert.Equal(t, "Test Page", info.Title)
}

func TestDriver_ClickUpdatesDocument(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<body>
	<button id="testBtn">Click Me</button>
	<div id="result"></div>
	<script>
		document.getElementById('testBtn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	el, err := page.Element(ctx, "#testBtn")
	require.NoError(t, err)
	require.NoError(t, el.Click(ctx))

	result, err := page.Element(ctx, "#result")
	require.NoError(t, err)
	text, err := result.Text()
	require.NoError(t, err)
	assert.Equal(t, "Clicked!", text)
}

func TestDriver_ClickWithXPath(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<body><button id="testBtn">Click Me</button></body>
</html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	el, err := page.Element(ctx, "//button[@id='testBtn']")
	require.NoError(t, err)
	assert.NoError(t, el.Click(ctx))
}

func TestDriver_ElementNotFoundTimesOut(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html><html><body></body></html>`)

	page := openPage(t, browser, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	_, err := page.Element(ctx, "#nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrTimeout)
}

func TestDriver_InputReplacesAndAppends(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<body><input id="field" type="text" /></body>
</html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	el, err := page.Element(ctx, "#field")
	require.NoError(t, err)

	require.NoError(t, el.Input(ctx, "hello", true))
	require.NoError(t, el.Input(ctx, " world", false))

	val, err := page.Eval(ctx, `() => document.querySelector('#field').value`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", val)

	require.NoError(t, el.Input(ctx, "reset", true))
	val, err = page.Eval(ctx, `() => document.querySelector('#field').value`)
	require.NoError(t, err)
	assert.Equal(t, "reset", val)
}

func TestDriver_EvalRoundTrip(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<head><title>Eval Page</title></head>
<body></body>
</html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	val, err := page.Eval(ctx, "(a, b) => a * b", 6, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 42, val)

	val, err = page.Eval(ctx, "document.title")
	require.NoError(t, err)
	assert.Equal(t, "Eval Page", val)
}

func TestDriver_PressEnterSubmitsForm(t *testing.T) {
	browser := launchBrowser(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<body>
	<form action="/done" method="get">
		<input id="q" name="q" type="text" />
	</form>
</body>
</html>`)
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>Done</title></head><body>%s</body></html>`,
			r.URL.Query().Get("q"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	el, err := page.Element(ctx, "#q")
	require.NoError(t, err)
	require.NoError(t, el.Input(ctx, "kittens", true))
	require.NoError(t, page.Press(ctx, "Enter"))
	require.NoError(t, page.WaitNavigation(ctx))

	info, err := page.Info()
	require.NoError(t, err)
	assert.Contains(t, info.URL, "/done")
	assert.Contains(t, info.URL, "q=kittens")
}

func TestDriver_ScreenshotProducesPNG(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<body style="background-color: red;"><h1 id="title">Screenshot Test</h1></body>
</html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	raw, err := page.Screenshot(ctx, false)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])

	el, err := page.Element(ctx, "#title")
	require.NoError(t, err)
	elShot, err := el.Screenshot(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, elShot)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, elShot[:4])
}

func TestDriver_ScrollMovesViewport(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<body style="height: 3000px;"><h1>Tall page</h1></body>
</html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	require.NoError(t, page.Scroll(ctx, 0, 500))

	val, err := page.Eval(ctx, "window.scrollY")
	require.NoError(t, err)
	y, ok := val.(float64)
	require.True(t, ok, "scrollY should be a number, got %T", val)
	assert.Greater(t, y, 0.0)
}

func TestDriver_SetViewportAppliesMetrics(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html><html><body></body></html>`)

	page := openPage(t, browser, server.URL)
	ctx := testCtx(t)

	require.NoError(t, page.SetViewport(entity.Viewport{Width: 800, Height: 600, Scale: 1}))

	val, err := page.Eval(ctx, "window.innerWidth")
	require.NoError(t, err)
	assert.EqualValues(t, 800, val)
}

func TestDriver_CookieRoundTrip(t *testing.T) {
	browser := launchBrowser(t)

	err := browser.SetCookies([]entity.Cookie{{
		Name:    "sid",
		Value:   "abc123",
		Domain:  "127.0.0.1",
		Path:    "/",
		Expires: float64(time.Now().Add(time.Hour).Unix()),
	}})
	require.NoError(t, err)

	cookies, err := browser.Cookies()
	require.NoError(t, err)

	var found bool
	for _, c := range cookies {
		if c.Name == "sid" {
			found = true
			assert.Equal(t, "abc123", c.Value)
			assert.Equal(t, "127.0.0.1", c.Domain)
		}
	}
	assert.True(t, found, "expected the stored cookie to be listed")
}

func TestDriver_BackAndForward(t *testing.T) {
	browser := launchBrowser(t)

	mux := http.NewServeMux()
	for _, route := range []string{"/a", "/b"} {
		name := strings.TrimPrefix(route, "/")
		mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<html><head><title>%s</title></head><body>%s</body></html>`, name, name)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	page := openPage(t, browser, server.URL+"/a")
	ctx := testCtx(t)
	require.NoError(t, page.Navigate(ctx, server.URL+"/b"))

	require.NoError(t, page.Back(ctx))
	info, err := page.Info()
	require.NoError(t, err)
	assert.Contains(t, info.URL, "/a")

	require.NoError(t, page.Forward(ctx))
	info, err = page.Info()
	require.NoError(t, err)
	assert.Contains(t, info.URL, "/b")
}

func TestDriver_HTMLReturnsDocument(t *testing.T) {
	browser := launchBrowser(t)
	server := servePage(t, `<!DOCTYPE html>
<html>
<body><p id="marker">Hello World</p></body>
</html>`)

	page := openPage(t, browser, server.URL)

	html, err := page.HTML(testCtx(t))
	require.NoError(t, err)
	assert.Contains(t, html, "Hello World")
	assert.Contains(t, html, `id="marker"`)
}

func TestDriver_AliveReflectsConnection(t *testing.T) {
	browser := launchBrowser(t)

	assert.True(t, browser.Alive())
	require.NoError(t, browser.Close())
	assert.False(t, browser.Alive())
}
