package content

import (
	"strings"
	"testing"
)

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func TestClean_RemovesScriptStyle(t *testing.T) {
	html := `
<body>
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`

	out := Clean(html, &DefaultCleanConfig)

	if contains(out, "<script") || contains(out, "<style") {
		t.Errorf("script/style tags must be removed, output: %s", out)
	}
	if !contains(out, `id="main"`) {
		t.Errorf("expected to keep normal elements")
	}
}

func TestClean_RemovesComments(t *testing.T) {
	html := `
<body>
    <!-- comment -->
    <div>Text</div>
</body>`

	out := Clean(html, &DefaultCleanConfig)

	if contains(out, "comment") {
		t.Errorf("HTML comments must be removed")
	}
}

func TestClean_KeepsUsefulAttributes(t *testing.T) {
	html := `
<body>
    <a href="https://example.com" class="link" id="x" data-x="1" aria-hidden="true">Go</a>
</body>`

	out := Clean(html, &DefaultCleanConfig)

	if !contains(out, `href="https://example.com"`) {
		t.Errorf("href must be kept")
	}
	if !contains(out, `class="link"`) {
		t.Errorf("class must be kept")
	}
	if !contains(out, `id="x"`) {
		t.Errorf("id must be kept")
	}

	if contains(out, `data-x`) {
		t.Errorf("data-* attribute must be removed")
	}
	if contains(out, `aria-hidden`) {
		t.Errorf("aria-* attribute must be removed")
	}
}

func TestClean_RemovesInlineStyles(t *testing.T) {
	html := `
<body>
    <div style="color:red" class="ok">Hi</div>
</body>`

	out := Clean(html, &DefaultCleanConfig)

	if contains(out, "style=") {
		t.Errorf("style attribute must be removed")
	}
	if !contains(out, `class="ok"`) {
		t.Errorf("class must remain")
	}
}

func TestClean_RemovesMediaGarbageAttributes(t *testing.T) {
	html := `
<body>
    <img src="x.jpg" srcset="a,b,c" sizes="100w" loading="lazy">
</body>`

	out := Clean(html, &DefaultCleanConfig)

	if contains(out, `srcset=`) || contains(out, `sizes=`) ||
		contains(out, `loading=`) || contains(out, `decoding=`) {
		t.Errorf("garbage media attributes must be removed")
	}
	if !contains(out, `src="x.jpg"`) {
		t.Errorf("src must remain")
	}
}

func TestClean_RemovesHeadMetaLink(t *testing.T) {
	html := `
<html>
<head>
    <meta charset="utf-8">
    <link rel="stylesheet" href="x.css">
</head>
<body>
    <p>Hi</p>
</body>
</html>`

	out := Clean(html, &DefaultCleanConfig)

	if contains(out, "<head") || contains(out, "<meta") || contains(out, "<link") {
		t.Errorf("head/meta/link must be removed")
	}
	if !contains(out, "<p") {
		t.Errorf("body content must remain")
	}
}

func TestClean_Truncation(t *testing.T) {
	var big strings.Builder
	big.WriteString("<body>")
	for i := 0; i < 20000; i++ {
		big.WriteString("<div>test</div>")
	}
	big.WriteString("</body>")

	out := Clean(big.String(), &DefaultCleanConfig)

	if len(out) > 130500 {
		t.Errorf("output must be truncated near 130 KB")
	}
	if !contains(out, "truncated") {
		t.Errorf("truncation notice must appear")
	}
}

func TestText_CollapsesWhitespace(t *testing.T) {
	html := `
<body>
    <h1>Title</h1>
    <p>First   line</p>
    <script>ignored()</script>
    <p>Second line</p>
</body>`

	out := Text(html)

	if out != "Title First line Second line" {
		t.Errorf("unexpected text: %q", out)
	}
}

func TestText_EmptyBody(t *testing.T) {
	if out := Text("<body></body>"); out != "" {
		t.Errorf("expected empty text, got %q", out)
	}
}
