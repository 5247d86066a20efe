package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/ysmood/gson"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/content"
)

const (
	defaultQueryLimit = 20
	maxQueryLimit     = 100
	queryTextLimit    = 200
)

type selectorInput struct {
	Selector string `json:"selector" jsonschema:"CSS or XPath selector"`
}

type textOutput struct {
	Text string `json:"text"`
}

func (t *Tools) getText(ctx context.Context, req *mcp.CallToolRequest, in selectorInput) (*mcp.CallToolResult, textOutput, error) {
	if in.Selector == "" {
		return errorResult("selector is required"), textOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGetText, err), textOutput{}, nil
	}

	opCtx, cancel := t.findCtx(ctx)
	defer cancel()
	el, err := page.Element(opCtx, in.Selector)
	if err != nil {
		return t.fail(entity.ToolBrowserGetText, err), textOutput{}, nil
	}
	text, err := el.Text()
	if err != nil {
		return t.fail(entity.ToolBrowserGetText, err), textOutput{}, nil
	}
	return nil, textOutput{Text: text}, nil
}

type getAttributeInput struct {
	Selector string `json:"selector" jsonschema:"CSS or XPath selector"`
	Name     string `json:"name" jsonschema:"attribute name, e.g. href, value, class"`
}

type attributeOutput struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

func (t *Tools) getAttribute(ctx context.Context, req *mcp.CallToolRequest, in getAttributeInput) (*mcp.CallToolResult, attributeOutput, error) {
	if in.Selector == "" || in.Name == "" {
		return errorResult("selector and name are required"), attributeOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGetAttribute, err), attributeOutput{}, nil
	}

	opCtx, cancel := t.findCtx(ctx)
	defer cancel()
	el, err := page.Element(opCtx, in.Selector)
	if err != nil {
		return t.fail(entity.ToolBrowserGetAttribute, err), attributeOutput{}, nil
	}
	val, err := el.Attribute(in.Name)
	if err != nil {
		return t.fail(entity.ToolBrowserGetAttribute, err), attributeOutput{}, nil
	}

	out := attributeOutput{Found: val != nil}
	if val != nil {
		out.Value = *val
	}
	return nil, out, nil
}

type queryInput struct {
	Selector   string   `json:"selector" jsonschema:"CSS or XPath selector for the target elements"`
	Attributes []string `json:"attributes,omitempty" jsonschema:"attribute names to include for each match"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of elements to return (default 20, max 100)"`
}

type queryOutput struct {
	Count    int                  `json:"count"`
	Elements []entity.ElementInfo `json:"elements"`
}

func (t *Tools) query(ctx context.Context, req *mcp.CallToolRequest, in queryInput) (*mcp.CallToolResult, queryOutput, error) {
	if in.Selector == "" {
		return errorResult("selector is required"), queryOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserQuery, err), queryOutput{}, nil
	}

	els, err := page.Elements(in.Selector)
	if err != nil {
		return t.fail(entity.ToolBrowserQuery, err), queryOutput{}, nil
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	out := queryOutput{Count: len(els), Elements: []entity.ElementInfo{}}
	for i, el := range els {
		if i >= limit {
			break
		}
		info := entity.ElementInfo{Index: i}
		if text, err := el.Text(); err == nil {
			info.Text = clip(text, queryTextLimit)
		}
		for _, name := range in.Attributes {
			val, err := el.Attribute(name)
			if err != nil || val == nil {
				continue
			}
			if info.Attributes == nil {
				info.Attributes = make(map[string]string)
			}
			info.Attributes[name] = *val
		}
		out.Elements = append(out.Elements, info)
	}
	return nil, out, nil
}

type getContentInput struct {
	Selector  string `json:"selector,omitempty" jsonschema:"restrict extraction to this element's subtree"`
	Format    string `json:"format,omitempty" jsonschema:"html (default) or text"`
	MaxLength int    `json:"max_length,omitempty" jsonschema:"maximum size of the returned content in bytes"`
}

type contentOutput struct {
	Content string `json:"content"`
	Length  int    `json:"length"`
}

// subtreeJS resolves a selector to the outerHTML of its first match.
const subtreeJS = `(sel) => {
	const el = sel.startsWith('/') || sel.startsWith('./')
		? document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue
		: document.querySelector(sel);
	return el ? el.outerHTML : null;
}`

func (t *Tools) getContent(ctx context.Context, req *mcp.CallToolRequest, in getContentInput) (*mcp.CallToolResult, contentOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGetContent, err), contentOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()

	var raw string
	if in.Selector != "" {
		val, err := page.Eval(opCtx, subtreeJS, in.Selector)
		if err != nil {
			return t.fail(entity.ToolBrowserGetContent, err), contentOutput{}, nil
		}
		s, ok := val.(string)
		if !ok {
			return t.fail(entity.ToolBrowserGetContent,
				fmt.Errorf("%w: %s", entity.ErrElementNotFound, in.Selector)), contentOutput{}, nil
		}
		raw = s
	} else {
		raw, err = page.HTML(opCtx)
		if err != nil {
			return t.fail(entity.ToolBrowserGetContent, err), contentOutput{}, nil
		}
	}

	var result string
	switch in.Format {
	case "", "html":
		cfg := content.DefaultCleanConfig
		if in.MaxLength > 0 {
			cfg.MaxOutputSize = in.MaxLength
		}
		result = content.Clean(raw, &cfg)
	case "text":
		result = content.Text(raw)
		if in.MaxLength > 0 {
			result = clip(result, in.MaxLength)
		}
	default:
		return errorResult(fmt.Sprintf("unknown format %q, use html or text", in.Format)), contentOutput{}, nil
	}

	return nil, contentOutput{Content: result, Length: len(result)}, nil
}

type waitForSelectorInput struct {
	Selector  string `json:"selector" jsonschema:"CSS or XPath selector to wait for"`
	TimeoutMS int    `json:"timeout_ms,omitempty" jsonschema:"how long to wait in milliseconds; defaults to the session timeout"`
}

type foundOutput struct {
	Found bool `json:"found"`
}

func (t *Tools) waitForSelector(ctx context.Context, req *mcp.CallToolRequest, in waitForSelectorInput) (*mcp.CallToolResult, foundOutput, error) {
	if in.Selector == "" {
		return errorResult("selector is required"), foundOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserWaitForSelector, err), foundOutput{}, nil
	}

	timeout := t.findTimeout()
	if in.TimeoutMS > 0 {
		timeout = time.Duration(in.TimeoutMS) * time.Millisecond
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := page.Element(opCtx, in.Selector); err != nil {
		return t.fail(entity.ToolBrowserWaitForSelector, err), foundOutput{}, nil
	}
	return nil, foundOutput{Found: true}, nil
}

type evaluateInput struct {
	Script string `json:"script" jsonschema:"JavaScript to run in the page: a function, an arrow function or a bare expression"`
	Args   []any  `json:"args,omitempty" jsonschema:"arguments passed to the function"`
}

type evaluateOutput struct {
	Result string `json:"result" jsonschema:"JSON-encoded result of the script"`
}

func (t *Tools) evaluate(ctx context.Context, req *mcp.CallToolRequest, in evaluateInput) (*mcp.CallToolResult, evaluateOutput, error) {
	if in.Script == "" {
		return errorResult("script is required"), evaluateOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserEvaluate, err), evaluateOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	val, err := page.Eval(opCtx, in.Script, in.Args...)
	if err != nil {
		return t.fail(entity.ToolBrowserEvaluate, err), evaluateOutput{}, nil
	}
	return nil, evaluateOutput{Result: gson.New(val).JSON("", "")}, nil
}
