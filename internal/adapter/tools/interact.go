package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

type clickInput struct {
	Selector string `json:"selector" jsonschema:"CSS selector (e.g. button#submit) or XPath (e.g. //button[text()='Submit'])"`
}

func (t *Tools) click(ctx context.Context, req *mcp.CallToolRequest, in clickInput) (*mcp.CallToolResult, actionOutput, error) {
	if in.Selector == "" {
		return errorResult("selector is required"), actionOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserClick, err), actionOutput{}, nil
	}

	opCtx, cancel := t.findCtx(ctx)
	defer cancel()
	el, err := page.Element(opCtx, in.Selector)
	if err != nil {
		return t.fail(entity.ToolBrowserClick, err), actionOutput{}, nil
	}
	if err := el.Click(opCtx); err != nil {
		return t.fail(entity.ToolBrowserClick, err), actionOutput{}, nil
	}
	return nil, actionOutput{Result: fmt.Sprintf("clicked %s", in.Selector)}, nil
}

type typeInput struct {
	Selector string `json:"selector" jsonschema:"CSS or XPath selector of the input element"`
	Text     string `json:"text" jsonschema:"text to type into the element"`
	Clear    *bool  `json:"clear,omitempty" jsonschema:"replace existing content first; defaults to true"`
}

func (t *Tools) typeText(ctx context.Context, req *mcp.CallToolRequest, in typeInput) (*mcp.CallToolResult, actionOutput, error) {
	if in.Selector == "" {
		return errorResult("selector is required"), actionOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserType, err), actionOutput{}, nil
	}

	opCtx, cancel := t.findCtx(ctx)
	defer cancel()
	el, err := page.Element(opCtx, in.Selector)
	if err != nil {
		return t.fail(entity.ToolBrowserType, err), actionOutput{}, nil
	}

	clear := in.Clear == nil || *in.Clear
	if err := el.Input(opCtx, in.Text, clear); err != nil {
		return t.fail(entity.ToolBrowserType, err), actionOutput{}, nil
	}
	return nil, actionOutput{Result: fmt.Sprintf("typed %d characters into %s", len(in.Text), in.Selector)}, nil
}

type pressKeyInput struct {
	Key string `json:"key" jsonschema:"key name such as Enter, Tab, Escape, ArrowDown, or a single character"`
}

func (t *Tools) pressKey(ctx context.Context, req *mcp.CallToolRequest, in pressKeyInput) (*mcp.CallToolResult, actionOutput, error) {
	if in.Key == "" {
		return errorResult("key is required"), actionOutput{}, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserPressKey, err), actionOutput{}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	if err := page.Press(opCtx, in.Key); err != nil {
		return t.fail(entity.ToolBrowserPressKey, err), actionOutput{}, nil
	}
	return nil, actionOutput{Result: fmt.Sprintf("pressed %s", in.Key)}, nil
}

type scrollInput struct {
	Selector string  `json:"selector,omitempty" jsonschema:"scroll this element into view instead of scrolling by offsets"`
	X        float64 `json:"x,omitempty" jsonschema:"horizontal scroll delta in pixels"`
	Y        float64 `json:"y,omitempty" jsonschema:"vertical scroll delta in pixels; positive scrolls down"`
}

func (t *Tools) scroll(ctx context.Context, req *mcp.CallToolRequest, in scrollInput) (*mcp.CallToolResult, actionOutput, error) {
	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserScroll, err), actionOutput{}, nil
	}

	if in.Selector != "" {
		findCtx, cancel := t.findCtx(ctx)
		defer cancel()
		el, err := page.Element(findCtx, in.Selector)
		if err != nil {
			return t.fail(entity.ToolBrowserScroll, err), actionOutput{}, nil
		}
		if err := el.ScrollIntoView(); err != nil {
			return t.fail(entity.ToolBrowserScroll, err), actionOutput{}, nil
		}
		return nil, actionOutput{Result: fmt.Sprintf("scrolled %s into view", in.Selector)}, nil
	}

	opCtx, cancel := t.opCtx(ctx)
	defer cancel()
	if err := page.Scroll(opCtx, in.X, in.Y); err != nil {
		return t.fail(entity.ToolBrowserScroll, err), actionOutput{}, nil
	}
	return nil, actionOutput{Result: fmt.Sprintf("scrolled by (%.0f, %.0f)", in.X, in.Y)}, nil
}
