package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/capture"
)

type screenshotInput struct {
	Format    string `json:"format,omitempty" jsonschema:"jpeg (default) or png"`
	Quality   int    `json:"quality,omitempty" jsonschema:"initial JPEG quality 1-100; defaults to 80"`
	MaxWidth  int    `json:"max_width,omitempty" jsonschema:"scale the image down to fit this width"`
	MaxHeight int    `json:"max_height,omitempty" jsonschema:"scale the image down to fit this height"`
	FullPage  bool   `json:"full_page,omitempty" jsonschema:"capture the whole scrollable page instead of the viewport"`
	Selector  string `json:"selector,omitempty" jsonschema:"capture only the element matched by this selector"`
}

func (t *Tools) screenshot(ctx context.Context, req *mcp.CallToolRequest, in screenshotInput) (*mcp.CallToolResult, any, error) {
	format, err := entity.ParseCaptureFormat(in.Format)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	page, err := t.page(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserScreenshot, err), nil, nil
	}

	var raw []byte
	if in.Selector != "" {
		findCtx, cancel := t.findCtx(ctx)
		defer cancel()
		el, err := page.Element(findCtx, in.Selector)
		if err != nil {
			return t.fail(entity.ToolBrowserScreenshot, err), nil, nil
		}
		raw, err = el.Screenshot(findCtx)
		if err != nil {
			return t.fail(entity.ToolBrowserScreenshot, err), nil, nil
		}
	} else {
		opCtx, cancel := t.opCtx(ctx)
		defer cancel()
		raw, err = page.Screenshot(opCtx, in.FullPage)
		if err != nil {
			return t.fail(entity.ToolBrowserScreenshot, err), nil, nil
		}
	}

	result, err := capture.CompressBytes(raw, entity.CaptureRequest{
		Format:    format,
		Quality:   in.Quality,
		MaxWidth:  in.MaxWidth,
		MaxHeight: in.MaxHeight,
	})
	if err != nil {
		return t.fail(entity.ToolBrowserScreenshot, err), nil, nil
	}

	summary := fmt.Sprintf("screenshot %dx%d %s, %d bytes", result.Width, result.Height, result.Format, result.Size())
	if result.Format == entity.CaptureJPEG {
		summary = fmt.Sprintf("%s, quality %d", summary, result.Quality)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.ImageContent{Data: result.Data, MIMEType: result.Format.MIME()},
			&mcp.TextContent{Text: summary},
		},
	}, nil, nil
}

type setViewportInput struct {
	Width  int     `json:"width" jsonschema:"viewport width in pixels"`
	Height int     `json:"height" jsonschema:"viewport height in pixels"`
	Scale  float64 `json:"scale,omitempty" jsonschema:"device scale factor; defaults to 1"`
}

type viewportOutput struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

func (t *Tools) setViewport(ctx context.Context, req *mcp.CallToolRequest, in setViewportInput) (*mcp.CallToolResult, viewportOutput, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return errorResult("width and height must be positive"), viewportOutput{}, nil
	}

	if _, _, err := t.session.Ensure(ctx); err != nil {
		return t.fail(entity.ToolBrowserSetViewport, err), viewportOutput{}, nil
	}

	v := entity.Viewport{Width: in.Width, Height: in.Height, Scale: in.Scale}
	if v.Scale <= 0 {
		v.Scale = entity.DefaultViewportScale
	}
	if err := t.session.SetViewport(v); err != nil {
		return t.fail(entity.ToolBrowserSetViewport, err), viewportOutput{}, nil
	}
	return nil, viewportOutput{Width: v.Width, Height: v.Height, Scale: v.Scale}, nil
}
