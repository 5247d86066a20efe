package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

type cookiesOutput struct {
	Count   int             `json:"count"`
	Cookies []entity.Cookie `json:"cookies"`
}

func (t *Tools) getCookies(ctx context.Context, req *mcp.CallToolRequest, in noInput) (*mcp.CallToolResult, cookiesOutput, error) {
	browser, _, err := t.session.Ensure(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserGetCookies, err), cookiesOutput{}, nil
	}

	cookies, err := browser.Cookies()
	if err != nil {
		return t.fail(entity.ToolBrowserGetCookies, err), cookiesOutput{}, nil
	}
	if cookies == nil {
		cookies = []entity.Cookie{}
	}
	return nil, cookiesOutput{Count: len(cookies), Cookies: cookies}, nil
}

type setCookiesInput struct {
	Cookies []entity.Cookie `json:"cookies" jsonschema:"cookies to store in the browser; each needs at least name, value and domain"`
}

func (t *Tools) setCookies(ctx context.Context, req *mcp.CallToolRequest, in setCookiesInput) (*mcp.CallToolResult, actionOutput, error) {
	if len(in.Cookies) == 0 {
		return errorResult("cookies is required"), actionOutput{}, nil
	}
	for i, c := range in.Cookies {
		if c.Name == "" {
			return errorResult(fmt.Sprintf("cookie %d: name is required", i)), actionOutput{}, nil
		}
	}

	browser, _, err := t.session.Ensure(ctx)
	if err != nil {
		return t.fail(entity.ToolBrowserSetCookies, err), actionOutput{}, nil
	}

	if err := browser.SetCookies(in.Cookies); err != nil {
		return t.fail(entity.ToolBrowserSetCookies, err), actionOutput{}, nil
	}
	return nil, actionOutput{Result: fmt.Sprintf("stored %d cookies", len(in.Cookies))}, nil
}
