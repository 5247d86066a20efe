package entity

type ToolName string

const (
	ToolBrowserLaunch            ToolName = "browser_launch"
	ToolBrowserNavigate          ToolName = "browser_navigate"
	ToolBrowserGoBack            ToolName = "browser_go_back"
	ToolBrowserGoForward         ToolName = "browser_go_forward"
	ToolBrowserReload            ToolName = "browser_reload"
	ToolBrowserWaitForNavigation ToolName = "browser_wait_for_navigation"
	ToolBrowserClick             ToolName = "browser_click"
	ToolBrowserType              ToolName = "browser_type"
	ToolBrowserPressKey          ToolName = "browser_press_key"
	ToolBrowserScroll            ToolName = "browser_scroll"
	ToolBrowserGetText           ToolName = "browser_get_text"
	ToolBrowserGetAttribute      ToolName = "browser_get_attribute"
	ToolBrowserQuery             ToolName = "browser_query"
	ToolBrowserGetTitle          ToolName = "browser_get_title"
	ToolBrowserGetURL            ToolName = "browser_get_url"
	ToolBrowserGetContent        ToolName = "browser_get_content"
	ToolBrowserWaitForSelector   ToolName = "browser_wait_for_selector"
	ToolBrowserEvaluate          ToolName = "browser_evaluate"
	ToolBrowserScreenshot        ToolName = "browser_screenshot"
	ToolBrowserSetViewport       ToolName = "browser_set_viewport"
	ToolBrowserGetCookies        ToolName = "browser_get_cookies"
	ToolBrowserSetCookies        ToolName = "browser_set_cookies"
	ToolBrowserClose             ToolName = "browser_close"
)

func (t ToolName) String() string {
	return string(t)
}
