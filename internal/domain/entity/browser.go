package entity

type Viewport struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale,omitempty"`
}

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultViewportScale  = 1.0
)

func DefaultViewport() Viewport {
	return Viewport{
		Width:  DefaultViewportWidth,
		Height: DefaultViewportHeight,
		Scale:  DefaultViewportScale,
	}
}

type LaunchConfig struct {
	Headless bool
	Bin      string
	Viewport Viewport
}

type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Target describes a top-level browsing context reported by the browser.
// OpenerID is empty for contexts the controller created itself.
type Target struct {
	ID       string
	Type     string
	URL      string
	OpenerID string
}

type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

type ElementInfo struct {
	Index      int               `json:"index"`
	Text       string            `json:"text,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}
