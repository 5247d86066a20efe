package entity

import "fmt"

type CaptureFormat string

const (
	CaptureJPEG CaptureFormat = "jpeg"
	CapturePNG  CaptureFormat = "png"
)

func (f CaptureFormat) MIME() string {
	if f == CapturePNG {
		return "image/png"
	}
	return "image/jpeg"
}

func ParseCaptureFormat(s string) (CaptureFormat, error) {
	switch s {
	case "", "jpeg", "jpg":
		return CaptureJPEG, nil
	case "png":
		return CapturePNG, nil
	}
	return "", fmt.Errorf("unknown capture format %q", s)
}

const (
	DefaultCaptureQuality   = 80
	DefaultMaxCaptureWidth  = 1280
	DefaultMaxCaptureHeight = 1440

	// MaxCaptureBytes bounds every capture payload so a single
	// screenshot cannot blow past transport message limits.
	MaxCaptureBytes = 1 << 20
)

type CaptureRequest struct {
	Format    CaptureFormat
	Quality   int
	MaxWidth  int
	MaxHeight int
	MaxBytes  int
}

func (r CaptureRequest) WithDefaults() CaptureRequest {
	if r.Format == "" {
		r.Format = CaptureJPEG
	}
	if r.Quality <= 0 || r.Quality > 100 {
		r.Quality = DefaultCaptureQuality
	}
	if r.MaxWidth <= 0 {
		r.MaxWidth = DefaultMaxCaptureWidth
	}
	if r.MaxHeight <= 0 {
		r.MaxHeight = DefaultMaxCaptureHeight
	}
	if r.MaxBytes <= 0 {
		r.MaxBytes = MaxCaptureBytes
	}
	return r
}

type CaptureResult struct {
	Data    []byte
	Format  CaptureFormat
	Width   int
	Height  int
	Quality int
}

func (r CaptureResult) Size() int { return len(r.Data) }
