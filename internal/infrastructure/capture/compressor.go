// Package capture turns raw screenshots into size-bounded images.
package capture

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

const (
	qualityDecay   = 0.8
	qualityFloor   = 10
	dimensionDecay = 0.9
	maxIterations  = 10
)

// Compress clamps src into the request's dimension box, then re-encodes
// until the payload fits the byte ceiling or the iteration bound is hit.
// The last encode is returned even when the ceiling could not be met.
func Compress(src image.Image, req entity.CaptureRequest) (entity.CaptureResult, error) {
	req = req.WithDefaults()

	bounds := src.Bounds()
	if bounds.Dx() > req.MaxWidth || bounds.Dy() > req.MaxHeight {
		src = imaging.Fit(src, req.MaxWidth, req.MaxHeight, imaging.Lanczos)
	}

	if req.Format == entity.CapturePNG {
		data, final, err := compressLossless(src, req.MaxBytes)
		if err != nil {
			return entity.CaptureResult{}, err
		}
		return entity.CaptureResult{
			Data:   data,
			Format: entity.CapturePNG,
			Width:  final.Bounds().Dx(),
			Height: final.Bounds().Dy(),
		}, nil
	}

	data, quality, err := compressLossy(src, req.Quality, req.MaxBytes)
	if err != nil {
		return entity.CaptureResult{}, err
	}
	return entity.CaptureResult{
		Data:    data,
		Format:  entity.CaptureJPEG,
		Width:   src.Bounds().Dx(),
		Height:  src.Bounds().Dy(),
		Quality: quality,
	}, nil
}

// CompressBytes decodes raw image bytes and compresses the result.
func CompressBytes(raw []byte, req entity.CaptureRequest) (entity.CaptureResult, error) {
	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return entity.CaptureResult{}, fmt.Errorf("decode capture: %w", err)
	}
	return Compress(src, req)
}

// compressLossy keeps dimensions fixed and decays quality by 0.8 per
// round, floored at 10. The returned quality is the one the returned
// bytes were encoded at.
func compressLossy(src image.Image, quality, maxBytes int) ([]byte, int, error) {
	var data []byte
	for i := 0; ; i++ {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, 0, fmt.Errorf("encode jpeg: %w", err)
		}
		data = buf.Bytes()

		if len(data) <= maxBytes || quality <= qualityFloor || i >= maxIterations-1 {
			break
		}
		quality = int(float64(quality) * qualityDecay)
		if quality < qualityFloor {
			quality = qualityFloor
		}
	}
	return data, quality, nil
}

// compressLossless keeps full quality and shrinks both dimensions by
// 0.9 per round. The returned image is the one the returned bytes
// encode.
func compressLossless(src image.Image, maxBytes int) ([]byte, image.Image, error) {
	current := src
	var data []byte
	for i := 0; ; i++ {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, current, imaging.PNG); err != nil {
			return nil, nil, fmt.Errorf("encode png: %w", err)
		}
		data = buf.Bytes()

		if len(data) <= maxBytes || i >= maxIterations-1 {
			break
		}
		w := int(float64(current.Bounds().Dx()) * dimensionDecay)
		h := int(float64(current.Bounds().Dy()) * dimensionDecay)
		if w < 1 || h < 1 {
			break
		}
		current = imaging.Resize(current, w, h, imaging.Lanczos)
	}
	return data, current, nil
}
