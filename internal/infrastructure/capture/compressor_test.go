package capture

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

// noiseImage compresses poorly, which forces the reduction loops to run.
func noiseImage(w, h int) image.Image {
	rng := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func TestCompressClampsDimensions(t *testing.T) {
	src := imaging.New(4000, 2000, color.NRGBA{R: 200, G: 220, B: 240, A: 255})

	res, err := Compress(src, entity.CaptureRequest{
		Format:    entity.CaptureJPEG,
		Quality:   80,
		MaxWidth:  1280,
		MaxHeight: 1440,
		MaxBytes:  entity.MaxCaptureBytes,
	})

	require.NoError(t, err)
	assert.Equal(t, 1280, res.Width)
	assert.Equal(t, 640, res.Height)
	assert.Equal(t, 80, res.Quality)
	assert.LessOrEqual(t, res.Size(), entity.MaxCaptureBytes)
}

func TestCompressKeepsSmallImageIntact(t *testing.T) {
	src := imaging.New(320, 200, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	res, err := Compress(src, entity.CaptureRequest{
		Format:  entity.CaptureJPEG,
		Quality: 80,
	})

	require.NoError(t, err)
	assert.Equal(t, 320, res.Width)
	assert.Equal(t, 200, res.Height)
	assert.Equal(t, 80, res.Quality)
}

func TestCompressLossyDecaysQualityOnly(t *testing.T) {
	src := noiseImage(640, 480)

	res, err := Compress(src, entity.CaptureRequest{
		Format:   entity.CaptureJPEG,
		Quality:  80,
		MaxBytes: 30_000,
	})

	require.NoError(t, err)
	assert.Equal(t, 640, res.Width)
	assert.Equal(t, 480, res.Height)
	assert.Less(t, res.Quality, 80)
	if res.Size() > 30_000 {
		assert.Equal(t, qualityFloor, res.Quality)
	}
}

func TestCompressLossyStopsAtQualityFloor(t *testing.T) {
	src := noiseImage(200, 200)

	res, err := Compress(src, entity.CaptureRequest{
		Format:   entity.CaptureJPEG,
		Quality:  80,
		MaxBytes: 50,
	})

	require.NoError(t, err)
	assert.Equal(t, qualityFloor, res.Quality)
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 200, res.Height)
	assert.Greater(t, res.Size(), 50, "ceiling is best-effort when unreachable")
}

func TestCompressLosslessShrinksDimensions(t *testing.T) {
	src := noiseImage(128, 128)

	res, err := Compress(src, entity.CaptureRequest{
		Format:   entity.CapturePNG,
		MaxBytes: 20_000,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.CapturePNG, res.Format)
	assert.Zero(t, res.Quality)
	assert.Less(t, res.Width, 128)
	assert.LessOrEqual(t, res.Size(), 20_000)

	decoded, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, res.Width, decoded.Bounds().Dx())
	assert.Equal(t, res.Height, decoded.Bounds().Dy())
}

func TestCompressBytesRejectsGarbage(t *testing.T) {
	_, err := CompressBytes([]byte("not an image"), entity.CaptureRequest{})
	assert.Error(t, err)
}

func TestCompressBytesDecodesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, noiseImage(64, 64), imaging.PNG))

	res, err := CompressBytes(buf.Bytes(), entity.CaptureRequest{})

	require.NoError(t, err)
	assert.Equal(t, entity.CaptureJPEG, res.Format)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 64, res.Height)
}

func BenchmarkCompress(b *testing.B) {
	src := noiseImage(640, 480)
	req := entity.CaptureRequest{
		Format:   entity.CaptureJPEG,
		Quality:  80,
		MaxBytes: 100_000,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compress(src, req); err != nil {
			b.Fatal(err)
		}
	}
}
