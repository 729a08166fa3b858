package photo

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
)

func solidImage(w, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{R: 30, G: 60, B: 90, A: 255})
}

func TestMakeThumbnailScalesDownWideImages(t *testing.T) {
	thumb := MakeThumbnail(solidImage(1920, 1080))

	assert.Equal(t, ThumbnailWidth, thumb.Bounds().Dx())
	// Aspect ratio is preserved.
	assert.Equal(t, 270, thumb.Bounds().Dy())
}

func TestMakeThumbnailKeepsSmallImages(t *testing.T) {
	src := solidImage(320, 240)
	thumb := MakeThumbnail(src)

	assert.Equal(t, 320, thumb.Bounds().Dx())
	assert.Equal(t, 240, thumb.Bounds().Dy())
}

func TestExtractGPSWithoutExif(t *testing.T) {
	_, _, ok := extractGPS("testdata/does-not-exist.jpg")
	assert.False(t, ok)
}

func TestToWebPath(t *testing.T) {
	assert.Equal(t, "/uploads/photos/a.webp", toWebPath("uploads/photos/a.webp"))
	assert.Equal(t, "/uploads/photos/a.webp", toWebPath("/uploads/photos/a.webp"))
}
