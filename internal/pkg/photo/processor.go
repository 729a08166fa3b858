package photo

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

const (
	// ThumbnailWidth is the target width of location thumbnails; height
	// follows the aspect ratio.
	ThumbnailWidth = 480

	// MaxPhotoWidth caps stored originals. Larger uploads are scaled down.
	MaxPhotoWidth = 2048

	webpQuality = 85
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// ProcessBillboardPhoto normalizes an uploaded location photo, writes a WebP
// thumbnail next to it, and backfills GPS coordinates from EXIF when the
// billboard has none. Paths on the billboard are updated in place; the caller
// persists the record.
func ProcessBillboardPhoto(b *models.Billboard, uploadPath, storageDir string) error {
	img, err := imaging.Open(uploadPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("error opening photo: %w", err)
	}

	if img.Bounds().Dx() > MaxPhotoWidth {
		img = imaging.Resize(img, MaxPhotoWidth, 0, imaging.Lanczos)
	}

	photoPath := filepath.Join(storageDir, b.UUID+".jpg")
	if err := imaging.Save(img, photoPath, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("error saving photo: %w", err)
	}

	thumb := MakeThumbnail(img)
	thumbPath := filepath.Join(storageDir, b.UUID+"_thumb.webp")
	if err := saveWebP(thumb, thumbPath); err != nil {
		return fmt.Errorf("error saving thumbnail: %w", err)
	}

	b.PhotoPath = toWebPath(photoPath)
	b.ThumbPath = toWebPath(thumbPath)

	if b.Latitude == nil || b.Longitude == nil {
		if lat, lng, ok := extractGPS(uploadPath); ok {
			b.Latitude = &lat
			b.Longitude = &lng
		}
	}
	return nil
}

// MakeThumbnail scales an image down to the thumbnail width, keeping the
// aspect ratio. Images already narrower are returned unchanged.
func MakeThumbnail(img image.Image) image.Image {
	if img.Bounds().Dx() <= ThumbnailWidth {
		return img
	}
	return imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
}

// saveWebP saves an image in WebP format
func saveWebP(img image.Image, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating WebP file: %w", err)
	}
	defer output.Close()

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, webpQuality)
	if err != nil {
		return fmt.Errorf("error creating encoder options: %w", err)
	}

	if err := webp.Encode(output, img, options); err != nil {
		return fmt.Errorf("error encoding WebP image: %w", err)
	}
	return nil
}

// extractGPS reads the EXIF GPS position from an image file.
func extractGPS(filePath string) (float64, float64, bool) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// Many photos carry no EXIF block, this is not an error.
		return 0, 0, false
	}
	lat, lng, err := x.LatLong()
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

func toWebPath(p string) string {
	return "/" + strings.TrimPrefix(filepath.ToSlash(p), "/")
}
