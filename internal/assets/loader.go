package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// AssetLoadError reports an image that could not be opened or decoded.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load asset %s: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// LoadImage reads and decodes the image at path. Any format registered with
// the image package is accepted (PNG, GIF, JPEG, BMP, TIFF, WebP).
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("%s image is empty", format)}
	}

	return img, nil
}

// Supported reports whether the file extension names a decodable format.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}
