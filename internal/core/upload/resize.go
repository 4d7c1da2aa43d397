package upload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// resizeImage decodes the image, scales it into the requested box and
// re-encodes it in the format the extension implies. Crop fills the box
// exactly; otherwise the image keeps its aspect ratio.
func resizeImage(file io.Reader, ext string, width, height int, crop bool) (io.Reader, int64, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, 0, fmt.Errorf("unsupported image format %q: %w", ext, err)
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	if crop && width > 0 && height > 0 {
		img = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	} else {
		w, h := width, height
		if w == 0 {
			w = img.Bounds().Dx()
		}
		if h == 0 {
			h = img.Bounds().Dy()
		}
		img = imaging.Fit(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, 0, fmt.Errorf("failed to encode image: %w", err)
	}
	return &buf, int64(buf.Len()), nil
}

func isImageExt(ext string) bool {
	_, err := imaging.FormatFromExtension(ext)
	return err == nil
}
