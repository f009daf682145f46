package loader

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// encodeForTransport produces the base64 payload for one photo. With MaxDim
// set, oversized photos are downscaled and re-encoded as JPEG to keep the
// request body small; any decode or encode failure falls back to the raw
// file bytes.
func (l *Loader) encodeForTransport(path string, data []byte) string {
	if l.opts.MaxDim <= 0 {
		return base64.StdEncoding.EncodeToString(data)
	}

	img, err := decodeImage(data)
	if err != nil {
		l.log.Debug().Err(err).Str("file", path).Msg("decode failed, sending original bytes")
		return base64.StdEncoding.EncodeToString(data)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= l.opts.MaxDim && h <= l.opts.MaxDim {
		return base64.StdEncoding.EncodeToString(data)
	}

	if w >= h {
		img = imaging.Resize(img, l.opts.MaxDim, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, l.opts.MaxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: l.opts.Quality}); err != nil {
		l.log.Debug().Err(err).Str("file", path).Msg("re-encode failed, sending original bytes")
		return base64.StdEncoding.EncodeToString(data)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// decodeImage decodes image bytes with a WebP fallback.
func decodeImage(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}
