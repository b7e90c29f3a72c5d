package client

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// PreviewMaxSide bounds the longest side of a generated preview.
const PreviewMaxSide = 512

// previewMaxPixels caps the declared size of an image we are willing to
// decode for a thumbnail. Larger images are embedded as-is.
var previewMaxPixels int64 = 40_000_000

// Preview is a locally derived, displayable copy of the selected image.
// It lives as long as the selection it was made from.
type Preview struct {
	url string
}

// NewPreview renders a PNG thumbnail data URL. Images the standard decoders
// cannot read are embedded as-is under their declared MIME type.
func NewPreview(upload Upload) *Preview {
	if url, ok := thumbnailURL(upload.Data); ok {
		return &Preview{url: url}
	}
	return &Preview{url: dataURL(upload.ContentType, upload.Data)}
}

// URL returns the preview's data URL, or "" once released.
func (p *Preview) URL() string {
	if p == nil {
		return ""
	}
	return p.url
}

// Release drops the preview data.
func (p *Preview) Release() {
	if p != nil {
		p.url = ""
	}
}

func thumbnailURL(data []byte) (string, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > previewMaxPixels {
		return "", false
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false
	}

	thumb := resize.Thumbnail(PreviewMaxSide, PreviewMaxSide, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", false
	}
	return dataURL("image/png", buf.Bytes()), true
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
