package measure

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/wudi/docflow/document"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageResolver turns an image reference into its binary content.
type ImageResolver func(ref string) ([]byte, error)

// DefaultImageResolver reads base64 data URIs and local files.
func DefaultImageResolver(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		idx := strings.Index(ref, "base64,")
		if idx < 0 {
			return nil, fmt.Errorf("measure: image data URI is not base64")
		}
		return base64.StdEncoding.DecodeString(ref[idx+len("base64,"):])
	}
	return os.ReadFile(ref)
}

// measureImage resolves the image's natural size and applies declared
// width/height overrides, keeping the aspect ratio when only one
// dimension is given.
func (m *Measurer) measureImage(node *document.Node, styles *document.StyleStack) error {
	data, err := m.Images(node.Image)
	if err != nil {
		return fmt.Errorf("measure: image %q: %w", node.Image, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("measure: image %q: %w", node.Image, err)
	}
	w, h := float64(cfg.Width), float64(cfg.Height)

	declaredW, hasW := parseFixedWidth(node.WidthSpec)
	declaredH := node.HeightSpec
	switch {
	case hasW && declaredH > 0:
		w, h = declaredW, declaredH
	case hasW:
		h = h * declaredW / w
		w = declaredW
	case declaredH > 0:
		w = w * declaredH / h
		h = declaredH
	}

	node.Width = w
	node.Height = h
	node.MinWidth = w
	node.MaxWidth = w
	node.Alignment = styles.Alignment()
	return nil
}

// measureCanvas sizes a canvas node by the bounding box of its
// vectors.
func (m *Measurer) measureCanvas(node *document.Node) {
	maxX, maxY := 0.0, 0.0
	for _, v := range node.Canvas {
		_, _, x1, y1 := v.Bounds()
		if x1 > maxX {
			maxX = x1
		}
		if y1 > maxY {
			maxY = y1
		}
	}
	node.Width = maxX
	node.Height = maxY
	node.MinWidth = maxX
	node.MaxWidth = maxX
}
