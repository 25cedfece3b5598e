package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DecodeFrame декодирует PNG, JPEG или WebP.
func DecodeFrame(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: empty data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
