package vision

import (
	"context"
	"image"

	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/imaging"
)

// StillFrame - источник из одного загруженного изображения.
type StillFrame struct {
	img image.Image
}

// NewStillFrame декодирует PNG, JPEG или WebP.
func NewStillFrame(data []byte) (*StillFrame, error) {
	img, err := imaging.DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	return &StillFrame{img: img}, nil
}

// CurrentFrame возвращает загруженное изображение.
func (s *StillFrame) CurrentFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.img, nil
}

var _ port.FrameSource = (*StillFrame)(nil)
