package port

import (
	"context"
	"errors"
	"image"
)

// ErrFrameUnavailable - источник кадров не инициализирован или кадр не получен.
var ErrFrameUnavailable = errors.New("frame unavailable")

// FrameSource интерфейс источника кадров (камера, загруженное фото)
type FrameSource interface {
	// CurrentFrame возвращает текущий кадр в исходном разрешении
	CurrentFrame(ctx context.Context) (image.Image, error)
}
