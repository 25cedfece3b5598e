//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"retro-booth/internal/domain/port"
)

// Camera - заглушка камеры для сборки без OpenCV.
type Camera struct{}

// NewCamera возвращает ошибку, если сборка без тега gocv.
func NewCamera(device int) (*Camera, error) {
	_ = device
	return nil, errors.New("gocv build tag is not enabled")
}

// CurrentFrame всегда сообщает, что кадра нет.
func (c *Camera) CurrentFrame(ctx context.Context) (image.Image, error) {
	_ = ctx
	return nil, port.ErrFrameUnavailable
}

// Close ничего не делает.
func (c *Camera) Close() error {
	return nil
}

var _ port.FrameSource = (*Camera)(nil)
