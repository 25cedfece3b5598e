//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"retro-booth/internal/domain/port"
)

// Camera источник кадров с веб-камеры через OpenCV.
type Camera struct {
	mu      sync.Mutex
	device  int
	capture *gocv.VideoCapture
}

// NewCamera открывает устройство видеозахвата.
func NewCamera(device int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open camera %d: device is not opened", device)
	}

	return &Camera{device: device, capture: capture}, nil
}

// CurrentFrame читает кадр в исходном разрешении камеры.
func (c *Camera) CurrentFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, port.ErrFrameUnavailable
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		return nil, port.ErrFrameUnavailable
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

// Close освобождает камеру.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}

var _ port.FrameSource = (*Camera)(nil)
