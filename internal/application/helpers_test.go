package app

import (
	"context"
	"image"
	"image/color"
	"math/rand"

	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/storage"
)

type staticFrame struct {
	img image.Image
}

func (f staticFrame) CurrentFrame(ctx context.Context) (image.Image, error) {
	return f.img, nil
}

type missingFrame struct{}

func (missingFrame) CurrentFrame(ctx context.Context) (image.Image, error) {
	return nil, port.ErrFrameUnavailable
}

func testFrame() staticFrame {
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 20), B: 0x40, A: 0xff})
		}
	}
	return staticFrame{img: img}
}

func newTestBooth() (*BoothService, *storage.MemorySessionRepository) {
	repo := storage.NewMemorySessionRepository()
	return NewBoothService(repo, rand.New(rand.NewSource(1)), 0), repo
}
