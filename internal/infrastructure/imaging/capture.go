package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"retro-booth/internal/domain/entity"
)

// NoiseAmplitude - максимальный сдвиг яркости при добавлении шума.
const NoiseAmplitude = 10

// CaptureFrame прогоняет кадр через конвейер съёмки: чёрный фон,
// фильтр, зеркальное отражение, шум и кодирование в PNG.
func CaptureFrame(frame image.Image, filter entity.FilterDescriptor, rnd Random) ([]byte, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, errors.New("empty frame")
	}

	pf, err := CompilePixelFilter(filter.PixelFilterExpression)
	if err != nil {
		return nil, fmt.Errorf("compile filter %s: %w", filter.Name, err)
	}

	surface := renderMirrored(frame, pf)
	if !filter.IsNormal() {
		addNoise(surface, rnd)
	}

	return encodePNG(surface)
}

// renderMirrored рисует кадр, отражённый по горизонтали, поверх
// непрозрачного чёрного фона. Результат всегда непрозрачный.
func renderMirrored(frame image.Image, pf PixelFilter) *image.RGBA {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			src := color.NRGBAModel.Convert(frame.At(b.Max.X-1-x, b.Min.Y+y)).(color.NRGBA)
			if src.A == 0 {
				continue
			}

			r, g, bl := float64(src.R)/255, float64(src.G)/255, float64(src.B)/255
			if !pf.IsIdentity() {
				r, g, bl = pf.Apply(r, g, bl)
			}

			// Смешивание с чёрным фоном: остаётся только вклад кадра.
			a := float64(src.A) / 255
			i := x * 4
			row[i+0] = toByte(r * a)
			row[i+1] = toByte(g * a)
			row[i+2] = toByte(bl * a)
			row[i+3] = 0xff
		}
	}

	return dst
}

// addNoise добавляет к R, G и B каждого пикселя одно и то же случайное
// значение из [-NoiseAmplitude, NoiseAmplitude]. Альфа не меняется,
// каналы обрезаются до [0,255].
func addNoise(img *image.RGBA, rnd Random) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			delta := rnd.Intn(2*NoiseAmplitude+1) - NoiseAmplitude
			row[i+0] = clampByte(int(row[i+0]) + delta)
			row[i+1] = clampByte(int(row[i+1]) + delta)
			row[i+2] = clampByte(int(row[i+2]) + delta)
		}
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func toByte(v float64) uint8 {
	return clampByte(int(v*255 + 0.5))
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
