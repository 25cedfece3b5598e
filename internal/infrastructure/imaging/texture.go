package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

const (
	stippleStep = 4
	stippleDot  = 2
)

// stipple рисует редкие точки 2×2: по одной попытке на клетку 4×4
// с вероятностью 0.5.
func stipple(dst *image.RGBA, rnd Random, col color.Color) {
	src := image.NewUniform(col)
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += stippleStep {
		for x := b.Min.X; x < b.Max.X; x += stippleStep {
			if rnd.Float64() < 0.5 {
				dot := image.Rect(x, y, x+stippleDot, y+stippleDot).Intersect(b)
				draw.Draw(dst, dot, src, image.Point{}, draw.Over)
			}
		}
	}
}

// vignette умножает изображение на радиальный градиент: белый в центре,
// edge по краям.
func vignette(dst *image.RGBA, edge color.RGBA) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	cx, cy := w/2, h/2
	inner := math.Min(w, h) * 0.35
	outer := math.Hypot(w, h) / 2

	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			t := clamp01((d - inner) / (outer - inner))

			i := x * 4
			row[i+0] = multiply(row[i+0], lerpByte(255, edge.R, t))
			row[i+1] = multiply(row[i+1], lerpByte(255, edge.G, t))
			row[i+2] = multiply(row[i+2], lerpByte(255, edge.B, t))
		}
	}
}

func multiply(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

func lerpByte(from, to uint8, t float64) uint8 {
	return toByte((float64(from) + (float64(to)-float64(from))*t) / 255)
}
