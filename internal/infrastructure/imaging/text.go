package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	dateFontSize    = 20
	captionFontSize = 22
)

var (
	parseMono    = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gomono.TTF) })
	parseRegular = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
)

// newFace создаёт начертание. font.Face не потокобезопасен,
// поэтому на каждый рендер создаётся своё.
func newFace(parse func() (*opentype.Font, error), size float64) (font.Face, error) {
	f, err := parse()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// measureWith возвращает функцию измерения ширины строки в пикселях.
func measureWith(face font.Face) func(string) float64 {
	return func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
}

// WrapText жадно раскладывает слова по строкам шириной не больше maxWidth.
// Слово никогда не разрывается: слишком длинное слово занимает строку целиком.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func drawCentered(dst *image.RGBA, face font.Face, text string, centerX, baseline int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	advance := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.I(centerX) - advance/2,
		Y: fixed.I(baseline),
	}
	d.DrawString(text)
}
