package imaging

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"

	"retro-booth/internal/domain/entity"
)

// Геометрия фотополоски в пикселях.
const (
	CellWidth    = 300
	CellHeight   = 225
	Columns      = 2
	MinRows      = 2
	Gap          = 20
	Padding      = 40
	ShadowOffset = 6
	FooterHeight = 140
	LineHeight   = 30
	TextMargin   = 60

	dateOffset    = 45 // от верха подвала до базовой линии даты
	captionOffset = 85 // от верха подвала до первой строки подписи
	footerBottom  = FooterHeight - captionOffset - LineHeight
)

// DefaultDateLayout - формат даты под фотографиями.
const DefaultDateLayout = "1/2/2006"

var (
	paperColor   = color.RGBA{R: 0xf4, G: 0xef, B: 0xe4, A: 0xff}
	grainColor   = color.NRGBA{R: 0x3a, G: 0x30, B: 0x28, A: 0x1a}
	dustColor    = color.NRGBA{R: 0x20, G: 0x18, B: 0x10, A: 0x0c}
	shadowColor  = color.RGBA{R: 0x2b, G: 0x24, B: 0x1e, A: 0xff}
	borderColor  = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	inkColor     = color.RGBA{R: 0x3b, G: 0x2f, B: 0x2a, A: 0xff}
	vignetteEdge = color.RGBA{R: 0xc9, G: 0xb8, B: 0xa0, A: 0xff}
)

// StripPlan - полностью детерминированная раскладка фотополоски.
type StripPlan struct {
	Width            int
	Height           int
	Cells            []image.Rectangle
	DateText         string
	DateBaseline     int
	CaptionLines     []string
	CaptionBaselines []int
}

// StripSize возвращает размер холста для n снимков без подписи длиннее
// двух строк. Даже для пустой коллекции резервируется MinRows рядов.
func StripSize(n int) (width, height int) {
	rows := (n + Columns - 1) / Columns
	if rows < MinRows {
		rows = MinRows
	}
	width = 2*Padding + Columns*CellWidth + (Columns-1)*Gap
	height = 2*Padding + rows*CellHeight + (rows-1)*Gap + FooterHeight
	return width, height
}

// footerHeight растягивает подвал, если подпись не помещается в две строки.
func footerHeight(captionLines int) int {
	need := captionOffset + (captionLines-1)*LineHeight + footerBottom
	if need < FooterHeight {
		return FooterHeight
	}
	return need
}

// PlanStrip раскладывает n снимков в сетку из двух колонок и размещает
// дату и подпись в подвале. Подвал растёт вместе с числом строк подписи.
func PlanStrip(n int, dateText, caption string, measure func(string) float64) StripPlan {
	width, height := StripSize(n)
	plan := StripPlan{
		Width:    width,
		Cells:    make([]image.Rectangle, 0, n),
		DateText: dateText,
	}
	if caption != "" {
		plan.CaptionLines = WrapText(caption, float64(width-TextMargin), measure)
	}
	height += footerHeight(len(plan.CaptionLines)) - FooterHeight
	plan.Height = height

	for i := 0; i < n; i++ {
		col, row := i%Columns, i/Columns
		x := Padding + col*(CellWidth+Gap)
		y := Padding + row*(CellHeight+Gap)
		plan.Cells = append(plan.Cells, image.Rect(x, y, x+CellWidth, y+CellHeight))
	}

	footerTop := height - footerHeight(len(plan.CaptionLines))
	plan.DateBaseline = footerTop + dateOffset

	for i := range plan.CaptionLines {
		plan.CaptionBaselines = append(plan.CaptionBaselines, footerTop+captionOffset+i*LineHeight)
	}

	return plan
}

// StripRenderer собирает снимки в фотополоску.
type StripRenderer struct {
	DateLayout string
	Random     Random
}

// NewStripRenderer создаёт рендерер. Пустой dateLayout заменяется DefaultDateLayout,
// nil-генератор - SystemRandom.
func NewStripRenderer(dateLayout string, rnd Random) *StripRenderer {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	if rnd == nil {
		rnd = SystemRandom{}
	}
	return &StripRenderer{DateLayout: dateLayout, Random: rnd}
}

// Render рисует фотополоску. Раскладка зависит только от входных данных,
// зерно и шум случайны.
func (r *StripRenderer) Render(captures []entity.CapturedImage, caption string, at time.Time) (*image.RGBA, StripPlan, error) {
	images := make([]image.Image, 0, len(captures))
	for _, c := range captures {
		img, err := DecodeFrame(c.ImageData)
		if err != nil {
			return nil, StripPlan{}, fmt.Errorf("capture %s: %w", c.ID, err)
		}
		images = append(images, img)
	}

	dateFace, err := newFace(parseMono, dateFontSize)
	if err != nil {
		return nil, StripPlan{}, err
	}
	defer dateFace.Close()

	captionFace, err := newFace(parseRegular, captionFontSize)
	if err != nil {
		return nil, StripPlan{}, err
	}
	defer captionFace.Close()

	plan := PlanStrip(len(images), at.Format(r.DateLayout), caption, measureWith(captionFace))

	canvas := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(paperColor), image.Point{}, draw.Src)
	stipple(canvas, r.Random, grainColor)

	for i, img := range images {
		cell := plan.Cells[i]
		draw.Draw(canvas, cell.Add(image.Pt(ShadowOffset, ShadowOffset)), image.NewUniform(shadowColor), image.Point{}, draw.Src)
		draw.CatmullRom.Scale(canvas, cell, img, img.Bounds(), draw.Src, nil)
		strokeRect(canvas, cell, borderColor)
	}

	centerX := plan.Width / 2
	drawCentered(canvas, dateFace, plan.DateText, centerX, plan.DateBaseline, inkColor)
	for i, line := range plan.CaptionLines {
		drawCentered(canvas, captionFace, line, centerX, plan.CaptionBaselines[i], inkColor)
	}

	vignette(canvas, vignetteEdge)
	stipple(canvas, r.Random, dustColor)

	return canvas, plan, nil
}

// EncodeStrip кодирует готовый холст в PNG.
func EncodeStrip(img image.Image) ([]byte, error) {
	return encodePNG(img)
}

// strokeRect обводит прямоугольник рамкой толщиной 1px снаружи.
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	src := image.NewUniform(col)
	outer := r.Inset(-1)
	edges := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, r.Min.Y),
		image.Rect(outer.Min.X, r.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, r.Min.Y, r.Min.X, r.Max.Y),
		image.Rect(r.Max.X, r.Min.Y, outer.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}
