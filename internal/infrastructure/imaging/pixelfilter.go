package imaging

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PixelFilter - скомпилированная цепочка операций над цветом.
// Каналы задаются в диапазоне [0,1], после каждой операции значения обрезаются.
type PixelFilter struct {
	ops []colorOp
}

type colorOp func(r, g, b float64) (float64, float64, float64)

// CompilePixelFilter разбирает выражение вида
// "sepia(50%) contrast(120%) hue-rotate(-10deg)".
// Пустая строка и "none" дают тождественный фильтр.
func CompilePixelFilter(expr string) (PixelFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "none" {
		return PixelFilter{}, nil
	}

	var pf PixelFilter
	rest := expr
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open <= 0 || closing < open {
			return PixelFilter{}, fmt.Errorf("parse filter %q: malformed function near %q", expr, rest)
		}

		name := strings.TrimSpace(rest[:open])
		arg := strings.TrimSpace(rest[open+1 : closing])
		op, err := compileOp(name, arg)
		if err != nil {
			return PixelFilter{}, fmt.Errorf("parse filter %q: %w", expr, err)
		}
		pf.ops = append(pf.ops, op)

		rest = strings.TrimSpace(rest[closing+1:])
	}

	return pf, nil
}

// IsIdentity сообщает, что фильтр ничего не меняет.
func (pf PixelFilter) IsIdentity() bool {
	return len(pf.ops) == 0
}

// Apply применяет цепочку к цвету.
func (pf PixelFilter) Apply(r, g, b float64) (float64, float64, float64) {
	for _, op := range pf.ops {
		r, g, b = op(r, g, b)
		r, g, b = clamp01(r), clamp01(g), clamp01(b)
	}
	return r, g, b
}

func compileOp(name, arg string) (colorOp, error) {
	switch name {
	case "grayscale":
		a, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		a = clamp01(a)
		return matrixOp(grayscaleMatrix(a)), nil
	case "sepia":
		a, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		a = clamp01(a)
		return matrixOp(sepiaMatrix(a)), nil
	case "saturate":
		s, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		return matrixOp(saturateMatrix(s)), nil
	case "hue-rotate":
		rad, err := parseAngle(arg)
		if err != nil {
			return nil, err
		}
		return matrixOp(hueRotateMatrix(rad)), nil
	case "brightness":
		k, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		return func(r, g, b float64) (float64, float64, float64) {
			return r * k, g * k, b * k
		}, nil
	case "contrast":
		k, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		return func(r, g, b float64) (float64, float64, float64) {
			return (r-0.5)*k + 0.5, (g-0.5)*k + 0.5, (b-0.5)*k + 0.5
		}, nil
	case "invert":
		a, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		a = clamp01(a)
		return func(r, g, b float64) (float64, float64, float64) {
			return r + (1-2*r)*a, g + (1-2*g)*a, b + (1-2*b)*a
		}, nil
	case "opacity":
		// Альфа у кадра не меняется: на чёрном фоне прозрачность
		// эквивалентна затемнению.
		a, err := parseAmount(arg, 1)
		if err != nil {
			return nil, err
		}
		a = clamp01(a)
		return func(r, g, b float64) (float64, float64, float64) {
			return r * a, g * a, b * a
		}, nil
	default:
		return nil, fmt.Errorf("unsupported function %q", name)
	}
}

type matrix3 [3][3]float64

func matrixOp(m matrix3) colorOp {
	return func(r, g, b float64) (float64, float64, float64) {
		return m[0][0]*r + m[0][1]*g + m[0][2]*b,
			m[1][0]*r + m[1][1]*g + m[1][2]*b,
			m[2][0]*r + m[2][1]*g + m[2][2]*b
	}
}

// Матрицы из W3C Filter Effects.
func grayscaleMatrix(a float64) matrix3 {
	k := 1 - a
	return matrix3{
		{0.2126 + 0.7874*k, 0.7152 - 0.7152*k, 0.0722 - 0.0722*k},
		{0.2126 - 0.2126*k, 0.7152 + 0.2848*k, 0.0722 - 0.0722*k},
		{0.2126 - 0.2126*k, 0.7152 - 0.7152*k, 0.0722 + 0.9278*k},
	}
}

func sepiaMatrix(a float64) matrix3 {
	k := 1 - a
	return matrix3{
		{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k},
		{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k},
		{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k},
	}
}

func saturateMatrix(s float64) matrix3 {
	return matrix3{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}
}

func hueRotateMatrix(rad float64) matrix3 {
	c, s := math.Cos(rad), math.Sin(rad)
	return matrix3{
		{0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928},
		{0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283},
		{0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072},
	}
}

// parseAmount понимает "1.2", "120%" и пустой аргумент.
func parseAmount(arg string, def float64) (float64, error) {
	if arg == "" {
		return def, nil
	}

	scale := 1.0
	if strings.HasSuffix(arg, "%") {
		arg = strings.TrimSuffix(arg, "%")
		scale = 0.01
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", arg)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %q", arg)
	}
	return v * scale, nil
}

// parseAngle возвращает угол в радианах.
func parseAngle(arg string) (float64, error) {
	if arg == "" || arg == "0" {
		return 0, nil
	}

	units := []struct {
		suffix string
		scale  float64
	}{
		{"deg", math.Pi / 180},
		{"grad", math.Pi / 200},
		{"rad", 1},
		{"turn", 2 * math.Pi},
	}
	for _, u := range units {
		if strings.HasSuffix(arg, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(arg, u.suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid angle %q", arg)
			}
			return v * u.scale, nil
		}
	}
	return 0, fmt.Errorf("invalid angle %q", arg)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
