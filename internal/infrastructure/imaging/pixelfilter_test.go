package imaging

import (
	"testing"

	"github.com/stretchr/testify/require"

	"retro-booth/internal/domain/entity"
)

func TestCompilePixelFilter_Identity(t *testing.T) {
	for _, expr := range []string{"", "none", "  none  "} {
		pf, err := CompilePixelFilter(expr)
		require.NoError(t, err)
		require.True(t, pf.IsIdentity())

		r, g, b := pf.Apply(0.1, 0.5, 0.9)
		require.Equal(t, []float64{0.1, 0.5, 0.9}, []float64{r, g, b})
	}
}

func TestCompilePixelFilter_AllDescriptorsCompile(t *testing.T) {
	for _, f := range entity.Filters() {
		_, err := CompilePixelFilter(f.PixelFilterExpression)
		require.NoError(t, err, f.Name)
	}
}

func TestCompilePixelFilter_Grayscale(t *testing.T) {
	pf, err := CompilePixelFilter("grayscale(100%)")
	require.NoError(t, err)

	r, g, b := pf.Apply(0.8, 0.2, 0.4)
	require.InDelta(t, r, g, 1e-9)
	require.InDelta(t, g, b, 1e-9)
	require.InDelta(t, 0.2126*0.8+0.7152*0.2+0.0722*0.4, r, 1e-9)
}

func TestCompilePixelFilter_SepiaClampsWhite(t *testing.T) {
	pf, err := CompilePixelFilter("sepia(1)")
	require.NoError(t, err)

	r, g, b := pf.Apply(1, 1, 1)
	require.Equal(t, 1.0, r)
	require.InDelta(t, 1.0, g, 1e-9)
	require.InDelta(t, 0.937, b, 1e-9)
}

func TestCompilePixelFilter_BrightnessContrast(t *testing.T) {
	pf, err := CompilePixelFilter("brightness(50%) contrast(2)")
	require.NoError(t, err)

	// 0.6*0.5 = 0.3, (0.3-0.5)*2+0.5 = 0.1
	r, _, _ := pf.Apply(0.6, 0.6, 0.6)
	require.InDelta(t, 0.1, r, 1e-9)
}

func TestCompilePixelFilter_HueRotateFullTurn(t *testing.T) {
	pf, err := CompilePixelFilter("hue-rotate(1turn)")
	require.NoError(t, err)

	r, g, b := pf.Apply(0.7, 0.3, 0.1)
	require.InDelta(t, 0.7, r, 1e-6)
	require.InDelta(t, 0.3, g, 1e-6)
	require.InDelta(t, 0.1, b, 1e-6)
}

func TestCompilePixelFilter_Errors(t *testing.T) {
	cases := []string{
		"blur(2px)",
		"sepia(",
		"sepia(abc)",
		"brightness(-1)",
		"hue-rotate(10)",
		"(50%)",
	}
	for _, expr := range cases {
		_, err := CompilePixelFilter(expr)
		require.Error(t, err, expr)
	}
}
