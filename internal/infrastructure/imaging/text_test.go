package imaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// tenPerRune - моноширинная метрика: 10 единиц на символ.
func tenPerRune(s string) float64 {
	return float64(len([]rune(s)) * 10)
}

func TestWrapText_ThreeWordsPerLine(t *testing.T) {
	lines := WrapText("The quick brown fox jumps over the lazy dog", 160, tenPerRune)
	require.Equal(t, []string{"The quick brown", "fox jumps over", "the lazy dog"}, lines)
}

func TestWrapText_NeverSplitsWords(t *testing.T) {
	lines := WrapText("a supercalifragilistic word", 50, tenPerRune)
	require.Equal(t, []string{"a", "supercalifragilistic", "word"}, lines)

	joined := strings.Join(lines, " ")
	require.Equal(t, "a supercalifragilistic word", joined)
}

func TestWrapText_CollapsesWhitespace(t *testing.T) {
	lines := WrapText("  hello   retro\tbooth ", 1000, tenPerRune)
	require.Equal(t, []string{"hello retro booth"}, lines)
}

func TestWrapText_Empty(t *testing.T) {
	require.Empty(t, WrapText("", 100, tenPerRune))
	require.Empty(t, WrapText("   ", 100, tenPerRune))
}

func TestWrapText_RealFace(t *testing.T) {
	face, err := newFace(parseRegular, captionFontSize)
	require.NoError(t, err)
	defer face.Close()

	measure := measureWith(face)
	expected := []string{"The quick brown", "fox jumps over", "the lazy dog"}
	width := 0.0
	for _, l := range expected {
		width = max(width, measure(l))
	}
	width++
	require.Greater(t, measure("The quick brown fox"), width)
	require.Greater(t, measure("fox jumps over the"), width)

	lines := WrapText("The quick brown fox jumps over the lazy dog", width, measure)
	require.Equal(t, expected, lines)
}
