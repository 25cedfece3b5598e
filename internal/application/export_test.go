package app

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"retro-booth/internal/infrastructure/imaging"
)

var stripName = regexp.MustCompile(`^retro-booth-(\d+)\.png$`)

type memorySink struct {
	sessionID string
	filename  string
	data      []byte
	err       error
}

func (m *memorySink) Deliver(ctx context.Context, sessionID, filename string, data []byte) error {
	m.sessionID, m.filename, m.data = sessionID, filename, data
	return m.err
}

func newTestExport(t *testing.T) (*ExportService, *BoothService) {
	t.Helper()
	booth, repo := newTestBooth()
	renderer := imaging.NewStripRenderer("", rand.New(rand.NewSource(2)))
	return NewExportService(repo, renderer), booth
}

func millisOf(t *testing.T, filename string) int64 {
	t.Helper()
	m := stripName.FindStringSubmatch(filename)
	require.NotNil(t, m, filename)
	v, err := strconv.ParseInt(m[1], 10, 64)
	require.NoError(t, err)
	return v
}

func TestExportService_EmptySession(t *testing.T) {
	svc, _ := newTestExport(t)
	sink := &memorySink{}

	strip, err := svc.Export(context.Background(), "empty", sink)
	require.NoError(t, err)

	_, minHeight := imaging.StripSize(0)
	require.Equal(t, minHeight, strip.Height)

	img, err := imaging.DecodeFrame(strip.Data)
	require.NoError(t, err)
	require.Equal(t, minHeight, img.Bounds().Dy())
	require.Equal(t, strip.Width, img.Bounds().Dx())

	require.Equal(t, "empty", sink.sessionID)
	require.Equal(t, strip.Filename, sink.filename)
	require.Equal(t, strip.Data, sink.data)
}

func TestExportService_GrowsWithCaptures(t *testing.T) {
	svc, booth := newTestExport(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := booth.Capture(ctx, "s", testFrame())
		require.NoError(t, err)
	}

	strip, err := svc.Export(ctx, "s", nil)
	require.NoError(t, err)

	_, h := imaging.StripSize(5)
	require.Equal(t, h, strip.Height)
}

func TestExportService_FilenameNonDecreasing(t *testing.T) {
	svc, _ := newTestExport(t)
	ctx := context.Background()

	times := []time.Time{
		time.UnixMilli(2_000),
		time.UnixMilli(1_000), // часы ушли назад
		time.UnixMilli(3_000),
	}
	var got []int64
	for _, now := range times {
		now := now
		svc.now = func() time.Time { return now }

		strip, err := svc.Export(ctx, "s", nil)
		require.NoError(t, err)
		got = append(got, millisOf(t, strip.Filename))
	}

	require.Equal(t, []int64{2_000, 2_000, 3_000}, got)
}

func TestExportService_SinkError(t *testing.T) {
	svc, _ := newTestExport(t)

	_, err := svc.Export(context.Background(), "s", &memorySink{err: errors.New("closed")})
	require.ErrorContains(t, err, "closed")
}

func TestStripFilename(t *testing.T) {
	require.Equal(t, "retro-booth-1760000000000.png", StripFilename(1760000000000))
}
