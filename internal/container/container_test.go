package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"retro-booth/internal/infrastructure/sink"
	"retro-booth/internal/infrastructure/storage"
)

type nopSink struct{}

func (nopSink) Deliver(ctx context.Context, sessionID, filename string, data []byte) error {
	return nil
}

func TestNew_WiresServices(t *testing.T) {
	c := New(storage.NewMemorySessionRepository(), nil, nil, nil, Options{})
	require.NotNil(t, c.BoothService)
	require.NotNil(t, c.ExportService)
	require.NotNil(t, c.CaptionService)
	require.Nil(t, c.Camera)
}

func TestContainer_Sink(t *testing.T) {
	primary := nopSink{}

	c := New(storage.NewMemorySessionRepository(), nil, nil, nil, Options{})
	require.Equal(t, primary, c.Sink(primary))

	archive, err := sink.NewDirectory(t.TempDir())
	require.NoError(t, err)
	c = New(storage.NewMemorySessionRepository(), nil, nil, archive, Options{})
	require.Equal(t, archive, c.Sink(nil))
	require.IsType(t, sink.Tee{}, c.Sink(primary))
}
