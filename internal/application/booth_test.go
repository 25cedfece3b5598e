package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"retro-booth/internal/domain/entity"
	"retro-booth/internal/domain/port"
)

func TestBoothService_CaptureAppendsOne(t *testing.T) {
	svc, _ := newTestBooth()
	ctx := context.Background()

	first, err := svc.Capture(ctx, "s", testFrame())
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, entity.FilterNormal, first.FilterName)

	_, err = svc.SelectFilter(ctx, "s", "sepia")
	require.NoError(t, err)

	session, err := svc.Session(ctx, "s")
	require.NoError(t, err)
	before := session.Captures()

	second, err := svc.Capture(ctx, "s", testFrame())
	require.NoError(t, err)
	require.Equal(t, "sepia", second.FilterName)

	after := session.Captures()
	require.Len(t, after, len(before)+1)
	require.Equal(t, before, after[:len(before)])
	require.Equal(t, *second, after[len(after)-1])
	require.NotEmpty(t, second.ImageData)
}

func TestBoothService_CaptureWithoutSourceIsNoop(t *testing.T) {
	svc, _ := newTestBooth()
	ctx := context.Background()

	_, err := svc.Capture(ctx, "s", testFrame())
	require.NoError(t, err)

	img, err := svc.Capture(ctx, "s", nil)
	require.NoError(t, err)
	require.Nil(t, img)

	img, err = svc.Capture(ctx, "s", missingFrame{})
	require.NoError(t, err)
	require.Nil(t, img)

	session, err := svc.Session(ctx, "s")
	require.NoError(t, err)
	require.Len(t, session.Captures(), 1)
}

func TestBoothService_SelectUnknownFilter(t *testing.T) {
	svc, _ := newTestBooth()

	_, err := svc.SelectFilter(context.Background(), "s", "neon")
	require.ErrorIs(t, err, entity.ErrUnknownFilter)
}

func TestBoothService_CountdownTicksThenCaptures(t *testing.T) {
	svc, _ := newTestBooth()
	svc.tick = time.Millisecond

	var ticks []int
	img, err := svc.CaptureWithCountdown(context.Background(), "s", testFrame(), func(n int) {
		ticks = append(ticks, n)
	})
	require.NoError(t, err)
	require.NotNil(t, img)
	require.Equal(t, []int{3, 2, 1}, ticks)
}

func TestBoothService_CountdownIsNotReentrant(t *testing.T) {
	svc, _ := newTestBooth()
	svc.tick = 20 * time.Millisecond
	ctx := context.Background()

	started := make(chan struct{})
	var once sync.Once
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.CaptureWithCountdown(ctx, "s", testFrame(), func(int) {
			once.Do(func() { close(started) })
		})
	}()

	<-started
	_, err := svc.CaptureWithCountdown(ctx, "s", testFrame(), nil)
	require.ErrorIs(t, err, entity.ErrCountdownInProgress)

	// В другой сессии отсчёт не блокируется
	other, err := svc.Session(ctx, "other")
	require.NoError(t, err)
	require.NoError(t, other.BeginCountdown())
	other.EndCountdown()

	wg.Wait()

	session, err := svc.Session(ctx, "s")
	require.NoError(t, err)
	require.Len(t, session.Captures(), 1)

	_, err = svc.CaptureWithCountdown(ctx, "s", testFrame(), nil)
	require.NoError(t, err)
}

func TestBoothService_CountdownCancelled(t *testing.T) {
	svc, _ := newTestBooth()
	svc.tick = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.CaptureWithCountdown(ctx, "s", testFrame(), func(int) { cancel() })
	require.ErrorIs(t, err, context.Canceled)

	session, err := svc.Session(context.Background(), "s")
	require.NoError(t, err)
	require.Empty(t, session.Captures())
	require.NoError(t, session.BeginCountdown())
}

func TestBoothService_Reset(t *testing.T) {
	svc, _ := newTestBooth()
	ctx := context.Background()

	_, err := svc.Capture(ctx, "s", testFrame())
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "s"))

	session, err := svc.Session(ctx, "s")
	require.NoError(t, err)
	require.Empty(t, session.Captures())
}

func TestBoothService_End(t *testing.T) {
	svc, repo := newTestBooth()
	ctx := context.Background()

	_, err := svc.Capture(ctx, "s", testFrame())
	require.NoError(t, err)
	session, err := svc.Lookup(ctx, "s")
	require.NoError(t, err)
	gen, err := session.BeginCaption()
	require.NoError(t, err)

	require.NoError(t, svc.End(ctx, "s"))

	_, err = repo.Find(ctx, "s")
	require.ErrorIs(t, err, port.ErrSessionNotFound)
	require.Empty(t, session.Captures())
	require.False(t, session.SetCaption(gen, "late"))

	require.ErrorIs(t, svc.End(ctx, "s"), port.ErrSessionNotFound)
	_, err = svc.Lookup(ctx, "missing")
	require.ErrorIs(t, err, port.ErrSessionNotFound)
}
