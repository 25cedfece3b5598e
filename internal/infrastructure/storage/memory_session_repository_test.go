package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"retro-booth/internal/domain/port"
)

func TestMemorySessionRepository_GetCreatesOnce(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	first, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Same(t, first, second)

	other, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

func TestMemorySessionRepository_ConcurrentGet(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]any, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, _ := repo.Get(ctx, "shared")
			got[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		require.Same(t, got[0], s)
	}
}

func TestMemorySessionRepository_Delete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	first, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "a"))

	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotSame(t, first, again)
}

func TestMemorySessionRepository_FindDoesNotCreate(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Find(ctx, "a")
	require.ErrorIs(t, err, port.ErrSessionNotFound)
	_, err = repo.Find(ctx, "a")
	require.ErrorIs(t, err, port.ErrSessionNotFound)

	created, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	found, err := repo.Find(ctx, "a")
	require.NoError(t, err)
	require.Same(t, created, found)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Find(ctx, "a")
	require.ErrorIs(t, err, port.ErrSessionNotFound)
}
