package port

import (
	"context"
	"errors"

	"retro-booth/internal/domain/entity"
)

// ErrSessionNotFound - сессии с таким ID нет.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	// Get возвращает сессию по ID, создаёт новую если не найдена
	Get(ctx context.Context, sessionID string) (*entity.Session, error)

	// Find возвращает существующую сессию или ErrSessionNotFound
	Find(ctx context.Context, sessionID string) (*entity.Session, error)

	// Delete удаляет сессию
	Delete(ctx context.Context, sessionID string) error
}
