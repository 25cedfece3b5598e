package storage

import (
	"context"
	"sync"

	"retro-booth/internal/domain/entity"
	"retro-booth/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий.
// Между перезапусками ничего не сохраняется.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// Get возвращает сессию по ID, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[sessionID]
	r.mu.RUnlock()

	if exists {
		return session, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Повторная проверка: сессию могли создать, пока мы ждали блокировку
	if session, exists := r.sessions[sessionID]; exists {
		return session, nil
	}
	session = entity.NewSession(sessionID)
	r.sessions[sessionID] = session

	return session, nil
}

// Find возвращает сессию, не создавая новую
func (r *MemorySessionRepository) Find(ctx context.Context, sessionID string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[sessionID]
	if !exists {
		return nil, port.ErrSessionNotFound
	}
	return session, nil
}

// Delete удаляет сессию
func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
