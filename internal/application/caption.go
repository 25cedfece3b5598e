package app

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"retro-booth/internal/domain/entity"
	"retro-booth/internal/domain/port"
)

// CaptionService запрашивает подписи к последнему снимку.
type CaptionService struct {
	sessions  port.SessionRepository
	captioner port.Captioner
	timeout   time.Duration
	// ограничивает число одновременных запросов к внешнему сервису
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewCaptionService создаёт сервис подписей. captioner может быть nil:
// тогда всегда возвращается заглушка.
func NewCaptionService(sessions port.SessionRepository, captioner port.Captioner, concurrency int, timeout time.Duration) *CaptionService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &CaptionService{
		sessions:  sessions,
		captioner: captioner,
		timeout:   timeout,
		sem:       semaphore.NewWeighted(int64(concurrency)),
	}
}

// RequestCaption запрашивает подпись и ждёт результата.
// Ошибки сервиса не возвращаются: вместо них сохраняется FallbackCaption.
func (s *CaptionService) RequestCaption(ctx context.Context, sessionID string) (string, error) {
	session, latest, generation, err := s.begin(ctx, sessionID)
	if err != nil {
		return "", err
	}

	text := s.generate(ctx, latest.ImageData)
	session.SetCaption(generation, text)
	return text, nil
}

// StartCaption запускает запрос в фоне. Результат доступен через Caption.
func (s *CaptionService) StartCaption(ctx context.Context, sessionID string) error {
	session, latest, generation, err := s.begin(ctx, sessionID)
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		text := s.generate(bg, latest.ImageData)
		session.SetCaption(generation, text)
	}()

	return nil
}

// Caption возвращает текущее состояние подписи.
func (s *CaptionService) Caption(ctx context.Context, sessionID string) (entity.Caption, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return entity.Caption{}, err
	}
	return session.Caption(), nil
}

// Wait дожидается завершения фоновых запросов.
func (s *CaptionService) Wait() {
	s.wg.Wait()
}

func (s *CaptionService) begin(ctx context.Context, sessionID string) (*entity.Session, entity.CapturedImage, uint64, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, entity.CapturedImage{}, 0, err
	}

	latest, ok := session.Latest()
	if !ok {
		return nil, entity.CapturedImage{}, 0, ErrNoCaptures
	}

	generation, err := session.BeginCaption()
	if err != nil {
		return nil, entity.CapturedImage{}, 0, err
	}
	return session, latest, generation, nil
}

func (s *CaptionService) generate(ctx context.Context, png []byte) string {
	if s.captioner == nil {
		return entity.FallbackCaption
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		log.Printf("Caption request not started: %v", err)
		return entity.FallbackCaption
	}
	defer s.sem.Release(1)

	text, err := s.captioner.Caption(ctx, png)
	if err != nil {
		log.Printf("Caption request failed: %v", err)
		return entity.FallbackCaption
	}
	return text
}
