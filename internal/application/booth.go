package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retro-booth/internal/domain/entity"
	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/imaging"
)

// ErrNoCaptures - в сессии нет ни одного снимка.
var ErrNoCaptures = errors.New("no captures in session")

// CountdownFrom - с какого числа начинается обратный отсчёт.
const CountdownFrom = 3

// BoothService управляет съёмкой и состоянием сессий.
type BoothService struct {
	sessions port.SessionRepository
	random   imaging.Random
	tick     time.Duration
	now      func() time.Time
}

// NewBoothService создаёт сервис съёмки. tick - длительность одного шага
// обратного отсчёта.
func NewBoothService(sessions port.SessionRepository, random imaging.Random, tick time.Duration) *BoothService {
	if random == nil {
		random = imaging.SystemRandom{}
	}
	return &BoothService{
		sessions: sessions,
		random:   random,
		tick:     tick,
		now:      time.Now,
	}
}

// Session возвращает сессию, создавая её при необходимости.
func (s *BoothService) Session(ctx context.Context, sessionID string) (*entity.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Lookup возвращает уже существующую сессию или port.ErrSessionNotFound.
func (s *BoothService) Lookup(ctx context.Context, sessionID string) (*entity.Session, error) {
	return s.sessions.Find(ctx, sessionID)
}

// SelectFilter выбирает фильтр для следующих снимков.
func (s *BoothService) SelectFilter(ctx context.Context, sessionID, name string) (entity.FilterDescriptor, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return entity.FilterDescriptor{}, err
	}
	return session.SelectFilter(name)
}

// Capture снимает кадр с src и добавляет его в конец коллекции.
// Если источника нет или кадр недоступен, ничего не происходит:
// возвращается nil без ошибки.
func (s *BoothService) Capture(ctx context.Context, sessionID string, src port.FrameSource) (*entity.CapturedImage, error) {
	if src == nil {
		return nil, nil
	}

	frame, err := src.CurrentFrame(ctx)
	if err != nil || frame == nil {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	filter := session.Filter()
	data, err := imaging.CaptureFrame(frame, filter, s.random)
	if err != nil {
		return nil, fmt.Errorf("capture frame: %w", err)
	}

	img := entity.NewCapturedImage(data, filter.Name, s.now())
	session.AddCapture(img)

	return &img, nil
}

// CaptureWithCountdown отсчитывает 3, 2, 1 и делает снимок.
// Пока идёт отсчёт, повторный запуск в той же сессии отклоняется.
func (s *BoothService) CaptureWithCountdown(ctx context.Context, sessionID string, src port.FrameSource, onTick func(n int)) (*entity.CapturedImage, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.BeginCountdown(); err != nil {
		return nil, err
	}
	defer session.EndCountdown()

	for n := CountdownFrom; n > 0; n-- {
		if onTick != nil {
			onTick(n)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.tick):
		}
	}

	return s.Capture(ctx, sessionID, src)
}

// Reset очищает снимки и подпись сессии.
func (s *BoothService) Reset(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	return nil
}

// End завершает сессию: очищает её и удаляет из хранилища.
// Подпись, которая придёт позже, будет отброшена.
func (s *BoothService) End(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	return s.sessions.Delete(ctx, sessionID)
}
