package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"retro-booth/internal/domain/entity"
	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/imaging"
)

// StripFilename возвращает имя файла фотополоски.
func StripFilename(epochMillis int64) string {
	return fmt.Sprintf("retro-booth-%d.png", epochMillis)
}

// ExportService собирает фотополоски и отдаёт их в приёмник.
type ExportService struct {
	sessions port.SessionRepository
	renderer *imaging.StripRenderer
	now      func() time.Time

	mu         sync.Mutex
	lastMillis int64
}

// NewExportService создаёт сервис экспорта
func NewExportService(sessions port.SessionRepository, renderer *imaging.StripRenderer) *ExportService {
	if renderer == nil {
		renderer = imaging.NewStripRenderer("", nil)
	}
	return &ExportService{
		sessions: sessions,
		renderer: renderer,
		now:      time.Now,
	}
}

// Export рисует фотополоску из снимков сессии и, если sink задан,
// передаёт её туда. Пустая сессия даёт полоску минимального размера.
func (s *ExportService) Export(ctx context.Context, sessionID string, sink port.DownloadSink) (*entity.Strip, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	captures := session.Captures()
	var caption string
	if c := session.Caption(); c.State == entity.CaptionResolved {
		caption = c.Text
	}

	now := s.now()
	img, plan, err := s.renderer.Render(captures, caption, now)
	if err != nil {
		return nil, fmt.Errorf("render strip: %w", err)
	}

	data, err := imaging.EncodeStrip(img)
	if err != nil {
		return nil, err
	}

	strip := &entity.Strip{
		Filename: StripFilename(s.stamp(now)),
		Data:     data,
		Width:    plan.Width,
		Height:   plan.Height,
	}

	if sink != nil {
		if err := sink.Deliver(ctx, sessionID, strip.Filename, strip.Data); err != nil {
			return nil, fmt.Errorf("deliver strip: %w", err)
		}
	}

	return strip, nil
}

// stamp возвращает метку времени для имени файла, не меньше предыдущей.
func (s *ExportService) stamp(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	millis := now.UnixMilli()
	if millis < s.lastMillis {
		millis = s.lastMillis
	}
	s.lastMillis = millis
	return millis
}
