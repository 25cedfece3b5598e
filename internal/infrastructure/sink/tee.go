package sink

import (
	"context"
	"errors"

	"retro-booth/internal/domain/port"
)

// Tee отдаёт файл во все приёмники по очереди.
type Tee []port.DownloadSink

// Deliver вызывает все приёмники и собирает ошибки.
func (t Tee) Deliver(ctx context.Context, sessionID, filename string, data []byte) error {
	var errs []error
	for _, s := range t {
		if s == nil {
			continue
		}
		if err := s.Deliver(ctx, sessionID, filename, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.DownloadSink = Tee(nil)
