package port

import "context"

// DownloadSink принимает готовую фотополоску и отдаёт её пользователю
type DownloadSink interface {
	// Deliver сохраняет или отправляет файл
	Deliver(ctx context.Context, sessionID, filename string, data []byte) error
}
