package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"retro-booth/internal/domain/port"
)

// documentSink отправляет фотополоску в чат файлом
type documentSink struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func (s *documentSink) Deliver(ctx context.Context, sessionID, filename string, data []byte) error {
	_ = ctx
	_ = sessionID

	doc := tgbotapi.NewDocument(s.chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := s.api.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

var _ port.DownloadSink = (*documentSink)(nil)
