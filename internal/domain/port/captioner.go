package port

import "context"

// Captioner интерфейс сервиса подписей
type Captioner interface {
	// Caption генерирует короткую подпись к PNG-изображению
	Caption(ctx context.Context, png []byte) (string, error)
}
