package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "retro-booth/internal/application"
	"retro-booth/internal/container"
	"retro-booth/internal/domain/entity"
	"retro-booth/internal/infrastructure/vision"
)

const (
	msgStart = `📸 Привет! Я ретро-фотобудка.

Пришлите фото или нажмите /snap, чтобы снять кадр с камеры. Я применю фильтр и соберу снимки в фотополоску.

📋 Команды:
/filters — выбрать фильтр
/snap — снимок с камеры (3… 2… 1…)
/caption — придумать подпись к последнему снимку
/strip — собрать фотополоску
/reset — начать заново
/help — справка`

	msgHelp = `ℹ️ Как пользоваться фотобудкой:

1️⃣ Выберите фильтр через /filters
2️⃣ Пришлите несколько фото или снимите их командой /snap
3️⃣ По желанию попросите подпись — /caption
4️⃣ Заберите фотополоску — /strip

/reset очищает снимки и подпись.`

	msgChooseFilter      = "🎞 Выберите фильтр:"
	msgUnknownFilter     = "❓ Такого фильтра нет. Список: /filters"
	msgUnknownCommand    = "❓ Неизвестная команда. Используйте /help для справки."
	msgSendPhoto         = "📸 Пришлите фото или используйте /snap."
	msgNoCamera          = "📷 Камера недоступна. Пришлите фото вместо снимка."
	msgCountdownBusy     = "⏳ Обратный отсчёт уже идёт."
	msgNoCaptures        = "🖼 Пока нет ни одного снимка."
	msgCaptionBusy       = "⏳ Подпись уже придумывается."
	msgCaptionThinking   = "✍️ Придумываю подпись..."
	msgResetDone         = "🧹 Снимки и подпись удалены."
	msgProcessingError   = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgStripError        = "⚠️ Не удалось собрать фотополоску."
	callbackFilterPrefix = "filter:"
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case update.CallbackQuery != nil:
				b.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil:
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

// sessionID - у каждого чата своя фотобудка
func sessionID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "filters":
		b.sendFilterKeyboard(ctx, chatID)

	case "filter":
		b.selectFilter(ctx, chatID, strings.TrimSpace(msg.CommandArguments()))

	case "snap":
		// Отсчёт занимает несколько секунд, не блокируем цикл обновлений
		go b.snap(ctx, chatID)

	case "caption":
		go b.caption(ctx, chatID)

	case "strip":
		b.strip(ctx, chatID)

	case "reset":
		if err := b.container.BoothService.Reset(ctx, sessionID(chatID)); err != nil {
			log.Printf("Error resetting session: %v", err)
			return
		}
		b.sendMessage(chatID, msgResetDone)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleCallback обрабатывает нажатия на кнопки фильтров
func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil || !strings.HasPrefix(q.Data, callbackFilterPrefix) {
		return
	}

	name := strings.TrimPrefix(q.Data, callbackFilterPrefix)
	f, err := b.container.BoothService.SelectFilter(ctx, sessionID(q.Message.Chat.ID), name)
	text := "✅ " + f.DisplayLabel
	if err != nil {
		text = msgUnknownFilter
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// handlePhoto снимает кадр с присланного фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	frame, err := vision.NewStillFrame(imageData)
	if err != nil {
		log.Printf("Error decoding photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	img, err := b.container.BoothService.Capture(ctx, sessionID(msg.Chat.ID), frame)
	if err != nil {
		log.Printf("Error capturing photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	b.sendCapture(ctx, msg.Chat.ID, img)
}

func (b *Bot) snap(ctx context.Context, chatID int64) {
	if b.container.Camera == nil {
		b.sendMessage(chatID, msgNoCamera)
		return
	}

	img, err := b.container.BoothService.CaptureWithCountdown(ctx, sessionID(chatID), b.container.Camera, func(n int) {
		b.sendMessage(chatID, fmt.Sprintf("%d…", n))
	})
	switch {
	case errors.Is(err, entity.ErrCountdownInProgress):
		b.sendMessage(chatID, msgCountdownBusy)
	case err != nil:
		log.Printf("Error capturing from camera: %v", err)
		b.sendMessage(chatID, msgProcessingError)
	case img == nil:
		b.sendMessage(chatID, msgNoCamera)
	default:
		b.sendCapture(ctx, chatID, img)
	}
}

func (b *Bot) caption(ctx context.Context, chatID int64) {
	b.sendMessage(chatID, msgCaptionThinking)

	text, err := b.container.CaptionService.RequestCaption(ctx, sessionID(chatID))
	switch {
	case errors.Is(err, app.ErrNoCaptures):
		b.sendMessage(chatID, msgNoCaptures)
	case errors.Is(err, entity.ErrCaptionPending):
		b.sendMessage(chatID, msgCaptionBusy)
	case err != nil:
		log.Printf("Error requesting caption: %v", err)
	default:
		b.sendMessage(chatID, "💬 "+text)
	}
}

func (b *Bot) strip(ctx context.Context, chatID int64) {
	sink := b.container.Sink(&documentSink{api: b.api, chatID: chatID})
	if _, err := b.container.ExportService.Export(ctx, sessionID(chatID), sink); err != nil {
		log.Printf("Error exporting strip: %v", err)
		b.sendMessage(chatID, msgStripError)
	}
}

func (b *Bot) selectFilter(ctx context.Context, chatID int64, name string) {
	if name == "" {
		b.sendFilterKeyboard(ctx, chatID)
		return
	}

	f, err := b.container.BoothService.SelectFilter(ctx, sessionID(chatID), name)
	if err != nil {
		b.sendMessage(chatID, msgUnknownFilter)
		return
	}
	b.sendMessage(chatID, "✅ Фильтр: "+f.DisplayLabel)
}

func (b *Bot) sendFilterKeyboard(ctx context.Context, chatID int64) {
	session, err := b.container.BoothService.Session(ctx, sessionID(chatID))
	if err != nil {
		log.Printf("Error getting session: %v", err)
		return
	}
	current := session.Filter().Name

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entity.Filters()))
	for _, f := range entity.Filters() {
		label := f.DisplayLabel
		if f.Name == current {
			label = "• " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackFilterPrefix+f.Name),
		))
	}

	msg := tgbotapi.NewMessage(chatID, msgChooseFilter)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendCapture показывает снимок и число кадров в сессии
func (b *Bot) sendCapture(ctx context.Context, chatID int64, img *entity.CapturedImage) {
	if img == nil {
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	count := 0
	if session, err := b.container.BoothService.Session(ctx, sessionID(chatID)); err == nil {
		count = len(session.Captures())
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: img.ID + ".png", Bytes: img.ImageData})
	photo.Caption = fmt.Sprintf("Кадр №%d · %s", count, img.FilterName)
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
