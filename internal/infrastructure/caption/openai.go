package caption

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"retro-booth/internal/domain/port"
)

const captionPrompt = "You are a cheeky retro photobooth. Write one short, fun caption " +
	"(at most 10 words) for this photo strip picture. Reply with the caption only, no quotes."

// maxCaptionWords ограничивает длину подписи, даже если модель разговорилась.
const maxCaptionWords = 10

// Config настройки OpenAI-совместимого API
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// OpenAICaptioner генерирует подписи через vision-модель.
type OpenAICaptioner struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAICaptioner создаёт клиента. BaseURL позволяет подключить
// любой OpenAI-совместимый сервис.
func NewOpenAICaptioner(cfg Config) (*OpenAICaptioner, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 40
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAICaptioner{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Caption отправляет PNG в модель и возвращает подпись.
func (c *OpenAICaptioner) Caption(ctx context.Context, png []byte) (string, error) {
	if len(png) == 0 {
		return "", errors.New("empty image")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: captionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}

	text := cleanCaption(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty caption")
	}
	return text, nil
}

// cleanCaption убирает кавычки и лишние слова.
func cleanCaption(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'“”«»")
	words := strings.Fields(s)
	if len(words) > maxCaptionWords {
		words = words[:maxCaptionWords]
	}
	return strings.Join(words, " ")
}

var _ port.Captioner = (*OpenAICaptioner)(nil)
