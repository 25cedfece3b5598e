package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "booth.yaml"

type Config struct {
	TelegramToken string `yaml:"-"`
	HTTPAddr      string `yaml:"http_addr"`

	OpenAIKey          string        `yaml:"-"`
	OpenAIBaseURL      string        `yaml:"openai_base_url"`
	CaptionModel       string        `yaml:"caption_model"`
	CaptionTimeout     time.Duration `yaml:"caption_timeout"`
	CaptionConcurrency int           `yaml:"caption_concurrency"`

	CameraDevice  int           `yaml:"camera_device"` // -1 - без камеры
	CountdownTick time.Duration `yaml:"countdown_tick"`
	ArchiveDir    string        `yaml:"archive_dir"`
	DateLayout    string        `yaml:"date_layout"`
}

func defaults() *Config {
	return &Config{
		HTTPAddr:           ":8080",
		CaptionModel:       "gpt-4o-mini",
		CaptionTimeout:     20 * time.Second,
		CaptionConcurrency: 2,
		CameraDevice:       -1,
		CountdownTick:      time.Second,
		DateLayout:         "1/2/2006",
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := defaults()

	// YAML необязателен: по умолчанию ищем booth.yaml рядом с бинарником
	path := os.Getenv("BOOTH_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := loadFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.TelegramToken == "" && cfg.HTTPAddr == "" {
		return nil, errors.New("either TELEGRAM_TOKEN or HTTP_ADDR is required")
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	setString(&cfg.OpenAIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.CaptionModel, "CAPTION_MODEL")
	setString(&cfg.ArchiveDir, "ARCHIVE_DIR")
	setString(&cfg.DateLayout, "DATE_LAYOUT")

	// Пустой HTTP_ADDR отключает HTTP-сервер
	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}

	if err := setDuration(&cfg.CaptionTimeout, "CAPTION_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.CountdownTick, "COUNTDOWN_TICK"); err != nil {
		return err
	}
	if err := setInt(&cfg.CaptionConcurrency, "CAPTION_CONCURRENCY"); err != nil {
		return err
	}
	if err := setInt(&cfg.CameraDevice, "CAMERA_DEVICE"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
