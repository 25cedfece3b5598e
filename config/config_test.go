package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv изолирует тест от окружения и .env в рабочем каталоге.
func clearEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{
		"TELEGRAM_TOKEN", "HTTP_ADDR", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"CAPTION_MODEL", "CAPTION_TIMEOUT", "CAPTION_CONCURRENCY", "CAMERA_DEVICE",
		"COUNTDOWN_TICK", "ARCHIVE_DIR", "DATE_LAYOUT", "BOOTH_CONFIG",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "gpt-4o-mini", cfg.CaptionModel)
	require.Equal(t, 20*time.Second, cfg.CaptionTimeout)
	require.Equal(t, 2, cfg.CaptionConcurrency)
	require.Equal(t, -1, cfg.CameraDevice)
	require.Equal(t, time.Second, cfg.CountdownTick)
	require.Equal(t, "1/2/2006", cfg.DateLayout)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "booth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
caption_model: "llava"
caption_timeout: 5s
camera_device: 0
archive_dir: /tmp/strips
`), 0o644))

	t.Setenv("BOOTH_CONFIG", path)
	t.Setenv("CAPTION_MODEL", "gpt-4o")
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "gpt-4o", cfg.CaptionModel)
	require.Equal(t, 5*time.Second, cfg.CaptionTimeout)
	require.Equal(t, 0, cfg.CameraDevice)
	require.Equal(t, "/tmp/strips", cfg.ArchiveDir)
	require.Equal(t, "token", cfg.TelegramToken)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("CAPTION_CONCURRENCY=4\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("CAPTION_CONCURRENCY") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 4, cfg.CaptionConcurrency)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOTH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("CAPTION_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("HTTP_ADDR", "")
	_, err = Load()
	require.Error(t, err)
}
