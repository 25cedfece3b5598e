package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retro-booth/config"
	telegram "retro-booth/internal/api"
	"retro-booth/internal/api/web"
	"retro-booth/internal/container"
	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/caption"
	"retro-booth/internal/infrastructure/sink"
	"retro-booth/internal/infrastructure/storage"
	"retro-booth/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Создаём хранилище сессий
	sessions := storage.NewMemorySessionRepository()

	// Без ключа подписи заменяются заглушкой
	var captioner port.Captioner
	if cfg.OpenAIKey != "" {
		c, err := caption.NewOpenAICaptioner(caption.Config{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.CaptionModel,
		})
		if err != nil {
			log.Fatalf("Failed to create captioner: %v", err)
		}
		captioner = c
	} else {
		log.Println("OPENAI_API_KEY is not set, captions will use the fallback text")
	}

	var camera port.FrameSource
	if cfg.CameraDevice >= 0 {
		cam, err := vision.NewCamera(cfg.CameraDevice)
		if err != nil {
			log.Printf("Camera is unavailable: %v", err)
		} else {
			defer cam.Close()
			camera = cam
		}
	}

	var archive port.DownloadSink
	if cfg.ArchiveDir != "" {
		dir, err := sink.NewDirectory(cfg.ArchiveDir)
		if err != nil {
			log.Fatalf("Failed to create archive: %v", err)
		}
		archive = dir
	}

	// Собираем сервисы приложения
	appContainer := container.New(sessions, captioner, camera, archive, container.Options{
		DateLayout:         cfg.DateLayout,
		CaptionConcurrency: cfg.CaptionConcurrency,
		CaptionTimeout:     cfg.CaptionTimeout,
		CountdownTick:      cfg.CountdownTick,
	})

	errs := make(chan error, 2)

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           web.NewServer(appContainer),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
	}

	if cfg.TelegramToken != "" {
		// Создаём бота
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		go func() {
			log.Println("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				errs <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errs:
		log.Printf("Booth error: %v", err)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}
	appContainer.CaptionService.Wait()
}
