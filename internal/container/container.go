package container

import (
	"time"

	app "retro-booth/internal/application"
	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/imaging"
	"retro-booth/internal/infrastructure/sink"
)

// Options настройки сервисов
type Options struct {
	DateLayout         string
	CaptionConcurrency int
	CaptionTimeout     time.Duration
	CountdownTick      time.Duration
}

type Container struct {
	BoothService   *app.BoothService
	ExportService  *app.ExportService
	CaptionService *app.CaptionService

	// Camera равна nil, если камера не подключена
	Camera port.FrameSource
	// Archive равен nil, если архив не настроен
	Archive port.DownloadSink
}

func New(sessions port.SessionRepository, captioner port.Captioner, camera port.FrameSource, archive port.DownloadSink, opts Options) *Container {
	if opts.CountdownTick <= 0 {
		opts.CountdownTick = time.Second
	}

	random := imaging.SystemRandom{}
	boothService := app.NewBoothService(sessions, random, opts.CountdownTick)
	exportService := app.NewExportService(sessions, imaging.NewStripRenderer(opts.DateLayout, random))
	captionService := app.NewCaptionService(sessions, captioner, opts.CaptionConcurrency, opts.CaptionTimeout)

	return &Container{
		BoothService:   boothService,
		ExportService:  exportService,
		CaptionService: captionService,
		Camera:         camera,
		Archive:        archive,
	}
}

// Sink добавляет архив к основному приёмнику, если архив настроен.
func (c *Container) Sink(primary port.DownloadSink) port.DownloadSink {
	if c.Archive == nil {
		return primary
	}
	if primary == nil {
		return c.Archive
	}
	return sink.Tee{primary, c.Archive}
}
