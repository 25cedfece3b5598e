package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	app "retro-booth/internal/application"
	"retro-booth/internal/container"
	"retro-booth/internal/domain/entity"
	"retro-booth/internal/domain/port"
	"retro-booth/internal/infrastructure/vision"
)

// maxUploadBytes ограничивает размер загружаемого кадра.
const maxUploadBytes = 16 << 20

// Server HTTP API фотобудки
type Server struct {
	container *container.Container
	router    *chi.Mux
}

// NewServer создаёт сервер и регистрирует маршруты
func NewServer(c *container.Container) *Server {
	s := &Server{container: c}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/filters", s.handleFilters)
	r.Post("/api/sessions", s.handleCreateSession)
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleSession)
		r.Delete("/", s.handleEnd)
		r.Put("/filter", s.handleSelectFilter)
		r.Post("/captures", s.handleUpload)
		r.Get("/captures/{captureID}", s.handleCaptureImage)
		r.Post("/snap", s.handleSnap)
		r.Post("/caption", s.handleStartCaption)
		r.Get("/caption", s.handleCaption)
		r.Get("/strip", s.handleStrip)
	})

	s.router = r
	return s
}

// ServeHTTP реализует http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type filterDTO struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	PreviewStyle string `json:"preview_style"`
	Expression   string `json:"expression"`
}

type captureDTO struct {
	ID         string `json:"id"`
	CapturedAt int64  `json:"captured_at"`
	Filter     string `json:"filter"`
	URL        string `json:"url"`
}

type sessionDTO struct {
	ID       string       `json:"id"`
	Filter   string       `json:"filter"`
	Captures []captureDTO `json:"captures"`
	Caption  captionDTO   `json:"caption"`
}

type captionDTO struct {
	State string `json:"state"`
	Text  string `json:"text,omitempty"`
}

func toFilterDTO(f entity.FilterDescriptor) filterDTO {
	return filterDTO{
		Name:         f.Name,
		Label:        f.DisplayLabel,
		PreviewStyle: f.PreviewStyleHint,
		Expression:   f.PixelFilterExpression,
	}
}

func toCaptureDTO(sessionID string, c entity.CapturedImage) captureDTO {
	return captureDTO{
		ID:         c.ID,
		CapturedAt: c.CapturedAt,
		Filter:     c.FilterName,
		URL:        fmt.Sprintf("/api/sessions/%s/captures/%s", sessionID, c.ID),
	}
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	list := entity.Filters()
	out := make([]filterDTO, 0, len(list))
	for _, f := range list {
		out = append(out, toFilterDTO(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	session, err := s.container.BoothService.Session(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.sessionDTO(session))
}

// requireSession пропускает только существующие сессии, выданные POST /api/sessions.
// Новые сессии здесь не создаются.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if parsed, err := uuid.Parse(id); err != nil || parsed.String() != id {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid session id %q", id))
			return
		}

		if _, err := s.container.BoothService.Lookup(r.Context(), id); err != nil {
			writeSessionError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.container.BoothService.Lookup(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionDTO(session))
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	if err := s.container.BoothService.End(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	f, err := s.container.BoothService.SelectFilter(r.Context(), chi.URLParam(r, "sessionID"), req.Name)
	if errors.Is(err, entity.ErrUnknownFilter) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilterDTO(f))
}

// handleUpload снимает кадр с загруженного изображения (тело запроса - PNG/JPEG/WebP)
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	frame, err := vision.NewStillFrame(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	img, err := s.container.BoothService.Capture(r.Context(), sessionID, frame)
	s.writeCapture(w, sessionID, img, err)
}

// handleSnap снимает кадр с камеры после обратного отсчёта
func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	img, err := s.container.BoothService.CaptureWithCountdown(r.Context(), sessionID, s.container.Camera, nil)
	if errors.Is(err, entity.ErrCountdownInProgress) {
		writeError(w, http.StatusConflict, err)
		return
	}
	s.writeCapture(w, sessionID, img, err)
}

func (s *Server) writeCapture(w http.ResponseWriter, sessionID string, img *entity.CapturedImage, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// Источник кадров недоступен: снимок не сделан
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, toCaptureDTO(sessionID, *img))
}

func (s *Server) handleCaptureImage(w http.ResponseWriter, r *http.Request) {
	session, err := s.container.BoothService.Lookup(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeSessionError(w, err)
		return
	}

	img, ok := session.Capture(chi.URLParam(r, "captureID"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("capture not found"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img.ImageData)))
	_, _ = w.Write(img.ImageData)
}

func (s *Server) handleStartCaption(w http.ResponseWriter, r *http.Request) {
	err := s.container.CaptionService.StartCaption(r.Context(), chi.URLParam(r, "sessionID"))
	switch {
	case errors.Is(err, app.ErrNoCaptures):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, entity.ErrCaptionPending):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusAccepted, captionDTO{State: string(entity.CaptionPending)})
	}
}

func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request) {
	c, err := s.container.CaptionService.Caption(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, captionDTO{State: string(c.State), Text: c.Text})
}

func (s *Server) handleStrip(w http.ResponseWriter, r *http.Request) {
	attachment := &attachmentSink{w: w}
	sink := s.container.Sink(attachment)
	if _, err := s.container.ExportService.Export(r.Context(), chi.URLParam(r, "sessionID"), sink); err != nil {
		log.Printf("Error exporting strip: %v", err)
		// Файл уже ушёл клиенту, ошибка только в архиве
		if !attachment.written {
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func (s *Server) sessionDTO(session *entity.Session) sessionDTO {
	captures := session.Captures()
	out := sessionDTO{
		ID:       session.ID,
		Filter:   session.Filter().Name,
		Captures: make([]captureDTO, 0, len(captures)),
	}
	for _, c := range captures {
		out.Captures = append(out.Captures, toCaptureDTO(session.ID, c))
	}
	c := session.Caption()
	out.Caption = captionDTO{State: string(c.State), Text: c.Text}
	return out
}

// attachmentSink отдаёт фотополоску как файл для скачивания
type attachmentSink struct {
	w       http.ResponseWriter
	written bool
}

func (a *attachmentSink) Deliver(ctx context.Context, sessionID, filename string, data []byte) error {
	_ = ctx
	_ = sessionID

	h := a.w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	a.w.WriteHeader(http.StatusOK)
	a.written = true

	if _, err := a.w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, port.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}
