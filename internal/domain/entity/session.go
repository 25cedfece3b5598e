package entity

import (
	"errors"
	"sync"
)

var (
	// ErrCaptionPending - подпись уже запрашивается.
	ErrCaptionPending = errors.New("caption request already pending")
	// ErrCountdownInProgress - обратный отсчёт уже идёт.
	ErrCountdownInProgress = errors.New("countdown already in progress")
)

// Session хранит состояние фотобудки одного пользователя.
// Все изменения проходят через методы, поэтому сессию можно
// разделять между горутинами.
type Session struct {
	ID string

	mu           sync.Mutex
	captures     []CapturedImage
	filter       FilterDescriptor
	caption      Caption
	generation   uint64 // растёт при каждом Reset
	countingDown bool
}

// NewSession создаёт пустую сессию с фильтром по умолчанию
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		filter:  DefaultFilter(),
		caption: Caption{State: CaptionIdle},
	}
}

// AddCapture добавляет снимок в конец коллекции.
func (s *Session) AddCapture(img CapturedImage) {
	s.mu.Lock()
	s.captures = append(s.captures, img)
	s.mu.Unlock()
}

// Captures возвращает копию коллекции снимков в порядке добавления.
func (s *Session) Captures() []CapturedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CapturedImage, len(s.captures))
	copy(out, s.captures)
	return out
}

// Capture ищет снимок по идентификатору.
func (s *Session) Capture(id string) (CapturedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.captures {
		if c.ID == id {
			return c, true
		}
	}
	return CapturedImage{}, false
}

// Latest возвращает последний снимок.
func (s *Session) Latest() (CapturedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.captures) == 0 {
		return CapturedImage{}, false
	}
	return s.captures[len(s.captures)-1], true
}

// SelectFilter выбирает фильтр по имени.
func (s *Session) SelectFilter(name string) (FilterDescriptor, error) {
	f, err := FilterByName(name)
	if err != nil {
		return FilterDescriptor{}, err
	}

	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	return f, nil
}

// Filter возвращает выбранный фильтр.
func (s *Session) Filter() FilterDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Caption возвращает текущее состояние подписи.
func (s *Session) Caption() Caption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caption
}

// BeginCaption переводит подпись в состояние pending.
// Возвращает поколение сессии, которое нужно передать в SetCaption.
func (s *Session) BeginCaption() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.caption.State == CaptionPending {
		return 0, ErrCaptionPending
	}
	s.caption = Caption{State: CaptionPending}
	return s.generation, nil
}

// SetCaption сохраняет результат запроса. Результат, пришедший
// после Reset, отбрасывается.
func (s *Session) SetCaption(generation uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	s.caption = Caption{State: CaptionResolved, Text: text}
	return true
}

// BeginCountdown захватывает обратный отсчёт.
func (s *Session) BeginCountdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countingDown {
		return ErrCountdownInProgress
	}
	s.countingDown = true
	return nil
}

// EndCountdown освобождает обратный отсчёт.
func (s *Session) EndCountdown() {
	s.mu.Lock()
	s.countingDown = false
	s.mu.Unlock()
}

// Reset очищает снимки и подпись. Выбранный фильтр сохраняется.
func (s *Session) Reset() {
	s.mu.Lock()
	s.captures = nil
	s.caption = Caption{State: CaptionIdle}
	s.generation++
	s.mu.Unlock()
}
