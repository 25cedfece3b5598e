package entity

// CaptionState состояние запроса подписи
type CaptionState string

const (
	CaptionIdle     CaptionState = "idle"     // подпись не запрашивалась
	CaptionPending  CaptionState = "pending"  // запрос выполняется
	CaptionResolved CaptionState = "resolved" // получена подпись или заглушка
)

// FallbackCaption подставляется, если сервис подписей недоступен.
const FallbackCaption = "Say cheese! (caption unavailable)"

// Caption - снимок состояния подписи.
type Caption struct {
	State CaptionState
	Text  string
}
