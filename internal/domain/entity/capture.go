package entity

import (
	"time"

	"github.com/google/uuid"
)

// CapturedImage - один снимок фотобудки. После создания не изменяется.
type CapturedImage struct {
	ID         string // уникальный в рамках сессии идентификатор
	ImageData  []byte // PNG
	CapturedAt int64  // unix-время в миллисекундах
	FilterName string // имя применённого фильтра
}

// NewCapturedImage создаёт снимок с новым идентификатором.
func NewCapturedImage(data []byte, filterName string, at time.Time) CapturedImage {
	return CapturedImage{
		ID:         uuid.NewString(),
		ImageData:  data,
		CapturedAt: at.UnixMilli(),
		FilterName: filterName,
	}
}
