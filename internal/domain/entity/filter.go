package entity

import "errors"

// ErrUnknownFilter возвращается при выборе несуществующего фильтра.
var ErrUnknownFilter = errors.New("unknown filter")

// FilterNormal - фильтр по умолчанию, без обработки и без шума.
const FilterNormal = "normal"

// FilterDescriptor описывает ретро-фильтр
type FilterDescriptor struct {
	Name                  string // идентификатор
	DisplayLabel          string // подпись для пользователя
	PreviewStyleHint      string // подсказка для превью
	PixelFilterExpression string // цепочка операций, например "sepia(50%) contrast(120%)"
}

var filters = []FilterDescriptor{
	{
		Name:                  FilterNormal,
		DisplayLabel:          "Normal",
		PreviewStyleHint:      "clean",
		PixelFilterExpression: "none",
	},
	{
		Name:                  "grayscale",
		DisplayLabel:          "B&W",
		PreviewStyleHint:      "noir",
		PixelFilterExpression: "grayscale(100%)",
	},
	{
		Name:                  "sepia",
		DisplayLabel:          "Sepia",
		PreviewStyleHint:      "antique",
		PixelFilterExpression: "sepia(100%)",
	},
	{
		Name:                  "vintage",
		DisplayLabel:          "Vintage",
		PreviewStyleHint:      "faded",
		PixelFilterExpression: "sepia(50%) contrast(120%) brightness(90%) saturate(85%)",
	},
	{
		Name:                  "warm",
		DisplayLabel:          "Warm",
		PreviewStyleHint:      "sunset",
		PixelFilterExpression: "sepia(30%) saturate(140%) hue-rotate(-10deg) brightness(105%)",
	},
}

// Filters возвращает фиксированный набор фильтров в порядке отображения.
func Filters() []FilterDescriptor {
	out := make([]FilterDescriptor, len(filters))
	copy(out, filters)
	return out
}

// DefaultFilter возвращает фильтр, выбранный по умолчанию.
func DefaultFilter() FilterDescriptor {
	return filters[0]
}

// FilterByName ищет фильтр по имени.
func FilterByName(name string) (FilterDescriptor, error) {
	for _, f := range filters {
		if f.Name == name {
			return f, nil
		}
	}
	return FilterDescriptor{}, ErrUnknownFilter
}

// IsNormal сообщает, что фильтр не меняет изображение.
func (f FilterDescriptor) IsNormal() bool {
	return f.Name == FilterNormal
}
