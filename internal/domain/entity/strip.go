package entity

// Strip - готовая фотополоска.
type Strip struct {
	Filename string
	Data     []byte // PNG
	Width    int
	Height   int
}
