package imaging

import "math/rand"

// Random источник случайных чисел для шума и текстуры.
// *rand.Rand удовлетворяет интерфейсу, но не безопасен для горутин.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// SystemRandom использует глобальный генератор math/rand.
type SystemRandom struct{}

func (SystemRandom) Intn(n int) int { return rand.Intn(n) }

func (SystemRandom) Float64() float64 { return rand.Float64() }
