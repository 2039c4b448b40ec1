package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal value picker. The value follows the mouse while the
// left button is held; Changed reports once when the button is released.
type Slider struct {
	Label    string
	Format   string // fmt verb for the value, "%.2f" by default
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64

	dragging bool
	changed  bool
}

func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	return &Slider{
		Label:  label,
		Format: "%.2f",
		Value:  clamp(value, min, max),
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      w,
		H:      10,
	}
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && (s.dragging || inRect(mx, my, s.X, s.Y, s.W, s.H)):
		s.dragging = true
		p := (float64(mx) - s.X) / s.W
		s.Value = clamp(s.Min+p*(s.Max-s.Min), s.Min, s.Max)
	case !pressed && s.dragging:
		s.dragging = false
		s.changed = true
	}
}

// Changed returns true once after the user released the slider.
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: "+s.Format, s.Label, s.Value), int(s.X), int(s.Y)-16)

	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) SetPosition(x, y float64) { s.X, s.Y = x, y+16 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func inRect(mx, my int, x, y, w, h float64) bool {
	return float64(mx) >= x && float64(mx) <= x+w &&
		float64(my) >= y && float64(my) <= y+h
}
