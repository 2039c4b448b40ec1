package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is implemented by everything a Panel can stack.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	SetPosition(x, y float64)
}

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	margin        = 10.0
)

type section struct {
	title string
	start int // index of the first widget of the section
}

// Panel stacks widgets vertically under optional section headers and
// scrolls with the mouse wheel when they do not fit.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	widgets  []Widget
	sections []section
}

func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new header; the following widgets belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, start: len(p.widgets)})
}

// AddSlider adds a slider spanning the panel width.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-2*margin, label, min, max, value)
	p.Add(s)
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(label, value)
	p.Add(c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.Width-2*margin, 24, label, onClick)
	p.Add(b)
	return b
}

func (p *Panel) Add(w Widget) {
	p.widgets = append(p.widgets, w)
	p.layout()
}

// layout places every widget according to the current scroll offset.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	for i, w := range p.widgets {
		for next < len(p.sections) && p.sections[next].start == i {
			y += sectionHeight
			next++
		}
		w.SetPosition(p.X+margin, y)
		y += w.Height()
	}
}

func (p *Panel) contentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.widgets {
		h += w.Height()
	}
	return h
}

// Update handles scrolling and input for all widgets
func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		maxScroll := max(p.contentHeight()-p.Height+margin, 0)
		p.ScrollOffset = clamp(p.ScrollOffset-dy*20, 0, maxScroll)
		p.layout()
	}
	for _, w := range p.widgets {
		w.Update()
	}
}

// Draw renders the panel and all widgets
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	for i, w := range p.widgets {
		for next < len(p.sections) && p.sections[next].start == i {
			if p.visible(y) {
				vector.FillRect(screen,
					float32(p.X+5), float32(y),
					float32(p.Width-10), 20,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, p.sections[next].title, int(p.X+margin), int(y+2))
			}
			y += sectionHeight
			next++
		}
		if p.visible(y) {
			w.Draw(screen)
		}
		y += w.Height()
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y+titleHeight-5 && y <= p.Y+p.Height-20
}
