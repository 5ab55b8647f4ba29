package ui

import (
	"image"
	"math"
	"strconv"

	"powder-ca/pkg/core"
	"powder-ca/pkg/sims/powder"
)

// Panel holds the HUD state that does not depend on a graphics backend: the
// parameter steppers, the element picker and their layout.
type Panel struct {
	width int

	controls    []controlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter

	swatches []swatch
	selected int
}

type controlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

type swatch struct {
	id   powder.ElementID
	name string
	rect image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14
	swatchSize     = 18
	swatchGap      = 4
	statsHeight    = 40
)

// NewPanel lays out controls and element swatches for a world.
func NewPanel(w *powder.World, width int) *Panel {
	p := &Panel{width: width, intSetter: w, floatSetter: w}
	for _, ctrl := range w.ParameterControls() {
		p.controls = append(p.controls, controlState{control: ctrl, value: "--"})
	}
	for _, e := range w.Elements().All() {
		if e.ID == powder.Empty {
			continue
		}
		p.swatches = append(p.swatches, swatch{id: e.ID, name: e.Name})
	}
	p.layout()
	return p
}

func (p *Panel) layout() {
	for i := range p.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(p.width-panelPadding-buttonSize, buttonY, p.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		p.controls[i].top = top
		p.controls[i].minusRect = minus
		p.controls[i].plusRect = plus
	}
	perRow := max((p.width-2*panelPadding+swatchGap)/(swatchSize+swatchGap), 1)
	top := p.SwatchesTop()
	for i := range p.swatches {
		x := panelPadding + (i%perRow)*(swatchSize+swatchGap)
		y := top + (i/perRow)*(swatchSize+swatchGap)
		p.swatches[i].rect = image.Rect(x, y, x+swatchSize, y+swatchSize)
	}
}

// SwatchesTop is the y offset of the element picker.
func (p *Panel) SwatchesTop() int {
	return controlsTop + len(p.controls)*lineHeight + statsHeight
}

// Selected returns the element picked for the brush.
func (p *Panel) Selected() powder.ElementID {
	if len(p.swatches) == 0 {
		return powder.Empty
	}
	return p.swatches[p.selected].id
}

// Select picks an element by id. Unknown ids are ignored.
func (p *Panel) Select(id powder.ElementID) {
	for i, s := range p.swatches {
		if s.id == id {
			p.selected = i
			return
		}
	}
}

// Cycle moves the selection by delta, wrapping around.
func (p *Panel) Cycle(delta int) {
	n := len(p.swatches)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// Refresh copies current values out of a parameter snapshot.
func (p *Panel) Refresh(snap core.ParameterSnapshot) {
	for i := range p.controls {
		state := &p.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := snap.Lookup(state.control.Key)
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				continue
			}
			state.intValue = parsed
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			state.floatValue = parsed
			state.value = formatFloat(state.control, parsed)
			state.hasValue = true
		}
	}
}

// Click handles a press at panel-local coordinates. It reports whether the
// press hit a button or a swatch.
func (p *Panel) Click(px, py int) bool {
	for i := range p.controls {
		state := &p.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, py, state.minusRect) {
			p.adjust(state, -1)
			return true
		}
		if pointInRect(px, py, state.plusRect) {
			p.adjust(state, 1)
			return true
		}
	}
	for i, s := range p.swatches {
		if pointInRect(px, py, s.rect) {
			p.selected = i
			return true
		}
	}
	return false
}

// target returns the clamped value one step away, or false when the control
// cannot move in that direction.
func (s *controlState) target(direction int) (float64, bool) {
	step := s.control.Step
	current := s.floatValue
	if s.control.Type == core.ParamTypeInt {
		step = math.Max(math.Round(step), 1)
		current = float64(s.intValue)
	} else if step <= 0 {
		step = 0.05
	}
	t := current + float64(direction)*step
	if s.control.HasMin && t < s.control.Min {
		t = s.control.Min
	}
	if s.control.HasMax && t > s.control.Max {
		t = s.control.Max
	}
	if math.Abs(t-current) < 1e-9 {
		return current, false
	}
	return t, true
}

func (p *Panel) canAdjust(s *controlState, direction int) bool {
	if !s.hasValue {
		return false
	}
	switch s.control.Type {
	case core.ParamTypeInt:
		if p.intSetter == nil {
			return false
		}
	case core.ParamTypeFloat:
		if p.floatSetter == nil {
			return false
		}
	default:
		return false
	}
	_, ok := s.target(direction)
	return ok
}

func (p *Panel) adjust(s *controlState, direction int) {
	if !p.canAdjust(s, direction) {
		return
	}
	t, _ := s.target(direction)
	switch s.control.Type {
	case core.ParamTypeInt:
		v := int(math.Round(t))
		if p.intSetter.SetIntParameter(s.control.Key, v) {
			s.intValue = v
			s.floatValue = float64(v)
			s.value = strconv.Itoa(v)
		}
	case core.ParamTypeFloat:
		if p.floatSetter.SetFloatParameter(s.control.Key, t) {
			s.floatValue = t
			s.value = formatFloat(s.control, t)
		}
	}
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	case step >= 1:
		precision = 0
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
