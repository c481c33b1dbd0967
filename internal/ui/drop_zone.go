package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// DropZone is the region accepting files. Tapping it opens the file picker;
// the window forwards dropped files. Pointer hover drives the highlight.
type DropZone struct {
	widget.BaseWidget

	background *canvas.Rectangle
	hint       *widget.Label

	highlighted bool

	OnTapped func()
	OnEnter  func()
	OnLeave  func()
}

// NewDropZone creates a drop zone showing hint
func NewDropZone(hint string) *DropZone {
	dz := &DropZone{
		background: canvas.NewRectangle(color.Transparent),
		hint:       widget.NewLabel(hint),
	}
	dz.hint.Alignment = fyne.TextAlignCenter
	dz.hint.Wrapping = fyne.TextWrapWord

	dz.background.StrokeWidth = DropZoneStroke
	dz.background.CornerRadius = DropZoneRadius
	dz.background.SetMinSize(fyne.NewSize(DropZoneMinWidth, DropZoneMinHeight))
	dz.applyColors()

	dz.ExtendBaseWidget(dz)
	return dz
}

// SetHint replaces the hint text
func (dz *DropZone) SetHint(hint string) {
	dz.hint.SetText(hint)
}

// SetHighlighted toggles the highlight
func (dz *DropZone) SetHighlighted(on bool) {
	if dz.highlighted == on {
		return
	}
	dz.highlighted = on
	dz.applyColors()
	dz.background.Refresh()
}

// Highlighted reports whether the zone is highlighted
func (dz *DropZone) Highlighted() bool {
	return dz.highlighted
}

// Tapped opens the file picker
func (dz *DropZone) Tapped(*fyne.PointEvent) {
	if dz.OnTapped != nil {
		dz.OnTapped()
	}
}

// MouseIn is called when a pointer (or a drag) enters the zone
func (dz *DropZone) MouseIn(*desktop.MouseEvent) {
	if dz.OnEnter != nil {
		dz.OnEnter()
	}
}

// MouseMoved is required by desktop.Hoverable
func (dz *DropZone) MouseMoved(*desktop.MouseEvent) {}

// MouseOut is called when the pointer leaves the zone
func (dz *DropZone) MouseOut() {
	if dz.OnLeave != nil {
		dz.OnLeave()
	}
}

// CreateRenderer creates the widget renderer
func (dz *DropZone) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewStack(dz.background, container.NewPadded(container.NewCenter(dz.hint)))
	return widget.NewSimpleRenderer(content)
}

func (dz *DropZone) applyColors() {
	if dz.highlighted {
		dz.background.FillColor = theme.Color(ColorNameDropHighlight)
		dz.background.StrokeColor = theme.Color(theme.ColorNamePrimary)
		return
	}
	dz.background.FillColor = color.Transparent
	dz.background.StrokeColor = theme.Color(theme.ColorNameInputBorder)
}
