package ui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/batch-uploader/internal/model"
)

// File size formatting constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// formatFileSize formats file size in bytes to human readable format
func formatFileSize(bytes int64) string {
	if bytes < 0 {
		return DashPlaceholder
	}
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// FileRow is one entry of the selected file list
type FileRow struct {
	widget.BaseWidget

	index        int
	file         model.SelectedFile
	localization *Localization

	nameLabel *widget.Label
	sizeLabel *widget.Label
	removeBtn *widget.Button

	onRemove func(index int)
}

// NewFileRow creates an empty row; list items are recycled through SetFile
func NewFileRow(localization *Localization) *FileRow {
	fr := &FileRow{
		index:        -1,
		localization: localization,
	}
	fr.ExtendBaseWidget(fr)
	fr.createUI()
	return fr
}

// SetOnRemove sets the callback receiving the row index
func (fr *FileRow) SetOnRemove(onRemove func(index int)) {
	fr.onRemove = onRemove
}

// SetFile binds the row to the file at index
func (fr *FileRow) SetFile(index int, file model.SelectedFile) {
	fr.index = index
	fr.file = file

	fr.nameLabel.SetText(file.Name)
	fr.sizeLabel.SetText(formatFileSize(file.Size))
	fr.removeBtn.SetText(fr.localization.GetText(KeyRemove))
	fr.Refresh()
}

// Index returns the list position the row currently shows
func (fr *FileRow) Index() int {
	return fr.index
}

func (fr *FileRow) createUI() {
	fr.nameLabel = widget.NewLabel("")
	fr.nameLabel.Truncation = fyne.TextTruncateEllipsis
	fr.nameLabel.Alignment = fyne.TextAlignLeading

	fr.sizeLabel = widget.NewLabel("")
	fr.sizeLabel.Alignment = fyne.TextAlignTrailing
	fr.sizeLabel.TextStyle = fyne.TextStyle{Monospace: true}

	fr.removeBtn = widget.NewButton(fr.localization.GetText(KeyRemove), func() {
		// Read the index at tap time; rows are reused for other files
		log.Printf("Remove button clicked for file %d (%s)", fr.index, fr.file.Name)
		if fr.onRemove != nil {
			fr.onRemove(fr.index)
		}
	})
	fr.removeBtn.Importance = widget.LowImportance
}

// CreateRenderer creates the widget renderer
func (fr *FileRow) CreateRenderer() fyne.WidgetRenderer {
	return &fileRowRenderer{row: fr}
}

type fileRowRenderer struct {
	row    *FileRow
	layout *fyne.Container
}

func (r *fileRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Resize(size)
}

func (r *fileRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	min := r.layout.MinSize()
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	if min.Height < RowMinHeight {
		min.Height = RowMinHeight
	}
	return min
}

func (r *fileRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

func (r *fileRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

func (r *fileRowRenderer) Destroy() {}

func (r *fileRowRenderer) createLayout() {
	fr := r.row

	// Fixed width size column so names line up
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(SizeLabelWidth, fr.sizeLabel.MinSize().Height))
	sizeCell := container.NewStack(spacer, fr.sizeLabel)

	right := container.NewHBox(sizeCell, fr.removeBtn)
	icon := widget.NewLabel(IconFile)

	r.layout = container.NewBorder(nil, nil, icon, right, fr.nameLabel)
}
