package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconFile     = "📄"
	IconClose    = "×"
	IconUpload   = "⇪"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	DropZoneMinWidth  float32 = 400
	DropZoneMinHeight float32 = 140
	DropZoneRadius    float32 = 8
	DropZoneStroke    float32 = 2

	SizeLabelWidth float32 = 84

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 36

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 420
)
