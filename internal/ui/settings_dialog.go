package ui

import (
	"errors"
	"log"
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/batch-uploader/internal/config"
	"github.com/ytget/batch-uploader/internal/transfer"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	// Called after settings were saved
	onSaved func()

	// UI components
	serverURLEntry    *widget.Entry
	pollIntervalEntry *widget.Entry
	maxPollsEntry     *widget.Entry
	downloadDirEntry  *widget.Entry
	openInBrowser     *widget.Check
	autoReveal        *widget.Check
	languageSelect    *widget.Select
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.serverURLEntry = widget.NewEntry()
	sd.serverURLEntry.SetPlaceHolder(config.DefaultServerURL)
	sd.serverURLEntry.Validator = func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := transfer.NewClient(s); err != nil {
			return errors.New(text(KeyInvalidServerURL))
		}
		return nil
	}

	sd.pollIntervalEntry = widget.NewEntry()
	sd.pollIntervalEntry.SetPlaceHolder(strconv.Itoa(config.MinPollIntervalMs) + "-" + strconv.Itoa(config.MaxPollIntervalMs))

	sd.maxPollsEntry = widget.NewEntry()
	sd.maxPollsEntry.SetPlaceHolder("0")

	// Download directory selection
	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.openInBrowser = widget.NewCheck(text(KeyOpenInBrowser), nil)
	sd.autoReveal = widget.NewCheck(text(KeyAutoReveal), nil)

	// Language selection, sorted so the order is stable
	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(text(KeyServerURL)+":"),
		sd.serverURLEntry,

		widget.NewLabel(text(KeyPollInterval)+":"),
		sd.pollIntervalEntry,

		widget.NewLabel(text(KeyPollMaxAttempts)+":"),
		sd.maxPollsEntry,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyDownloadDirectory)+":"),
		downloadDirRow,
		sd.openInBrowser,
		sd.autoReveal,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.serverURLEntry.SetText(sd.settings.GetServerURL())
	sd.pollIntervalEntry.SetText(strconv.Itoa(int(sd.settings.GetPollInterval().Milliseconds())))
	sd.maxPollsEntry.SetText(strconv.Itoa(sd.settings.GetPollMaxAttempts()))
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.openInBrowser.SetChecked(sd.settings.GetOpenInBrowser())
	sd.autoReveal.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if url := sd.serverURLEntry.Text; url != "" {
		if err := sd.serverURLEntry.Validate(); err != nil {
			log.Printf("Rejected server URL %q: %v", url, err)
			dialog.ShowError(err, sd.window)
			return
		}
		sd.settings.SetServerURL(url)
	}

	if ms, err := strconv.Atoi(sd.pollIntervalEntry.Text); err == nil {
		sd.settings.SetPollInterval(ms)
	}

	if n, err := strconv.Atoi(sd.maxPollsEntry.Text); err == nil {
		sd.settings.SetPollMaxAttempts(n)
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	sd.settings.SetOpenInBrowser(sd.openInBrowser.Checked)
	sd.settings.SetAutoRevealOnComplete(sd.autoReveal.Checked)

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	log.Printf("Settings saved: server=%s interval=%v maxPolls=%d", sd.settings.GetServerURL(), sd.settings.GetPollInterval(), sd.settings.GetPollMaxAttempts())

	if sd.onSaved != nil {
		sd.onSaved()
	}

	// Show confirmation
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}
