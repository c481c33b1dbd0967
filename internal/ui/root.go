package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/batch-uploader/internal/config"
	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/platform"
	"github.com/ytget/batch-uploader/internal/poll"
	"github.com/ytget/batch-uploader/internal/transfer"
	"github.com/ytget/batch-uploader/internal/uploader"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	settings     *config.Settings
	localization *Localization
	controller   *uploader.Controller

	ctx    context.Context
	cancel context.CancelFunc

	clientMu sync.Mutex
	client   *transfer.Client

	// Widgets
	dropZone          *DropZone
	fileList          *widget.List
	countLabel        *widget.Label
	startBtn          *widget.Button
	cancelBtn         *widget.Button
	settingsBtn       *widget.Button
	progressBar       *widget.ProgressBar
	progressContainer *fyne.Container

	// files mirrors the controller list for the list widget. UI thread only.
	files []model.SelectedFile
}

var _ uploader.View = (*RootUI)(nil)

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		ctx:          ctx,
		cancel:       cancel,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	// Widgets must exist before the controller renders its initial state
	ui.setupUI()

	ui.client = ui.newClient()
	ui.controller = uploader.New(ui, ui.client,
		uploader.WithMessages(localization.Messages()),
		uploader.WithPollOptions(ui.pollOptions()...),
	)

	window.SetOnDropped(ui.onDropped)
	window.SetOnClosed(func() {
		if sub := ui.controller.Last(); sub != nil {
			sub.Cancel()
		}
		ui.cancel()
	})

	log.Printf("RootUI initialized with server %s", ui.client.BaseURL())
	return ui
}

// Controller returns the upload widget driven by this window
func (ui *RootUI) Controller() *uploader.Controller {
	return ui.controller
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.dropZone = NewDropZone(ui.localization.GetText(KeyDropHint))
	ui.dropZone.OnTapped = ui.onChooseFiles
	ui.dropZone.OnEnter = func() { ui.controller.DragEnter() }
	ui.dropZone.OnLeave = func() { ui.controller.DragLeave() }

	ui.fileList = widget.NewList(
		func() int {
			return len(ui.files)
		},
		func() fyne.CanvasObject {
			row := NewFileRow(ui.localization)
			row.SetOnRemove(func(index int) { ui.controller.RemoveFile(index) })
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(ui.files) {
				return
			}
			if row, ok := obj.(*FileRow); ok {
				row.SetFile(id, ui.files[id])
			}
		},
	)

	ui.countLabel = widget.NewLabel("")

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance

	var topPanel *fyne.Container
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
		topPanel = container.NewBorder(nil, nil, container.NewHBox(logoImage, ui.settingsBtn), nil, ui.countLabel)
	} else {
		topPanel = container.NewBorder(nil, nil, ui.settingsBtn, nil, ui.countLabel)
	}

	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.Min = 0
	ui.progressBar.Max = 100
	ui.progressBar.TextFormatter = func() string {
		return fmt.Sprintf(ProgressLabelFormat, int(ui.progressBar.Value))
	}
	ui.cancelBtn = widget.NewButton(ui.localization.GetText(KeyCancelUpload), ui.onCancelClick)
	ui.progressContainer = container.NewBorder(nil, nil, nil, ui.cancelBtn, ui.progressBar)
	ui.progressContainer.Hide()

	ui.startBtn = widget.NewButton(IconUpload+" "+ui.localization.GetText(KeyStartUpload), ui.onStartClick)
	ui.startBtn.Importance = widget.HighImportance
	ui.startBtn.Disable()

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.dropZone),           // top
		container.NewVBox(ui.progressContainer, ui.startBtn), // bottom
		nil,         // left
		nil,         // right
		ui.fileList, // center
	)

	ui.window.SetContent(content)
	log.Printf("UI setup completed successfully")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.dropZone.SetHint(ui.localization.GetText(KeyDropHint))
	ui.startBtn.SetText(IconUpload + " " + ui.localization.GetText(KeyStartUpload))
	ui.cancelBtn.SetText(ui.localization.GetText(KeyCancelUpload))
	ui.updateCount()
	ui.fileList.Refresh()

	ui.controller.SetMessages(ui.localization.Messages())
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

// onSettingsSaved applies settings that affect later submissions
func (ui *RootUI) onSettingsSaved() {
	client := ui.newClient()

	ui.clientMu.Lock()
	ui.client = client
	ui.clientMu.Unlock()

	ui.controller.SetBackend(client)
	ui.controller.SetPollOptions(ui.pollOptions()...)

	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.onLanguageChange(lang)
	}
}

func (ui *RootUI) newClient() *transfer.Client {
	client, err := transfer.NewClient(ui.settings.GetServerURL())
	if err != nil {
		log.Printf("Invalid server URL %q, using %s: %v", ui.settings.GetServerURL(), config.DefaultServerURL, err)
		client, _ = transfer.NewClient(config.DefaultServerURL)
	}
	return client
}

func (ui *RootUI) pollOptions() []poll.Option {
	return []poll.Option{
		poll.WithInterval(ui.settings.GetPollInterval()),
		poll.WithMaxAttempts(ui.settings.GetPollMaxAttempts()),
	}
}

// onChooseFiles opens the file picker
func (ui *RootUI) onChooseFiles() {
	picker := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			log.Printf("File picker error: %v", err)
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return // canceled
		}
		uri := reader.URI()
		reader.Close()

		ui.controller.AddFiles(ui.filesFromURIs([]fyne.URI{uri})...)
	}, ui.window)
	picker.Show()
}

// onDropped receives files dropped anywhere on the window
func (ui *RootUI) onDropped(_ fyne.Position, uris []fyne.URI) {
	log.Printf("Dropped %d item(s)", len(uris))
	ui.controller.Drop(ui.filesFromURIs(uris)...)
}

func (ui *RootUI) filesFromURIs(uris []fyne.URI) []model.SelectedFile {
	files := make([]model.SelectedFile, 0, len(uris))
	for _, uri := range uris {
		file, err := fileFromURI(uri)
		if err != nil {
			log.Printf("Skipping %s: %v", uri, err)
			continue
		}
		files = append(files, file)
	}
	return files
}

// fileFromURI builds a selected file from a local path, or a stream for other schemes
func fileFromURI(uri fyne.URI) (model.SelectedFile, error) {
	if uri.Scheme() == "file" {
		return model.NewFileFromPath(uri.Path())
	}
	return model.NewFileFromOpener(uri.Name(), model.UnknownSize, func() (io.ReadCloser, error) {
		return storage.Reader(uri)
	}), nil
}

// onStartClick submits the current selection
func (ui *RootUI) onStartClick() {
	log.Printf("Start clicked with %d file(s)", ui.controller.Len())
	ui.controller.Submit(ui.ctx)
}

// onCancelClick cancels the most recent submission
func (ui *RootUI) onCancelClick() {
	if sub := ui.controller.Last(); sub != nil {
		log.Printf("Canceling submission %s", sub.ID)
		sub.Cancel()
	}
}

func (ui *RootUI) updateCount() {
	if len(ui.files) == 0 {
		ui.countLabel.SetText("")
		return
	}
	ui.countLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyFilesSelected), len(ui.files)))
}

// RenderFiles redraws the selected file list
func (ui *RootUI) RenderFiles(files []model.SelectedFile) {
	fyne.Do(func() {
		ui.files = files
		ui.updateCount()
		ui.fileList.Refresh()
	})
}

// SetSubmitEnabled toggles the start button
func (ui *RootUI) SetSubmitEnabled(enabled bool) {
	fyne.Do(func() {
		if enabled {
			ui.startBtn.Enable()
		} else {
			ui.startBtn.Disable()
		}
	})
}

// SetDropHighlight toggles the drop zone highlight
func (ui *RootUI) SetDropHighlight(on bool) {
	fyne.Do(func() {
		ui.dropZone.SetHighlighted(on)
	})
}

// ShowProgress resets and shows the progress bar
func (ui *RootUI) ShowProgress() {
	fyne.Do(func() {
		ui.progressBar.SetValue(0)
		ui.cancelBtn.Enable()
		ui.progressContainer.Show()
	})
}

// SetProgress updates the progress bar
func (ui *RootUI) SetProgress(percent int) {
	fyne.Do(func() {
		ui.progressBar.SetValue(float64(percent))
	})
}

// HideProgress hides the progress bar
func (ui *RootUI) HideProgress() {
	fyne.Do(func() {
		ui.progressContainer.Hide()
	})
}

// Notify shows an information dialog
func (ui *RootUI) Notify(message string) {
	fyne.Do(func() {
		dialog.ShowInformation(ui.localization.GetText(KeyNotification), message, ui.window)
	})
}

// NotifyError shows an error dialog
func (ui *RootUI) NotifyError(message string) {
	fyne.Do(func() {
		dialog.ShowError(errors.New(message), ui.window)
	})
}

// Navigate opens the result URL in the browser, or saves it into the
// download directory when browser navigation is disabled
func (ui *RootUI) Navigate(rawURL string) {
	fyne.Do(func() {
		ui.cancelBtn.Disable()
	})

	if ui.settings.GetOpenInBrowser() {
		u, err := url.Parse(rawURL)
		if err == nil {
			err = ui.app.OpenURL(u)
		}
		if err != nil {
			log.Printf("Error opening %s: %v", rawURL, err)
			ui.NotifyError(fmt.Sprintf(ui.localization.GetText(KeyDownloadFailed), err))
		}
		return
	}

	go ui.saveResult(rawURL)
}

func (ui *RootUI) saveResult(rawURL string) {
	ui.clientMu.Lock()
	client := ui.client
	ui.clientMu.Unlock()

	saved, err := client.Save(ui.ctx, rawURL, ui.settings.GetDownloadDirectory())
	if err != nil {
		log.Printf("Error saving result %s: %v", rawURL, err)
		ui.NotifyError(fmt.Sprintf(ui.localization.GetText(KeyDownloadFailed), err))
		return
	}

	if ui.settings.GetAutoRevealOnComplete() {
		if err := platform.OpenFileInManager(saved); err != nil {
			log.Printf("Error revealing file %s: %v", saved, err)
			ui.NotifyError(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
		}
		return
	}
	ui.Notify(fmt.Sprintf(ui.localization.GetText(KeyDownloadSaved), saved))
}
