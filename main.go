package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/batch-uploader/internal/config"
	"github.com/ytget/batch-uploader/internal/platform"
	"github.com/ytget/batch-uploader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.batch-uploader"
	AppName = "Batch Uploader"

	WindowWidth  = 800
	WindowHeight = 600
)

func main() {
	fmt.Printf("Batch Uploader v%s starting...\n", version)

	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		fmt.Printf("failed to ensure downloads dir: %v\n", err)
	}

	if icon, err := ui.LoadLogoResource(); err == nil {
		myWindow.SetIcon(icon)
	}

	ui.NewRootUI(myWindow, myApp, settings)

	myWindow.ShowAndRun()
}
