package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders the drop zone, selected file list, start button and progress bar,
// and implements uploader.View on top of them. All UI strings are localized via Localization.
