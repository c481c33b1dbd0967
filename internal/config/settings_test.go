package config

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestServerURL(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if url := settings.GetServerURL(); url != DefaultServerURL {
		t.Errorf("Expected default server URL %s, got %s", DefaultServerURL, url)
	}

	// Trailing slashes and spaces are trimmed
	settings.SetServerURL("  https://convert.example.com/api/  ")
	if url := settings.GetServerURL(); url != "https://convert.example.com/api" {
		t.Errorf("Expected trimmed URL, got %s", url)
	}

	// Empty value falls back to the default
	settings.SetServerURL("   ")
	if url := settings.GetServerURL(); url != DefaultServerURL {
		t.Errorf("Empty URL should default to %s, got %s", DefaultServerURL, url)
	}
}

func TestPollInterval(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if d := settings.GetPollInterval(); d != time.Second {
		t.Errorf("Expected default interval 1s, got %v", d)
	}

	tests := []struct {
		name     string
		ms       int
		expected time.Duration
	}{
		{"custom", 2500, 2500 * time.Millisecond},
		{"below minimum", 10, MinPollIntervalMs * time.Millisecond},
		{"negative", -5, MinPollIntervalMs * time.Millisecond},
		{"above maximum", 600000, MaxPollIntervalMs * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings.SetPollInterval(tt.ms)
			if d := settings.GetPollInterval(); d != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, d)
			}
		})
	}
}

func TestPollMaxAttempts(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Unbounded by default
	if n := settings.GetPollMaxAttempts(); n != 0 {
		t.Errorf("Expected default max attempts 0, got %d", n)
	}

	settings.SetPollMaxAttempts(30)
	if n := settings.GetPollMaxAttempts(); n != 30 {
		t.Errorf("Expected 30, got %d", n)
	}

	settings.SetPollMaxAttempts(-3) // Should be clamped to 0
	if n := settings.GetPollMaxAttempts(); n != 0 {
		t.Errorf("Negative attempts should be clamped to 0, got %d", n)
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestBooleanSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetOpenInBrowser() != DefaultOpenInBrowser {
		t.Errorf("Expected open in browser default %v", DefaultOpenInBrowser)
	}
	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Errorf("Expected auto reveal default %v", DefaultAutoRevealComplete)
	}

	settings.SetOpenInBrowser(false)
	settings.SetAutoRevealOnComplete(false)

	if settings.GetOpenInBrowser() {
		t.Error("Open in browser should be disabled")
	}
	if settings.GetAutoRevealOnComplete() {
		t.Error("Auto reveal should be disabled")
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	// Test setting custom value
	settings.SetLanguage("en")

	retrievedLang := settings.GetLanguage()
	if retrievedLang != "en" {
		t.Errorf("Expected language 'en', got %s", retrievedLang)
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}
