package config

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/batch-uploader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyServerURL          = "server_url"
	KeyPollInterval       = "poll_interval_ms"
	KeyPollMaxAttempts    = "poll_max_attempts"
	KeyDownloadDir        = "download_directory"
	KeyOpenInBrowser      = "open_in_browser"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyLanguage           = "app_language"
)

// Default values
const (
	DefaultServerURL          = "http://127.0.0.1:5000"
	DefaultPollIntervalMs     = 1000
	DefaultPollMaxAttempts    = 0
	DefaultOpenInBrowser      = true
	DefaultAutoRevealComplete = true
	DefaultLanguage           = "system"

	MinPollIntervalMs = 100
	MaxPollIntervalMs = 60000
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetServerURL returns the processing server root URL
func (s *Settings) GetServerURL() string {
	url := strings.TrimSpace(s.app.Preferences().String(KeyServerURL))
	if url == "" {
		s.SetServerURL(DefaultServerURL)
		return DefaultServerURL
	}
	return url
}

// SetServerURL sets the processing server root URL
func (s *Settings) SetServerURL(url string) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		url = DefaultServerURL
	}
	s.app.Preferences().SetString(KeyServerURL, url)
}

// GetPollInterval returns the delay between status polls
func (s *Settings) GetPollInterval() time.Duration {
	ms := s.app.Preferences().IntWithFallback(KeyPollInterval, DefaultPollIntervalMs)
	return time.Duration(clampInterval(ms)) * time.Millisecond
}

// SetPollInterval sets the delay between status polls in milliseconds
func (s *Settings) SetPollInterval(ms int) {
	s.app.Preferences().SetInt(KeyPollInterval, clampInterval(ms))
}

// GetPollMaxAttempts returns the poll limit; 0 means poll until a terminal state
func (s *Settings) GetPollMaxAttempts() int {
	value := s.app.Preferences().IntWithFallback(KeyPollMaxAttempts, DefaultPollMaxAttempts)
	if value < 0 {
		return 0
	}
	return value
}

// SetPollMaxAttempts sets the poll limit
func (s *Settings) SetPollMaxAttempts(count int) {
	if count < 0 {
		count = 0
	}
	s.app.Preferences().SetInt(KeyPollMaxAttempts, count)
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetOpenInBrowser reports whether finished tasks open the download URL in
// the system browser instead of being saved by the app
func (s *Settings) GetOpenInBrowser() bool {
	return s.app.Preferences().BoolWithFallback(KeyOpenInBrowser, DefaultOpenInBrowser)
}

// SetOpenInBrowser sets how finished tasks are downloaded
func (s *Settings) SetOpenInBrowser(open bool) {
	s.app.Preferences().SetBool(KeyOpenInBrowser, open)
}

// GetAutoRevealOnComplete returns whether to reveal saved results in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal saved results
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

func clampInterval(ms int) int {
	if ms < MinPollIntervalMs {
		return MinPollIntervalMs
	}
	if ms > MaxPollIntervalMs {
		return MaxPollIntervalMs
	}
	return ms
}
