package ui

import "github.com/ytget/batch-uploader/internal/uploader"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyDropHint           = "drop_hint"
	KeyStartUpload        = "start_upload"
	KeyCancelUpload       = "cancel_upload"
	KeyRemove             = "remove"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyServerURL          = "server_url"
	KeyPollInterval       = "poll_interval"
	KeyPollMaxAttempts    = "poll_max_attempts"
	KeyDownloadDirectory  = "download_directory"
	KeyOpenInBrowser      = "open_in_browser"
	KeyAutoReveal         = "auto_reveal"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeySettingsSaved      = "settings_saved"
	KeyInvalidServerURL   = "invalid_server_url"
	KeyNotification       = "notification"
	KeyError              = "error"
	KeyUploadFailed       = "upload_failed"
	KeyProcessingComplete = "processing_complete"
	KeyProcessingFailed   = "processing_failed"
	KeyPollFailed         = "poll_failed"
	KeyDownloadSaved      = "download_saved"
	KeyDownloadFailed     = "download_failed"
	KeyErrorOpeningFile   = "error_opening_file"
	KeyFilesSelected      = "files_selected"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// Messages returns the controller notification texts in the current language
func (l *Localization) Messages() uploader.Messages {
	return uploader.Messages{
		UploadFailed:       l.GetText(KeyUploadFailed),
		ProcessingComplete: l.GetText(KeyProcessingComplete),
		ProcessingFailed:   l.GetText(KeyProcessingFailed),
		PollFailed:         l.GetText(KeyPollFailed),
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Batch Uploader",
		KeyDropHint:           "Drop files here or click to choose",
		KeyStartUpload:        "Start Upload",
		KeyCancelUpload:       "Cancel",
		KeyRemove:             "Remove",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyServerURL:          "Server URL",
		KeyPollInterval:       "Status Poll Interval (ms)",
		KeyPollMaxAttempts:    "Max Status Polls (0 = unlimited)",
		KeyDownloadDirectory:  "Download Directory",
		KeyOpenInBrowser:      "Open result in browser",
		KeyAutoReveal:         "Reveal saved result in file manager",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeySettingsSaved:      "Settings saved successfully!",
		KeyInvalidServerURL:   "Invalid server URL",
		KeyNotification:       "Notification",
		KeyError:              "Error",
		KeyUploadFailed:       "Upload failed: %v",
		KeyProcessingComplete: "Processing complete! Downloading...",
		KeyProcessingFailed:   "Processing failed: %s",
		KeyPollFailed:         "Could not get task status: %v",
		KeyDownloadSaved:      "Result saved to %s",
		KeyDownloadFailed:     "Download failed: %v",
		KeyErrorOpeningFile:   "Error opening file",
		KeyFilesSelected:      "%d file(s) selected",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Пакетная загрузка",
		KeyDropHint:           "Перетащите файлы сюда или нажмите для выбора",
		KeyStartUpload:        "Начать загрузку",
		KeyCancelUpload:       "Отмена",
		KeyRemove:             "Удалить",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyServerURL:          "URL сервера",
		KeyPollInterval:       "Интервал опроса статуса (мс)",
		KeyPollMaxAttempts:    "Макс. опросов (0 = без ограничений)",
		KeyDownloadDirectory:  "Папка загрузки",
		KeyOpenInBrowser:      "Открывать результат в браузере",
		KeyAutoReveal:         "Показывать результат в файловом менеджере",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeySettingsSaved:      "Настройки успешно сохранены!",
		KeyInvalidServerURL:   "Неверный URL сервера",
		KeyNotification:       "Уведомление",
		KeyError:              "Ошибка",
		KeyUploadFailed:       "Ошибка загрузки: %v",
		KeyProcessingComplete: "Обработка завершена! Скачивание...",
		KeyProcessingFailed:   "Ошибка обработки: %s",
		KeyPollFailed:         "Не удалось получить статус задачи: %v",
		KeyDownloadSaved:      "Результат сохранён в %s",
		KeyDownloadFailed:     "Ошибка скачивания: %v",
		KeyErrorOpeningFile:   "Ошибка открытия файла",
		KeyFilesSelected:      "Выбрано файлов: %d",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Envio em Lote",
		KeyDropHint:           "Solte arquivos aqui ou clique para escolher",
		KeyStartUpload:        "Iniciar Envio",
		KeyCancelUpload:       "Cancelar",
		KeyRemove:             "Remover",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyServerURL:          "URL do Servidor",
		KeyPollInterval:       "Intervalo de Consulta (ms)",
		KeyPollMaxAttempts:    "Máx. Consultas (0 = ilimitado)",
		KeyDownloadDirectory:  "Diretório de Download",
		KeyOpenInBrowser:      "Abrir resultado no navegador",
		KeyAutoReveal:         "Mostrar resultado no gerenciador de arquivos",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyBrowse:             "Navegar",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
		KeyInvalidServerURL:   "URL do servidor inválida",
		KeyNotification:       "Notificação",
		KeyError:              "Erro",
		KeyUploadFailed:       "Falha no envio: %v",
		KeyProcessingComplete: "Processamento concluído! Baixando...",
		KeyProcessingFailed:   "Falha no processamento: %s",
		KeyPollFailed:         "Não foi possível obter o status da tarefa: %v",
		KeyDownloadSaved:      "Resultado salvo em %s",
		KeyDownloadFailed:     "Falha no download: %v",
		KeyErrorOpeningFile:   "Erro ao abrir arquivo",
		KeyFilesSelected:      "%d arquivo(s) selecionado(s)",
	}
}
