package ui

import "fmt"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeySearch            = "search"
	KeyEnterKeyword      = "enter_keyword"
	KeyPleaseEnterKey    = "please_enter_keyword"
	KeyLoadMore          = "load_more"
	KeySelectAll         = "select_all"
	KeyDeselectAll       = "deselect_all"
	KeyDownloadSelected  = "download_selected"
	KeyCopyURLs          = "copy_urls"
	KeyChangeAPIKey      = "change_api_key"
	KeyAPIKeyLabel       = "api_key_label"
	KeyAPIKeyNotSet      = "api_key_not_set"
	KeyEnterAPIKey       = "enter_api_key"
	KeyNoResults         = "no_results"
	KeyNoResultsMessage  = "no_results_message"
	KeyError             = "error"
	KeyDownloadComplete  = "download_complete"
	KeyDownloadSummary   = "download_summary"
	KeyDownloadFailures  = "download_failures"
	KeyCopied            = "copied"
	KeyCopiedMessage     = "copied_message"
	KeySearching         = "searching"
	KeyDownloading       = "downloading"
	KeyDownloadProgress  = "download_progress"
	KeySelectedCount     = "selected_count"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyPageSize          = "page_size"
	KeyThumbnailSize     = "thumbnail_size"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyQuit              = "quit"
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

// Format returns the localized text for key with args substituted
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
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

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "ImageFinder",
		KeySearch:            "Search",
		KeyEnterKeyword:      "Enter a keyword (e.g. mountains)",
		KeyPleaseEnterKey:    "Please enter a keyword",
		KeyLoadMore:          "Load More",
		KeySelectAll:         "Select All",
		KeyDeselectAll:       "Deselect All",
		KeyDownloadSelected:  "Download Selected",
		KeyCopyURLs:          "Copy URLs",
		KeyChangeAPIKey:      "Change API Key",
		KeyAPIKeyLabel:       "API Key: %s",
		KeyAPIKeyNotSet:      "not set",
		KeyEnterAPIKey:       "Enter your Pixabay API key",
		KeyNoResults:         "No Results",
		KeyNoResultsMessage:  "No images found for \"%s\".",
		KeyError:             "Error",
		KeyDownloadComplete:  "Download Complete",
		KeyDownloadSummary:   "Saved %d images (%s) to %s",
		KeyDownloadFailures:  "%d images could not be saved.",
		KeyCopied:            "Copied",
		KeyCopiedMessage:     "%d URLs copied to the clipboard.",
		KeySearching:         "Searching...",
		KeyDownloading:       "Downloading %d images...",
		KeyDownloadProgress:  "Saved %d / %d",
		KeySelectedCount:     "Selected: %d / %d",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyPageSize:          "Results Per Page",
		KeyThumbnailSize:     "Thumbnail Size",
		KeyAutoReveal:        "Open folder after download",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyQuit:              "Quit",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "ImageFinder",
		KeySearch:            "Поиск",
		KeyEnterKeyword:      "Введите ключевое слово (например, горы)",
		KeyPleaseEnterKey:    "Пожалуйста, введите ключевое слово",
		KeyLoadMore:          "Загрузить ещё",
		KeySelectAll:         "Выбрать все",
		KeyDeselectAll:       "Снять выбор",
		KeyDownloadSelected:  "Скачать выбранные",
		KeyCopyURLs:          "Копировать URL",
		KeyChangeAPIKey:      "Изменить API ключ",
		KeyAPIKeyLabel:       "API ключ: %s",
		KeyAPIKeyNotSet:      "не задан",
		KeyEnterAPIKey:       "Введите API ключ Pixabay",
		KeyNoResults:         "Ничего не найдено",
		KeyNoResultsMessage:  "По запросу \"%s\" изображений нет.",
		KeyError:             "Ошибка",
		KeyDownloadComplete:  "Загрузка завершена",
		KeyDownloadSummary:   "Сохранено изображений: %d (%s) в %s",
		KeyDownloadFailures:  "Не удалось сохранить изображений: %d.",
		KeyCopied:            "Скопировано",
		KeyCopiedMessage:     "URL скопировано в буфер обмена: %d.",
		KeySearching:         "Поиск...",
		KeyDownloading:       "Загрузка изображений: %d...",
		KeyDownloadProgress:  "Сохранено %d / %d",
		KeySelectedCount:     "Выбрано: %d / %d",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyPageSize:          "Результатов на странице",
		KeyThumbnailSize:     "Размер миниатюр",
		KeyAutoReveal:        "Открыть папку после загрузки",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyQuit:              "Выход",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "ImageFinder",
		KeySearch:            "Buscar",
		KeyEnterKeyword:      "Digite uma palavra-chave (ex.: montanhas)",
		KeyPleaseEnterKey:    "Por favor, digite uma palavra-chave",
		KeyLoadMore:          "Carregar Mais",
		KeySelectAll:         "Selecionar Tudo",
		KeyDeselectAll:       "Desmarcar Tudo",
		KeyDownloadSelected:  "Baixar Selecionadas",
		KeyCopyURLs:          "Copiar URLs",
		KeyChangeAPIKey:      "Alterar Chave da API",
		KeyAPIKeyLabel:       "Chave da API: %s",
		KeyAPIKeyNotSet:      "não definida",
		KeyEnterAPIKey:       "Digite sua chave da API do Pixabay",
		KeyNoResults:         "Sem Resultados",
		KeyNoResultsMessage:  "Nenhuma imagem encontrada para \"%s\".",
		KeyError:             "Erro",
		KeyDownloadComplete:  "Download Concluído",
		KeyDownloadSummary:   "%d imagens salvas (%s) em %s",
		KeyDownloadFailures:  "%d imagens não puderam ser salvas.",
		KeyCopied:            "Copiado",
		KeyCopiedMessage:     "%d URLs copiadas para a área de transferência.",
		KeySearching:         "Buscando...",
		KeyDownloading:       "Baixando %d imagens...",
		KeyDownloadProgress:  "Salvas %d / %d",
		KeySelectedCount:     "Selecionadas: %d / %d",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Downloads Paralelos Máx.",
		KeyPageSize:          "Resultados por Página",
		KeyThumbnailSize:     "Tamanho das Miniaturas",
		KeyAutoReveal:        "Abrir pasta após o download",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Procurar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyQuit:              "Sair",
	}
}
