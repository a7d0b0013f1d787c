package ui

import "testing"

func TestLocalization_FallbacksAndFormat(t *testing.T) {
	l := NewLocalization()

	if got := l.GetText(KeySearch); got != "Search" {
		t.Errorf("Expected English text, got %q", got)
	}

	l.SetLanguage("ru")
	if got := l.GetText(KeySearch); got != "Поиск" {
		t.Errorf("Expected Russian text, got %q", got)
	}

	l.SetLanguage("xx") // unknown language keeps the current one
	if l.GetCurrentLanguage() != "ru" {
		t.Errorf("Unknown language should be ignored, got %s", l.GetCurrentLanguage())
	}

	l.SetLanguage("system")
	if l.GetCurrentLanguage() != "en" {
		t.Errorf("System language should resolve to en, got %s", l.GetCurrentLanguage())
	}

	if got := l.GetText("missing_key"); got != "missing_key" {
		t.Errorf("Missing key should fall back to the key, got %q", got)
	}

	if got := l.Format(KeyCopiedMessage, 3); got != "3 URLs copied to the clipboard." {
		t.Errorf("Unexpected formatted text %q", got)
	}
}

func TestLocalization_AllLanguagesComplete(t *testing.T) {
	l := NewLocalization()
	english := l.texts["en"]

	for lang := range l.GetAvailableLanguages() {
		texts, ok := l.texts[lang]
		if !ok {
			t.Errorf("Language %s has no texts", lang)
			continue
		}
		for key := range english {
			if _, found := texts[key]; !found {
				t.Errorf("Language %s is missing key %s", lang, key)
			}
		}
	}
}
