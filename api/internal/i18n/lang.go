package i18n

import "strings"

type Lang string

const (
	English Lang = "en"
	Hindi   Lang = "hi"

	Default = Hindi
)

// Parse accepts "en"/"hi" and a few spellings users actually type; anything else is the default.
func Parse(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "eng", "english":
		return English
	case "hi", "hin", "hindi", "हिंदी":
		return Hindi
	default:
		return Default
	}
}

func (l Lang) Valid() bool { return l == English || l == Hindi }

// Toggle flips between the two supported languages.
func (l Lang) Toggle() Lang {
	if l == English {
		return Hindi
	}
	return English
}

// SpeechLocale is the BCP 47 tag used for speech playback.
func (l Lang) SpeechLocale() string {
	if l == Hindi {
		return "hi-IN"
	}
	return "en-US"
}

// Label is the toggle caption shown for the current language.
func (l Lang) Label() string {
	if l == English {
		return "ENGLISH"
	}
	return "हिंदी"
}
