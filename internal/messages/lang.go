package messages

import "strings"

type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

// FromLanguageCode maps a platform language code to a supported language.
func FromLanguageCode(code string) Lang {
	code = strings.ToLower(strings.TrimSpace(code))
	if strings.HasPrefix(code, "ru") {
		return RU
	}
	return EN
}
