package trackq

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/randalmurphal/trackq/pkg/trackq/event"
)

// Device describes the host the tracker runs on.
type Device interface {
	// ScreenSize returns the screen resolution in points.
	ScreenSize() event.Size

	// AcceptLanguage returns the preferred languages in
	// Accept-Language header format.
	AcceptLanguage() string
}

// StaticDevice is a Device with fixed values.
type StaticDevice struct {
	Screen   event.Size
	Language string
}

// ScreenSize implements Device.
func (d StaticDevice) ScreenSize() event.Size {
	return d.Screen
}

// AcceptLanguage implements Device.
func (d StaticDevice) AcceptLanguage() string {
	return d.Language
}

// fallbackLanguage is used when the environment names no usable locale.
const fallbackLanguage = "en-US"

// DefaultDevice returns a device with no known screen and the language
// taken from the process locale (LC_ALL, LC_MESSAGES, then LANG).
func DefaultDevice() StaticDevice {
	return StaticDevice{Language: AcceptLanguageFromLocale(localeFromEnv())}
}

func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// AcceptLanguageFromLocale converts a POSIX locale such as "de_DE.UTF-8"
// into an Accept-Language value such as "de-DE,de;q=0.9". Locales that do
// not name a language, including "C" and "POSIX", yield "en-US".
func AcceptLanguageFromLocale(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		locale = fallbackLanguage
	}

	tag, err := language.Parse(locale)
	if err != nil || tag == language.Und {
		tag = language.MustParse(fallbackLanguage)
	}

	base, conf := tag.Base()
	full := tag.String()
	if conf == language.No || base.String() == full {
		return full
	}
	return full + "," + base.String() + ";q=0.9"
}
