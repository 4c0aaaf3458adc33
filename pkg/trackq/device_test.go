package trackq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/trackq/pkg/trackq"
)

func TestAcceptLanguageFromLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"de_DE.UTF-8", "de-DE,de;q=0.9"},
		{"pt_BR@euro", "pt-BR,pt;q=0.9"},
		{"en_US", "en-US,en;q=0.9"},
		{"fr", "fr"},
		{"", "en-US,en;q=0.9"},
		{"C", "en-US,en;q=0.9"},
		{"POSIX", "en-US,en;q=0.9"},
		{"C.UTF-8", "en-US,en;q=0.9"},
		{"!!", "en-US,en;q=0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, trackq.AcceptLanguageFromLocale(tt.locale))
		})
	}
}

func TestDefaultDevice(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "ja_JP.UTF-8")

	d := trackq.DefaultDevice()
	assert.Equal(t, "ja-JP,ja;q=0.9", d.AcceptLanguage())
	assert.Zero(t, d.ScreenSize())

	t.Setenv("LC_ALL", "it_IT")
	assert.Equal(t, "it-IT,it;q=0.9", trackq.DefaultDevice().AcceptLanguage())
}

func TestStaticDevice(t *testing.T) {
	var d trackq.Device = testDevice
	assert.Equal(t, 375.0, d.ScreenSize().Width)
	assert.Equal(t, "de-DE,de;q=0.9", d.AcceptLanguage())
}
