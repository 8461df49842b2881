package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"vadimgribanov.com/tg-reminder/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"time with suffix", "Saat 20:00'da   film izle", "film izle"},
		{"time in the middle", "annemi saat 18:30'da ara", "annemi ara"},
		{"curly apostrophe", "saat 09:15’te otobüs", "otobüs"},
		{"bare time", "10:00 ilaç", "ilaç"},
		{"unrelated apostrophe stays", "Ali'nin doğum günü 12:00", "Ali'nin doğum günü"},
		{"nothing to strip", "  su   iç ", "su iç"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input, timePhrasePattern))
		})
	}
}

func TestNormalize_RecurrencePhrases(t *testing.T) {
	daily := stripPatterns(models.RecurrenceTypeDaily)
	assert.Equal(t, "su iç", Normalize("HER GÜN su iç", daily...))
	assert.Equal(t, "su iç ve yine su iç", Normalize("her gün su iç ve her gün yine su iç", daily...))

	weekdays := stripPatterns(models.RecurrenceTypeWeekdays)
	assert.Equal(t, "servis", Normalize("hafta içleri servis", weekdays...))

	monthly := append([]*regexp.Regexp{dayOfMonthToken}, stripPatterns(models.RecurrenceTypeMonthly)...)
	assert.Equal(t, "fatura öde", Normalize("Her ayın 1'inde fatura öde", monthly...))

	oneTime := stripPatterns(models.RecurrenceTypeNone)
	assert.Equal(t, "dişçi", Normalize("yarın dişçi", oneTime...))
}

func TestNormalize_KeepsWordOrder(t *testing.T) {
	got := Normalize("raporu yarın saat 09:00'da Ayşe'ye gönder", dayWordPattern, timePhrasePattern)
	assert.Equal(t, "raporu Ayşe'ye gönder", got)
}
