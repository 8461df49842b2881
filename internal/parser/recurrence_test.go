package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"vadimgribanov.com/tg-reminder/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  models.RecurrenceType
	}{
		{"Her gün saat 11:00'da su iç", models.RecurrenceTypeDaily},
		{"HER GÜN saat 11:00", models.RecurrenceTypeDaily},
		{"günlük rapor 18:00", models.RecurrenceTypeDaily},
		{"Her hafta saat 10:00 toplantı", models.RecurrenceTypeWeekly},
		{"Haftalık plan 09:00", models.RecurrenceTypeWeekly},
		{"Her pazartesi saat 09:00'da spor", models.RecurrenceTypeWeekly},
		{"Cumaları 17:00'de haftalık değerlendirme", models.RecurrenceTypeWeekly},
		{"Salı günleri 12:00 yüzme", models.RecurrenceTypeWeekly},
		{"Her ayın 1'inde fatura öde", models.RecurrenceTypeMonthly},
		{"her ay saat 10:00 kira", models.RecurrenceTypeMonthly},
		{"aylik rapor 10:00", models.RecurrenceTypeMonthly},
		{"Hafta içi saat 08:00 servis", models.RecurrenceTypeWeekdays},
		{"İŞ GÜNLERİ 09:00 stand-up", models.RecurrenceTypeWeekdays},
		{"Yarın saat 10:00'da toplantı", models.RecurrenceTypeNone},
		{"Pazartesi saat 10:00 dişçi", models.RecurrenceTypeNone},
		{"her ayşe 10:00", models.RecurrenceTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	assert.Equal(t, models.RecurrenceTypeDaily, Classify("her gün ve her ay saat 10:00"))
	assert.Equal(t, models.RecurrenceTypeDaily, Classify("her ay ve her gün saat 10:00"))
	assert.Equal(t, models.RecurrenceTypeWeekly, Classify("her hafta aylık özet 10:00"))
	assert.Equal(t, models.RecurrenceTypeMonthly, Classify("her ay hafta içi 10:00"))
}

func TestExtractWeekday(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"her pazartesi", 1},
		{"Her Salı", 2},
		{"her carsamba", 3},
		{"Perşembe günü", 4},
		{"her cuma", 5},
		{"her cumartesi", 6},
		{"her pazar", 7},
		{"pazarları kahvaltı", 7},
		{"cuma ve salı", 2},
		{"her hafta", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractWeekday(tt.input))
		})
	}
}

func TestExtractDayOfMonth(t *testing.T) {
	assert.Equal(t, 15, ExtractDayOfMonth("Her ayın 15'inde kira"))
	assert.Equal(t, 31, ExtractDayOfMonth("her ayin 31inde"))
	assert.Equal(t, 3, ExtractDayOfMonth("ayın 3'ü"))
	assert.Equal(t, 1, ExtractDayOfMonth("her ayın 45'inde"))
	assert.Equal(t, 1, ExtractDayOfMonth("her ayın 0'ında"))
	assert.Equal(t, 1, ExtractDayOfMonth("aylık"))
}

func TestExtractClock(t *testing.T) {
	clock, ok := ExtractClock("saat 9:05'te ilaç")
	assert.True(t, ok)
	assert.Equal(t, Clock{Hour: 9, Minute: 5}, clock)

	clock, ok = ExtractClock("10:00 ile 12:30 arası")
	assert.True(t, ok)
	assert.Equal(t, Clock{Hour: 10}, clock)

	clock, ok = ExtractClock("saat 25:99")
	assert.True(t, ok)
	assert.False(t, clock.Valid())

	_, ok = ExtractClock("saat onda")
	assert.False(t, ok)
}
