package parser

import (
	"regexp"
	"strings"
)

// word compiles a case-insensitive pattern that only matches between
// letter boundaries. The matched phrase is always capture group 1, so
// groups declared inside body start at 2.
func word(body string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` + body + `)(?:[^\p{L}]|$)`)
}

// tr turns a lower-case Turkish keyword into a pattern body that also
// accepts the ASCII spellings people type on keyboards without Turkish
// layout ("her gun" for "her gün"). Spaces match any run of whitespace.
func tr(keyword string) string {
	var b strings.Builder
	for _, r := range keyword {
		switch r {
		case ' ':
			b.WriteString(`\s+`)
		case 'c', 'ç':
			b.WriteString(`[cçÇ]`)
		case 'g', 'ğ':
			b.WriteString(`[gğĞ]`)
		case 'i', 'ı':
			b.WriteString(`[iıİ]`)
		case 'o', 'ö':
			b.WriteString(`[oöÖ]`)
		case 's', 'ş':
			b.WriteString(`[sşŞ]`)
		case 'u', 'ü':
			b.WriteString(`[uüÜ]`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func anyOf(keywords ...string) string {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		parts = append(parts, tr(k))
	}
	return `(?:` + strings.Join(parts, `|`) + `)`
}

// weekdayNames is ordered by ISO weekday; index 0 is Monday.
var weekdayNames = []string{"pazartesi", "salı", "çarşamba", "perşembe", "cuma", "cumartesi", "pazar"}

// "pazartesileri", "cumaları", "salı günü", "pazar günleri"
var weekdaySuffix = `(?:l[ae]r[iıİ]|\s+` + anyOf("günleri", "günü") + `)?`

var (
	clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	emailPattern = regexp.MustCompile(`(?s)^([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}):\s*(.+)$`)

	// "saat 10:00'da", "10:00dan", "18:30a", "20:00". Not bounded by
	// letters so it removes every token clockPattern can find.
	timePhrasePattern = regexp.MustCompile(`(?i)((?:` + tr("saat") + `\s*)?\d{1,2}:\d{2}(?:['’]?\p{L}+)?)`)
	tomorrowPattern   = word(tr("yarın"))
	dayWordPattern    = word(anyOf("yarın", "bugün"))

	dailyPattern    = word(anyOf("her gün", "günlük"))
	weeklyPattern   = word(anyOf("her hafta", "haftalık"))
	weeklyDayPhrase = word(tr("her") + `\s+` + anyOf(weekdayNames...) + weekdaySuffix +
		`|` + anyOf(weekdayNames...) + `(?:l[ae]r[iıİ]|\s+` + tr("günleri") + `)`)
	monthlyPattern  = word(tr("her ay") + `(?:` + tr("ın") + `)?|` + tr("aylık"))
	dayOfMonthToken = word(`(?:` + tr("her") + `\s+)?` + tr("ayın") + `\s*(\d{1,2})(?:['’]?\p{L}+)?`)
	weekdaysPattern = word(anyOf("hafta içleri", "hafta içi", "iş günleri"))

	weekdayPatterns = compileWeekdayPatterns()
)

func compileWeekdayPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(weekdayNames))
	for _, name := range weekdayNames {
		patterns = append(patterns, word(`(?:`+tr("her")+`\s+)?`+tr(name)+weekdaySuffix))
	}
	return patterns
}
