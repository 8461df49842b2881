package parser

import (
	"regexp"
	"strings"
)

// Normalize removes every phrase matched by patterns from text and
// collapses the remaining whitespace. Word order is kept. Patterns must be
// built with word so that group 1 holds the phrase.
func Normalize(text string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		for {
			loc := p.FindStringSubmatchIndex(text)
			if loc == nil || loc[2] < 0 || loc[2] == loc[3] {
				break
			}
			text = text[:loc[2]] + " " + text[loc[3]:]
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
