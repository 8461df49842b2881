package telegram_utils

import (
	"strings"
	"unicode/utf16"
)

// MaxTelegramMessageLength is counted in UTF-16 code units, as Telegram does.
const MaxTelegramMessageLength = 4096

func messageLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// SplitMessage cuts text into chunks of at most limit UTF-16 code units,
// preferring line boundaries, whose newline is dropped from the chunk. Lines
// longer than limit are cut between runes.
func SplitMessage(text string, limit int) []string {
	if messageLength(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLength := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSuffix(current.String(), "\n"))
			current.Reset()
			currentLength = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLength := messageLength(line)
		if currentLength+lineLength > limit {
			flush()
		}
		if lineLength <= limit {
			current.WriteString(line)
			currentLength += lineLength
			continue
		}
		for _, r := range line {
			runeLength := utf16.RuneLen(r)
			if currentLength+runeLength > limit {
				flush()
			}
			current.WriteRune(r)
			currentLength += runeLength
		}
	}
	flush()

	return chunks
}
