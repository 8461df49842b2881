package parser

import (
	"fmt"
	"strconv"
)

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ExtractClock returns the first HH:MM token of text. The values are not
// range checked.
func ExtractClock(text string) (Clock, bool) {
	match := clockPattern.FindStringSubmatch(text)
	if match == nil {
		return Clock{}, false
	}
	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return Clock{}, false
	}
	minute, err := strconv.Atoi(match[2])
	if err != nil {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}
