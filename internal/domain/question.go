package domain

import (
	"strings"
	"time"
)

// Option is one of the four fixed answer labels.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// ParseOption trims and upper-cases s and reports whether it names one of
// the four labels.
func ParseOption(s string) (Option, bool) {
	o := Option(strings.ToUpper(strings.TrimSpace(s)))
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return o, true
	}
	return "", false
}

type Question struct {
	ID            int64
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption Option
	CreatedBy     string
	CreatedAt     time.Time
}
