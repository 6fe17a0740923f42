package services

import (
	"strings"
	"unicode/utf8"
)

const (
	MinResumeLength = 100
	MaxResumeLength = 50000
)

// ValidateResumeText enforces the length bounds on resume text before any
// provider call is made. Length is counted in characters of the trimmed text.
func ValidateResumeText(text string) error {
	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case length == 0:
		return newError(KindEmptyInput, "Resume text cannot be empty", nil)
	case length < MinResumeLength:
		return newError(KindTooShort, "Resume text appears too short (minimum 100 characters)", nil)
	case length > MaxResumeLength:
		return newError(KindTooLong, "Resume text is too long (maximum 50,000 characters)", nil)
	}

	return nil
}
