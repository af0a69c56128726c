package services

import "unicode/utf8"

const (
	MaxProjectNameLength        = 30
	MaxProjectDescriptionLength = 150
	MaxTaskTitleLength          = 30
	MaxTaskDescriptionLength    = 150
)

// validateLength checks 1 <= runes(value) <= max and names the field in the error.
func validateLength(field, value string, max int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return newError(KindValidation, "%s cannot be empty", field)
	}
	if n > max {
		return newError(KindValidation, "%s cannot exceed %d characters", field, max)
	}
	return nil
}
