package api

import (
	"regexp"
	"strings"
	"viewer/internal/domain"
)

var fullNamePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)

const (
	msgEmptyName   = "Please enter some text."
	msgInvalidName = "Please enter a valid full name (e.g., John Doe)."
)

// ValidateName accepts exactly two alphabetic words separated by a single
// space and returns the trimmed input.
func ValidateName(input string) (string, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", domain.NewValidationError(msgEmptyName)
	}
	if !fullNamePattern.MatchString(name) || len(strings.Split(name, " ")) != 2 {
		return "", domain.NewValidationError(msgInvalidName)
	}
	return name, nil
}
