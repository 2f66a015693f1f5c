package common

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	quotesRegex     = regexp.MustCompile("[\"'`]")
	anglesRegex     = regexp.MustCompile(`[<>]`)
	whitespaceRegex = regexp.MustCompile(`[\r\n\t]`)
)

// CleanForSharing strips quoting and markup characters from text destined
// for a share URL and truncates it to maxLen runes.
func CleanForSharing(text string, maxLen int) string {
	cleaned := quotesRegex.ReplaceAllString(text, "")
	cleaned = anglesRegex.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return cleaned
}

func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// ValidateReportReason checks a free-text report reason. An empty or
// whitespace-only reason means the user backed out, which callers treat
// as a silent cancel rather than an error.
func ValidateReportReason(reason string, minLen int) error {
	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < minLen {
		return NewValidationError("reason must contain at least %d characters", minLen)
	}
	return nil
}
