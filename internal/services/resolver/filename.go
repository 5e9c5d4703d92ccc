package resolver

import (
	"fmt"
	"regexp"
	"time"
)

var (
	controlChars  = regexp.MustCompile(`[\x00-\x1f\x80-\x9f]`)
	reservedChars = regexp.MustCompile(`[/\\?%*:|"<>]`)
	whitespace    = regexp.MustCompile(`\s+`)
	trailingDots  = regexp.MustCompile(`\.+$`)
)

const maxFileNameLength = 255

// GenerateFileName builds the upload filename from the page title and a
// timestamp, e.g. "Ticket_12345_1700000000000.md".
func GenerateFileName(pageTitle string, now time.Time) string {
	if pageTitle == "" {
		pageTitle = "untitled"
	}
	return SanitizeFileName(fmt.Sprintf("%s_%d.md", pageTitle, now.UnixMilli()))
}

// SanitizeFileName strips characters that are invalid in filenames on most
// systems, collapses whitespace to underscores, trims trailing periods and
// bounds the length. An input that sanitizes to nothing becomes "untitled".
func SanitizeFileName(input string) string {
	sanitized := controlChars.ReplaceAllString(input, "")
	sanitized = reservedChars.ReplaceAllString(sanitized, "")
	sanitized = whitespace.ReplaceAllString(sanitized, "_")
	sanitized = trailingDots.ReplaceAllString(sanitized, "")

	if len(sanitized) > maxFileNameLength {
		sanitized = sanitized[:maxFileNameLength]
	}

	if sanitized == "" {
		return "untitled"
	}
	return sanitized
}
