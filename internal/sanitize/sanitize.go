// Package sanitize strips tokens that only add noise to field parsing.
package sanitize

import "regexp"

var (
	// phone numbers, account and reference ids
	reLongDigits = regexp.MustCompile(`\b\d{5,}\b`)
	reEmail      = regexp.MustCompile(`\S+@\S+`)
)

// Sanitize removes standalone digit runs of five or more digits, then
// email-like tokens. Everything else, including line breaks, is kept.
func Sanitize(raw string) string {
	out := reLongDigits.ReplaceAllString(raw, "")
	return reEmail.ReplaceAllString(out, "")
}
