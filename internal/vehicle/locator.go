// Package vehicle finds the vehicle title in lease-contract text.
//
// The title is taken to be the first "clean" line of the document: a line that
// is not dominated by digits, carries no contact details and mentions none of
// the organisational or legal terms that open most broker letterheads. Quotes
// often print the model and the trim on two lines, so a clean line directly
// after the candidate is appended to it.
package vehicle

import (
	"strings"
	"unicode"

	"github.com/joseph-ayodele/lease-extractor/constants"
)

// maxDigitShare is the share of digit characters above which a line is
// treated as a number (phone, reference, price table row).
const maxDigitShare = 0.4

// NoiseKeywords are matched as substrings of the lowercased line.
var NoiseKeywords = []string{
	"vat", "contract", "consultancy", "tel", "phone",
	"email", "advert", "fee", "office", "company", "registered",
}

// Rule rejects lines that cannot be a vehicle title.
type Rule struct {
	Name string
	Skip func(line string) bool
}

// DefaultRules returns the skip rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "digit-heavy", Skip: func(l string) bool { return digitShare(l) > maxDigitShare }},
		{Name: "email", Skip: func(l string) bool { return strings.Contains(l, "@") }},
		{Name: "noise-keyword", Skip: hasNoiseKeyword},
		{Name: "no-letter", Skip: func(l string) bool { return !hasLetter(l) }},
	}
}

// Decision records what happened to one line during a scan.
type Decision struct {
	Line      string
	SkippedBy string // rule name, empty when the line was accepted
}

// Locator scans text with an ordered rule list.
type Locator struct {
	rules []Rule
}

// NewLocator uses DefaultRules when no rules are given.
func NewLocator(rules ...Rule) *Locator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Locator{rules: rules}
}

// Locate returns the vehicle title or constants.NotAvailable.
func (l *Locator) Locate(text string) string {
	lines := Lines(text)
	for i, line := range lines {
		if l.skippedBy(line) != "" {
			continue
		}
		if i+1 < len(lines) && l.isContinuation(lines[i+1]) {
			return line + " " + lines[i+1]
		}
		return line
	}
	return constants.NotAvailable
}

// Explain reports the rule that rejected each line up to and including the
// accepted candidate.
func (l *Locator) Explain(text string) []Decision {
	var out []Decision
	for _, line := range Lines(text) {
		rule := l.skippedBy(line)
		out = append(out, Decision{Line: line, SkippedBy: rule})
		if rule == "" {
			break
		}
	}
	return out
}

func (l *Locator) skippedBy(line string) string {
	for _, r := range l.rules {
		if r.Skip(line) {
			return r.Name
		}
	}
	return ""
}

// isContinuation accepts a trim/variant line. It must survive the same rules
// as the candidate, and its digit share must stay strictly under the limit.
func (l *Locator) isContinuation(next string) bool {
	return l.skippedBy(next) == "" && digitShare(next) < maxDigitShare
}

// Lines splits on newlines, trims each line and drops empty ones.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func digitShare(line string) float64 {
	total, digits := 0, 0
	for _, r := range line {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

func hasLetter(line string) bool {
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func hasNoiseKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range NoiseKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
