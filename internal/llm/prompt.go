package llm

import "strings"

const vehicleNamePrompt = `You are given raw text from a vehicle lease document.

Extract ONLY the vehicle name (make + model + variant if present).
Do NOT include prices, phone numbers, company names, or extra words.

If you cannot confidently find it, reply exactly:
Not Available

Text:
`

// BuildVehicleNamePrompt wraps already-bounded document text in the
// extraction instructions.
func BuildVehicleNamePrompt(text string) string {
	var b strings.Builder
	b.Grow(len(vehicleNamePrompt) + len(text) + 1)
	b.WriteString(vehicleNamePrompt)
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}
