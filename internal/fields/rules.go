package fields

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/lease-extractor/constants"
)

// patternRule captures one field from the lowercased text. The first match wins.
type patternRule struct {
	field  string
	re     *regexp.Regexp
	format func(group string) string
	assign func(r *Record, v string)
}

func keep(s string) string { return s }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var patternRules = []patternRule{
	{
		field:  constants.FieldMonthlyPayment,
		re:     regexp.MustCompile(`£([\d,.]+)\s*\+\s*vat per month`),
		format: keep,
		assign: func(r *Record, v string) { r.MonthlyPayment = v },
	},
	{
		field:  constants.FieldDownPayment,
		re:     regexp.MustCompile(`initial rental\s*£([\d,.]+)`),
		format: keep,
		assign: func(r *Record, v string) { r.DownPayment = v },
	},
	{
		field:  constants.FieldLeaseTermMonths,
		re:     regexp.MustCompile(`(\d+)\s*month term`),
		format: keep,
		assign: func(r *Record, v string) { r.LeaseTermMonths = v },
	},
	{
		field:  constants.FieldAnnualMileage,
		re:     regexp.MustCompile(`annual mileage allowance of\s*(\d+)`),
		format: keep,
		assign: func(r *Record, v string) { r.AnnualMileage = v },
	},
	{
		field:  constants.FieldTotalLeaseCost,
		re:     regexp.MustCompile(`total cost of lease over the term\s*£([\d,.]+)`),
		format: keep,
		assign: func(r *Record, v string) { r.TotalLeaseCost = v },
	},
	{
		field:  constants.FieldFuelType,
		re:     regexp.MustCompile(`fuel type\s*([a-z]+)`),
		format: capitalize,
		assign: func(r *Record, v string) { r.FuelType = v },
	},
	{
		field:  constants.FieldTransmission,
		re:     regexp.MustCompile(`transmission\s*([a-z]+)`),
		format: capitalize,
		assign: func(r *Record, v string) { r.Transmission = v },
	},
	{
		field:  constants.FieldCO2Emissions,
		re:     regexp.MustCompile(`co2\s*(\d+)\s*g/km`),
		format: func(g string) string { return g + " g/km" },
		assign: func(r *Record, v string) { r.CO2Emissions = v },
	},
	{
		field:  constants.FieldP11DValue,
		re:     regexp.MustCompile(`p11d\s*£([\d,.]+)`),
		format: keep,
		assign: func(r *Record, v string) { r.P11DValue = v },
	},
}

func applyPatternRules(r *Record, lower string) {
	for _, rule := range patternRules {
		m := rule.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		rule.assign(r, rule.format(m[1]))
	}
}

func excessMileage(lower string) string {
	if strings.Contains(lower, "excess mileage") {
		return constants.Present
	}
	return constants.NotAvailable
}

// maintenance: the negative phrase wins when both appear.
func maintenance(lower string) string {
	switch {
	case strings.Contains(lower, "does not include maintenance"):
		return constants.No
	case strings.Contains(lower, "includes maintenance"):
		return constants.Yes
	default:
		return constants.NotAvailable
	}
}
