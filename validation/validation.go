// Package validation collects per-field violations at the API boundary so a
// request can be rejected with every offending field named at once.
package validation

import "strings"

// Violations maps field name to a stable reason code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// OneOf flags val when it is not in allowed. Empty val is left to Required.
func OneOf(field, val string, allowed []string, v Violations) {
	if val == "" {
		return
	}
	for _, a := range allowed {
		if val == a {
			return
		}
	}
	v[field] = "invalid_value"
}
