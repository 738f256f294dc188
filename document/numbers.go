package document

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDecimal converts a decimal-comma string ("12,3") to a float. An empty
// string yields nil. Grouping spaces are ignored.
func ParseDecimal(s string) (*float64, error) {
	s = stripGrouping(s)
	if s == "" {
		return nil, nil
	}
	if strings.Count(s, ",") > 1 || (strings.Contains(s, ",") && strings.Contains(s, ".")) {
		return nil, fmt.Errorf("invalid decimal %q", s)
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q", s)
	}
	return &v, nil
}

// ParseCount converts an integer count attribute. An empty string yields nil.
func ParseCount(s string) (*int, error) {
	s = stripGrouping(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid count %q", s)
	}
	return &v, nil
}

func stripGrouping(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, " \u00a0") {
		return s
	}
	return strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
}
