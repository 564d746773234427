package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
)

// ParseDay parses a YYYY-MM-DD date as midnight UTC. An empty string is no date.
func ParseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", common.ErrInvalidFilter, raw)
	}
	return &day, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
