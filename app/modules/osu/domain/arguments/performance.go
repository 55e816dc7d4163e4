package arguments

import (
	"strconv"
	"strings"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
)

// PerformanceQuery is a free-form pp request such as "95% 1200x 2m +HD".
type PerformanceQuery struct {
	Mods     int     `json:"mods"`
	Accuracy float64 `json:"accuracy"`
	Combo    int     `json:"combo"`
	Misses   int     `json:"misses"`
}

// ParsePerformanceQuery reads each space separated term by its prefix or
// suffix. Later terms override earlier ones; anything else is ignored.
func ParsePerformanceQuery(s string) PerformanceQuery {
	q := PerformanceQuery{Accuracy: 100}

	for _, term := range strings.Split(s, " ") {
		switch {
		case strings.HasPrefix(term, "+"):
			q.Mods = mods.ToValue(term[1:])
		case strings.HasSuffix(term, "%"):
			if f, err := strconv.ParseFloat(strings.TrimSuffix(term, "%"), 64); err == nil {
				q.Accuracy = f
			}
		case strings.HasSuffix(term, "x"):
			if n, ok := leadingInt(term); ok {
				q.Combo = n
			}
		case strings.HasSuffix(term, "m"):
			if n, ok := leadingInt(term); ok {
				q.Misses = n
			}
		}
	}

	return q
}
