package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Number formats n with comma thousands separators.
func Number(n int64) string {
	return humanize.Comma(n)
}

// Floor2 floors f to two decimals and prints it without trailing zeros.
func Floor2(f float64) string {
	return strconv.FormatFloat(math.Floor(f*100)/100, 'f', -1, 64)
}

// Round2 rounds f to two decimals and prints it without trailing zeros.
func Round2(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

var agoUnits = []struct {
	name string
	size time.Duration
}{
	{"year", 365 * 24 * time.Hour},
	{"month", 30 * 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// Ago describes then relative to now in its largest whole unit.
func Ago(then, now time.Time) string {
	d := now.Sub(then)
	if d < time.Second {
		return "just now"
	}
	for _, u := range agoUnits {
		if d >= u.size {
			n := int64(d / u.size)
			if n == 1 {
				return fmt.Sprintf("1 %s ago", u.name)
			}
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}
	return "just now"
}

var grades = map[string]string{
	"XH": "SS+",
	"X":  "SS",
	"SH": "S+",
}

// Grade is the display form of an upstream rank letter.
func Grade(rank string) string {
	if g, ok := grades[strings.ToUpper(rank)]; ok {
		return g
	}
	return strings.ToUpper(rank)
}

// Duration prints seconds as m:ss.
func Duration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
