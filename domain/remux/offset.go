package remux

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// clockRegex matches HH:MM:SS with optional fractional seconds
var clockRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(\.\d+)?$`)

// secondsRegex matches a plain, possibly negative, decimal number of seconds
var secondsRegex = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseOffset parses a time offset given either as seconds ("90", "1.5")
// or as a clock value ("00:01:30", "00:00:01.500")
func ParseOffset(s string) (float64, error) {
	if secondsRegex.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		return v, nil
	}

	matches := clockRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid offset format %q: expected seconds or HH:MM:SS[.fff]", s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	if minutes > 59 {
		return 0, fmt.Errorf("invalid offset %q: minutes must be 0-59", s)
	}
	if seconds > 59 {
		return 0, fmt.Errorf("invalid offset %q: seconds must be 0-59", s)
	}

	total := float64(hours*3600 + minutes*60 + seconds)
	if matches[4] != "" {
		frac, _ := strconv.ParseFloat("0"+matches[4], 64)
		total += frac
	}

	return total, nil
}

// FormatOffset renders seconds as HH:MM:SS.mmm
func FormatOffset(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, s, ms%1000)
}
