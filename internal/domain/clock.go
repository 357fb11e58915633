package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxClock30h bounds the operator-day clock: hours run from 00 to 29.
const MaxClock30h = 30 * time.Hour

// ParseClock30h parses an operator-day time of the form HH:MM or HH:MM:SS,
// where HH may run past midnight up to 29. The result is the offset from the
// start of the operating day.
func ParseClock30h(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: want HH:MM or HH:MM:SS", s)
	}

	limits := []int{29, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}

	var d time.Duration
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("clock %q: field %d must have two digits", s, i+1)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("clock %q: field %d out of range", s, i+1)
		}
		d += time.Duration(n) * units[i]
	}
	return d, nil
}
