package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnknownLifetimeUnit is returned together with a best-effort duration
// when a lifetime string carries an unrecognized unit suffix. The value is
// still usable (the raw number is treated as seconds); callers decide
// whether to warn or reject.
var ErrUnknownLifetimeUnit = errors.New("unknown lifetime unit")

// ParseLifetime converts a lifetime string into a duration. Accepted forms
// are an integer followed by a single unit letter — "7d", "1h", "30m",
// "45s" — or a bare integer, which counts as seconds.
//
// An unrecognized unit does not discard the numeric part: the value is
// interpreted as seconds and ErrUnknownLifetimeUnit is returned alongside
// it, so the caller can surface a configuration warning while keeping the
// historical behavior.
func ParseLifetime(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty lifetime string")
	}

	num := s
	unit := byte(0)
	last := s[len(s)-1]
	if last < '0' || last > '9' {
		num = s[:len(s)-1]
		unit = last
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid lifetime %q", s)
	}

	switch unit {
	case 0, 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return time.Duration(n) * time.Second, ErrUnknownLifetimeUnit
	}
}
