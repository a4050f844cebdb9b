package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TTL is a duration read from text. On top of time.ParseDuration it accepts
// whole-number day ("100d") and week ("2w") values.
type TTL time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TTL) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return fmt.Errorf("empty duration")
	}

	for suffix, unit := range map[string]time.Duration{"d": 24 * time.Hour, "w": 7 * 24 * time.Hour} {
		if n, ok := strings.CutSuffix(s, suffix); ok {
			v, err := strconv.Atoi(n)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", s, err)
			}
			*t = TTL(time.Duration(v) * unit)
			return nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*t = TTL(d)
	return nil
}

// Duration returns t as a time.Duration.
func (t TTL) Duration() time.Duration {
	return time.Duration(t)
}
