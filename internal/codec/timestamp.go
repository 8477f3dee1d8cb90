package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxTimestampSeconds keeps seconds*1000 plus the fraction inside int64
const maxTimestampSeconds = (math.MaxInt64 - 999) / 1000

// ParseTimestamp converts a wire timestamp to Unix milliseconds. The wire
// uses whole seconds ("1612137600") and fractional seconds with microsecond
// digits ("1612137600.500000"); digits below the millisecond are truncated.
func ParseTimestamp(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" {
		return 0, Malformed(nil, "invalid timestamp %q", raw)
	}

	seconds, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || seconds < 0 {
		return 0, Malformed(err, "invalid timestamp %q", raw)
	}
	if seconds > maxTimestampSeconds {
		return 0, Malformed(nil, "timestamp %q out of range", raw)
	}
	millis := seconds * 1000
	if !hasFrac {
		return millis, nil
	}

	if frac == "" || strings.TrimLeft(frac, "0123456789") != "" {
		return 0, Malformed(nil, "invalid timestamp %q", raw)
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	frac += strings.Repeat("0", 3-len(frac))
	ms, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, Malformed(err, "invalid timestamp %q", raw)
	}
	return millis + ms, nil
}

// FormatTimestamp renders Unix milliseconds in the wire's fractional form
func FormatTimestamp(millis int64) string {
	return fmt.Sprintf("%d.%03d000", millis/1000, millis%1000)
}

// Millis converts Unix milliseconds to a time.Time
func Millis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// ToTimestamp coerces a timestamp node (string or number) to Unix milliseconds.
// Null yields nil.
func ToTimestamp(node any) (*int64, error) {
	raw, err := ToString(node)
	if err != nil || raw == nil {
		return nil, err
	}
	ms, err := ParseTimestamp(*raw)
	if err != nil {
		return nil, err
	}
	return &ms, nil
}

// Timestamp returns the optional timestamp at key in Unix milliseconds
func (o Object) Timestamp(key string) (*int64, error) {
	ms, err := ToTimestamp(o[key])
	return ms, AtPath(err, key)
}
