package codec

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"1612137600", 1612137600000},
		{"1612137600.500000", 1612137600500},
		{"1612137600.5", 1612137600500},
		{"1612137600.05", 1612137600050},
		{"1612137600.123999", 1612137600123},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "12.x5", "12.", ".5", "-1", "9223372036854776", "9223372036854775.5"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseTimestamp(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "1612137600.500000", FormatTimestamp(1612137600500))
	assert.Equal(t, "1612137600.007000", FormatTimestamp(1612137600007))

	ms, err := ParseTimestamp(FormatTimestamp(1612137600123))
	require.NoError(t, err)
	assert.Equal(t, int64(1612137600123), ms)
}

func TestObjectTimestamp(t *testing.T) {
	obj := Object{
		"ts":      "1612137600.500000",
		"created": json.Number("1612137600"),
		"bad":     []any{},
	}

	ts, err := obj.Timestamp("ts")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, int64(1612137600500), *ts)
	assert.Equal(t, int64(1612137600500), Millis(*ts).UnixMilli())

	created, err := obj.Timestamp("created")
	require.NoError(t, err)
	assert.Equal(t, int64(1612137600000), *created)

	missing, err := obj.Timestamp("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = obj.Timestamp("bad")
	var codecErr *Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, ReasonTypeMismatch, codecErr.Reason)
	assert.Equal(t, []string{"bad"}, codecErr.Path)
}
