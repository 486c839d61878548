package valuetype

import (
	"time"

	"github.com/reoring/taskmap"
)

func decodeTimestamp(tok taskmap.Token) (any, bool, error) {
	if tok.Kind != taskmap.TokenString {
		return nil, false, nil
	}
	t, err := ParseTimestamp(tok.String)
	if err != nil {
		return nil, false, taskmap.Issues{{Path: "/", Code: taskmap.CodeInvalidFormat, Message: "invalid RFC3339 time", Hint: tok.String, Cause: err, Offset: tok.Offset}}
	}
	return t, true, nil
}

func encodeTimestamp(v any) (any, bool, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, false, nil
	}
	return FormatTimestamp(t), true, nil
}

// ParseTimestamp accepts RFC3339Nano (trailing zeros optional) and RFC3339.
// The result is in UTC, matching FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, s)
		if err2 != nil {
			return time.Time{}, err
		}
		t = t2
	}
	return t.UTC(), nil
}

// FormatTimestamp normalizes to UTC and formats using RFC3339Nano, which
// trims trailing zeros.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
