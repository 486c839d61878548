package valuetype

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/i18n"
	js "github.com/reoring/taskmap/jsonschema"
)

// The base value types.
var (
	Boolean   ValueType = &scalar{name: "boolean", expected: "boolean", decode: decodeBool, encode: encodeBool, schema: js.Schema{Type: "boolean"}}
	Long      ValueType = &scalar{name: "long", expected: "integer", decode: decodeLong, encode: encodeLong, schema: js.Schema{Type: "integer"}}
	Double    ValueType = &scalar{name: "double", expected: "number", decode: decodeDouble, encode: encodeDouble, schema: js.Schema{Type: "number"}}
	String    ValueType = &scalar{name: "string", expected: "string", decode: decodeString, encode: encodeString, schema: js.Schema{Type: "string"}}
	Timestamp ValueType = &scalar{name: "timestamp", expected: "RFC3339 string", decode: decodeTimestamp, encode: encodeTimestamp, schema: js.Schema{Type: "string", Format: "date-time"}}
)

// scalar is a base type that reads a single scalar token.
type scalar struct {
	name     string
	expected string
	decode   func(tok taskmap.Token) (any, bool, error)
	encode   func(v any) (any, bool, error)
	schema   js.Schema
}

func (s *scalar) Name() string { return s.name }

func (s *scalar) String() string { return s.name }

func (s *scalar) JSONSchema() *js.Schema {
	out := s.schema
	return &out
}

func (s *scalar) Decode(ctx context.Context, src taskmap.Source) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, taskmap.IssuesFrom("/", err)
	}
	if tok.Kind == taskmap.TokenNull {
		return nil, nil
	}
	if !tok.IsScalar() {
		if err := taskmap.SkipValue(src, tok); err != nil {
			return nil, taskmap.IssuesFrom("/", err)
		}
		return nil, invalidType(s.expected, tok)
	}
	v, ok, err := s.decode(tok)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalidType(s.expected, tok)
	}
	return v, nil
}

func (s *scalar) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, ok, err := s.encode(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, encodeMismatch(s.name, v)
	}
	return out, nil
}

func decodeBool(tok taskmap.Token) (any, bool, error) {
	if tok.Kind != taskmap.TokenBool {
		return nil, false, nil
	}
	return tok.Bool, true, nil
}

func encodeBool(v any) (any, bool, error) {
	b, ok := v.(bool)
	return b, ok, nil
}

func decodeString(tok taskmap.Token) (any, bool, error) {
	if tok.Kind != taskmap.TokenString {
		return nil, false, nil
	}
	return tok.String, true, nil
}

func encodeString(v any) (any, bool, error) {
	s, ok := v.(string)
	return s, ok, nil
}

func decodeLong(tok taskmap.Token) (any, bool, error) {
	if tok.Kind != taskmap.TokenNumber {
		return nil, false, nil
	}
	n, err := ParseLong(tok.Number)
	if err != nil {
		iss := taskmap.IssuesFrom("/", err)
		iss[0].Offset = tok.Offset
		return nil, false, iss
	}
	return n, true, nil
}

// ParseLong parses a JSON number as int64. Integral floats such as 5.0 or
// 1e3 are accepted; fractions and out-of-range values are not.
func ParseLong(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, overflow("long", s)
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil && !errors.Is(ferr, strconv.ErrRange) {
		return 0, taskmap.NewIssues(taskmap.CodeInvalidFormat, "/", fmt.Sprintf("malformed number %q", s))
	}
	// 2^63 is exactly representable; anything at or beyond it overflows.
	if math.IsInf(f, 0) || f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
		return 0, overflow("long", s)
	}
	if f != math.Trunc(f) {
		return 0, taskmap.Issues{{Path: "/", Code: taskmap.CodeInvalidType, Message: i18n.T(taskmap.CodeInvalidType, map[string]string{"expected": "integer"}), Hint: s, Offset: -1}}
	}
	return int64(f), nil
}

func overflow(typ, s string) taskmap.Issues {
	return taskmap.Issues{{Path: "/", Code: taskmap.CodeOverflow, Message: i18n.T(taskmap.CodeOverflow, map[string]string{"type": typ}), Hint: s, Offset: -1}}
}

func encodeLong(v any) (any, bool, error) {
	switch n := v.(type) {
	case int64:
		return n, true, nil
	case int:
		return int64(n), true, nil
	case int32:
		return int64(n), true, nil
	case int16:
		return int64(n), true, nil
	case int8:
		return int64(n), true, nil
	case uint32:
		return int64(n), true, nil
	case uint16:
		return int64(n), true, nil
	case uint8:
		return int64(n), true, nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, false, overflow("long", strconv.FormatUint(n, 10))
		}
		return int64(n), true, nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return nil, false, overflow("long", strconv.FormatUint(uint64(n), 10))
		}
		return int64(n), true, nil
	}
	return nil, false, nil
}

func decodeDouble(tok taskmap.Token) (any, bool, error) {
	if tok.Kind != taskmap.TokenNumber {
		return nil, false, nil
	}
	f, err := strconv.ParseFloat(tok.Number, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			iss := overflow("double", tok.Number)
			iss[0].Offset = tok.Offset
			return nil, false, iss
		}
		return nil, false, taskmap.Issues{{Path: "/", Code: taskmap.CodeInvalidFormat, Message: fmt.Sprintf("malformed number %q", tok.Number), Offset: tok.Offset}}
	}
	return f, true, nil
}

func encodeDouble(v any) (any, bool, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return nil, false, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false, taskmap.NewIssues(taskmap.CodeUnsupportedValue, "/", fmt.Sprintf("non-finite double %v has no wire form", f))
	}
	return f, true, nil
}
