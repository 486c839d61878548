package valuetype

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/i18n"
	js "github.com/reoring/taskmap/jsonschema"
)

// Optional is the decoded form of an Option value. Present is false when the
// wire value was null.
type Optional struct {
	Value   any
	Present bool
}

// Some returns a present Optional.
func Some(v any) Optional { return Optional{Value: v, Present: true} }

// None is the absent Optional.
var None = Optional{}

// Seq returns a sequence type whose elements decode through elem. The decoded
// form is []any. Elements may not be null; use Seq(Option(T)) for that.
func Seq(elem ValueType) ValueType { return seqType{elem: elem} }

type seqType struct{ elem ValueType }

func (s seqType) Name() string { return "seq<" + s.elem.Name() + ">" }

func (s seqType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "array", Items: s.elem.JSONSchema()}
}

func (s seqType) Decode(ctx context.Context, src taskmap.Source) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, taskmap.IssuesFrom("/", err)
	}
	switch tok.Kind {
	case taskmap.TokenNull:
		return nil, nil
	case taskmap.TokenBeginArray:
	default:
		if err := taskmap.SkipValue(src, tok); err != nil {
			return nil, taskmap.IssuesFrom("/", err)
		}
		return nil, invalidType("array", tok)
	}
	out := []any{}
	for {
		et, err := src.NextToken()
		if err != nil {
			return nil, taskmap.IssuesFrom("/", err)
		}
		if et.Kind == taskmap.TokenEndArray {
			return out, nil
		}
		path := "/" + strconv.Itoa(len(out))
		if err := ctx.Err(); err != nil {
			return nil, taskmap.IssuesFrom(path, err)
		}
		bv := taskmap.BoundValue(src, et)
		v, err := s.elem.Decode(ctx, bv)
		if err != nil {
			return nil, taskmap.RebaseIssues(path, taskmap.IssuesFrom("/", err))
		}
		if _, err := bv.Finish(); err != nil {
			return nil, taskmap.IssuesFrom(path, err)
		}
		if v == nil {
			return nil, taskmap.Issues{{Path: path, Code: taskmap.CodeNullValue, Message: "sequence elements cannot be null", Offset: et.Offset}}
		}
		out = append(out, v)
	}
}

func (s seqType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, encodeMismatch(s.Name(), v)
	}
	out := make([]any, len(items))
	for i, it := range items {
		ev, err := s.elem.Encode(it)
		if err != nil {
			return nil, taskmap.RebaseIssues("/"+strconv.Itoa(i), taskmap.IssuesFrom("/", err))
		}
		out[i] = ev
	}
	return out, nil
}

// Option returns a type that accepts null. The decoded form is Optional,
// never nil, so an Option field may be explicitly null on the wire.
func Option(elem ValueType) ValueType { return optionType{elem: elem} }

type optionType struct{ elem ValueType }

func (o optionType) Name() string { return "option<" + o.elem.Name() + ">" }

func (o optionType) JSONSchema() *js.Schema { return js.Nullable(o.elem.JSONSchema()) }

func (o optionType) Decode(ctx context.Context, src taskmap.Source) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, taskmap.IssuesFrom("/", err)
	}
	if tok.Kind == taskmap.TokenNull {
		return None, nil
	}
	v, err := o.elem.Decode(ctx, taskmap.BoundValue(src, tok))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return None, nil
	}
	return Some(v), nil
}

func (o optionType) Encode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Optional:
		if !t.Present {
			return nil, nil
		}
		return o.elem.Encode(t.Value)
	}
	return nil, encodeMismatch(o.Name(), v)
}

// JSON returns a type that keeps the wire value as an opaque tree:
// taskmap.WireObject, []any, taskmap.Number, string, bool.
func JSON() ValueType { return jsonType{} }

type jsonType struct{}

func (jsonType) Name() string { return "json" }

func (jsonType) JSONSchema() *js.Schema { return &js.Schema{} }

func (jsonType) Decode(_ context.Context, src taskmap.Source) (any, error) {
	return taskmap.ReadValue(src)
}

func (jsonType) Encode(v any) (any, error) {
	if _, err := taskmap.ReadValue(taskmap.ObjectSource(v)); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeValue encodes a decoded value without knowing its type, by looking at
// its Go representation. It is the inverse of every decode rule in this
// package.
func EncodeValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return t, nil
	case string:
		return t, nil
	case float64, float32:
		return Double.Encode(t)
	case Optional:
		if !t.Present {
			return nil, nil
		}
		return EncodeValue(t.Value)
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			ev, err := EncodeValue(it)
			if err != nil {
				return nil, taskmap.RebaseIssues("/"+strconv.Itoa(i), taskmap.IssuesFrom("/", err))
			}
			out[i] = ev
		}
		return out, nil
	case taskmap.WireObject, map[string]any, taskmap.Number:
		return JSON().Encode(t)
	}
	if out, ok, err := encodeLong(v); ok || err != nil {
		return out, err
	}
	if out, ok, _ := encodeTimestamp(v); ok {
		return out, nil
	}
	return nil, taskmap.NewIssues(taskmap.CodeUnsupportedValue, "/", fmt.Sprintf("%s: %T", i18n.T(taskmap.CodeUnsupportedValue, nil), v))
}
