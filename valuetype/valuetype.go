// Package valuetype holds the closed set of base value types a task field can
// carry, plus the composite types built from them.
//
// The five base types are singletons registered under a canonical name.
// Resolve and Format convert between the two, so kind definitions can name a
// type in configuration files.
package valuetype

import (
	"context"
	"fmt"
	"strings"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/i18n"
	js "github.com/reoring/taskmap/jsonschema"
)

// ValueType decodes one wire value into its Go representation and encodes it
// back. Decode reads exactly one value from src; a JSON null decodes to nil.
// Issue paths returned by Decode are relative to the value.
type ValueType interface {
	Name() string
	Decode(ctx context.Context, src taskmap.Source) (any, error)
	Encode(v any) (any, error)
	JSONSchema() *js.Schema
}

// registered lists the base types in registration order.
var registered = []ValueType{Boolean, Long, Double, String, Timestamp}

// Names returns the canonical names of the base types in registration order.
func Names() []string {
	out := make([]string, len(registered))
	for i, t := range registered {
		out[i] = t.Name()
	}
	return out
}

// Resolve returns the base type registered under name.
func Resolve(name string) (ValueType, error) {
	for _, t := range registered {
		if t.Name() == name {
			return t, nil
		}
	}
	supported := Names()
	return nil, taskmap.Issues{{
		Path:    "/",
		Code:    taskmap.CodeUnknownType,
		Message: fmt.Sprintf("Unknown type name '%s'. Supported types are: %s", name, strings.Join(supported, ", ")),
		Offset:  -1,
		Params:  map[string]any{"name": name, "supported": supported},
	}}
}

// Format returns the canonical name of a base type. Composite types have no
// registered name.
func Format(t ValueType) (string, error) {
	for _, r := range registered {
		if r == t {
			return r.Name(), nil
		}
	}
	name := "<nil>"
	if t != nil {
		name = t.Name()
	}
	return "", taskmap.Issues{{
		Path:    "/",
		Code:    taskmap.CodeUnknownType,
		Message: i18n.T(taskmap.CodeUnknownType, map[string]string{"name": name}),
		Offset:  -1,
		Params:  map[string]any{"name": name},
	}}
}

func invalidType(expected string, tok taskmap.Token) taskmap.Issues {
	return taskmap.Issues{{
		Path:    "/",
		Code:    taskmap.CodeInvalidType,
		Message: i18n.T(taskmap.CodeInvalidType, map[string]string{"expected": expected}),
		Hint:    tok.Kind.String(),
		Offset:  tok.Offset,
	}}
}

func encodeMismatch(name string, v any) taskmap.Issues {
	return taskmap.NewIssues(taskmap.CodeUnsupportedValue, "/", fmt.Sprintf("cannot encode %T as %s", v, name))
}
