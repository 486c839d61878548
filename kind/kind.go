// Package kind turns a declared capability kind into the field schema the
// task decoder works from.
//
// A Kind lists its fields in declaration order together with the explicit
// per-field metadata (wire key, default literal). Build applies a Policy to
// decide which fields take part in the wire form and which of them are
// required.
package kind

import (
	"context"
	"strings"

	"github.com/reoring/taskmap/record"
	"github.com/reoring/taskmap/valuetype"
)

// Kind is a named field contract.
type Kind struct {
	Name       string
	Fields     []Field
	Validators []Validator
}

// Field declares one accessor of a kind. WireKey and Default are the explicit
// metadata; an empty string means not supplied.
type Field struct {
	Name    string
	Type    valuetype.ValueType
	WireKey string
	// Default is a JSON literal decoded exactly like input, e.g. `0` or `"x"`.
	Default string
}

// Validator runs after a record has been assembled and frozen.
type Validator interface {
	Validate(ctx context.Context, v record.View) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, v record.View) error

func (f ValidatorFunc) Validate(ctx context.Context, v record.View) error { return f(ctx, v) }

// WireKeyPolicy selects how a field's wire key is determined.
type WireKeyPolicy int

const (
	// WireKeyIdentity uses the field name and includes every field.
	WireKeyIdentity WireKeyPolicy = iota
	// WireKeyExplicit includes only fields with a WireKey.
	WireKeyExplicit
	// WireKeyFieldName includes only fields with a WireKey but matches them
	// by field name. It reads records encoded from a WireKeyExplicit store.
	WireKeyFieldName
)

// DefaultPolicy selects whether default literals are honored.
type DefaultPolicy int

const (
	// DefaultNone makes every included field required.
	DefaultNone DefaultPolicy = iota
	// DefaultExplicit makes fields with a non-empty Default optional.
	DefaultExplicit
)

// Policy pairs the two field policies.
type Policy struct {
	WireKey WireKeyPolicy
	Default DefaultPolicy
}

var (
	// ConfigPolicy is the strict configuration-object policy.
	ConfigPolicy = Policy{WireKey: WireKeyExplicit, Default: DefaultExplicit}
	// TaskPolicy is the permissive internal-carrier policy.
	TaskPolicy = Policy{WireKey: WireKeyIdentity, Default: DefaultNone}
)

// Encoded returns the policy that decodes the output of task.Encode for a
// record built under p. Encoded records are keyed by field name and carry
// every field, so defaults do not apply.
func (p Policy) Encoded() Policy {
	if p.WireKey == WireKeyIdentity {
		return TaskPolicy
	}
	return Policy{WireKey: WireKeyFieldName, Default: DefaultNone}
}

var (
	wireKeyNames = map[WireKeyPolicy]string{
		WireKeyIdentity:  "identity",
		WireKeyExplicit:  "explicit",
		WireKeyFieldName: "fieldname",
	}
	defaultNames = map[DefaultPolicy]string{
		DefaultNone:     "none",
		DefaultExplicit: "explicit",
	}
)

func (p Policy) String() string {
	switch p {
	case ConfigPolicy:
		return "config"
	case TaskPolicy:
		return "task"
	}
	return wireKeyNames[p.WireKey] + "/" + defaultNames[p.Default]
}

// ParsePolicy parses the preset names "config" and "task" as well as the
// "<wirekey>/<default>" form produced by String.
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "config":
		return ConfigPolicy, true
	case "task":
		return TaskPolicy, true
	}
	wk, def, ok := strings.Cut(name, "/")
	if !ok {
		return Policy{}, false
	}
	var p Policy
	if p.WireKey, ok = lookupName(wireKeyNames, wk); !ok {
		return Policy{}, false
	}
	if p.Default, ok = lookupName(defaultNames, def); !ok {
		return Policy{}, false
	}
	return p, true
}

func lookupName[K comparable](names map[K]string, s string) (K, bool) {
	for k, n := range names {
		if n == s {
			return k, true
		}
	}
	var zero K
	return zero, false
}
