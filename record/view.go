package record

import (
	"fmt"
	"time"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/valuetype"
)

// View is the single accessor interface a decoded task is read through.
// Hand-written adapters for a kind embed a View and route each accessor to
// Get.
type View interface {
	Kind() string
	Get(name string) (any, error)
	Has(name string) bool
	Fields() []string
}

// Value returns the field as T.
func Value[T any](v View, name string) (T, error) {
	var zero T
	raw, err := v.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := raw.(T)
	if !ok {
		return zero, taskmap.Issues{{
			Path:    "/" + name,
			Code:    taskmap.CodeInvalidType,
			Message: fmt.Sprintf("field '%s' holds %T, not %T", name, raw, zero),
			Offset:  -1,
		}}
	}
	return t, nil
}

// String returns a string field.
func String(v View, name string) (string, error) { return Value[string](v, name) }

// Long returns a long field.
func Long(v View, name string) (int64, error) { return Value[int64](v, name) }

// Double returns a double field.
func Double(v View, name string) (float64, error) { return Value[float64](v, name) }

// Bool returns a boolean field.
func Bool(v View, name string) (bool, error) { return Value[bool](v, name) }

// Time returns a timestamp field.
func Time(v View, name string) (time.Time, error) { return Value[time.Time](v, name) }

// Record returns a nested record field.
func Record(v View, name string) (*Store, error) { return Value[*Store](v, name) }

// Seq returns a sequence field.
func Seq(v View, name string) ([]any, error) { return Value[[]any](v, name) }

// Optional returns an option field.
func Optional(v View, name string) (valuetype.Optional, error) {
	return Value[valuetype.Optional](v, name)
}
