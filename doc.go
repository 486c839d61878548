// Package taskmap maps JSON wire objects to typed task records and back.
//
// The root package holds the shared plumbing:
//
// - Source: a pull-based JSON token stream with pluggable drivers (encoding/json
//   by default, goccy/go-json via source/gojson) and runtime enforcement of
//   duplicate keys, nesting depth and input size
// - WireObject: an ordered JSON object used for encoder output and in-memory input
// - Issues: the error model shared by every package (JSON Pointer, code, message)
//
// Design policy:
// - Keep only shared public APIs in the root package; put token handling under internal/.
// - Value types live in valuetype/, field schemas in kind/, records in record/ and the
//   decoder/encoder in task/.
//
// Typical usage:
//
//  m := task.NewConfigMapper()
//  _ = m.Register(kind.Kind{Name: "Foo", Fields: fields})
//  rec, err := m.Decode(ctx, "Foo", taskmap.JSONBytes(data))
//  wire, err := task.Encode(rec)
//
package taskmap
