package task

import (
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/record"
	"github.com/reoring/taskmap/valuetype"
)

// Encode turns a record store into a wire object keyed by field name, in
// snapshot order. Nested stores, sequences and options are encoded
// recursively. v must implement record.Snapshotter.
func Encode(v any) (taskmap.WireObject, error) {
	return encodeRecord(v, false)
}

// EncodePreserving is like Encode but leaves out fields that were filled from
// their default, so the output keeps the shape of the decoded input.
func EncodePreserving(v any) (taskmap.WireObject, error) {
	return encodeRecord(v, true)
}

// EncodeJSON encodes v as ordered JSON.
func EncodeJSON(v any) ([]byte, error) {
	w, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(w)
}

func encodeRecord(v any, preserving bool) (taskmap.WireObject, error) {
	s, ok := v.(record.Snapshotter)
	if !ok {
		return nil, taskmap.NewIssues(taskmap.CodeUnsupportedValue, "/", fmt.Sprintf("cannot encode %T: not a record store", v))
	}
	entries := s.Snapshot()
	out := make(taskmap.WireObject, 0, len(entries))
	for _, e := range entries {
		if preserving && e.Presence == record.DefaultApplied {
			continue
		}
		wv, err := encodeValue(e.Value, preserving)
		if err != nil {
			return nil, taskmap.RebaseIssues("/"+e.Name, taskmap.IssuesFrom("/", err))
		}
		out = append(out, taskmap.Pair{Key: e.Name, Value: wv})
	}
	return out, nil
}

func encodeValue(v any, preserving bool) (any, error) {
	switch t := v.(type) {
	case record.Snapshotter:
		w, err := encodeRecord(t, preserving)
		if err != nil {
			return nil, err
		}
		return w, nil
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			ev, err := encodeValue(it, preserving)
			if err != nil {
				return nil, taskmap.RebaseIssues("/"+strconv.Itoa(i), taskmap.IssuesFrom("/", err))
			}
			out[i] = ev
		}
		return out, nil
	case valuetype.Optional:
		if !t.Present {
			return nil, nil
		}
		return encodeValue(t.Value, preserving)
	}
	return valuetype.EncodeValue(v)
}
