package task

import (
	"context"
	"fmt"
	"io"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/i18n"
	eng "github.com/reoring/taskmap/internal/engine"
	"github.com/reoring/taskmap/kind"
	"github.com/reoring/taskmap/record"
	"github.com/reoring/taskmap/valuetype"
)

// Decode reads one JSON object from src as the named kind. On success the
// returned store is frozen and has passed every validator; on failure no
// store is returned and the error is taskmap.Issues.
func (m *Mapper) Decode(ctx context.Context, name string, src taskmap.Source) (*record.Store, error) {
	s, err := m.Schema(name)
	if err != nil {
		return nil, err
	}
	src = taskmap.EnforceSource(src, m.opt)
	first, err := src.NextToken()
	if err != nil {
		return nil, m.failed(name, taskmap.IssuesFrom("/", err))
	}
	st, err := m.decodeRecord(ctx, s, src, first)
	if err != nil {
		return nil, m.failed(name, err)
	}
	if err := taskmap.ExpectEOF(src); err != nil {
		return nil, m.failed(name, err)
	}
	return st, nil
}

// DecodeBytes decodes a JSON document.
func (m *Mapper) DecodeBytes(ctx context.Context, name string, b []byte) (*record.Store, error) {
	return m.Decode(ctx, name, taskmap.JSONBytes(b))
}

// DecodeReader decodes a JSON document read from r.
func (m *Mapper) DecodeReader(ctx context.Context, name string, r io.Reader) (*record.Store, error) {
	return m.Decode(ctx, name, taskmap.JSONReader(r))
}

// DecodeObject decodes an in-memory wire object, e.g. one produced by Encode.
func (m *Mapper) DecodeObject(ctx context.Context, name string, w taskmap.WireObject) (*record.Store, error) {
	return m.Decode(ctx, name, taskmap.ObjectSource(w))
}

func (m *Mapper) failed(name string, err error) error {
	iss := taskmap.IssuesFrom("/", err)
	m.logger.Debug("decode failed", "kind", name, "issues", len(iss), "error", iss.Error())
	return iss
}

// decodeRecord decodes the object starting with first against s.
func (m *Mapper) decodeRecord(ctx context.Context, s *kind.Schema, src taskmap.Source, first taskmap.Token) (*record.Store, error) {
	if first.Kind != taskmap.TokenBeginObject {
		if err := taskmap.SkipValue(src, first); err != nil {
			return nil, taskmap.IssuesFrom("/", err)
		}
		return nil, taskmap.Issues{{
			Path:    "/",
			Code:    taskmap.CodeInvalidType,
			Message: i18n.T(taskmap.CodeInvalidType, map[string]string{"expected": "object"}),
			Hint:    first.Kind.String(),
			Offset:  first.Offset,
		}}
	}

	st := record.New(s.Kind(), s.Len())
	seen := make(map[string]struct{}, s.Len())
	var iss taskmap.Issues
	// add collects issues and reports whether decoding should stop.
	add := func(more ...taskmap.Issue) bool {
		iss = append(iss, more...)
		return m.opt.FailFast
	}

	for {
		kt, err := src.NextToken()
		if err != nil {
			return nil, append(iss, taskmap.IssuesFrom("/", err)...)
		}
		if kt.Kind == taskmap.TokenEndObject {
			break
		}
		if kt.Kind != taskmap.TokenKey {
			return nil, append(iss, taskmap.Issue{Path: "/", Code: taskmap.CodeParseError, Message: "expected object key", Hint: kt.Kind.String(), Offset: kt.Offset})
		}
		path := eng.JoinPointer("", kt.String)
		if err := ctx.Err(); err != nil {
			return nil, append(iss, taskmap.IssuesFrom(path, err)...)
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, append(iss, taskmap.IssuesFrom(path, err)...)
		}

		d, ok := s.Lookup(kt.String)
		if !ok {
			if err := taskmap.SkipValue(src, vt); err != nil {
				return nil, append(iss, taskmap.IssuesFrom(path, err)...)
			}
			continue
		}
		seen[d.FieldName] = struct{}{}

		v, err := decodeValue(ctx, d.Type, taskmap.BoundValue(src, vt))
		if err != nil {
			if add(taskmap.RebaseIssues(path, taskmap.IssuesFrom("/", err))...) {
				return nil, iss
			}
			continue
		}
		if v == nil {
			if add(nullValue(d.WireKey, path, vt.Offset)) {
				return nil, iss
			}
			continue
		}
		if err := st.Set(d.FieldName, v); err != nil {
			return nil, append(iss, taskmap.IssuesFrom(path, err)...)
		}
	}

	for _, d := range s.Descriptors() {
		if _, ok := seen[d.FieldName]; ok {
			continue
		}
		path := eng.JoinPointer("", d.WireKey)
		if !d.HasDefault {
			if add(taskmap.Issue{
				Path:    path,
				Code:    taskmap.CodeRequired,
				Message: fmt.Sprintf("Field '%s' is required but not set", d.WireKey),
				Offset:  src.Location(),
				Params:  map[string]any{"key": d.WireKey},
			}) {
				return nil, iss
			}
			continue
		}
		v, err := decodeDefault(ctx, d)
		if err != nil {
			child := taskmap.RebaseIssues(path, taskmap.IssuesFrom("/", err))
			for i := range child {
				child[i].Hint = "default " + d.Default
			}
			if add(child...) {
				return nil, iss
			}
			continue
		}
		if v == nil {
			if add(nullValue(d.WireKey, path, -1)) {
				return nil, iss
			}
			continue
		}
		if err := st.Set(d.FieldName, v); err != nil {
			return nil, append(iss, taskmap.IssuesFrom(path, err)...)
		}
		if err := st.MarkDefaulted(d.FieldName); err != nil {
			return nil, append(iss, taskmap.IssuesFrom(path, err)...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	st.Freeze()
	if err := m.validate(ctx, s, st); err != nil {
		return nil, err
	}
	return st, nil
}

// decodeValue decodes one bound value and leaves the stream positioned after
// it, even when the value type stopped early.
func decodeValue(ctx context.Context, t valuetype.ValueType, bv taskmap.ValueSource) (any, error) {
	v, err := t.Decode(ctx, bv)
	if _, ferr := bv.Finish(); ferr != nil && err == nil {
		err = ferr
	}
	return v, err
}

// decodeDefault decodes a default literal exactly like input.
func decodeDefault(ctx context.Context, d kind.Descriptor) (any, error) {
	src := taskmap.JSONBytes([]byte(d.Default))
	v, err := d.Type.Decode(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := taskmap.ExpectEOF(src); err != nil {
		return nil, err
	}
	return v, nil
}

func nullValue(wireKey, path string, offset int64) taskmap.Issue {
	return taskmap.Issue{
		Path:    path,
		Code:    taskmap.CodeNullValue,
		Message: fmt.Sprintf("Field '%s' cannot be null; absent values require an option type", wireKey),
		Offset:  offset,
		Params:  map[string]any{"key": wireKey},
	}
}

func (m *Mapper) validate(ctx context.Context, s *kind.Schema, st *record.Store) error {
	run := func(v kind.Validator) error {
		err := v.Validate(ctx, st.View())
		if err == nil {
			return nil
		}
		if child, ok := taskmap.AsIssues(err); ok {
			out := make(taskmap.Issues, len(child))
			for i, it := range child {
				it.Code = taskmap.CodeValidation
				it.Cause = err
				out[i] = it
			}
			return out
		}
		return taskmap.Issues{{Path: "/", Code: taskmap.CodeValidation, Message: "validation failed: " + err.Error(), Cause: err, Offset: -1}}
	}
	for _, v := range s.Validators() {
		if err := run(v); err != nil {
			return err
		}
	}
	for _, v := range m.validators {
		if err := run(v); err != nil {
			return err
		}
	}
	return nil
}
