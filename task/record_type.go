package task

import (
	"context"

	"github.com/reoring/taskmap"
	js "github.com/reoring/taskmap/jsonschema"
)

// recordType decodes a nested object through a mapper kind, defaults and
// validators included.
type recordType struct {
	m    *Mapper
	kind string
}

func (r recordType) Name() string { return "record<" + r.kind + ">" }

func (r recordType) JSONSchema() *js.Schema { return js.DefRef(r.kind) }

func (r recordType) Decode(ctx context.Context, src taskmap.Source) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, taskmap.IssuesFrom("/", err)
	}
	if tok.Kind == taskmap.TokenNull {
		return nil, nil
	}
	s, err := r.m.Schema(r.kind)
	if err != nil {
		return nil, err
	}
	st, err := r.m.decodeRecord(ctx, s, src, tok)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r recordType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return encodeValue(v, false)
}
