// Package task maps wire objects to task records and back.
//
// A Mapper holds a set of registered kinds and one field policy. Decode
// streams a JSON object against a kind's schema and returns a frozen
// record.Store; Encode turns any store back into an ordered wire object.
//
//	m := task.NewConfigMapper()
//	_ = m.Register(kind.Kind{Name: "Foo", Fields: []kind.Field{
//		{Name: "bar", Type: valuetype.String, WireKey: "bar"},
//		{Name: "baz", Type: valuetype.Long, WireKey: "baz", Default: "0"},
//	}})
//	rec, err := m.DecodeBytes(ctx, "Foo", []byte(`{"bar":"hello"}`))
package task

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/i18n"
	"github.com/reoring/taskmap/internal/logging"
	js "github.com/reoring/taskmap/jsonschema"
	"github.com/reoring/taskmap/kind"
	"github.com/reoring/taskmap/valuetype"
)

// Mapper decodes and encodes registered kinds under one policy. It is safe
// for concurrent use.
type Mapper struct {
	policy     kind.Policy
	cache      *kind.Cache
	logger     *slog.Logger
	validators []kind.Validator
	opt        taskmap.DecodeOpt

	mu    sync.RWMutex
	kinds map[string]kind.Kind
	order []string
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger. Mappers log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithValidator adds a validator that runs for every kind, after the kind's
// own validators.
func WithValidator(v kind.Validator) Option {
	return func(m *Mapper) { m.validators = append(m.validators, v) }
}

// WithDecodeOpt sets duplicate key, depth and size enforcement.
func WithDecodeOpt(o taskmap.DecodeOpt) Option {
	return func(m *Mapper) { m.opt = o }
}

// WithCache shares a schema cache between mappers, e.g. kind.Shared().
func WithCache(c *kind.Cache) Option {
	return func(m *Mapper) {
		if c != nil {
			m.cache = c
		}
	}
}

// New returns a Mapper using policy p.
func New(p kind.Policy, opts ...Option) *Mapper {
	m := &Mapper{
		policy: p,
		cache:  &kind.Cache{},
		logger: logging.Discard(),
		kinds:  make(map[string]kind.Kind),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewConfigMapper returns a Mapper for configuration objects: explicit wire
// keys and explicit defaults.
func NewConfigMapper(opts ...Option) *Mapper { return New(kind.ConfigPolicy, opts...) }

// NewTaskMapper returns a Mapper for internal task carriers: every field is
// keyed by its name and required.
func NewTaskMapper(opts ...Option) *Mapper { return New(kind.TaskPolicy, opts...) }

// Policy returns the mapper's field policy.
func (m *Mapper) Policy() kind.Policy { return m.policy }

// Register adds k. The kind is validated now; its schema is built and cached
// on first use.
func (m *Mapper) Register(k kind.Kind) error {
	if _, err := kind.Build(k, m.policy); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.kinds[k.Name]; dup {
		return taskmap.Issues{{Path: "/", Code: taskmap.CodeInvalidSchema, Message: fmt.Sprintf("kind '%s' already registered", k.Name), Offset: -1}}
	}
	m.kinds[k.Name] = k
	m.order = append(m.order, k.Name)
	m.logger.Debug("kind registered", "kind", k.Name, "policy", m.policy.String(), "fields", len(k.Fields))
	return nil
}

// Kinds returns the registered kind names in registration order.
func (m *Mapper) Kinds() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Schema returns the cached schema of a registered kind.
func (m *Mapper) Schema(name string) (*kind.Schema, error) {
	m.mu.RLock()
	k, ok := m.kinds[name]
	m.mu.RUnlock()
	if !ok {
		return nil, taskmap.Issues{{
			Path:    "/",
			Code:    taskmap.CodeUnknownKind,
			Message: i18n.T(taskmap.CodeUnknownKind, map[string]string{"kind": name}),
			Offset:  -1,
		}}
	}
	return m.cache.Get(k, m.policy)
}

// RecordType returns a value type that decodes a nested object as the named
// kind. The kind may be registered later; it is looked up at decode time.
func (m *Mapper) RecordType(name string) valuetype.ValueType {
	return recordType{m: m, kind: name}
}

// JSONSchema projects a kind and every kind it references through record
// fields. References point into $defs.
func (m *Mapper) JSONSchema(name string) (*js.Schema, error) {
	s, err := m.Schema(name)
	if err != nil {
		return nil, err
	}
	root := s.JSONSchema()
	defs := map[string]*js.Schema{}
	pending := collectRefs(root, nil)
	for len(pending) > 0 {
		ref := pending[0]
		pending = pending[1:]
		if _, done := defs[ref]; done || ref == name {
			continue
		}
		ds, err := m.Schema(ref)
		if err != nil {
			return nil, err
		}
		d := ds.JSONSchema()
		defs[ref] = d
		pending = collectRefs(d, pending)
	}
	if len(defs) > 0 {
		root.Defs = defs
	}
	return root, nil
}

const defPrefix = "#/$defs/"

func collectRefs(s *js.Schema, acc []string) []string {
	if s == nil {
		return acc
	}
	if name, ok := strings.CutPrefix(s.Ref, defPrefix); ok && name != "" {
		acc = append(acc, name)
	}
	for _, p := range s.Properties {
		acc = collectRefs(p, acc)
	}
	acc = collectRefs(s.Items, acc)
	for _, o := range s.OneOf {
		acc = collectRefs(o, acc)
	}
	return acc
}
