// Package record implements the generic field store that backs every decoded
// task, and the View through which the rest of a program reads it.
package record

import (
	"fmt"
	"strings"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/i18n"
)

// Presence is a bit flag describing how a field got its value.
type Presence uint8

const (
	Seen           Presence = 1 << iota // Field appeared in the input.
	DefaultApplied                      // Field was filled from its default literal.
)

func (p Presence) String() string {
	var parts []string
	if p&Seen != 0 {
		parts = append(parts, "seen")
	}
	if p&DefaultApplied != 0 {
		parts = append(parts, "default")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Entry is one stored field.
type Entry struct {
	Name     string
	Value    any
	Presence Presence
}

// Store maps field names to values in insertion order. A Store is written by
// one goroutine during decode, then frozen and shared read-only.
type Store struct {
	kind    string
	entries []Entry
	index   map[string]int
	frozen  bool
}

// New returns an empty store for the named kind.
func New(kind string, capacity int) *Store {
	return &Store{
		kind:    kind,
		entries: make([]Entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// Kind returns the name of the kind the store was built for.
func (s *Store) Kind() string { return s.kind }

// Len returns the number of stored fields.
func (s *Store) Len() int { return len(s.entries) }

// Set stores v under name and marks it seen. Setting an existing field
// replaces its value but keeps its position.
func (s *Store) Set(name string, v any) error {
	if s.frozen {
		return taskmap.NewIssues(taskmap.CodeFrozen, "/"+name, i18n.T(taskmap.CodeFrozen, nil))
	}
	if i, ok := s.index[name]; ok {
		s.entries[i].Value = v
		s.entries[i].Presence = Seen
		return nil
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Value: v, Presence: Seen})
	return nil
}

// MarkDefaulted records that name was filled from its default literal.
func (s *Store) MarkDefaulted(name string) error {
	if s.frozen {
		return taskmap.NewIssues(taskmap.CodeFrozen, "/"+name, i18n.T(taskmap.CodeFrozen, nil))
	}
	i, ok := s.index[name]
	if !ok {
		return missing(name)
	}
	s.entries[i].Presence = DefaultApplied
	return nil
}

// Freeze makes the store read-only.
func (s *Store) Freeze() { s.frozen = true }

// Frozen reports whether Freeze was called.
func (s *Store) Frozen() bool { return s.frozen }

// Get returns the value stored under name.
func (s *Store) Get(name string) (any, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, missing(name)
	}
	return s.entries[i].Value, nil
}

// Has reports whether name is stored.
func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Presence returns the presence flags of name.
func (s *Store) Presence(name string) (Presence, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.entries[i].Presence, true
}

// Fields returns the stored field names in insertion order.
func (s *Store) Fields() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Name
	}
	return out
}

// Snapshot returns a copy of the entries in insertion order.
func (s *Store) Snapshot() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// View returns the store's dispatch view.
func (s *Store) View() View { return s }

func (s *Store) String() string {
	b := &strings.Builder{}
	b.WriteString(s.kind)
	b.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s=%v", e.Name, e.Value)
	}
	b.WriteByte('}')
	return b.String()
}

func missing(name string) taskmap.Issues {
	return taskmap.Issues{{
		Path:    "/" + name,
		Code:    taskmap.CodeMissingField,
		Message: i18n.T(taskmap.CodeMissingField, map[string]string{"key": name}),
		Offset:  -1,
	}}
}

// Snapshotter is the record-store capability the encoder depends on.
type Snapshotter interface {
	Kind() string
	Snapshot() []Entry
}

var (
	_ Snapshotter = (*Store)(nil)
	_ View        = (*Store)(nil)
)
