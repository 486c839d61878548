package record_test

import (
	"testing"
	"time"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/record"
	"github.com/reoring/taskmap/valuetype"
)

func TestStore_InsertionOrderAndOverwrite(t *testing.T) {
	s := record.New("Foo", 2)
	s.Set("b", "x")
	s.Set("a", int64(1))
	s.Set("b", "y")
	snap := s.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[0].Value != "y" || snap[1].Name != "a" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if s.Kind() != "Foo" || s.Len() != 2 {
		t.Fatalf("unexpected kind/len %s %d", s.Kind(), s.Len())
	}
}

func TestStore_FrozenRejectsWrites(t *testing.T) {
	s := record.New("Foo", 0)
	s.Set("a", true)
	s.Freeze()
	if err := s.Set("a", false); !taskmap.HasCode(err, taskmap.CodeFrozen) {
		t.Fatalf("expected frozen, got %v", err)
	}
	if err := s.MarkDefaulted("a"); !taskmap.HasCode(err, taskmap.CodeFrozen) {
		t.Fatalf("expected frozen, got %v", err)
	}
	if v, _ := s.Get("a"); v != true {
		t.Fatalf("value changed after freeze: %v", v)
	}
}

func TestStore_Presence(t *testing.T) {
	s := record.New("Foo", 0)
	s.Set("seen", 1)
	s.Set("def", 2)
	if err := s.MarkDefaulted("def"); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Presence("seen"); p != record.Seen {
		t.Fatalf("unexpected presence %v", p)
	}
	if p, _ := s.Presence("def"); p != record.DefaultApplied {
		t.Fatalf("unexpected presence %v", p)
	}
	if err := s.MarkDefaulted("nope"); !taskmap.HasCode(err, taskmap.CodeMissingField) {
		t.Fatalf("expected missing_field, got %v", err)
	}
}

func TestStore_GetMissing(t *testing.T) {
	_, err := record.New("Foo", 0).Get("bar")
	iss, ok := taskmap.AsIssues(err)
	if !ok || iss[0].Code != taskmap.CodeMissingField || iss[0].Path != "/bar" {
		t.Fatalf("expected missing_field at /bar, got %v", err)
	}
}

// fooTask is how callers adapt a View to a kind's accessor contract.
type fooTask struct{ record.View }

func (f fooTask) Bar() (string, error) { return record.String(f, "bar") }
func (f fooTask) Baz() (int64, error)  { return record.Long(f, "baz") }

func TestView_TypedAccessors(t *testing.T) {
	now := time.Now()
	nested := record.New("Inner", 0)
	s := record.New("Foo", 0)
	s.Set("bar", "hello")
	s.Set("baz", int64(7))
	s.Set("at", now)
	s.Set("inner", nested)
	s.Set("list", []any{int64(1)})
	s.Set("opt", valuetype.Some(1.5))
	s.Freeze()

	foo := fooTask{s.View()}
	if bar, err := foo.Bar(); err != nil || bar != "hello" {
		t.Fatalf("bar: %v %v", bar, err)
	}
	if baz, err := foo.Baz(); err != nil || baz != 7 {
		t.Fatalf("baz: %v %v", baz, err)
	}
	if at, _ := record.Time(s, "at"); !at.Equal(now) {
		t.Fatalf("time mismatch")
	}
	if in, _ := record.Record(s, "inner"); in != nested {
		t.Fatalf("nested record mismatch")
	}
	if l, _ := record.Seq(s, "list"); len(l) != 1 {
		t.Fatalf("seq mismatch")
	}
	if o, _ := record.Optional(s, "opt"); !o.Present || o.Value != 1.5 {
		t.Fatalf("optional mismatch %+v", o)
	}
	if _, err := record.Long(s, "bar"); !taskmap.HasCode(err, taskmap.CodeInvalidType) {
		t.Fatalf("expected invalid_type, got %v", err)
	}
}
