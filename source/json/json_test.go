package json

import (
	"io"
	"testing"

	eng "github.com/reoring/taskmap/internal/engine"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Kind {
	t.Helper()
	var out []eng.Kind
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		out = append(out, tok.Kind)
	}
}

func TestJSONSource_KeysAndStringValues(t *testing.T) {
	src := NewBytes([]byte(`{"a":"x","b":{"c":"y"},"d":["e",{"f":"g"}],"h":1}`))
	got := kinds(t, src)
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindKey, eng.KindBeginArray, eng.KindString, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject, eng.KindEndArray,
		eng.KindKey, eng.KindNumber,
		eng.KindEndObject,
	}
	if len(got) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want %v, got %v", i, want[i], got[i])
		}
	}
}

func TestJSONSource_NumbersKeepText(t *testing.T) {
	src := NewBytes([]byte(`[12345678901234567890, 1.50]`))
	src.NextToken()
	tok, _ := src.NextToken()
	if tok.Kind != eng.KindNumber || tok.Number != "12345678901234567890" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	tok, _ = src.NextToken()
	if tok.Number != "1.50" {
		t.Fatalf("number text must be preserved, got %q", tok.Number)
	}
}

func TestJSONSource_ReportsOffsets(t *testing.T) {
	src := NewBytes([]byte(`{"a":1}`))
	if src.Location() != -1 {
		t.Fatalf("location before first token should be -1")
	}
	src.NextToken()
	if src.Location() <= 0 {
		t.Fatalf("expected positive offset, got %d", src.Location())
	}
}
