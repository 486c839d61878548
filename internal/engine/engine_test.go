package engine

import (
	"errors"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i * 10) }

func obj(members ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, members...)
	return append(out, Token{Kind: KindEndObject})
}

func TestSkip_NestedContainers(t *testing.T) {
	src := &sliceSource{toks: []Token{
		{Kind: KindKey, String: "a"},
		{Kind: KindBeginArray},
		{Kind: KindBeginObject},
		{Kind: KindEndObject},
		{Kind: KindEndArray},
		{Kind: KindEndObject},
		{Kind: KindKey, String: "after"},
	}}
	if err := Skip(src, Token{Kind: KindBeginObject}); err != nil {
		t.Fatalf("skip: %v", err)
	}
	tok, _ := src.NextToken()
	if tok.Kind != KindKey || tok.String != "after" {
		t.Fatalf("skip overran or underran, next=%+v", tok)
	}
}

func TestSkip_ScalarConsumesNothing(t *testing.T) {
	src := &sliceSource{toks: []Token{{Kind: KindKey, String: "k"}}}
	if err := Skip(src, Token{Kind: KindNull}); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if src.i != 0 {
		t.Fatalf("scalar skip must not read")
	}
}

func TestSkip_Truncated(t *testing.T) {
	src := &sliceSource{toks: []Token{{Kind: KindKey, String: "k"}}}
	if err := Skip(src, Token{Kind: KindBeginObject}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("want ErrUnexpectedEOF, got %v", err)
	}
	if err := Skip(src, Token{Kind: KindEndObject}); !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("want ErrUnexpectedToken, got %v", err)
	}
}

func drainAll(src TokenSource) error {
	for {
		if _, err := src.NextToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func TestEnforce_DuplicateKeyError(t *testing.T) {
	src := &sliceSource{toks: obj(
		Token{Kind: KindKey, String: "a"}, Token{Kind: KindNumber, Number: "1"},
		Token{Kind: KindKey, String: "a"}, Token{Kind: KindNumber, Number: "2"},
	)}
	err := drainAll(WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("want IssueError, got %v", err)
	}
	if ie.Code != CodeDuplicateKey || ie.Path != "/a" {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func TestEnforce_DuplicateKeyWarnGoesToSink(t *testing.T) {
	src := &sliceSource{toks: obj(
		Token{Kind: KindKey, String: "a"}, Token{Kind: KindNumber, Number: "1"},
		Token{Kind: KindKey, String: "a"}, Token{Kind: KindNumber, Number: "2"},
	)}
	var got []SimpleIssue
	err := drainAll(WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupWarn, IssueSink: func(si SimpleIssue) { got = append(got, si) }}))
	if err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if len(got) != 1 || got[0].Path != "/a" {
		t.Fatalf("want one warning at /a, got %+v", got)
	}
}

func TestEnforce_MaxDepthPath(t *testing.T) {
	// {"a":{"b":{"c":1}}}
	src := &sliceSource{toks: obj(
		Token{Kind: KindKey, String: "a"}, Token{Kind: KindBeginObject},
		Token{Kind: KindKey, String: "b"}, Token{Kind: KindBeginObject},
		Token{Kind: KindKey, String: "c"}, Token{Kind: KindNumber, Number: "1"},
		Token{Kind: KindEndObject}, Token{Kind: KindEndObject},
	)}
	err := drainAll(WrapWithEnforcement(src, EnforceOptions{MaxDepth: 2}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/a/b" {
		t.Fatalf("want max depth at /a/b, got %v", err)
	}
}

func TestEnforce_ArrayIndexPaths(t *testing.T) {
	// [{"x":1,"x":2}]
	src := &sliceSource{toks: []Token{
		{Kind: KindBeginArray},
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "x"}, {Kind: KindNumber, Number: "1"},
		{Kind: KindKey, String: "x"}, {Kind: KindNumber, Number: "2"},
		{Kind: KindEndObject},
		{Kind: KindEndArray},
	}}
	err := drainAll(WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/0/x" {
		t.Fatalf("want duplicate at /0/x, got %v", err)
	}
}

func TestEnforce_MaxBytes(t *testing.T) {
	src := &sliceSource{toks: obj(Token{Kind: KindKey, String: "a"}, Token{Kind: KindNumber, Number: "1"})}
	err := drainAll(WrapWithEnforcement(src, EnforceOptions{MaxBytes: 15}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeTruncated {
		t.Fatalf("want truncated, got %v", err)
	}
}

func TestJoinPointer_Escapes(t *testing.T) {
	if got := JoinPointer("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("unexpected pointer: %s", got)
	}
}
