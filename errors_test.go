package taskmap_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/reoring/taskmap"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := taskmap.Issues{
		{Path: "/a", Code: taskmap.CodeRequired, Message: "Field 'a' is required but not set"},
		{Path: "/b", Code: taskmap.CodeNullValue},
		{Code: taskmap.CodeUnknownType, Message: "boom"},
		{Path: "/d", Code: taskmap.CodeInvalidType},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "required at /a: Field 'a' is required but not set; null_value at /b; unknown_type: boom") {
		t.Fatalf("unexpected summary: %s", s)
	}
	if !strings.HasSuffix(s, "(total 4)") {
		t.Fatalf("expected total suffix, got %s", s)
	}
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	err := taskmap.NewIssues(taskmap.CodeNullValue, "/baz", "x")
	wrapped := errors.Join(errors.New("outer"), err)
	if !taskmap.HasCode(wrapped, taskmap.CodeNullValue) {
		t.Fatalf("HasCode should see through wrapping")
	}
	if taskmap.HasCode(wrapped, taskmap.CodeRequired) {
		t.Fatalf("unexpected code match")
	}
	if taskmap.HasCode(nil, taskmap.CodeRequired) {
		t.Fatalf("nil error has no codes")
	}
}

func TestIssuesFrom(t *testing.T) {
	iss := taskmap.IssuesFrom("/x", io.ErrUnexpectedEOF)
	if len(iss) != 1 || iss[0].Code != taskmap.CodeParseError || iss[0].Path != "/x" {
		t.Fatalf("unexpected issues: %+v", iss)
	}
	if !errors.Is(iss, io.ErrUnexpectedEOF) {
		t.Fatalf("cause should be reachable through errors.Is")
	}
	ctxIss := taskmap.IssuesFrom("/", context.Canceled)
	if !strings.Contains(ctxIss[0].Message, "interrupted") {
		t.Fatalf("unexpected message: %s", ctxIss[0].Message)
	}
	orig := taskmap.NewIssues(taskmap.CodeRequired, "/a", "m")
	if got := taskmap.IssuesFrom("/ignored", orig); got[0].Path != "/a" {
		t.Fatalf("existing issues must be returned as-is, got %+v", got)
	}
}

func TestRebaseIssues(t *testing.T) {
	child := taskmap.Issues{{Path: "/"}, {Path: "/inner"}, {Path: "rel"}, {Path: ""}}
	got := taskmap.RebaseIssues("/outer", child)
	want := []string{"/outer", "/outer/inner", "/outer/rel", "/outer"}
	for i, it := range got {
		if it.Path != want[i] {
			t.Fatalf("issue %d: want %s, got %s", i, want[i], it.Path)
		}
	}
}
