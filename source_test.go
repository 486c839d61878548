package taskmap_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/reoring/taskmap"
)

func drain(src taskmap.Source) error {
	for {
		if _, err := src.NextToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func TestEnforceSource_DuplicateKey_Error(t *testing.T) {
	opt := taskmap.DecodeOpt{Strictness: taskmap.Strictness{OnDuplicateKey: taskmap.Error}}
	err := drain(taskmap.EnforceSource(taskmap.JSONBytes([]byte(`{"a":1,"a":2}`)), opt))
	iss := taskmap.IssuesFrom("/", err)
	if len(iss) == 0 || iss[0].Code != taskmap.CodeDuplicateKey || iss[0].Path != "/a" {
		t.Fatalf("expected duplicate_key at /a, got: %v", err)
	}
}

func TestEnforceSource_DuplicateKey_WarnCallsSink(t *testing.T) {
	var warnings taskmap.Issues
	opt := taskmap.DecodeOpt{
		Strictness: taskmap.Strictness{OnDuplicateKey: taskmap.Warn},
		OnWarning:  func(it taskmap.Issue) { warnings = append(warnings, it) },
	}
	if err := drain(taskmap.EnforceSource(taskmap.JSONBytes([]byte(`[{"a":1,"a":2}]`)), opt)); err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Path != "/0/a" {
		t.Fatalf("expected one warning at /0/a, got %+v", warnings)
	}
}

func TestEnforceSource_MaxDepth_Exceeded(t *testing.T) {
	err := drain(taskmap.EnforceSource(taskmap.JSONBytes([]byte(`{"a":{"b":{"c":1}}}`)), taskmap.DecodeOpt{MaxDepth: 2}))
	iss := taskmap.IssuesFrom("/", err)
	if len(iss) == 0 || iss[0].Path != "/a/b" {
		t.Fatalf("expected path=/a/b for max depth, got: %v", err)
	}
}

func TestEnforceSource_MaxBytes_Exceeded(t *testing.T) {
	data := []byte(`{"a":"` + string(bytes.Repeat([]byte("x"), 64)) + `"}`)
	err := drain(taskmap.EnforceSource(taskmap.JSONBytes(data), taskmap.DecodeOpt{MaxBytes: 16}))
	if !taskmap.HasCode(taskmap.IssuesFrom("/", err), taskmap.CodeTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestEnforceSource_DisabledReturnsOriginal(t *testing.T) {
	src := taskmap.JSONBytes([]byte(`{}`))
	if got := taskmap.EnforceSource(src, taskmap.DecodeOpt{}); got != src {
		t.Fatalf("expected the original source when enforcement is disabled")
	}
}

func TestExpectEOF(t *testing.T) {
	src := taskmap.JSONBytes([]byte(`1 2`))
	src.NextToken()
	if err := taskmap.ExpectEOF(src); !taskmap.HasCode(err, taskmap.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}
	src = taskmap.JSONBytes([]byte(`1`))
	src.NextToken()
	if err := taskmap.ExpectEOF(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSkipValue_And_BoundValue(t *testing.T) {
	src := taskmap.JSONBytes([]byte(`{"skip":{"deep":[1,{"x":2}]},"keep":"v"}`))
	src.NextToken() // {
	src.NextToken() // "skip"
	first, _ := src.NextToken()
	if err := taskmap.SkipValue(src, first); err != nil {
		t.Fatalf("skip: %v", err)
	}
	key, _ := src.NextToken()
	if key.Kind != taskmap.TokenKey || key.String != "keep" {
		t.Fatalf("expected key 'keep' after skip, got %+v", key)
	}
	vt, _ := src.NextToken()
	bv := taskmap.BoundValue(src, vt)
	v, err := taskmap.ReadValue(bv)
	if err != nil || v != "v" {
		t.Fatalf("unexpected bound read: %v %v", v, err)
	}
	if left, err := bv.Finish(); left || err != nil {
		t.Fatalf("nothing should be left, got left=%v err=%v", left, err)
	}
}
