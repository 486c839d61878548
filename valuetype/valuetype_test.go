package valuetype_test

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/valuetype"
)

func decode(t *testing.T, vt valuetype.ValueType, in string) (any, error) {
	t.Helper()
	return vt.Decode(context.Background(), taskmap.JSONBytes([]byte(in)))
}

func TestResolve_FiveDistinctSingletons(t *testing.T) {
	names := []string{"boolean", "long", "double", "string", "timestamp"}
	seen := map[valuetype.ValueType]string{}
	for _, n := range names {
		vt, err := valuetype.Resolve(n)
		if err != nil {
			t.Fatalf("resolve %s: %v", n, err)
		}
		again, _ := valuetype.Resolve(n)
		if vt != again {
			t.Fatalf("resolve %s should return the same singleton", n)
		}
		if prev, dup := seen[vt]; dup {
			t.Fatalf("%s and %s resolved to the same type", prev, n)
		}
		seen[vt] = n
		if got, err := valuetype.Format(vt); err != nil || got != n {
			t.Fatalf("format(resolve(%s)) = %q, %v", n, got, err)
		}
	}
	if got := strings.Join(valuetype.Names(), ","); got != strings.Join(names, ",") {
		t.Fatalf("unexpected registration order: %s", got)
	}
}

func TestResolve_UnknownTypeListsSupportedNames(t *testing.T) {
	_, err := valuetype.Resolve("bogus")
	if !taskmap.HasCode(err, taskmap.CodeUnknownType) {
		t.Fatalf("expected unknown_type, got %v", err)
	}
	iss, _ := taskmap.AsIssues(err)
	want := "Unknown type name 'bogus'. Supported types are: boolean, long, double, string, timestamp"
	if iss[0].Message != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", iss[0].Message, want)
	}
	if iss[0].Params["name"] != "bogus" {
		t.Fatalf("expected name param, got %+v", iss[0].Params)
	}
}

func TestFormat_CompositeIsNotRegistered(t *testing.T) {
	if _, err := valuetype.Format(valuetype.Seq(valuetype.Long)); !taskmap.HasCode(err, taskmap.CodeUnknownType) {
		t.Fatalf("expected unknown_type for composite, got %v", err)
	}
}

func TestBaseTypes_DecodeAndEncode(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)
	cases := []struct {
		vt   valuetype.ValueType
		in   string
		want any
		wire any
	}{
		{valuetype.Boolean, `true`, true, true},
		{valuetype.Long, `42`, int64(42), int64(42)},
		{valuetype.Long, `5.0`, int64(5), int64(5)},
		{valuetype.Long, `1e3`, int64(1000), int64(1000)},
		{valuetype.Long, `-9223372036854775808`, int64(math.MinInt64), int64(math.MinInt64)},
		{valuetype.Double, `1.25`, 1.25, 1.25},
		{valuetype.Double, `3`, 3.0, 3.0},
		{valuetype.String, `"hello"`, "hello", "hello"},
		{valuetype.Timestamp, `"2024-03-01T21:30:00.0000005+09:00"`, ts, "2024-03-01T12:30:00.0000005Z"},
	}
	for _, c := range cases {
		got, err := decode(t, c.vt, c.in)
		if err != nil {
			t.Fatalf("%s %s: %v", c.vt.Name(), c.in, err)
		}
		if tm, ok := got.(time.Time); ok {
			if tm != c.want.(time.Time) || tm.Location() != time.UTC {
				t.Fatalf("timestamp: got %v want %v in UTC", tm, c.want)
			}
		} else if got != c.want {
			t.Fatalf("%s %s: got %#v want %#v", c.vt.Name(), c.in, got, c.want)
		}
		wire, err := c.vt.Encode(got)
		if err != nil || wire != c.wire {
			t.Fatalf("%s encode: got %#v, %v want %#v", c.vt.Name(), wire, err, c.wire)
		}
	}
}

func TestBaseTypes_NullDecodesToNil(t *testing.T) {
	for _, n := range valuetype.Names() {
		vt, _ := valuetype.Resolve(n)
		v, err := decode(t, vt, `null`)
		if err != nil || v != nil {
			t.Fatalf("%s: null should decode to nil, got %v %v", n, v, err)
		}
	}
}

func TestBaseTypes_Rejections(t *testing.T) {
	cases := []struct {
		vt   valuetype.ValueType
		in   string
		code string
	}{
		{valuetype.Boolean, `"true"`, taskmap.CodeInvalidType},
		{valuetype.Long, `1.5`, taskmap.CodeInvalidType},
		{valuetype.Long, `9223372036854775808`, taskmap.CodeOverflow},
		{valuetype.Long, `1e300`, taskmap.CodeOverflow},
		{valuetype.Long, `"1"`, taskmap.CodeInvalidType},
		{valuetype.Double, `1e999`, taskmap.CodeOverflow},
		{valuetype.String, `{"a":[1,2]}`, taskmap.CodeInvalidType},
		{valuetype.Timestamp, `"yesterday"`, taskmap.CodeInvalidFormat},
	}
	for _, c := range cases {
		_, err := decode(t, c.vt, c.in)
		if !taskmap.HasCode(err, c.code) {
			t.Fatalf("%s %s: expected %s, got %v", c.vt.Name(), c.in, c.code, err)
		}
	}
}

func TestDouble_EncodeRejectsNonFinite(t *testing.T) {
	if _, err := valuetype.Double.Encode(math.NaN()); !taskmap.HasCode(err, taskmap.CodeUnsupportedValue) {
		t.Fatalf("expected unsupported_value, got %v", err)
	}
	if _, err := valuetype.String.Encode(5); !taskmap.HasCode(err, taskmap.CodeUnsupportedValue) {
		t.Fatalf("expected unsupported_value for mismatched Go type, got %v", err)
	}
}

func TestSeq(t *testing.T) {
	vt := valuetype.Seq(valuetype.Long)
	v, err := decode(t, vt, `[1,2,3]`)
	if err != nil {
		t.Fatal(err)
	}
	items := v.([]any)
	if len(items) != 3 || items[2] != int64(3) {
		t.Fatalf("unexpected items: %#v", items)
	}
	_, err = decode(t, vt, `[1,"x"]`)
	iss, _ := taskmap.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/1" || iss[0].Code != taskmap.CodeInvalidType {
		t.Fatalf("expected invalid_type at /1, got %v", err)
	}
	if _, err := decode(t, vt, `[1,null]`); !taskmap.HasCode(err, taskmap.CodeNullValue) {
		t.Fatalf("expected null_value for null element, got %v", err)
	}
	if vt.Name() != "seq<long>" {
		t.Fatalf("unexpected name %s", vt.Name())
	}
}

func TestOption(t *testing.T) {
	vt := valuetype.Option(valuetype.String)
	v, err := decode(t, vt, `null`)
	if err != nil || v != valuetype.None {
		t.Fatalf("null should decode to None, got %#v %v", v, err)
	}
	v, err = decode(t, vt, `"x"`)
	if err != nil || v != valuetype.Some("x") {
		t.Fatalf("unexpected %#v %v", v, err)
	}
	wire, err := vt.Encode(valuetype.None)
	if err != nil || wire != nil {
		t.Fatalf("None should encode to null, got %#v %v", wire, err)
	}
	wire, _ = vt.Encode(valuetype.Some("x"))
	if wire != "x" {
		t.Fatalf("unexpected wire %#v", wire)
	}
}

func TestJSON_KeepsTree(t *testing.T) {
	v, err := decode(t, valuetype.JSON(), `{"b":1,"a":[true,null]}`)
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := v.(taskmap.WireObject)
	if !ok || strings.Join(obj.Keys(), ",") != "b,a" {
		t.Fatalf("expected ordered object, got %#v", v)
	}
	if _, err := valuetype.JSON().Encode(struct{}{}); !taskmap.HasCode(err, taskmap.CodeUnsupportedValue) {
		t.Fatalf("expected unsupported_value, got %v", err)
	}
}

func TestEncodeValue(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	v, err := valuetype.EncodeValue([]any{int(1), valuetype.Some(ts), valuetype.None, "s"})
	if err != nil {
		t.Fatal(err)
	}
	got := v.([]any)
	if got[0] != int64(1) || got[1] != "2020-01-02T02:04:05Z" || got[2] != nil || got[3] != "s" {
		t.Fatalf("unexpected encoding %#v", got)
	}
	if _, err := valuetype.EncodeValue(make(chan int)); !taskmap.HasCode(err, taskmap.CodeUnsupportedValue) {
		t.Fatalf("expected unsupported_value, got %v", err)
	}
}

func TestRef_JSONAndYAML(t *testing.T) {
	var doc struct {
		Type valuetype.Ref `json:"type" yaml:"type"`
	}
	if err := gojson.Unmarshal([]byte(`{"type":"timestamp"}`), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Type.Type != valuetype.Timestamp {
		t.Fatalf("expected timestamp, got %v", doc.Type.Type)
	}
	out, err := gojson.Marshal(doc)
	if err != nil || string(out) != `{"type":"timestamp"}` {
		t.Fatalf("unexpected marshal %s %v", out, err)
	}
	if err := yaml.Unmarshal([]byte("type: long\n"), &doc); err != nil || doc.Type.Type != valuetype.Long {
		t.Fatalf("yaml: %v %v", doc.Type.Type, err)
	}
	err = yaml.Unmarshal([]byte("type: bogus\n"), &doc)
	if !taskmap.HasCode(err, taskmap.CodeUnknownType) {
		t.Fatalf("expected unknown_type from yaml, got %v", err)
	}
}
