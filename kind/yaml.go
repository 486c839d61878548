package kind

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/taskmap"
	"github.com/reoring/taskmap/valuetype"
)

// RecordResolver supplies the value type of a nested record kind by name.
type RecordResolver interface {
	RecordType(name string) valuetype.ValueType
}

type yamlFile struct {
	Kinds []yamlKind `yaml:"kinds"`
}

type yamlKind struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name    string    `yaml:"name"`
	Type    yaml.Node `yaml:"type"`
	WireKey string    `yaml:"wireKey"`
	Default string    `yaml:"default"`
}

// LoadYAML reads kind declarations:
//
//	kinds:
//	  - name: Foo
//	    fields:
//	      - {name: bar, type: string, wireKey: bar}
//	      - {name: baz, type: long, wireKey: baz, default: "0"}
//	      - {name: tags, type: {seq: string}}
//	      - {name: child, type: {record: Bar}}
//
// Types are a base type name, json, or one of {seq: T}, {option: T},
// {record: Kind}. Record types are resolved through rr, which may be nil when
// no record types are used. Unknown document keys are rejected.
func LoadYAML(r io.Reader, rr RecordResolver) ([]Kind, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc yamlFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, taskmap.Issues{{Path: "/", Code: taskmap.CodeInvalidSchema, Message: err.Error(), Cause: err, Offset: -1}}
	}
	var iss taskmap.Issues
	out := make([]Kind, 0, len(doc.Kinds))
	for i, yk := range doc.Kinds {
		k := Kind{Name: yk.Name, Fields: make([]Field, 0, len(yk.Fields))}
		for j, yf := range yk.Fields {
			vt, err := parseType(&yf.Type, rr)
			if err != nil {
				iss = append(iss, taskmap.RebaseIssues(fmt.Sprintf("/kinds/%d/fields/%d/type", i, j), taskmap.IssuesFrom("/", err))...)
				continue
			}
			k.Fields = append(k.Fields, Field{Name: yf.Name, Type: vt, WireKey: yf.WireKey, Default: yf.Default})
		}
		out = append(out, k)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func parseType(n *yaml.Node, rr RecordResolver) (valuetype.ValueType, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "json" {
			return valuetype.JSON(), nil
		}
		var ref valuetype.Ref
		if err := n.Decode(&ref); err != nil {
			return nil, err
		}
		return ref.Type, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, typeIssue(n, "composite type must have exactly one key")
		}
		key, val := n.Content[0].Value, n.Content[1]
		switch key {
		case "seq", "option":
			elem, err := parseType(val, rr)
			if err != nil {
				return nil, taskmap.RebaseIssues("/"+key, taskmap.IssuesFrom("/", err))
			}
			if key == "seq" {
				return valuetype.Seq(elem), nil
			}
			return valuetype.Option(elem), nil
		case "record":
			if val.Kind != yaml.ScalarNode || val.Value == "" {
				return nil, typeIssue(val, "record type needs a kind name")
			}
			if rr == nil {
				return nil, typeIssue(val, "record types are not available here")
			}
			return rr.RecordType(val.Value), nil
		}
		return nil, typeIssue(n, fmt.Sprintf("unknown composite type %q", key))
	case 0:
		return nil, typeIssue(n, "missing type")
	}
	return nil, typeIssue(n, "type must be a name or a single-key mapping")
}

func typeIssue(n *yaml.Node, msg string) taskmap.Issues {
	return taskmap.Issues{{
		Path:    "/",
		Code:    taskmap.CodeInvalidSchema,
		Message: msg,
		Hint:    fmt.Sprintf("line %d", n.Line),
		Offset:  -1,
	}}
}
