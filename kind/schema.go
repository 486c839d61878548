package kind

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"golang.org/x/text/unicode/norm"

	"github.com/reoring/taskmap"
	js "github.com/reoring/taskmap/jsonschema"
	"github.com/reoring/taskmap/valuetype"
)

// Descriptor describes one field as it appears on the wire.
type Descriptor struct {
	WireKey    string
	FieldName  string
	Type       valuetype.ValueType
	Default    string
	HasDefault bool
}

// Schema is the built form of a kind under a policy. It is immutable.
type Schema struct {
	kind       string
	policy     Policy
	descs      []Descriptor
	byWire     map[string]int
	validators []Validator
}

// Build validates k and produces its schema under p.
func Build(k Kind, p Policy) (*Schema, error) {
	var iss taskmap.Issues
	if k.Name == "" {
		iss = append(iss, schemaIssue("", "kind name is empty"))
	}
	s := &Schema{
		kind:       k.Name,
		policy:     p,
		byWire:     make(map[string]int, len(k.Fields)),
		validators: append([]Validator(nil), k.Validators...),
	}
	names := make(map[string]struct{}, len(k.Fields))
	byNFC := make(map[string]int, len(k.Fields))
	for i, f := range k.Fields {
		path := fmt.Sprintf("/fields/%d", i)
		if f.Name == "" {
			iss = append(iss, schemaIssue(path, "field name is empty"))
			continue
		}
		if _, dup := names[f.Name]; dup {
			iss = append(iss, schemaIssue(path, fmt.Sprintf("field '%s' declared twice", f.Name)))
			continue
		}
		names[f.Name] = struct{}{}
		if f.Type == nil {
			iss = append(iss, schemaIssue(path, fmt.Sprintf("field '%s' has no type", f.Name)))
			continue
		}

		wireKey := f.Name
		if p.WireKey != WireKeyIdentity {
			if f.WireKey == "" {
				// Not part of the wire form under this policy.
				continue
			}
			if p.WireKey == WireKeyExplicit {
				wireKey = f.WireKey
			}
		}
		// Keys match byte for byte; declarations equal under NFC are rejected.
		nfc := norm.NFC.String(wireKey)
		if j, dup := byNFC[nfc]; dup {
			iss = append(iss, schemaIssue(path, fmt.Sprintf("wire key '%s' used by both '%s' and '%s'", wireKey, s.descs[j].FieldName, f.Name)))
			continue
		}
		byNFC[nfc] = len(s.descs)

		d := Descriptor{WireKey: wireKey, FieldName: f.Name, Type: f.Type}
		if p.Default == DefaultExplicit && f.Default != "" {
			d.Default, d.HasDefault = f.Default, true
		}
		s.byWire[wireKey] = len(s.descs)
		s.descs = append(s.descs, d)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

func schemaIssue(path, msg string) taskmap.Issue {
	if path == "" {
		path = "/"
	}
	return taskmap.Issue{Path: path, Code: taskmap.CodeInvalidSchema, Message: msg, Offset: -1}
}

// Kind returns the kind name.
func (s *Schema) Kind() string { return s.kind }

// Policy returns the policy the schema was built with.
func (s *Schema) Policy() Policy { return s.policy }

// Len returns the number of descriptors.
func (s *Schema) Len() int { return len(s.descs) }

// Descriptors returns the descriptors in declaration order.
func (s *Schema) Descriptors() []Descriptor {
	return append([]Descriptor(nil), s.descs...)
}

// Lookup finds the descriptor for a wire key. Keys must match exactly.
func (s *Schema) Lookup(wireKey string) (Descriptor, bool) {
	i, ok := s.byWire[wireKey]
	if !ok {
		return Descriptor{}, false
	}
	return s.descs[i], true
}

// Validators returns the kind's validators.
func (s *Schema) Validators() []Validator { return s.validators }

// JSONSchema projects the schema for documentation. Properties are keyed by
// wire key; fields without a default are listed as required.
func (s *Schema) JSONSchema() *js.Schema {
	out := &js.Schema{
		Title:                s.kind,
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.descs)),
		AdditionalProperties: true,
	}
	for _, d := range s.descs {
		p := d.Type.JSONSchema()
		if d.WireKey != d.FieldName {
			p.Description = "field " + d.FieldName
		}
		if d.HasDefault {
			var v any
			if err := gojson.Unmarshal([]byte(d.Default), &v); err == nil {
				p.Default = v
			} else {
				p.Default = d.Default
			}
		} else {
			out.Required = append(out.Required, d.WireKey)
		}
		out.Properties[d.WireKey] = p
	}
	return out
}
