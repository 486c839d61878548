package valuetype

import (
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Ref names a base type in a document. It unmarshals from the canonical type
// name and fails with an unknown_type issue for anything else.
type Ref struct {
	Type ValueType
}

func (r Ref) MarshalJSON() ([]byte, error) {
	name, err := Format(r.Type)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(name)
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	var name string
	if err := gojson.Unmarshal(b, &name); err != nil {
		return err
	}
	t, err := Resolve(name)
	if err != nil {
		return err
	}
	r.Type = t
	return nil
}

func (r Ref) MarshalYAML() (any, error) {
	return Format(r.Type)
}

func (r *Ref) UnmarshalYAML(n *yaml.Node) error {
	var name string
	if err := n.Decode(&name); err != nil {
		return err
	}
	t, err := Resolve(name)
	if err != nil {
		return err
	}
	r.Type = t
	return nil
}
