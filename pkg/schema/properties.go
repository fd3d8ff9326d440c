package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Property is a named child definition.
type Property struct {
	Name   string
	Schema Definition
}

// Properties keeps object members in declaration order. Go maps lose that
// order, and field ordering falls back to it whenever ui:order is absent.
type Properties []Property

// Get returns the definition registered under name.
func (p Properties) Get(name string) (Definition, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Schema, true
		}
	}
	return Definition{}, false
}

// Has reports whether name is declared.
func (p Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Names lists property names in declaration order.
func (p Properties) Names() []string {
	out := make([]string, len(p))
	for i, prop := range p {
		out[i] = prop.Name
	}
	return out
}

// set replaces an existing entry in place or appends a new one. Duplicate keys
// therefore keep their first position but their last value.
func (p *Properties) set(name string, def Definition) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Schema = def
			return
		}
	}
	*p = append(*p, Property{Name: name, Schema: def})
}

// UnmarshalJSON decodes an object while preserving key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("schema: properties: %w", err)
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema: properties must be an object")
	}

	out := Properties{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("schema: properties: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("schema: properties: unexpected key %v", keyTok)
		}
		var def Definition
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("schema: properties/%s: %w", name, err)
		}
		out.set(name, def)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("schema: properties: %w", err)
	}
	*p = out
	return nil
}

// MarshalJSON writes the members in declaration order.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(prop.Schema)
		if err != nil {
			return nil, fmt.Errorf("schema: properties/%s: %w", prop.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a mapping node while preserving key order.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: properties must be a mapping (line %d)", node.Line)
	}
	out := Properties{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var def Definition
		if err := valueNode.Decode(&def); err != nil {
			return fmt.Errorf("schema: properties/%s: %w", keyNode.Value, err)
		}
		out.set(keyNode.Value, def)
	}
	*p = out
	return nil
}
