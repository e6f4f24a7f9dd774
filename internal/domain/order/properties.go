package order

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property is one additional item property.
type Property struct {
	Name  string
	Value string
}

// Properties is a key-unique mapping that keeps insertion order. Setting an
// existing key replaces its value without moving it.
type Properties struct {
	entries []Property
	index   map[string]int
}

func NewProperties(pairs ...Property) Properties {
	var p Properties
	for _, kv := range pairs {
		p.Set(kv.Name, kv.Value)
	}
	return p
}

func (p *Properties) Set(name, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[name]; ok {
		p.entries[i].Value = value
		return
	}
	p.index[name] = len(p.entries)
	p.entries = append(p.entries, Property{Name: name, Value: value})
}

func (p Properties) Get(name string) (string, bool) {
	i, ok := p.index[name]
	if !ok {
		return "", false
	}
	return p.entries[i].Value, true
}

func (p Properties) Len() int { return len(p.entries) }

// Entries returns the properties in insertion order.
func (p Properties) Entries() []Property {
	out := make([]Property, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	*p = Properties{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		p.Set(key, rawString(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
