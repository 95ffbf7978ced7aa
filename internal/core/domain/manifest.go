package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.trai.ch/zerr"
)

// Dependency section names of a package manifest, in the order they are merged.
const (
	SectionDependencies         = "dependencies"
	SectionDevDependencies      = "devDependencies"
	SectionPeerDependencies     = "peerDependencies"
	SectionOptionalDependencies = "optionalDependencies"
)

// Sections lists the dependency sections reconciled by the manifest merge.
var Sections = []string{
	SectionDependencies,
	SectionDevDependencies,
	SectionPeerDependencies,
	SectionOptionalDependencies,
}

// Manifest is a package manifest whose top-level keys keep their original order.
// Dependency sections are decoded on demand; every other value is kept as raw
// JSON and re-encoded on output with its key order intact.
type Manifest struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{fields: orderedmap.New[string, json.RawMessage]()}
}

// ParseManifest decodes a manifest document. The top-level value must be a JSON object.
func ParseManifest(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, zerr.With(ErrManifestParse, "reason", "not a JSON object")
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, fields); err != nil {
		return nil, zerr.Wrap(err, ErrManifestParse.Error())
	}

	m := &Manifest{fields: fields}
	for _, name := range Sections {
		if _, _, err := m.Section(name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Keys returns the top-level keys in document order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, m.fields.Len())
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Raw returns the raw JSON value stored under key.
func (m *Manifest) Raw(key string) (json.RawMessage, bool) {
	return m.fields.Get(key)
}

// SetRaw stores a raw JSON value under key. Existing keys keep their position,
// new keys are appended.
func (m *Manifest) SetRaw(key string, value json.RawMessage) {
	m.fields.Set(key, append(json.RawMessage(nil), value...))
}

// Section decodes a dependency section. It reports false when the section is
// absent or null, and an error when it is not an object of strings.
func (m *Manifest) Section(name string) (*Dependencies, bool, error) {
	raw, ok := m.fields.Get(name)
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, zerr.With(ErrManifestParse, "section", name)
	}

	entries := orderedmap.New[string, string]()
	if err := json.Unmarshal(trimmed, entries); err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, ErrManifestParse.Error()), "section", name)
	}
	return &Dependencies{entries: entries}, true, nil
}

// SetSection stores a dependency section, keeping its position if it already exists.
func (m *Manifest) SetSection(name string, deps *Dependencies) error {
	raw, err := deps.MarshalJSON()
	if err != nil {
		return zerr.With(zerr.Wrap(err, ErrManifestMarshal.Error()), "section", name)
	}
	m.fields.Set(name, raw)
	return nil
}

// Clone returns a copy of the manifest with the same key order.
func (m *Manifest) Clone() *Manifest {
	clone := NewManifest()
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		clone.SetRaw(pair.Key, pair.Value)
	}
	return clone
}

// MarshalJSON encodes the manifest compactly, in document order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := writeString(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeValue(&buf, pair.Value); err != nil {
			return nil, zerr.With(zerr.Wrap(err, ErrManifestMarshal.Error()), "key", pair.Key)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeValue re-encodes a raw JSON value compactly, token by token. Object keys
// keep their order, strings are re-escaped by writeString and numbers keep
// their literal form.
func writeValue(buf *bytes.Buffer, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	type container struct {
		object bool
		tokens int
	}
	var open []container

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if delim, ok := tok.(json.Delim); ok && (delim == '}' || delim == ']') {
			open = open[:len(open)-1]
			buf.WriteByte(byte(delim))
			continue
		}

		if n := len(open); n > 0 {
			top := &open[n-1]
			switch {
			case top.object && top.tokens%2 == 1:
				buf.WriteByte(':')
			case top.tokens > 0:
				buf.WriteByte(',')
			}
			top.tokens++
		}

		switch v := tok.(type) {
		case json.Delim:
			buf.WriteByte(byte(v))
			open = append(open, container{object: v == '{'})
		case string:
			if err := writeString(buf, v); err != nil {
				return err
			}
		case json.Number:
			buf.WriteString(v.String())
		case bool:
			buf.WriteString(strconv.FormatBool(v))
		case nil:
			buf.WriteString("null")
		}
	}
}

// Marshal renders the manifest the way package managers write it: two-space
// indentation, no HTML escaping and a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, zerr.Wrap(err, ErrManifestMarshal.Error())
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Dependencies maps package names to version specifiers in insertion order.
type Dependencies struct {
	entries *orderedmap.OrderedMap[string, string]
}

// NewDependencies returns an empty dependency section.
func NewDependencies() *Dependencies {
	return &Dependencies{entries: orderedmap.New[string, string]()}
}

// Get returns the specifier of a package.
func (d *Dependencies) Get(name string) (string, bool) {
	return d.entries.Get(name)
}

// Set stores a specifier. Existing packages keep their position.
func (d *Dependencies) Set(name, spec string) {
	d.entries.Set(name, spec)
}

// Len returns the number of packages.
func (d *Dependencies) Len() int {
	return d.entries.Len()
}

// All iterates over packages in insertion order.
func (d *Dependencies) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for pair := d.entries.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns a copy with the same order.
func (d *Dependencies) Clone() *Dependencies {
	clone := NewDependencies()
	for name, spec := range d.All() {
		clone.Set(name, spec)
	}
	return clone
}

// MarshalJSON encodes the section compactly, in insertion order.
func (d *Dependencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for name, spec := range d.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := writeString(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, spec); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString appends s as a JSON string without escaping <, > and &,
// which appear in version ranges.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return zerr.Wrap(err, ErrManifestMarshal.Error())
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
