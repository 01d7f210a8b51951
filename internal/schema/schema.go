// Package schema defines the logical field schemas the header detector
// resolves against. A schema names the fields a sheet must provide and, for
// each field, the header spellings the upstream systems are known to use.
// Synonym sets are data, not code: they can be replaced through configuration
// without touching the detector.
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field is an enumerated logical-field tag. Column resolution happens once
// per sheet against these tags, so row processing never dispatches on raw
// header strings.
type Field string

const (
	FieldProductName  Field = "product_name"
	FieldCounterparty Field = "counterparty"
	FieldAmount       Field = "amount"
	FieldCustomerName Field = "customer_name"
	FieldShare        Field = "share"
)

// FieldSynonyms pairs a logical field with its acceptable header labels.
// Matching is case-, width- and whitespace-insensitive (see
// textutils.CanonicalizeHeader).
type FieldSynonyms struct {
	Field    Field
	Synonyms []string
}

// Schema is the required logical schema of one sheet kind. Field order is
// fixed so that error reporting and scoring are deterministic.
type Schema struct {
	Name   string
	Fields []FieldSynonyms
}

// Charity returns the builtin schema for charity ledger sheets.
func Charity() Schema {
	return Schema{
		Name: "charity",
		Fields: []FieldSynonyms{
			{Field: FieldProductName, Synonyms: []string{"产品名称", "产品", "产品全称"}},
			{Field: FieldCounterparty, Synonyms: []string{"对手方", "对手方名称"}},
			{Field: FieldAmount, Synonyms: []string{"发生金额", "金额", "捐赠金额"}},
		},
	}
}

// Holding returns the builtin schema for unit-holding roster sheets.
func Holding() Schema {
	return Schema{
		Name: "holding",
		Fields: []FieldSynonyms{
			{Field: FieldProductName, Synonyms: []string{"产品名称", "产品", "产品全称"}},
			{Field: FieldCustomerName, Synonyms: []string{"客户名称", "客户", "持有人名称", "投资者名称"}},
			{Field: FieldShare, Synonyms: []string{"当前份额", "份额", "持有份额"}},
		},
	}
}

// Synonyms returns the synonym set for the given field, or nil if the schema
// does not carry it.
func (s Schema) Synonyms(f Field) []string {
	for _, fs := range s.Fields {
		if fs.Field == f {
			return fs.Synonyms
		}
	}
	return nil
}

// Apply returns a copy of the schema with the given synonym overrides in
// place of the builtin sets. Fields not named in the overrides keep their
// builtin synonyms; override keys that do not belong to the schema are an
// error so configuration typos fail loudly.
func (s Schema) Apply(overrides map[string][]string) (Schema, error) {
	if len(overrides) == 0 {
		return s, nil
	}
	known := make(map[Field]struct{}, len(s.Fields))
	for _, fs := range s.Fields {
		known[fs.Field] = struct{}{}
	}
	for key := range overrides {
		if _, ok := known[Field(key)]; !ok {
			return Schema{}, fmt.Errorf("schema %s has no field %q", s.Name, key)
		}
	}

	out := Schema{Name: s.Name, Fields: make([]FieldSynonyms, len(s.Fields))}
	for i, fs := range s.Fields {
		syns := fs.Synonyms
		if repl, ok := overrides[string(fs.Field)]; ok && len(repl) > 0 {
			syns = repl
		}
		out.Fields[i] = FieldSynonyms{Field: fs.Field, Synonyms: syns}
	}
	return out, nil
}

// Dump renders the schema's synonym sets as YAML, in the shape accepted back
// by LoadOverrides. Used to export the builtin defaults for editing.
func (s Schema) Dump() ([]byte, error) {
	m := make(map[string][]string, len(s.Fields))
	for _, fs := range s.Fields {
		m[string(fs.Field)] = fs.Synonyms
	}
	return yaml.Marshal(m)
}

// LoadOverrides parses a YAML document mapping field names to synonym lists.
func LoadOverrides(data []byte) (map[string][]string, error) {
	var m map[string][]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse schema overrides: %w", err)
	}
	return m, nil
}
