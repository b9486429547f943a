package vcf

import (
	"fmt"
	"strings"
)

// Record is a read-only view of one VCF data line, keyed by the column names
// of the schema it was parsed against.
type Record struct {
	schema Schema
	fields []string
	line   int
}

// NewRecord pairs fields with schema. The field count must equal the schema length.
func NewRecord(schema Schema, fields []string, line int) (*Record, error) {
	if len(fields) != len(schema) {
		return nil, &FormatError{
			Line:    line,
			Message: fmt.Sprintf("expected %d columns, found %d", len(schema), len(fields)),
		}
	}
	return &Record{schema: schema, fields: fields, line: line}, nil
}

// Get returns the raw value of the named column.
func (r *Record) Get(column string) (string, bool) {
	i := r.schema.Index(column)
	if i < 0 {
		return "", false
	}
	return r.fields[i], true
}

// value returns the named column or "" if it is absent from the schema.
func (r *Record) value(column string) string {
	v, _ := r.Get(column)
	return v
}

func (r *Record) Chrom() string   { return r.value(ColChrom) }
func (r *Record) Pos() string     { return r.value(ColPos) }
func (r *Record) ID() string      { return r.value(ColID) }
func (r *Record) Ref() string     { return r.value(ColRef) }
func (r *Record) Alt() string     { return r.value(ColAlt) }
func (r *Record) Qual() string    { return r.value(ColQual) }
func (r *Record) Filter() string  { return r.value(ColFilter) }
func (r *Record) RawInfo() string { return r.value(ColInfo) }

// Line returns the 1-based input line the record was read from.
func (r *Record) Line() int {
	return r.line
}

// Schema returns the schema the record was parsed against.
func (r *Record) Schema() Schema {
	return r.schema
}

// Fields returns a copy of the raw fields in schema order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// String reconstructs the data line with tab-separated fields.
func (r *Record) String() string {
	return strings.Join(r.fields, "\t")
}

// Info parses the INFO column.
func (r *Record) Info() Info {
	return ParseInfo(r.RawInfo())
}

// IsInsertion returns true if REF is shorter than ALT.
func (r *Record) IsInsertion() bool {
	return len(r.Ref()) < len(r.Alt())
}

// IsDeletion returns true if REF is longer than ALT.
func (r *Record) IsDeletion() bool {
	return len(r.Ref()) > len(r.Alt())
}

// SampleGenotype maps FORMAT field names to one sample's values.
type SampleGenotype map[string]string

// Sample pairs the FORMAT field names with the named sample's values.
func (r *Record) Sample(name string) (SampleGenotype, error) {
	if name == "" || r.schema.Index(name) < firstSampleColumn {
		return nil, &LookupError{Kind: LookupSample, Key: name, Line: r.line}
	}
	format, ok := r.Get(ColFormat)
	if !ok {
		return nil, &FormatError{Line: r.line, Message: "no FORMAT column"}
	}
	raw, _ := r.Get(name)

	keys := strings.Split(format, ":")
	values := strings.Split(raw, ":")
	if len(keys) != len(values) {
		return nil, &FormatError{
			Line:    r.line,
			Message: fmt.Sprintf("sample %s has %d values for %d FORMAT fields", name, len(values), len(keys)),
		}
	}

	sg := make(SampleGenotype, len(keys))
	for i, k := range keys {
		sg[k] = values[i]
	}
	return sg, nil
}

// Samples returns the genotype fields of every sample column.
func (r *Record) Samples() (map[string]SampleGenotype, error) {
	out := make(map[string]SampleGenotype)
	for _, name := range r.schema.SampleNames() {
		sg, err := r.Sample(name)
		if err != nil {
			return nil, err
		}
		out[name] = sg
	}
	return out, nil
}
