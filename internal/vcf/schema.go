package vcf

import "strings"

// Fixed VCF column names.
const (
	ColChrom  = "CHROM"
	ColPos    = "POS"
	ColID     = "ID"
	ColRef    = "REF"
	ColAlt    = "ALT"
	ColQual   = "QUAL"
	ColFilter = "FILTER"
	ColInfo   = "INFO"
	ColFormat = "FORMAT"
)

// firstSampleColumn is the index of the first sample column in a schema.
const firstSampleColumn = 9

// Schema is the ordered list of column names from the #CHROM header line.
type Schema []string

// IsMetaLine reports whether line is a "##" meta-information line.
func IsMetaLine(line string) bool {
	return strings.HasPrefix(line, "##")
}

// IsHeaderLine reports whether line is the column header line: a single "#"
// prefix followed by at least CHROM, POS and ID.
func IsHeaderLine(line string) bool {
	if !strings.HasPrefix(line, "#") || IsMetaLine(line) {
		return false
	}
	fields := strings.Fields(line[1:])
	if len(fields) < 3 {
		return false
	}
	return fields[0] == ColChrom && fields[1] == ColPos && fields[2] == ColID
}

// ParseSchema extracts the column names from a header line.
func ParseSchema(line string) (Schema, error) {
	if !IsHeaderLine(line) {
		return nil, &FormatError{Message: "not a header line: " + line}
	}
	return Schema(strings.Fields(line[1:])), nil
}

// SampleNames returns the sample column names in header order.
// Returns nil when the schema has no sample columns.
func (s Schema) SampleNames() []string {
	if len(s) <= firstSampleColumn {
		return nil
	}
	return s[firstSampleColumn:]
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, col := range s {
		if col == name {
			return i
		}
	}
	return -1
}
