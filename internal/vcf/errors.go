package vcf

import "fmt"

// FormatError reports malformed input: a missing or bad header, a data row
// whose field count does not match the schema, a missing EFF annotation, or
// a FORMAT/sample arity mismatch.
type FormatError struct {
	Line    int // 0 when the error is not tied to an input line
	Message string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("vcf format error at line %d: %s", e.Line, e.Message)
	}
	return "vcf format error: " + e.Message
}

// Lookup kinds.
const (
	LookupSample = "sample"
	LookupAllele = "allele"
	LookupEffect = "effect"
	LookupField  = "field"
)

// LookupError reports a key that could not be resolved: an unknown sample
// name, an out-of-range allele index, or an effect type missing from the
// priority table.
type LookupError struct {
	Kind    string
	Key     string
	Line    int
	Message string
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Line > 0 {
		return fmt.Sprintf("lookup error at line %d: %s", e.Line, msg)
	}
	return "lookup error: " + msg
}
