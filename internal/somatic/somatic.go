// Package somatic decodes caller-specific somatic status and sample layout.
package somatic

import (
	"fmt"

	"github.com/inodb/snpeff2maf/internal/vcf"
)

// Caller identifies the somatic variant caller that produced a VCF.
type Caller string

// Supported callers.
const (
	VarScan                  Caller = "varscan"
	GATKSomaticIndelDetector Caller = "gatk_somatic_indel_detector"
)

const (
	varScanStatusKey = "SS"
	statusSomatic    = "Somatic"
)

// Callers lists the supported callers.
var Callers = []Caller{VarScan, GATKSomaticIndelDetector}

// ParseCaller validates a caller name.
func ParseCaller(name string) (Caller, error) {
	for _, c := range Callers {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown somatic caller %q (want %s or %s)", name, VarScan, GATKSomaticIndelDetector)
}

// varScanStatus maps VarScan SS codes to their text.
var varScanStatus = map[string]string{
	"0": "Reference",
	"1": "Germline",
	"2": "Somatic",
	"3": "LOH",
	"5": "Unknown",
}

// VarScanStatus returns the text for the record's SS INFO code.
func VarScanStatus(r *vcf.Record) (string, error) {
	code, ok := r.Info().Get(varScanStatusKey)
	if !ok {
		return "", &vcf.LookupError{Kind: vcf.LookupField, Key: varScanStatusKey, Line: r.Line(), Message: "no VarScan somatic status"}
	}
	status, ok := varScanStatus[code]
	if !ok {
		return "", &vcf.LookupError{Kind: vcf.LookupField, Key: varScanStatusKey + "=" + code, Line: r.Line(), Message: "unknown VarScan somatic status code"}
	}
	return status, nil
}

// Status returns the somatic status of r as reported by caller.
func (c Caller) Status(r *vcf.Record) (string, error) {
	if c == VarScan {
		return VarScanStatus(r)
	}
	return statusSomatic, nil
}

// Samples returns the normal and tumor sample names. VarScan columns are
// looked up by name; SomaticIndelDetector writes normal then tumor, so its
// samples are taken by position.
func (c Caller) Samples(schema vcf.Schema, normal, tumor string) (string, string, error) {
	if c != GATKSomaticIndelDetector {
		return normal, tumor, nil
	}
	names := schema.SampleNames()
	if len(names) < 2 {
		return "", "", &vcf.FormatError{Message: fmt.Sprintf("%s output needs two sample columns, found %d", c, len(names))}
	}
	return names[0], names[1], nil
}
