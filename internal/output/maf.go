// Package output provides MAF report formatting.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

// MAF column headers for SnpEff VCF conversion.
var mafColumns = []string{
	"Hugo_Symbol",
	"Entrez_Gene_Id",
	"Center",
	"NCBI_Build",
	"Chromosome",
	"Start_position",
	"End_position",
	"Strand",
	"Variant_Classification",
	"Variant_Type",
	"Reference_Allele",
	"Tumor_Seq_Allele1",
	"Tumor_Seq_Allele2",
	"dbSNP_RS",
	"dbSNP_Val_Status",
	"Tumor_Sample_Barcode",
	"Matched_Norm_Sample_Barcode",
	"Match_Norm_Seq_Allele1",
	"Match_Norm_Seq_Allele2",
	"Tumor_Validation_Allele1",
	"Tumor_Validation_Allele2",
	"Match_Norm_Validation_Allele1",
	"Match_Norm_Validation_Allele2",
	"Verification_Status",
	"Validation_Status",
	"Mutation_Status",
	"Sequencing_Phase",
	"Sequence_Source",
	"Validation_Method",
	"Score",
	"BAM_File",
	"Sequencer",
	"transcript_name",
	"amino_acid_change",
}

// Columns returns the MAF header column names.
func Columns() []string {
	cols := make([]string, len(mafColumns))
	copy(cols, mafColumns)
	return cols
}

// Options holds the constant MAF column values.
type Options struct {
	Center         string
	NCBIBuild      string
	SequenceSource string
	Sequencer      string
}

// DefaultOptions returns the values written when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Center:         "sequencing.center",
		NCBIBuild:      "37",
		SequenceSource: "WES",
		Sequencer:      "Illumina HiSeq",
	}
}

// Variant holds the per-variant values of a MAF row that do not depend on
// the effect being written.
type Variant struct {
	Record        *vcf.Record
	SomaticStatus string
	Tumor         [2]string // resolved tumor alleles
	Normal        [2]string // resolved normal alleles
}

// SplitAlleles splits an unphased resolved genotype such as "A/C" into two
// alleles. A haploid genotype fills both alleles with its single base.
func SplitAlleles(genotype string) [2]string {
	parts := strings.Split(genotype, vcf.SepUnphased)
	if len(parts) == 1 {
		return [2]string{parts[0], parts[0]}
	}
	return [2]string{parts[0], parts[1]}
}

// MAFWriter writes SnpEff-annotated variants as TCGA MAF rows.
type MAFWriter struct {
	w          *bufio.Writer
	sampleID   string
	geneEntrez map[string]string
	opts       Options
	geneOnly   bool
}

// NewMAFWriter creates a MAF writer for one sample.
func NewMAFWriter(w io.Writer, sampleID string, geneEntrez map[string]string, opts Options) *MAFWriter {
	return &MAFWriter{
		w:          bufio.NewWriter(w),
		sampleID:   sampleID,
		geneEntrez: geneEntrez,
		opts:       opts,
	}
}

// SetGeneOnly configures whether Hugo_Symbol holds only the gene name.
// By default it is GENE_TRANSCRIPT, since one variant yields a row per
// transcript.
func (m *MAFWriter) SetGeneOnly(geneOnly bool) {
	m.geneOnly = geneOnly
}

// WriteHeader writes the MAF header line.
func (m *MAFWriter) WriteHeader() error {
	_, err := m.w.WriteString(strings.Join(mafColumns, "\t") + "\n")
	return err
}

// WriteRow writes one MAF row. eff may be nil for a variant without a
// usable effect; the effect columns are then left empty.
func (m *MAFWriter) WriteRow(v *Variant, eff *snpeff.Effect) error {
	r := v.Record
	ref := r.Ref()

	var b strings.Builder
	b.Grow(512)

	first := true
	writeField := func(s string) {
		if !first {
			b.WriteByte('\t')
		}
		first = false
		b.WriteString(s)
	}
	writeEmpty := func(n int) {
		for range n {
			writeField("")
		}
	}

	var geneCol, entrez, class, transcriptID, aaChange string
	if eff != nil {
		geneCol = eff.Gene + "_" + eff.Transcript
		if m.geneOnly {
			geneCol = eff.Gene
		}
		entrez = m.geneEntrez[eff.Gene]
		class = Classify(eff.Effect, r)
		transcriptID = eff.Transcript
		if eff.AminoAcidChange != "" {
			aaChange = "p." + eff.AminoAcidChange
		}
	}

	writeField(geneCol)                   // Hugo_Symbol
	writeField(entrez)                    // Entrez_Gene_Id
	writeField(m.opts.Center)             // Center
	writeField(m.opts.NCBIBuild)          // NCBI_Build
	writeField(r.Chrom())                 // Chromosome
	writeField(r.Pos())                   // Start_position
	writeField(endPosition(r.Pos(), ref)) // End_position
	writeField("+")                       // Strand
	writeField(class)                     // Variant_Classification
	writeField(VariantType(ref, r.Alt())) // Variant_Type
	writeField(ref)                       // Reference_Allele
	writeField(v.Tumor[0])                // Tumor_Seq_Allele1
	writeField(v.Tumor[1])                // Tumor_Seq_Allele2
	writeField(dbSNP(r.ID()))             // dbSNP_RS
	writeField("")                        // dbSNP_Val_Status
	writeField(m.sampleID)                // Tumor_Sample_Barcode
	writeField(m.sampleID)                // Matched_Norm_Sample_Barcode
	writeField(v.Normal[0])               // Match_Norm_Seq_Allele1
	writeField(v.Normal[1])               // Match_Norm_Seq_Allele2
	writeEmpty(6)                         // validation alleles, Verification_Status, Validation_Status
	writeField(v.SomaticStatus)           // Mutation_Status
	writeField("")                        // Sequencing_Phase
	writeField(m.opts.SequenceSource)     // Sequence_Source
	writeEmpty(3)                         // Validation_Method, Score, BAM_File
	writeField(m.opts.Sequencer)          // Sequencer
	writeField(transcriptID)              // transcript_name
	writeField(aaChange)                  // amino_acid_change

	b.WriteByte('\n')
	_, err := m.w.WriteString(b.String())
	return err
}

// Flush flushes any buffered data.
func (m *MAFWriter) Flush() error {
	return m.w.Flush()
}

// endPosition returns POS + len(REF) - 1, or "" when POS is not a number.
func endPosition(pos, ref string) string {
	start, err := strconv.ParseInt(pos, 10, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(start+int64(len(ref))-1, 10)
}

// dbSNP returns id when it is an rs identifier and "novel" otherwise.
func dbSNP(id string) string {
	if strings.HasPrefix(id, "rs") {
		return id
	}
	return "novel"
}
