package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/snpeff2maf/internal/cache"
	"github.com/inodb/snpeff2maf/internal/maf"
	"github.com/inodb/snpeff2maf/internal/output"
	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/somatic"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

type mafFlags struct {
	highestPriority bool
	selectionPath   string
	canonicalPath   string
	normal          string
	tumor           string
	caller          string
	outputPath      string
	workers         int
}

func newMAFCmd(logger func() (*zap.Logger, error)) *cobra.Command {
	var f mafFlags

	cmd := &cobra.Command{
		Use:   "maf <vcf-file> <sample-id> <gene2entrez>",
		Short: "Convert a SnpEff-annotated somatic VCF to MAF",
		Long: `Convert a SnpEff-annotated somatic VCF to TCGA MAF.

By default every effect of a variant becomes a MAF row. With -e only the
highest-priority effect is written; with -s only the effect on the transcript
selected for its gene (see "snpeff2maf count"), and variants without one are
left out. --canonical does the same with a curated canonical transcript table.`,
		Example: `  snpeff2maf maf tumor.snpeff.vcf TCGA-01 gene2entrez.tsv
  snpeff2maf maf -e -o tumor.maf tumor.snpeff.vcf TCGA-01 gene2entrez.tsv
  snpeff2maf maf -s selection.gob tumor.snpeff.vcf TCGA-01 gene2entrez.tsv
  snpeff2maf maf -t gatk_somatic_indel_detector indels.vcf TCGA-01 gene2entrez.tsv
  cat tumor.vcf | snpeff2maf maf - TCGA-01 gene2entrez.tsv`,
		Args: checkArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := 0
			for _, set := range []bool{f.highestPriority, f.selectionPath != "", f.canonicalPath != ""} {
				if set {
					modes++
				}
			}
			if modes > 1 {
				return &usageError{fmt.Errorf("-e, -s and --canonical cannot be used together")}
			}
			if !cmd.Flags().Changed("workers") {
				f.workers = viper.GetInt(keyMAFWorkers)
			}
			log, err := logger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runMAF(cmd, log, args[0], args[1], args[2], f)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&f.highestPriority, "highest-priority-effect", "e", false, "Write only the highest-priority effect of each variant")
	flags.StringVarP(&f.selectionPath, "single-transcript", "s", "", "Selection file from \"snpeff2maf count\"; write only effects on selected transcripts")
	flags.StringVar(&f.canonicalPath, "canonical", "", "Canonical transcript TSV (Genome Nexus or MSKCC isoform overrides); write only effects on those transcripts")
	flags.StringVar(&f.normal, "normal", maf.DefaultNormal, "Normal sample column name")
	flags.StringVar(&f.tumor, "tumor", maf.DefaultTumor, "Tumor sample column name")
	flags.StringVarP(&f.caller, "somatic-caller", "t", string(somatic.VarScan), "Somatic caller that produced the VCF: varscan, gatk_somatic_indel_detector")
	flags.StringVarP(&f.outputPath, "outfile", "o", "", "Output file (default: stdout)")
	flags.IntVar(&f.workers, "workers", 0, "Conversion workers (default: number of CPUs)")

	return cmd
}

func runMAF(cmd *cobra.Command, log *zap.Logger, vcfPath, sampleID, gene2entrezPath string, f mafFlags) error {
	caller, err := somatic.ParseCaller(f.caller)
	if err != nil {
		return &usageError{err}
	}

	geneEntrez, err := cache.LoadGeneEntrez(gene2entrezPath)
	if err != nil {
		return err
	}
	log.Debug("loaded gene2entrez", zap.String("path", gene2entrezPath), zap.Int("genes", len(geneEntrez)))

	decoder := snpeff.NewDecoder(priorityTable())
	decoder.SetLogger(log)

	conv := maf.NewConverter(decoder, caller)
	conv.SetSamples(f.normal, f.tumor)
	conv.SetWorkers(f.workers)
	conv.SetLogger(log)

	switch {
	case f.highestPriority:
		conv.SetHighestPriority()
	case f.selectionPath != "":
		sel, err := cache.NewSelectionCache(f.selectionPath).Load()
		if err != nil {
			return err
		}
		log.Info("loaded transcript selection", zap.String("path", f.selectionPath), zap.Int("genes", len(sel)))
		conv.SetSelection(sel)
	case f.canonicalPath != "":
		sel, err := cache.LoadCanonicalSelection(f.canonicalPath)
		if err != nil {
			return err
		}
		log.Info("loaded canonical transcripts", zap.String("path", f.canonicalPath), zap.Int("genes", len(sel)))
		conv.SetSelection(sel)
	}

	parser, err := vcf.NewParser(vcfPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	out := cmd.OutOrStdout()
	if f.outputPath != "" {
		file, err := os.Create(f.outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	w := output.NewMAFWriter(out, sampleID, geneEntrez, mafOptions())
	if err := conv.Convert(cmd.Context(), parser, w); err != nil {
		return fmt.Errorf("%s: %w", parser.Name(), err)
	}
	return nil
}
