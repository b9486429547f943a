package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/snpeff2maf/internal/cache"
	"github.com/inodb/snpeff2maf/internal/duckdb"
	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/transcript"
)

type countFlags struct {
	outputPath      string
	lengthsPath     string
	overridesPath   string
	highestPriority bool
	dbPath          string
	fromDB          bool
	runIDs          []string
	workers         int
	force           bool
}

func newCountCmd(logger func() (*zap.Logger, error)) *cobra.Command {
	var f countFlags

	cmd := &cobra.Command{
		Use:   "count <vcf-file>...",
		Short: "Count effects per transcript and select one transcript per gene",
		Long: `Count SnpEff effects per gene and transcript over a set of VCF files and
select, for each gene, the transcript with the most HIGH-impact effects
(ties go to the longest transcript). The selection is written as a gob file
for "snpeff2maf maf -s".

With --db the counts are also stored in a DuckDB database; --from-db selects
from stored counts instead of scanning VCF files.`,
		Example: `  snpeff2maf count -o selection.gob --lengths lengths.tsv *.snpeff.vcf
  snpeff2maf count --db counts.duckdb -o selection.gob --lengths lengths.tsv cohort1/*.vcf
  snpeff2maf count --db counts.duckdb --from-db -o selection.gob --lengths lengths.tsv`,
		Args: checkArgs(func(cmd *cobra.Command, args []string) error {
			if f.fromDB {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.outputPath == "" {
				return &usageError{fmt.Errorf("--output is required")}
			}
			if f.lengthsPath == "" {
				return &usageError{fmt.Errorf("--lengths is required")}
			}
			if f.fromDB && f.dbPath == "" {
				return &usageError{fmt.Errorf("--from-db requires --db")}
			}
			if !cmd.Flags().Changed("workers") {
				f.workers = viper.GetInt(keyCountWorkers)
			}
			log, err := logger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runCount(cmd, log, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.outputPath, "output", "o", "", "Output selection file (gob)")
	flags.StringVarP(&f.lengthsPath, "lengths", "l", "", "Transcript lengths (TSV, or GTF exons); only listed transcripts can be selected")
	flags.StringVar(&f.overridesPath, "overrides", "", "Canonical transcript TSV whose genes override the computed selection")
	flags.BoolVar(&f.highestPriority, "highest-priority", false, "Count only the highest-priority effect of each variant")
	flags.StringVar(&f.dbPath, "db", "", "DuckDB database to store counts in")
	flags.BoolVar(&f.fromDB, "from-db", false, "Select from counts stored in --db instead of scanning VCF files")
	flags.StringSliceVar(&f.runIDs, "run", nil, "With --from-db, only use these run IDs (default: all runs)")
	flags.IntVar(&f.workers, "workers", 0, "Files scanned in parallel (default: number of CPUs)")
	flags.BoolVar(&f.force, "force", false, "Recompute even if the selection is up to date")

	return cmd
}

func runCount(cmd *cobra.Command, log *zap.Logger, vcfPaths []string, f countFlags) error {
	selCache := cache.NewSelectionCache(f.outputPath)

	inputs := append([]string(nil), vcfPaths...)
	if f.fromDB {
		inputs = []string{f.dbPath}
	}
	inputs = append(inputs, f.lengthsPath)
	if f.overridesPath != "" {
		inputs = append(inputs, f.overridesPath)
	}
	fingerprints, err := cache.StatFiles(inputs...)
	if err != nil {
		return err
	}

	settings, err := selectionSettings(f)
	if err != nil {
		return err
	}

	if !f.force && selCache.Valid(fingerprints, settings) {
		log.Info("selection is up to date", zap.String("path", selCache.Path()))
		fmt.Fprintf(cmd.ErrOrStderr(), "Selection %s is up to date (use --force to recompute)\n", selCache.Path())
		return nil
	}

	var lengths cache.TranscriptLengths
	if cache.IsGTF(f.lengthsPath) {
		lengths, err = cache.LoadGTFTranscriptLengths(f.lengthsPath)
	} else {
		lengths, err = cache.LoadTranscriptLengths(f.lengthsPath)
	}
	if err != nil {
		return err
	}
	log.Debug("loaded transcript lengths", zap.Int("transcripts", len(lengths)))

	counts, impacts, err := loadCounts(cmd, log, vcfPaths, f)
	if err != nil {
		return err
	}

	sel := cache.Selection(transcript.SelectPerGene(counts, impacts, lengths))
	if f.overridesPath != "" {
		overrides, err := cache.LoadCanonicalSelection(f.overridesPath)
		if err != nil {
			return err
		}
		changed := sel.Apply(overrides)
		log.Info("applied transcript overrides", zap.Int("overrides", len(overrides)), zap.Int("changed", changed))
	}
	if err := selCache.Write(sel, fingerprints, settings); err != nil {
		return err
	}

	log.Info("selected transcripts",
		zap.Int("genes", len(sel)),
		zap.Int("effects", counts.Total()),
		zap.String("output", selCache.Path()))
	fmt.Fprintf(cmd.ErrOrStderr(), "Selected transcripts for %d genes from %d effects\n", len(sel), counts.Total())
	fmt.Fprintf(cmd.ErrOrStderr(), "  Output file: %s\n", selCache.Path())
	return nil
}

// selectionSettings records the options a selection depends on besides its
// input files. The overrides file is identified by content.
func selectionSettings(f countFlags) (cache.Settings, error) {
	mode := "all"
	if f.highestPriority {
		mode = "highest"
	}
	source := "vcf"
	runs := ""
	if f.fromDB {
		source = "db"
		ids := append([]string(nil), f.runIDs...)
		sort.Strings(ids)
		runs = strings.Join(ids, ",")
	}

	settings := cache.Settings{
		"mode":     mode,
		"priority": strings.Join(priorityTable().Order(), ","),
		"source":   source,
		"runs":     runs,
	}
	if f.overridesPath != "" {
		sum, err := fileDigest(f.overridesPath)
		if err != nil {
			return nil, err
		}
		settings["overrides"] = sum
	}
	return settings, nil
}

func fileDigest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadCounts scans the VCF files, storing the result in --db when set, or
// reads stored counts with --from-db.
func loadCounts(cmd *cobra.Command, log *zap.Logger, vcfPaths []string, f countFlags) (transcript.Counts, transcript.Impacts, error) {
	var store *duckdb.Store
	if f.dbPath != "" {
		s, err := duckdb.Open(f.dbPath)
		if err != nil {
			return nil, nil, err
		}
		defer s.Close()
		store = s
	}

	if f.fromDB {
		counts, impacts, err := store.LoadCounts(f.runIDs...)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.dbPath, err)
		}
		log.Info("loaded stored counts", zap.String("db", f.dbPath), zap.Int("effects", counts.Total()))
		return counts, impacts, nil
	}

	decoder := snpeff.NewDecoder(priorityTable())
	decoder.SetLogger(log)
	counter := transcript.NewCounter(decoder)
	counter.SetHighestOnly(f.highestPriority)
	counter.SetLogger(log)

	counts, impacts, err := counter.AccumulateParallel(cmd.Context(), vcfPaths, f.workers)
	if err != nil {
		return nil, nil, err
	}

	if store != nil {
		runID, err := store.WriteCounts(counts, impacts, f.highestPriority, vcfPaths)
		if err != nil {
			return nil, nil, err
		}
		log.Info("stored counts", zap.String("db", f.dbPath), zap.String("run", runID))
	}
	return counts, impacts, nil
}
