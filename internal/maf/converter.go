// Package maf converts SnpEff-annotated somatic VCF records to MAF rows.
package maf

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/snpeff2maf/internal/output"
	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/somatic"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

// Default sample column names.
const (
	DefaultNormal = "NORMAL"
	DefaultTumor  = "TUMOR"
)

// Mode controls how many effects of a record become MAF rows.
type Mode int

// Conversion modes.
const (
	// ModeAll writes one row per effect.
	ModeAll Mode = iota
	// ModeHighest writes only the highest-priority effect.
	ModeHighest
	// ModeSelected writes the highest-priority effect on a selected
	// transcript and skips records without one.
	ModeSelected
)

// Samples names the normal and tumor sample columns of a VCF.
type Samples struct {
	Normal string
	Tumor  string
}

// Converter turns VCF records into MAF rows.
type Converter struct {
	decoder   *snpeff.Decoder
	caller    somatic.Caller
	samples   Samples
	mode      Mode
	selection map[string]string
	workers   int
	logger    *zap.Logger
}

// NewConverter creates a converter for VCFs written by caller.
func NewConverter(d *snpeff.Decoder, caller somatic.Caller) *Converter {
	return &Converter{
		decoder: d,
		caller:  caller,
		samples: Samples{Normal: DefaultNormal, Tumor: DefaultTumor},
		logger:  zap.NewNop(),
	}
}

// SetSamples sets the normal and tumor sample names. They are ignored for
// callers that locate samples by position.
func (c *Converter) SetSamples(normal, tumor string) {
	c.samples = Samples{Normal: normal, Tumor: tumor}
}

// SetHighestPriority writes only the highest-priority effect of each record.
func (c *Converter) SetHighestPriority() {
	c.mode = ModeHighest
	c.selection = nil
}

// SetSelection writes only effects on the selected gene -> transcript map.
func (c *Converter) SetSelection(sel map[string]string) {
	c.mode = ModeSelected
	c.selection = sel
}

// Mode returns the conversion mode.
func (c *Converter) Mode() Mode {
	return c.mode
}

// SetWorkers sets the number of conversion workers. 0 uses runtime.NumCPU().
func (c *Converter) SetWorkers(n int) {
	c.workers = n
}

// SetLogger sets the logger for progress messages.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// ResolveSamples returns the sample columns to read from schema.
func (c *Converter) ResolveSamples(schema vcf.Schema) (Samples, error) {
	normal, tumor, err := c.caller.Samples(schema, c.samples.Normal, c.samples.Tumor)
	if err != nil {
		return Samples{}, err
	}
	for _, name := range []string{normal, tumor} {
		if !hasSample(schema, name) {
			return Samples{}, &vcf.LookupError{Kind: vcf.LookupSample, Key: name, Message: "not a sample column of the header"}
		}
	}
	return Samples{Normal: normal, Tumor: tumor}, nil
}

func hasSample(schema vcf.Schema, name string) bool {
	for _, s := range schema.SampleNames() {
		if s == name {
			return true
		}
	}
	return false
}

// ConvertRecord decodes r into the values of its MAF rows. A nil variant
// means r has no effect on a selected transcript and produces no rows. In
// ModeHighest a record without effects yields a single nil effect.
func (c *Converter) ConvertRecord(r *vcf.Record, samples Samples) (*output.Variant, []*snpeff.Effect, error) {
	effects, err := c.effects(r)
	if err != nil {
		return nil, nil, err
	}
	if effects == nil {
		return nil, nil, nil
	}

	status, err := c.caller.Status(r)
	if err != nil {
		return nil, nil, err
	}
	normal, err := vcf.ResolveGenotype(r, samples.Normal, false)
	if err != nil {
		return nil, nil, err
	}
	tumor, err := vcf.ResolveGenotype(r, samples.Tumor, false)
	if err != nil {
		return nil, nil, err
	}

	v := &output.Variant{
		Record:        r,
		SomaticStatus: status,
		Tumor:         output.SplitAlleles(tumor),
		Normal:        output.SplitAlleles(normal),
	}
	return v, effects, nil
}

// effects returns the effects of r to write. nil means the record is skipped.
func (c *Converter) effects(r *vcf.Record) ([]*snpeff.Effect, error) {
	switch c.mode {
	case ModeHighest:
		e, err := c.decoder.HighestPriority(r)
		if err != nil {
			return nil, err
		}
		return []*snpeff.Effect{e}, nil
	case ModeSelected:
		sel, err := c.decoder.SelectForTranscripts(r, c.selection)
		if err != nil {
			return nil, err
		}
		if len(sel) == 0 {
			c.logger.Debug("no effect on a selected transcript",
				zap.Int("line", r.Line()),
				zap.String("chrom", r.Chrom()),
				zap.String("pos", r.Pos()))
			return nil, nil
		}
		return []*snpeff.Effect{&sel[0]}, nil
	default:
		all, err := c.decoder.Decode(r)
		if err != nil {
			return nil, err
		}
		out := make([]*snpeff.Effect, len(all))
		for i := range all {
			out[i] = &all[i]
		}
		return out, nil
	}
}

// Convert writes the MAF header and one row per selected effect of every
// record in stream. Rows keep input order. The stream must be positioned at
// its start. Conversion stops at the first error.
func (c *Converter) Convert(ctx context.Context, stream vcf.RecordStream, w *output.MAFWriter) error {
	if err := stream.AdvanceToData(); err != nil {
		return err
	}
	samples, err := c.ResolveSamples(stream.Schema())
	if err != nil {
		return err
	}

	w.SetGeneOnly(c.mode == ModeHighest)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items, readErr := feed(ctx, stream, 256)
	results := c.ParallelConvert(items, samples, c.workers)

	var records, rows, skipped int
	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			cancel()
			return r.Err
		}
		records++
		if r.Variant == nil {
			skipped++
			return nil
		}
		for _, e := range r.Effects {
			if err := w.WriteRow(r.Variant, e); err != nil {
				cancel()
				return fmt.Errorf("write row: %w", err)
			}
			rows++
		}
		return nil
	}); err != nil {
		return err
	}

	if err := <-readErr; err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("converted variants",
		zap.Int("records", records),
		zap.Int("rows", rows),
		zap.Int("skipped", skipped))

	return w.Flush()
}
