package transcript

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

// Counter accumulates transcript effect counts from VCF streams.
type Counter struct {
	decoder     *snpeff.Decoder
	highestOnly bool
	logger      *zap.Logger
}

// NewCounter creates a counter that decodes effects with d.
func NewCounter(d *snpeff.Decoder) *Counter {
	return &Counter{
		decoder: d,
		logger:  zap.NewNop(),
	}
}

// SetHighestOnly configures whether only the highest-priority effect of each
// record is counted. By default every effect is counted.
func (c *Counter) SetHighestOnly(highest bool) {
	c.highestOnly = highest
}

// SetLogger sets the logger for progress messages.
func (c *Counter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// named is implemented by streams that know their input name.
type named interface {
	Name() string
}

// Accumulate reads every record of stream and adds its effects to counts
// and impacts. The stream must be positioned at its start; Accumulate calls
// AdvanceToData itself. Counts and impacts are shared across calls, so
// repeated calls over several streams are cumulative. Not safe for
// concurrent use on the same maps.
func (c *Counter) Accumulate(stream vcf.RecordStream, counts Counts, impacts Impacts) error {
	source := ""
	if n, ok := stream.(named); ok {
		source = n.Name()
	}

	if err := stream.AdvanceToData(); err != nil {
		return err
	}

	records := 0
	for {
		r, err := stream.Next()
		if err != nil {
			return err
		}
		if r == nil {
			break
		}
		records++

		effects, err := c.effects(r)
		if err != nil {
			return err
		}

		for _, e := range effects {
			if err := impacts.Observe(e.Effect, e.Impact); err != nil {
				var ce *ConsistencyError
				if errors.As(err, &ce) {
					ce.Source = source
					ce.Line = r.Line()
				}
				return err
			}
			counts.Add(e.Gene, e.Transcript, e.Effect, 1)
		}
	}

	c.logger.Debug("counted transcript effects",
		zap.String("source", source),
		zap.Int("records", records))
	return nil
}

// effects returns the effects of r that should be counted.
func (c *Counter) effects(r *vcf.Record) ([]snpeff.Effect, error) {
	if !c.highestOnly {
		return c.decoder.Decode(r)
	}
	top, err := c.decoder.HighestPriority(r)
	if err != nil || top == nil {
		return nil, err
	}
	return []snpeff.Effect{*top}, nil
}

// AccumulateFiles opens each path in order and accumulates it into counts
// and impacts. It stops at the first error.
func (c *Counter) AccumulateFiles(paths []string, counts Counts, impacts Impacts) error {
	for _, path := range paths {
		if err := c.accumulateFile(path, counts, impacts); err != nil {
			return err
		}
	}
	return nil
}

func (c *Counter) accumulateFile(path string, counts Counts, impacts Impacts) error {
	p, err := vcf.NewParser(path)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := c.Accumulate(p, counts, impacts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
