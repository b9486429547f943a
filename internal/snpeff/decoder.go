package snpeff

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/snpeff2maf/internal/vcf"
)

// effMarker prefixes the SnpEff annotation token in the INFO column.
const effMarker = "EFF="

// Decoder parses EFF annotations and orders them with a PriorityTable.
type Decoder struct {
	table  *PriorityTable
	logger *zap.Logger
}

// NewDecoder creates a decoder using table, or the default table if nil.
func NewDecoder(table *PriorityTable) *Decoder {
	if table == nil {
		table = DefaultPriorityTable()
	}
	return &Decoder{
		table:  table,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (d *Decoder) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Table returns the decoder's priority table.
func (d *Decoder) Table() *PriorityTable {
	return d.table
}

// Decode returns the record's effects sorted by priority, most severe first.
// Entries with more than ten attributes carry SnpEff errors or warnings and
// are dropped.
func (d *Decoder) Decode(r *vcf.Record) ([]Effect, error) {
	raw, ok := effToken(r.RawInfo())
	if !ok {
		return nil, &vcf.FormatError{Line: r.Line(), Message: "no EFF= annotation in INFO"}
	}

	var effects []Effect
	for _, entry := range strings.Split(raw, ",") {
		attrs, err := splitEntry(entry)
		if err != nil {
			return nil, &vcf.FormatError{Line: r.Line(), Message: err.Error()}
		}
		if len(attrs) > effectFieldCount {
			d.logger.Debug("dropping effect with errors or warnings",
				zap.Int("line", r.Line()),
				zap.String("entry", entry))
			continue
		}
		if len(attrs) < effectFieldCount {
			return nil, &vcf.FormatError{
				Line:    r.Line(),
				Message: fmt.Sprintf("effect %q has %d fields, expected %d", entry, len(attrs), effectFieldCount),
			}
		}
		effects = append(effects, newEffect(attrs))
	}

	if err := d.sort(effects, r.Line()); err != nil {
		return nil, err
	}
	return effects, nil
}

// HighestPriority returns the most severe effect, or nil if the record has none.
func (d *Decoder) HighestPriority(r *vcf.Record) (*Effect, error) {
	effects, err := d.Decode(r)
	if err != nil {
		return nil, err
	}
	if len(effects) == 0 {
		return nil, nil
	}
	return &effects[0], nil
}

// SelectForTranscripts returns the effects whose transcript is the one
// selected for their gene in gene2transcript, in priority order.
func (d *Decoder) SelectForTranscripts(r *vcf.Record, gene2transcript map[string]string) ([]Effect, error) {
	effects, err := d.Decode(r)
	if err != nil {
		return nil, err
	}

	var found []Effect
	for _, e := range effects {
		if t, ok := gene2transcript[e.Gene]; ok && t == e.Transcript {
			found = append(found, e)
		}
	}
	return found, nil
}

// sort orders effects by rank. Every effect type must be in the table.
func (d *Decoder) sort(effects []Effect, line int) error {
	ranks := make(map[string]int, len(effects))
	for _, e := range effects {
		r, ok := d.table.Rank(e.Effect)
		if !ok {
			return &vcf.LookupError{
				Kind:    vcf.LookupEffect,
				Key:     e.Effect,
				Line:    line,
				Message: "not in effect priority table",
			}
		}
		ranks[e.Effect] = r
	}

	sort.SliceStable(effects, func(i, j int) bool {
		return ranks[effects[i].Effect] < ranks[effects[j].Effect]
	})
	return nil
}

// effToken returns the value of the last INFO token starting with "EFF=",
// the same value vcf.ParseInfo keeps for a repeated key.
func effToken(info string) (string, bool) {
	value, found := "", false
	for _, tok := range strings.Split(info, ";") {
		if strings.HasPrefix(tok, effMarker) {
			value, found = tok[len(effMarker):], true
		}
	}
	return value, found
}

// splitEntry splits "TYPE(a|b|...)" into [TYPE, a, b, ...].
func splitEntry(entry string) ([]string, error) {
	typ, rest, ok := strings.Cut(entry, "(")
	if !ok || typ == "" {
		return nil, fmt.Errorf("malformed effect %q", entry)
	}
	rest = strings.TrimSuffix(rest, ")")
	return append([]string{typ}, strings.Split(rest, "|")...), nil
}
