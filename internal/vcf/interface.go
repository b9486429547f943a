package vcf

// RecordStream is a forward-only, single-pass source of VCF records.
type RecordStream interface {
	// AdvanceToData skips meta lines and reads the header line.
	// Must be called once, before Next.
	AdvanceToData() error

	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Schema returns the column names read by AdvanceToData.
	Schema() Schema

	// Close closes the stream and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
