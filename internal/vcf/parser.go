// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parser reads records from a VCF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	name       string
	lineNumber int
	meta       []string
	schema     Schema
}

var _ RecordStream = (*Parser)(nil)

// NewParser creates a new VCF parser for the given file.
// Use "-" to read from stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		p := NewParserFromReader(os.Stdin)
		p.name = "<stdin>"
		return p, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	return &Parser{
		reader: bufio.NewReader(file),
		file:   file,
		name:   path,
	}, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
// The caller keeps ownership of r.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
	}
}

// readLine returns the next line without its terminator.
// io.EOF is returned only when no bytes remain.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read line %d: %w", p.lineNumber+1, err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// AdvanceToData skips "##" meta lines and parses the header line that
// follows them. The next call to Next returns the first data record.
func (p *Parser) AdvanceToData() error {
	if p.schema != nil {
		return errors.New("vcf: header already read")
	}

	for {
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			return &FormatError{Line: p.lineNumber, Message: "no #CHROM header line found"}
		}
		if err != nil {
			return err
		}

		if IsMetaLine(line) {
			p.meta = append(p.meta, line)
			continue
		}

		if !IsHeaderLine(line) {
			return &FormatError{
				Line:    p.lineNumber,
				Message: "expected #CHROM POS ID header line",
			}
		}
		p.schema = Schema(strings.Fields(line[1:]))
		return nil
	}
}

// Next reads the next record from the VCF file.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	if p.schema == nil {
		return nil, errors.New("vcf: Next called before AdvanceToData")
	}

	for {
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if strings.TrimSpace(line) == "" {
			continue // Skip empty lines
		}
		if strings.HasPrefix(line, "#") {
			return nil, &FormatError{
				Line:    p.lineNumber,
				Message: "header or meta line inside the data section",
			}
		}

		return NewRecord(p.schema, strings.Fields(line), p.lineNumber)
	}
}

// Schema returns the column names from the header line, or nil before
// AdvanceToData has succeeded.
func (p *Parser) Schema() Schema {
	return p.schema
}

// SampleNames returns sample names from the #CHROM header line.
func (p *Parser) SampleNames() []string {
	return p.schema.SampleNames()
}

// Meta returns the "##" lines read by AdvanceToData.
func (p *Parser) Meta() []string {
	return p.meta
}

// Name returns the path the parser was opened with, if any.
func (p *Parser) Name() string {
	return p.name
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the underlying file, if the parser opened one.
func (p *Parser) Close() error {
	if p.file != nil {
		err := p.file.Close()
		p.file = nil
		return err
	}
	return nil
}
