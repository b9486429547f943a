package cache

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadGTFTranscriptLengths computes transcript lengths from the exon
// features of a GENCODE/Ensembl GTF file (optionally gzipped). Transcript
// IDs are stored without their version suffix.
func LoadGTFTranscriptLengths(path string) (TranscriptLengths, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseGTFTranscriptLengths(reader)
}

// IsGTF reports whether path names a GTF file.
func IsGTF(path string) bool {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	return strings.HasSuffix(p, ".gtf")
}

func parseGTFTranscriptLengths(reader io.Reader) (TranscriptLengths, error) {
	lengths := make(TranscriptLengths)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			return nil, fmt.Errorf("GTF line %d: expected 9 fields, got %d", lineNumber, len(fields))
		}
		if fields[2] != "exon" {
			continue
		}

		start, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("GTF line %d: parse start: %w", lineNumber, err)
		}
		end, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("GTF line %d: parse end: %w", lineNumber, err)
		}

		id := parseAttributes(fields[8])["transcript_id"]
		if id == "" {
			continue
		}
		lengths[stripVersion(id)] += int(end - start + 1)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	return lengths, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Find the first space to separate key from value
		key, value, ok := strings.Cut(part, " ")
		if !ok {
			continue
		}
		attrs[key] = strings.Trim(strings.TrimSpace(value), "\"")
	}

	return attrs
}
