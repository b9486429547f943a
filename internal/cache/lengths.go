package cache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TranscriptLengths maps transcript ID -> transcript length.
type TranscriptLengths map[string]int

// LoadTranscriptLengths loads a two-column transcript -> length TSV file.
// A first line whose length column is not a number is treated as a header.
func LoadTranscriptLengths(path string) (TranscriptLengths, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript lengths file: %w", err)
	}
	defer f.Close()

	return parseTranscriptLengths(f)
}

func parseTranscriptLengths(reader io.Reader) (TranscriptLengths, error) {
	lengths := make(TranscriptLengths)
	scanner := bufio.NewScanner(reader)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("transcript lengths line %d: expected 2 columns, found %d", lineNumber, len(fields))
		}

		n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			if lineNumber == 1 {
				continue // header
			}
			return nil, fmt.Errorf("transcript lengths line %d: invalid length %q", lineNumber, fields[1])
		}
		lengths[fields[0]] = n
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript lengths: %w", err)
	}

	return lengths, nil
}
