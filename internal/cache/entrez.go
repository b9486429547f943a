// Package cache loads and stores the reference tables used for MAF output:
// gene Entrez IDs, transcript lengths and the selected transcript per gene.
package cache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// GeneEntrez maps gene symbol -> Entrez gene ID.
type GeneEntrez map[string]string

// LoadGeneEntrez loads a two-column gene -> Entrez ID TSV file.
func LoadGeneEntrez(path string) (GeneEntrez, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene2entrez file: %w", err)
	}
	defer f.Close()

	return parseGeneEntrez(f)
}

// parseGeneEntrez parses the TSV content. Rows missing either value are skipped.
func parseGeneEntrez(reader io.Reader) (GeneEntrez, error) {
	g2e := make(GeneEntrez)
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")
		if len(fields) < 2 {
			continue
		}

		gene := fields[0]
		entrez := fields[1]
		if gene == "" || entrez == "" {
			continue
		}
		g2e[gene] = entrez
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gene2entrez: %w", err)
	}

	return g2e, nil
}
