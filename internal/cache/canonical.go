package cache

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// Genome Nexus canonical transcript file URLs.
const (
	canonicalFileGRCh38 = "https://raw.githubusercontent.com/genome-nexus/genome-nexus-importer/master/data/grch38_ensembl95/export/ensembl_biomart_canonical_transcripts_per_hgnc.txt"
	canonicalFileGRCh37 = "https://raw.githubusercontent.com/genome-nexus/genome-nexus-importer/master/data/grch37_ensembl92/export/ensembl_biomart_canonical_transcripts_per_hgnc.txt"
	canonicalFileName   = "ensembl_biomart_canonical_transcripts_per_hgnc.txt"
)

// Column layouts of the supported canonical transcript files.
const (
	biomartTranscriptCol = 4 // genome_nexus_canonical_transcript
	mskccTranscriptCol   = 2 // enst_id
	mskccHeaderPrefix    = "gene_name\trefseq_id\tenst_id"
)

// CanonicalFileURL returns the URL for the canonical transcript file for the given assembly.
func CanonicalFileURL(assembly string) string {
	if strings.EqualFold(assembly, "GRCh37") {
		return canonicalFileGRCh37
	}
	return canonicalFileGRCh38
}

// CanonicalFileName returns the filename for the canonical transcript file.
func CanonicalFileName() string {
	return canonicalFileName
}

// LoadCanonicalSelection loads a gene -> canonical transcript table usable
// as a transcript selection. Two layouts are read: the Genome Nexus biomart
// export (hgnc_symbol in col 0, canonical transcript in col 4) and the MSKCC
// isoform overrides file (gene_name, refseq_id, enst_id, note).
func LoadCanonicalSelection(path string) (Selection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open canonical transcripts file: %w", err)
	}
	defer f.Close()

	return parseCanonicalSelection(f)
}

func parseCanonicalSelection(reader io.Reader) (Selection, error) {
	sel := make(Selection)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return sel, scanner.Err()
	}
	col := biomartTranscriptCol
	if strings.HasPrefix(scanner.Text(), mskccHeaderPrefix) {
		col = mskccTranscriptCol
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) <= col {
			continue
		}

		gene := fields[0]
		transcript := fields[col]
		if gene == "" || transcript == "" || transcript == "nan" {
			continue
		}
		sel[gene] = stripVersion(transcript)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan canonical transcripts: %w", err)
	}

	return sel, nil
}

// stripVersion removes a ".N" version suffix from an Ensembl ID.
func stripVersion(id string) string {
	if idx := strings.LastIndexByte(id, '.'); idx > 0 {
		return id[:idx]
	}
	return id
}

// Apply replaces the selected transcript of every gene in overrides and
// returns the number of genes whose selection changed.
func (s Selection) Apply(overrides Selection) int {
	changed := 0
	for gene, tx := range overrides {
		if s[gene] != tx {
			s[gene] = tx
			changed++
		}
	}
	return changed
}

// downloadRetries bounds the retries of a transient download failure.
const downloadRetries = 4

// newDownloadBackOff returns the retry schedule for DownloadCanonical.
var newDownloadBackOff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// createFile opens the temporary download file.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// DownloadCanonical downloads a canonical transcript file to destPath.
// Network errors and 429/5xx responses are retried with exponential backoff.
func DownloadCanonical(ctx context.Context, url, destPath string) error {
	client := &http.Client{Timeout: 5 * time.Minute}
	b := backoff.WithContext(backoff.WithMaxRetries(newDownloadBackOff(), downloadRetries), ctx)

	err := backoff.Retry(func() error {
		return fetch(ctx, client, url, destPath)
	}, b)
	if err != nil {
		return fmt.Errorf("download canonical transcripts: %w", err)
	}
	return nil
}

// fetch performs one download attempt. Errors that a retry cannot fix are
// wrapped with backoff.Permanent.
func fetch(ctx context.Context, client *http.Client, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %s", resp.Status)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return err
		}
		return backoff.Permanent(err)
	}

	f, err := createFile(destPath + ".tmp")
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create file: %w", err))
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destPath + ".tmp")
		return fmt.Errorf("write canonical transcripts: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath + ".tmp")
		return fmt.Errorf("close canonical transcripts: %w", err)
	}

	if err := os.Rename(destPath+".tmp", destPath); err != nil {
		os.Remove(destPath + ".tmp")
		return backoff.Permanent(fmt.Errorf("rename canonical transcripts: %w", err))
	}

	return nil
}
