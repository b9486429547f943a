package duckdb

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/snpeff2maf/internal/transcript"
)

// Run describes one stored accumulation over a set of VCF files.
type Run struct {
	ID          string
	CreatedAt   time.Time
	HighestOnly bool
	Inputs      []string
}

// inputSep joins input paths in the scan_runs table.
const inputSep = "\n"

// newRunID generates run identifiers.
var newRunID = uuid.NewString

// WriteCounts stores counts and impacts as a new run and returns its ID.
// The scan_runs row is committed last, so a failed write leaves no run that
// Runs or LoadCounts can see; its partial rows are deleted.
func (s *Store) WriteCounts(counts transcript.Counts, impacts transcript.Impacts, highestOnly bool, inputs []string) (string, error) {
	runID := newRunID()

	if err := s.writeRun(runID, counts, impacts, highestOnly, inputs); err != nil {
		if delErr := s.DeleteRun(runID); delErr != nil {
			return "", errors.Join(err, delErr)
		}
		return "", err
	}
	return runID, nil
}

func (s *Store) writeRun(runID string, counts transcript.Counts, impacts transcript.Impacts, highestOnly bool, inputs []string) error {
	if err := s.appendCounts(runID, counts); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	defer tx.Rollback()

	for effect, impact := range impacts {
		if _, err := tx.Exec(`INSERT INTO effect_impacts VALUES (?, ?, ?)`, runID, effect, impact); err != nil {
			return fmt.Errorf("insert impact: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO scan_runs VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC(), highestOnly, strings.Join(inputs, inputSep)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// appendCounts batch-inserts counts using the Appender API.
func (s *Store) appendCounts(runID string, counts transcript.Counts) error {
	if len(counts) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "effect_counts")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for gene, t2e := range counts {
		for t, e2c := range t2e {
			for effect, n := range e2c {
				if err := appender.AppendRow(runID, gene, t, effect, int64(n)); err != nil {
					return fmt.Errorf("append effect count: %w", err)
				}
			}
		}
	}

	return appender.Flush()
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, created_at, highest_only, inputs
		FROM scan_runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var inputs string
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.HighestOnly, &inputs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if inputs != "" {
			r.Inputs = strings.Split(inputs, inputSep)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LoadCounts reads the given runs, or every run when none are given, and
// merges them oldest first with transcript.Merge. Runs whose impacts
// disagree produce a *transcript.ConsistencyError.
func (s *Store) LoadCounts(runIDs ...string) (transcript.Counts, transcript.Impacts, error) {
	runs, err := s.Runs()
	if err != nil {
		return nil, nil, err
	}

	wanted := make(map[string]bool, len(runIDs))
	for _, id := range runIDs {
		wanted[id] = true
	}

	counts := make(transcript.Counts)
	impacts := make(transcript.Impacts)
	loaded := 0
	for _, r := range runs {
		if len(runIDs) > 0 && !wanted[r.ID] {
			continue
		}
		c, im, err := s.loadRun(r.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := transcript.Merge(counts, impacts, c, im); err != nil {
			var ce *transcript.ConsistencyError
			if errors.As(err, &ce) {
				ce.Source = "run " + r.ID
			}
			return nil, nil, err
		}
		loaded++
	}

	if loaded < len(wanted) {
		return nil, nil, fmt.Errorf("load counts: %d of %d runs not found", len(wanted)-loaded, len(wanted))
	}
	return counts, impacts, nil
}

func (s *Store) loadRun(runID string) (transcript.Counts, transcript.Impacts, error) {
	impacts := make(transcript.Impacts)
	rows, err := s.db.Query(`SELECT effect, impact FROM effect_impacts WHERE run_id=?`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query impacts: %w", err)
	}
	for rows.Next() {
		var effect, impact string
		if err := rows.Scan(&effect, &impact); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan impact: %w", err)
		}
		impacts[effect] = impact
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("iterate impacts: %w", err)
	}

	counts := make(transcript.Counts)
	rows, err = s.db.Query(`SELECT gene, transcript, effect, count FROM effect_counts WHERE run_id=?`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var gene, t, effect string
		var n int64
		if err := rows.Scan(&gene, &t, &effect, &n); err != nil {
			return nil, nil, fmt.Errorf("scan count: %w", err)
		}
		counts.Add(gene, t, effect, int(n))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, impacts, nil
}

// DeleteRun removes a stored run.
func (s *Store) DeleteRun(runID string) error {
	for _, table := range []string{"effect_counts", "effect_impacts", "scan_runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id=?", runID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}
