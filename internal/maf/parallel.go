package maf

import (
	"context"
	"runtime"
	"sync"

	"github.com/inodb/snpeff2maf/internal/output"
	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

// WorkItem holds a parsed record ready for conversion.
type WorkItem struct {
	Seq    int
	Record *vcf.Record
}

// WorkResult holds the MAF rows of a single record.
type WorkResult struct {
	Seq     int
	Variant *output.Variant
	Effects []*snpeff.Effect
	Err     error
}

// ParallelConvert converts work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (c *Converter) ParallelConvert(items <-chan WorkItem, samples Samples, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				v, effs, err := c.ConvertRecord(item.Record, samples)
				results <- WorkResult{
					Seq:     item.Seq,
					Variant: v,
					Effects: effs,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// feed sends stream records to a work channel until the stream ends, an
// error occurs or ctx is cancelled. The returned channel receives the read
// error, if any, after items is closed.
func feed(ctx context.Context, stream vcf.RecordStream, buffer int) (<-chan WorkItem, <-chan error) {
	items := make(chan WorkItem, buffer)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(items)
		for seq := 0; ; seq++ {
			r, err := stream.Next()
			if err != nil {
				errc <- err
				return
			}
			if r == nil {
				return
			}
			select {
			case items <- WorkItem{Seq: seq, Record: r}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return items, errc
}
