package resolve

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/genoloc/internal/feature"
)

// WorkItem holds a parsed feature ready for resolution.
type WorkItem struct {
	Seq     int
	Feature *feature.Feature
}

// WorkResult holds the resolution output for a single feature.
type WorkResult struct {
	Seq     int
	Feature *feature.Feature
	Result  *Result
	Err     error
}

// FeatureReader is implemented by feature sources.
// Next returns nil, nil when there are no more features.
type FeatureReader interface {
	Next() (*feature.Feature, error)
}

// ResultWriter writes one record per feature. err is set when the
// feature could not be resolved.
type ResultWriter interface {
	WriteHeader() error
	Write(f *feature.Feature, res *Result, err error) error
	Flush() error
}

// ParallelResolve resolves work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (r *Resolver) ParallelResolve(items <-chan WorkItem, workers int) <-chan WorkResult {
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
				res, err := r.Resolve(item.Feature)
				results <- WorkResult{
					Seq:     item.Seq,
					Feature: item.Feature,
					Result:  res,
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

	for res := range results {
		pending[res.Seq] = res

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

// Stats summarizes a ResolveAll run.
type Stats struct {
	Features     int
	Resolved     int
	Failed       int
	InternalStop int
	Cached       int
}

// ResolveAll resolves every feature from reader, writing results in input
// order. Per-feature failures are logged and written, not returned; onResult,
// if non-nil, sees every successful result in order.
func (r *Resolver) ResolveAll(reader FeatureReader, writer ResultWriter, workers int, onResult func(*Result)) (Stats, error) {
	var stats Stats
	if err := writer.WriteHeader(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	items := make(chan WorkItem, 2*workers)
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			f, err := reader.Next()
			if err != nil {
				readErr = fmt.Errorf("read feature: %w", err)
				return
			}
			if f == nil {
				return
			}
			items <- WorkItem{Seq: seq, Feature: f}
			seq++
		}
	}()

	results := r.ParallelResolve(items, workers)

	if err := OrderedCollect(results, func(wr WorkResult) error {
		stats.Features++
		if wr.Err != nil {
			stats.Failed++
			r.logger.Warn("failed to resolve feature",
				zap.String("feature", wr.Feature.ID),
				zap.String("location", wr.Feature.Location),
				zap.Int("line", wr.Feature.Line),
				zap.Error(wr.Err))
		} else {
			if wr.Result.Resolved {
				stats.Resolved++
			}
			if wr.Result.InternalStop {
				stats.InternalStop++
			}
			if wr.Result.FromCache {
				stats.Cached++
			}
			if onResult != nil {
				onResult(wr.Result)
			}
		}
		if err := writer.Write(wr.Feature, wr.Result, wr.Err); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	}); err != nil {
		return stats, err
	}

	if readErr != nil {
		return stats, readErr
	}

	if stats.Features == 0 {
		r.logger.Info("0 features processed")
	}

	return stats, writer.Flush()
}
