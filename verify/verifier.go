package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/storage"
)

// Config holds configuration for a verification run.
type Config struct {
	// Workers is the number of concurrent table probes
	Workers int

	// ReportInterval is how often to report progress (number of tables)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per table
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Logger receives per-table failures and the run summary.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return &Config{
		Workers:        workers,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
	}
}

// Catalog is the subset of the catalog registry the verifier needs.
type Catalog interface {
	RegionCodes() []string
	RegionTables(code string) ([]core.TableRef, []core.Table, error)
}

// Result is the outcome of probing one table.
type Result struct {
	Region string
	Ref    core.TableRef
	Labels []core.Label
	Handle *core.TableHandle // nil when Err is set
	Err    error
}

// Found reports whether the table was opened.
func (r Result) Found() bool {
	return r.Err == nil
}

// Report collects the results of a verification run in catalog order.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// Found returns the number of tables that were opened.
func (r *Report) Found() int {
	n := 0
	for _, res := range r.Results {
		if res.Found() {
			n++
		}
	}
	return n
}

// Missing returns the results of tables that could not be opened.
func (r *Report) Missing() []Result {
	var missing []Result
	for _, res := range r.Results {
		if !res.Found() {
			missing = append(missing, res)
		}
	}
	return missing
}

// OK reports whether every table was opened.
func (r *Report) OK() bool {
	return r.Found() == len(r.Results)
}

// Verifier probes every catalog table of a set of regions against a store.
type Verifier struct {
	catalog  Catalog
	store    storage.TableReader
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewVerifier creates a new verifier.
// progress: where to write progress output (typically os.Stderr, nil to disable)
func NewVerifier(cat Catalog, store storage.TableReader, config *Config, progress io.Writer) *Verifier {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		catalog:  cat,
		store:    store,
		config:   config,
		progress: progress,
		logger:   logger.With("component", "verifier"),
	}
}

type probe struct {
	region string
	ref    core.TableRef
	labels []core.Label
}

// Run probes the tables of the given regions. An empty codes list verifies
// every region in the catalog. Regions that cannot be resolved abort the run
// before any table is probed; store failures are recorded per table.
func (v *Verifier) Run(ctx context.Context, codes []string) (*Report, error) {
	if v.config.Workers < 1 {
		return nil, ErrInvalidWorkers
	}
	if v.config.MaxRetries < 1 {
		return nil, ErrInvalidMaxAttempts
	}
	if len(codes) == 0 {
		codes = v.catalog.RegionCodes()
	}

	var probes []probe
	for _, code := range codes {
		refs, tables, err := v.catalog.RegionTables(code)
		if err != nil {
			return nil, err
		}
		for i, ref := range refs {
			probes = append(probes, probe{region: code, ref: ref, labels: tables[i].Labels})
		}
	}

	pool, err := ants.NewPool(v.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	tracker := NewProgressTracker(v.progress, len(probes), v.config.ReportInterval)
	tracker.Start()

	policy := RetryPolicy{MaxAttempts: v.config.MaxRetries, BaseDelay: v.config.RetryDelay}
	results := make([]Result, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = v.probe(ctx, policy, p)
			tracker.Increment(1)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = Result{Region: p.region, Ref: p.ref, Labels: p.labels, Err: submitErr}
		}
	}
	wg.Wait()
	tracker.Finish()

	report := &Report{Results: results, Elapsed: tracker.Elapsed()}
	v.logger.Info("verification complete",
		"tables", len(results),
		"found", report.Found(),
		"elapsed", report.Elapsed)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (v *Verifier) probe(ctx context.Context, policy RetryPolicy, p probe) Result {
	res := Result{Region: p.region, Ref: p.ref, Labels: p.labels}
	var final error

	err := Retry(ctx, policy, func() error {
		handle, err := v.store.ReadTable(ctx, p.ref)
		if isPermanent(err) {
			final = err
			return nil
		}
		if err != nil {
			return err
		}
		res.Handle = handle
		return nil
	})
	if err == nil {
		err = final
	}
	if err != nil {
		v.logger.Warn("table probe failed", "region", p.region, "table", p.ref.String(), "err", err)
		res.Err = err
		res.Handle = nil
	}
	return res
}

// isPermanent reports store errors that another attempt cannot change.
func isPermanent(err error) bool {
	return errors.Is(err, storage.ErrTableNotFound) ||
		errors.Is(err, storage.ErrStorageClosed) ||
		errors.Is(err, core.ErrInvalidTableRef)
}
