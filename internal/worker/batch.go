package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/vouch/internal/model"
)

// ErrNotRun marks a URL the batch ended before checking
var ErrNotRun = errors.New("not checked before the batch ended")

// Checker runs one listing check
type Checker interface {
	Check(ctx context.Context, rawURL string) (*model.CheckResult, error)
}

// CheckJob checks one URL, waiting on the per-host limiter first
type CheckJob struct {
	Index   int
	URL     string
	Checker Checker
	Limiter *Limiter // nil disables pacing
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			return &CheckOutcome{Index: j.Index, URL: j.URL, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	result, err := j.Checker.Check(ctx, j.URL)
	return &CheckOutcome{
		Index:  j.Index,
		URL:    j.URL,
		Result: result,
		Error:  err,
	}
}

// CheckOutcome is the result of one check job
type CheckOutcome struct {
	Index  int
	URL    string
	Result *model.CheckResult
	Error  error
}

// GetError returns the error from the check
func (r *CheckOutcome) GetError() error {
	return r.Error
}

// BatchProcessor checks many URLs concurrently. Each check is an
// independent pipeline run; only the limiter is shared.
type BatchProcessor struct {
	checker     Checker
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. A non-positive
// requestsPerSecond disables per-host pacing.
func NewBatchProcessor(checker Checker, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessURLs returns one outcome per URL in input order. URLs that were
// never run because ctx ended carry ErrNotRun.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*CheckOutcome {
	if len(urls) == 0 {
		return []*CheckOutcome{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, url := range urls {
		job := &CheckJob{
			Index:   i,
			URL:     url,
			Checker: b.checker,
			Limiter: b.limiter,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	outcomes := make([]*CheckOutcome, len(urls))
	for _, result := range results {
		o := result.(*CheckOutcome)
		outcomes[o.Index] = o
	}
	for i, o := range outcomes {
		if o == nil {
			outcomes[i] = &CheckOutcome{Index: i, URL: urls[i], Error: fmt.Errorf("%w: %v", ErrNotRun, context.Cause(ctx))}
		}
	}

	return outcomes
}

// ProcessFile reads URLs from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckOutcome, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file (one per line). Blank lines and
// lines starting with # are skipped; a repeated line is read once.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
