package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/vouch/internal/model"
	"github.com/ppiankov/vouch/internal/pipeline"
	"github.com/ppiankov/vouch/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many listings from a file in parallel",
	Long: `Batch checks multiple listings concurrently:
- Read URLs from input file (one per line, # for comments)
- Check URLs in parallel with a bounded worker pool
- Pace fetches per marketplace host
- Write one JSON result per URL

Example:
  vouch batch urls.txt
  vouch batch urls.txt --concurrency 8 --output-dir ./verdicts
  vouch batch urls.txt --rps 0.5 --burst 1 --batch-timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	d := model.DefaultConfig()
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./vouch-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().Int("concurrency", d.Concurrency.Workers, "number of concurrent workers")
	batchCmd.Flags().Float64("rps", d.RateLimiting.RequestsPerSecond, "fetches per second per host (0 disables pacing)")
	batchCmd.Flags().Int("burst", d.RateLimiting.BurstSize, "burst size per host")
	addPipelineFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(cfgFile, cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose, zapcore.WarnLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Vouch Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Per host:     %.2f req/s (burst %d)\n", cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Reasoning:    %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	outcomes, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	counts := writeOutcomes(outcomes, outputDir, cfg.Output.Pretty)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", len(outcomes))
	for _, label := range model.Labels() {
		fmt.Fprintf(os.Stderr, "  %-18s %d\n", string(label)+":", counts.labels[label])
	}
	for _, kind := range []pipeline.Kind{pipeline.KindInvalidInput, pipeline.KindExtractionFailed, pipeline.KindSynthesisFailed, pipeline.KindUnexpected} {
		if n := counts.failures[kind]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-18s %d\n", kind.String()+":", n)
		}
	}
	if counts.notRun > 0 {
		fmt.Fprintf(os.Stderr, "  %-18s %d (batch timeout reached)\n", "not run:", counts.notRun)
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

type batchCounts struct {
	labels   map[model.Label]int
	failures map[pipeline.Kind]int
	notRun   int
}

// writeOutcomes writes one JSON document per checked outcome: the result
// on success, the caller-facing error otherwise. URLs the batch never
// reached are only counted.
func writeOutcomes(outcomes []*worker.CheckOutcome, dir string, pretty bool) batchCounts {
	counts := batchCounts{
		labels:   make(map[model.Label]int),
		failures: make(map[pipeline.Kind]int),
	}

	for _, o := range outcomes {
		path := filepath.Join(dir, fmt.Sprintf("%03d-%s.json", o.Index+1, sanitizeFilename(o.URL)))

		if errors.Is(o.Error, worker.ErrNotRun) {
			counts.notRun++
			fmt.Fprintf(os.Stderr, "- %s: not run\n", o.URL)
			continue
		}

		if o.Error != nil {
			kind := pipeline.KindOf(o.Error)
			counts.failures[kind]++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", o.URL, kind.Message())
			if err := writeJSONFile(path, model.ErrorResponse{Error: kind.Message()}, pretty); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", o.URL, err)
			}
			continue
		}

		counts.labels[o.Result.AIResult.Status]++
		if err := writeJSONFile(path, o.Result, pretty); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", o.URL, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %s\n", o.Result.AIResult.Status, o.Result.AIResult.Title)
	}

	return counts
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a URL into a file name stem
func sanitizeFilename(s string) string {
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.Trim(filenameReplacer.Replace(s), "_.")
	if s == "" {
		return "listing"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
