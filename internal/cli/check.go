package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/vouch/internal/model"
	"github.com/ppiankov/vouch/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var outJSON string

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Check a single product listing",
	Long: `Check fetches one product listing and returns a verdict:
- Extract title, price, seller and brand from the page
- Research the brand and seller on the web
- Ask the reasoning model for one label and a short reason

Example:
  vouch check https://www.amazon.com/dp/B000000000
  vouch check https://shop.example/item/42 --json verdict.json
  vouch check https://shop.example/item/42 --llm-provider anthropic --search-provider cohere`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the result to this path instead of stdout")
	addPipelineFlags(checkCmd)
}

// addPipelineFlags registers the flags shared by every command that runs checks.
// Values are read through loadConfig, so only explicitly set flags apply.
func addPipelineFlags(cmd *cobra.Command) {
	d := model.DefaultConfig()
	f := cmd.Flags()

	f.Duration("timeout", d.HTTP.Timeout, "listing fetch timeout")
	f.String("ua", d.HTTP.UserAgent, "HTTP User-Agent for the listing fetch")
	f.Int64("max-bytes", d.HTTP.MaxBodyBytes, "max response bytes to read")
	f.Bool("insecure", d.HTTP.InsecureTLS, "skip TLS certificate verification")
	f.Bool("respect-robots", d.HTTP.RespectRobots, "refuse listings disallowed by robots.txt")
	f.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	f.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	f.String("llm-provider", d.LLM.Provider, "reasoning provider (openai, anthropic, ollama, cohere)")
	f.String("llm-model", d.LLM.Model, "reasoning model name")
	f.String("search-provider", d.Search.Provider, "web research provider (openai search models, cohere, anthropic)")
	f.String("search-model", d.Search.Model, "web research model name")
	f.Bool("pretty", d.Output.Pretty, "indent JSON output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile, cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose, zapcore.WarnLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", args[0])
		fmt.Fprintf(os.Stderr, "Reasoning: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Research:  %s/%s\n\n", cfg.Search.Provider, cfg.Search.Model)
	}

	result, err := p.Check(ctx, args[0])
	if err != nil {
		kind := pipeline.KindOf(err)
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Cause: %v\n", err)
		}
		return fmt.Errorf("%s (%s)", kind.Message(), kind)
	}

	if outJSON == "" {
		return writeJSON(cmd.OutOrStdout(), result, cfg.Output.Pretty)
	}

	if err := writeJSONFile(outJSON, result, cfg.Output.Pretty); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ %s: %s\n", result.AIResult.Status, result.AIResult.Title)
	fmt.Fprintf(os.Stderr, "  Result: %s\n", outJSON)
	return nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func writeJSONFile(path string, v any, pretty bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return writeJSON(f, v, pretty)
}
