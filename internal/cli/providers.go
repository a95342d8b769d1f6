package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/vouch/internal/llm"
	"github.com/ppiankov/vouch/internal/model"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Check that the configured model providers answer",
	Long: `Providers pings the reasoning and research providers from the
effective configuration. A missing research provider is reported but
not fatal; checks then run without evidence.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile, cmd)
		if err != nil {
			return err
		}

		roles, err := buildRoles(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if !pingRoles(ctx, cmd.OutOrStdout(), roles) {
			return errors.New("reasoning provider is not usable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
	addPipelineFlags(providersCmd)
}

// providerRole is one configured capability
type providerRole struct {
	name     string
	settings model.LLMConfig
	provider llm.Provider // nil when unconfigured
	required bool
}

func buildRoles(cfg *model.Config) ([]providerRole, error) {
	reasoning, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("reasoning provider: %w", err)
	}
	search, err := llm.NewProvider(llm.ConfigFromModel(cfg.Search, cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}
	return []providerRole{
		{name: "reasoning", settings: cfg.LLM, provider: reasoning, required: true},
		{name: "research", settings: cfg.Search, provider: search},
	}, nil
}

// pingRoles prints one status line per role and reports whether every
// required role answered
func pingRoles(ctx context.Context, w io.Writer, roles []providerRole) bool {
	ok := true
	for _, r := range roles {
		label := fmt.Sprintf("%-10s %s/%s", r.name, r.settings.Provider, r.settings.Model)

		if r.provider == nil {
			fmt.Fprintf(w, "✗ %s: not configured (missing API key?)\n", label)
			ok = ok && !r.required
			continue
		}

		if err := r.provider.Ping(ctx); err != nil {
			fmt.Fprintf(w, "✗ %s: %v\n", label, err)
			ok = ok && !r.required
			continue
		}

		fmt.Fprintf(w, "✓ %s\n", label)
	}
	return ok
}
