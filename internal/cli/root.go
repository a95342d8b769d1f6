package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "vouch v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vouch",
	Short: "Vouch - product listing trust checks",
	Long: `Vouch checks an online product listing before you buy.

It reads the listing page, extracts the title, price, seller and brand,
researches the seller and brand on the web, and returns one verdict:
"scam", "untrustworthy", "overpriced" or "good product", with a short reason.

Verdicts are produced by a language model from public evidence.
Treat them as a second opinion, not a guarantee.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.vouch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initEnv loads a .env file from the working directory if present
func initEnv() {
	_ = godotenv.Load()
}

// newLogger builds the process logger. Verbose runs get the human-readable
// development encoder at debug level; otherwise JSON at the given level.
func newLogger(verbose bool, level zapcore.Level) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
