package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/vouch/internal/model"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "VOUCH"

// flagKeys maps command-line flags to configuration keys. A flag only
// overrides the config when it was set explicitly.
var flagKeys = map[string]string{
	"verbose":         "output.verbose",
	"pretty":          "output.pretty",
	"timeout":         "http.timeout",
	"ua":              "http.user_agent",
	"max-bytes":       "http.max_body_bytes",
	"insecure":        "http.insecure_tls",
	"respect-robots":  "http.respect_robots",
	"http-proxy":      "http.http_proxy",
	"https-proxy":     "http.https_proxy",
	"llm-provider":    "llm.provider",
	"llm-model":       "llm.model",
	"search-provider": "search.provider",
	"search-model":    "search.model",
	"addr":            "server.addr",
	"request-timeout": "server.request_timeout",
	"concurrency":     "concurrency.workers",
	"rps":             "rate_limiting.requests_per_second",
	"burst":           "rate_limiting.burst_size",
}

// providerKeyEnv names the conventional API key variable for each hosted provider
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
	"cohere":    "COHERE_API_KEY",
}

// defaultConfigPath is $HOME/.vouch/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "find home directory")
	}
	return filepath.Join(home, ".vouch", "config.yaml"), nil
}

// loadConfig resolves the effective configuration. Priority, highest first:
// explicitly set flags of cmd, VOUCH_* environment variables, the config
// file, built-in defaults. cmd may be nil.
func loadConfig(cfgFile string, cmd *cobra.Command) (*model.Config, error) {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := defaultConfigPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "read config")
		}
	}

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, eris.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, eris.Wrap(err, "decode config")
	}

	applyEnvFallbacks(cfg)
	return cfg, nil
}

// setDefaults registers every key so environment variables bind to it
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.insecure_tls", d.HTTP.InsecureTLS)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", d.HTTP.NoProxy)
	v.SetDefault("http.respect_robots", d.HTTP.RespectRobots)

	for prefix, c := range map[string]model.LLMConfig{"llm": d.LLM, "search": d.Search} {
		v.SetDefault(prefix+".provider", c.Provider)
		v.SetDefault(prefix+".model", c.Model)
		v.SetDefault(prefix+".api_key", c.APIKey)
		v.SetDefault(prefix+".base_url", c.BaseURL)
		v.SetDefault(prefix+".timeout", c.Timeout)
		v.SetDefault(prefix+".max_tokens", c.MaxTokens)
	}

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("output.pretty", d.Output.Pretty)
}

// applyEnvFallbacks fills API keys and the Ollama endpoint from the
// providers' conventional variables when the config leaves them empty
func applyEnvFallbacks(cfg *model.Config) {
	for _, c := range []*model.LLMConfig{&cfg.LLM, &cfg.Search} {
		provider := strings.ToLower(c.Provider)
		if c.APIKey == "" {
			if name, ok := providerKeyEnv[provider]; ok {
				c.APIKey = os.Getenv(name)
			}
		}
		if provider == "ollama" && c.BaseURL == "" {
			c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}
