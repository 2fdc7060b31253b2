package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tobyfell/dispatch"
)

var rootCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Interactive coding assistant with agent routing and tool hooks",
	Long: "\ndispatch is an interactive coding-assistant REPL. Each request is " +
		"routed to the best-matching agent, sent to the model, and any tool " +
		"calls the model makes run under the supervision of hooks discovered " +
		"from project and user configuration.",
	PersistentPreRunE: loadEnv,
	RunE:              runREPL,
}

func init() {
	defaults := dispatch.DefaultConfig()

	rootCmd.Flags().String("model", defaults.Model, "Model identifier")
	rootCmd.Flags().Int("max-turns", defaults.MaxTurns, "Maximum model calls per user turn")
	rootCmd.Flags().Int("history-limit", defaults.HistoryLimit, "Maximum conversation history length")
	rootCmd.Flags().Float64("min-confidence", defaults.MinConfidence, "Routing fallback threshold")
	rootCmd.Flags().Duration("hook-timeout", defaults.HookTimeout, "Timeout per hook process")
	rootCmd.Flags().String("config-dir", "", "Hook configuration directory (overrides discovery)")
	rootCmd.Flags().String("system-prompt", "", "Base system prompt")
	rootCmd.Flags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.Flags().Bool("no-router", false, "Disable agent routing")

	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	viper.BindPFlag("max_turns", rootCmd.Flags().Lookup("max-turns"))
	viper.BindPFlag("history_limit", rootCmd.Flags().Lookup("history-limit"))
	viper.BindPFlag("min_confidence", rootCmd.Flags().Lookup("min-confidence"))
	viper.BindPFlag("hook_timeout", rootCmd.Flags().Lookup("hook-timeout"))
	viper.BindPFlag("config_dir", rootCmd.Flags().Lookup("config-dir"))
	viper.BindPFlag("system_prompt", rootCmd.Flags().Lookup("system-prompt"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("no_router", rootCmd.Flags().Lookup("no-router"))

	viper.SetEnvPrefix("DISPATCH")
	viper.AutomaticEnv()
}

// loadEnv loads .env before flags are read, so API keys can live next to
// the project.
func loadEnv(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	return nil
}

// configFromFlags assembles the injected configuration from viper.
func configFromFlags() dispatch.Config {
	cfg := dispatch.DefaultConfig()
	cfg.Model = viper.GetString("model")
	cfg.MaxTurns = viper.GetInt("max_turns")
	cfg.HistoryLimit = viper.GetInt("history_limit")
	cfg.MinConfidence = viper.GetFloat64("min_confidence")
	if d := viper.GetDuration("hook_timeout"); d > 0 {
		cfg.HookTimeout = d
	} else {
		cfg.HookTimeout = 30 * time.Second
	}
	return cfg
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}
