package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/echoverse/internal/config"
	"github.com/msto63/echoverse/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "echoverse",
	Short: "EchoVerse - tone-aware audiobook generator",
	Long: `EchoVerse rewrites stories in a chosen tone using a local Ollama
model and narrates the result to MP3.

Commands:
  generate - rewrite text and narrate it from the terminal
  serve    - start the browser front-end
  list     - show past narrations
  models   - show installed Ollama models`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/echoverse/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig resolves the configuration for a command run and applies the
// log level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	return cfg, nil
}
