package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/echoverse/internal/ollama"
)

var modelsOllamaURL string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show installed Ollama models",
	Long: `Shows the models installed in the local Ollama instance.

Any of them can be passed to generate via --model.

Examples:
  echoverse models
  echoverse models --ollama-url http://192.168.1.10:11434`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&modelsOllamaURL, "ollama-url", "", "base URL for Ollama")
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if modelsOllamaURL != "" {
		cfg.OllamaURL = modelsOllamaURL
	}

	clientCfg := ollama.DefaultConfig()
	clientCfg.BaseURL = cfg.OllamaURL
	client := ollama.NewClient(clientCfg)

	ctx := context.Background()
	resp, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ollama not reachable at %s: %v\nStart it with: ollama serve\n", cfg.OllamaURL, err)
		os.Exit(2)
	}

	fmt.Println("Installed Ollama models")
	fmt.Println("=======================")
	fmt.Println()

	if len(resp.Models) == 0 {
		fmt.Println("No models installed.")
		fmt.Println()
		fmt.Println("Recommended models:")
		fmt.Println("  ollama pull gemma3:4b      # default rewrite model")
		fmt.Println("  ollama pull qwen2.5:7b     # larger alternative")
		return nil
	}

	fmt.Printf("%-35s %s\n", "MODEL", "SIZE")
	fmt.Println(strings.Repeat("-", 50))

	for _, m := range resp.Models {
		fmt.Printf("%-35s %s\n", m.Name, formatSize(m.Size))
	}

	fmt.Println()
	fmt.Printf("Total: %d model(s)\n", len(resp.Models))

	return nil
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
