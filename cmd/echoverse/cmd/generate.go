package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/echoverse/internal/config"
	"github.com/msto63/echoverse/internal/pipeline"
	"github.com/msto63/echoverse/internal/rewrite"
	"github.com/msto63/echoverse/internal/store"
	"github.com/msto63/echoverse/internal/tts"
	"github.com/msto63/echoverse/internal/tui/tonepicker"
)

var (
	genModel       string
	genOllamaURL   string
	genTone        string
	genLang        string
	genVoice       string
	genInputFile   string
	genTemperature float64
	genMaxTokens   int
	genPiperModel  string
	genOutPrefix   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rewrite text in a chosen tone and narrate it to MP3",
	Long: `Rewrites text in a chosen tone using a local Ollama model and
converts the result to speech.

Text comes from --input-file or is pasted interactively. The tone comes
from --tone or an interactive picker.

Examples:
  echoverse generate --input-file story.txt --tone Suspenseful
  echoverse generate --tone "Calm & Slow" --voice "Kate (UK)"
  echoverse generate --piper-model ~/piper/en_US-amy-medium.onnx`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Ollama model name (default: gemma3:4b)")
	generateCmd.Flags().StringVar(&genOllamaURL, "ollama-url", "", "base URL for Ollama (default: http://localhost:11434)")
	generateCmd.Flags().StringVarP(&genTone, "tone", "t", "", "tone to use (if omitted, you'll pick interactively)")
	generateCmd.Flags().StringVar(&genLang, "lang", "", "speech language code (default: en)")
	generateCmd.Flags().StringVar(&genVoice, "voice", "", "voice preset for network synthesis (default: Eric (US))")
	generateCmd.Flags().StringVarP(&genInputFile, "input-file", "i", "", "path to a text file to rewrite (else paste interactively)")
	generateCmd.Flags().Float64Var(&genTemperature, "temperature", 0.7, "LLM temperature")
	generateCmd.Flags().IntVar(&genMaxTokens, "max-tokens", 512, "LLM max tokens to generate")
	generateCmd.Flags().StringVar(&genPiperModel, "piper-model", "", "path to a Piper .onnx voice model for offline synthesis")
	generateCmd.Flags().StringVar(&genOutPrefix, "out-prefix", "", "filename prefix for the saved MP3 (default: speech)")
}

// applyGenerateFlags folds explicitly set flags over the resolved config
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("ollama-url") {
		cfg.OllamaURL = genOllamaURL
	}
	if cmd.Flags().Changed("lang") {
		cfg.Lang = genLang
	}
	if cmd.Flags().Changed("voice") {
		cfg.Voice = genVoice
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = genTemperature
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.MaxTokens = genMaxTokens
	}
	if cmd.Flags().Changed("piper-model") {
		cfg.PiperModel = genPiperModel
	}
	if cmd.Flags().Changed("out-prefix") {
		cfg.OutPrefix = genOutPrefix
	}
	cfg.Clamp()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg)

	in := bufio.NewReader(os.Stdin)

	var text string
	if genInputFile != "" {
		if _, err := os.Stat(genInputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Input file not found: %s\n", genInputFile)
			os.Exit(1)
		}
		data, err := os.ReadFile(genInputFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", genInputFile, err)
		}
		text = strings.TrimSpace(string(data))
	} else {
		text = readTextInteractive(in, os.Stdout)
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "No input text provided.")
		os.Exit(1)
	}

	tone := genTone
	if tone == "" {
		if isTerminal(os.Stdin) {
			tone, err = tonepicker.Pick(rewrite.DefaultTones)
			if err != nil {
				return err
			}
		} else {
			tone = pickToneNumbered(in, os.Stdout, rewrite.DefaultTones)
		}
	}
	if tone == "" {
		tone = "Neutral"
	}

	presets, err := tts.LoadPresets(config.VoicesPath())
	if err != nil {
		return err
	}

	job := pipeline.Job{
		Text:        text,
		Tone:        tone,
		Model:       cfg.Model,
		OllamaURL:   cfg.OllamaURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		VoiceName:   cfg.Voice,
		Lang:        cfg.Lang,
		PiperModel:  cfg.PiperModel,
		OutPrefix:   cfg.OutPrefix,
	}
	if job.PiperModel != "" {
		job.VoiceName = strings.TrimSuffix(filepath.Base(job.PiperModel), filepath.Ext(job.PiperModel))
	}

	orch := pipeline.New(store.New(cfg.OutputsDir), presets)
	orch.State().AddListener(func(_, to pipeline.State) {
		switch to {
		case pipeline.StateRewriting:
			fmt.Printf("\n→ Rewriting with Ollama model '%s' in tone: %s\n", job.Model, job.Tone)
		case pipeline.StateSynthesizing:
			if job.PiperModel != "" {
				fmt.Println("→ Using Piper (offline TTS).")
			} else {
				fmt.Println("→ Using Google TTS. To narrate offline, pass --piper-model /path/to/model.onnx")
			}
		}
	})

	result, err := orch.Run(context.Background(), job)
	if err != nil {
		switch orch.State().Previous() {
		case pipeline.StateRewriting:
			fmt.Fprintf(os.Stderr, "\n[ERROR] LLM rewrite failed: %v\n", err)
			os.Exit(2)
		case pipeline.StateSynthesizing, pipeline.StatePersisting:
			fmt.Fprintf(os.Stderr, "\n[ERROR] TTS failed: %v\n", err)
			os.Exit(3)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Printf("✓ Rewritten text saved to: %s\n", result.TextPath)
	fmt.Printf("✓ Audio saved to: %s\n", result.AudioPath)
	fmt.Println("\nDone.")
	return nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
