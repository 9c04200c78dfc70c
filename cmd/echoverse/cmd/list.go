package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/echoverse/internal/store"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show past narrations",
	Long: `Shows past narrations from the outputs directory, newest first.

Entries whose metadata file is missing or unreadable are still listed,
with placeholders for the unknown columns.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of narrations to show")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := store.New(cfg.OutputsDir)
	entries, err := st.List(cfg.OutPrefix, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list narrations: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("No narrations yet.")
		fmt.Println()
		fmt.Println("Create one with: echoverse generate")
		return nil
	}

	fmt.Printf("%-45s %-18s %-20s %-14s %s\n", "FILE", "TONE", "VOICE", "MODEL", "SIZE")
	fmt.Println(strings.Repeat("-", 108))

	for _, e := range entries {
		tone, voice, model := "-", "-", "-"
		if e.Meta != nil {
			tone, voice, model = e.Meta.Tone, e.Meta.Voice, e.Meta.Model
		}
		fmt.Printf("%-45s %-18s %-20s %-14s %s\n", e.Name, tone, voice, model, formatSize(e.Size))
	}

	fmt.Println()
	fmt.Printf("Total: %d narration(s) in %s\n", len(entries), st.Dir())

	return nil
}
