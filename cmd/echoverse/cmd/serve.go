package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/echoverse/internal/config"
	"github.com/msto63/echoverse/internal/pipeline"
	"github.com/msto63/echoverse/internal/store"
	"github.com/msto63/echoverse/internal/tts"
	"github.com/msto63/echoverse/internal/web"
)

var (
	serveHost      string
	servePort      int
	serveNoBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser front-end",
	Long: `Starts the EchoVerse web front-end and opens it in the browser.

The page drives the same pipeline as the generate command: paste or
upload text, pick a tone and voice, listen to the result and download
the MP3.

Examples:
  echoverse serve
  echoverse serve --port 9000 --no-browser`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (default: 127.0.0.1)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default: 8501)")
	serveCmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "do not open the browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = servePort
	}

	presets, err := tts.LoadPresets(config.VoicesPath())
	if err != nil {
		return err
	}

	orch := pipeline.New(store.New(cfg.OutputsDir), presets)
	srv := web.NewServer(cfg, orch, serveNoBrowser)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Println("EchoVerse")
	fmt.Println("=========")
	fmt.Printf("Web front-end: http://%s\n", cfg.Web.Addr())
	fmt.Printf("Outputs:       %s\n", cfg.OutputsDir)
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")

	select {
	case sig := <-sigCh:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
		srv.Stop()
		return nil
	case err := <-errCh:
		return err
	}
}
