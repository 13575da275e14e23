package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/api"
	"github.com/streed/notecards/internal/logger"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Start an HTTP API server that exposes notecards via JSON endpoints:

- Notes CRUD operations, listed as cards with truncated previews
- Relevance-ranked search with per-note match counts
- Search and display settings
- Statistics and health

Host and port default to server_host and server_port from the configuration.

Examples:
  notecards serve                             # Start on the configured address
  notecards serve --host 0.0.0.0 --port 3000  # Start on all interfaces, port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind the server to (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to bind the server to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	host, port := serveHost, servePort
	if host == "" {
		host = appConfig.ServerHost
	}
	if port == 0 {
		port = appConfig.ServerPort
	}

	logger.Info("Initializing HTTP API server...")
	apiServer := api.NewAPIServer(appSvc, Version)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- apiServer.Start(host, port)
	}()

	fmt.Printf("\nnotecards HTTP API Server\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Server URL: http://%s:%d\n", host, port)
	fmt.Printf("Health:     http://%s:%d/api/v1/health\n", host, port)
	fmt.Printf("Stats:      http://%s:%d/api/v1/stats\n", host, port)
	fmt.Printf("\nExample API calls:\n")
	fmt.Printf("   curl http://%s:%d/api/v1/notes\n", host, port)
	fmt.Printf("   curl 'http://%s:%d/api/v1/notes/search?q=milk+eggs'\n", host, port)
	fmt.Printf("\nPress Ctrl+C to stop the server\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, shutting down gracefully...", sig)
		if err := apiServer.Stop(); err != nil {
			logger.Error("Error during server shutdown: %v", err)
			return err
		}
		logger.Info("Server stopped successfully")
		return nil
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error: %v", err)
			return err
		}
		return nil
	}
}
