package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bookshelf-labs/shelfscan/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bookshelf analysis API server",
		Long: `Starts the Shelfscan HTTP API on the specified port.

The API accepts bookshelf photo uploads, runs spine detection and
vision-LLM extraction on them, and serves analysis results, metadata
enrichment and recommendations.`,
		Example: `  # Start server on default port 8080
  shelfscan serve

  # Start server on custom port
  shelfscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := handlers.New()
			if err != nil {
				return err
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/upload/image", handler.HandleUploadImage)
			mux.HandleFunc("/api/upload/image/", handler.HandleUploadDetail)
			mux.HandleFunc("/api/analyze/books", handler.HandleAnalyzeBooks)
			mux.HandleFunc("/api/analyze/books/", handler.HandleAnalysisDetail)
			mux.HandleFunc("/api/analyze/genres", handler.HandleAvailableGenres)
			mux.HandleFunc("/api/recommend/genres", handler.HandleRecommendGenres)
			mux.HandleFunc("/api/recommend/books", handler.HandleRecommendBooks)
			mux.HandleFunc("/api/metadata/book", handler.HandleBookMetadata)
			mux.HandleFunc("/api/metadata/books", handler.HandleBooksMetadata)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Shelfscan API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")

	return cmd
}
