package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camgallery/internal/app"
	"camgallery/internal/config"
	"camgallery/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "camgallery",
		Short: "Gallery and weather backend for an ESP32 camera",
		Long: `camgallery receives JPEG uploads and weather readings from an ESP32 camera,
keeps them on disk and serves a gallery UI plus JSON APIs.

Configuration comes from the environment or an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using environment variables")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.AddCommand(newServeCommand(), newPruneCommand(), newExportCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newPruneCommand() *cobra.Command {
	var archiveMaxAge time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Evict images above MAX_IMAGES and old archive rows, then exit",
		Long: `Deletes the oldest images until at most MAX_IMAGES remain. When the SQL
archive is enabled, rows older than --archive-max-age are deleted too.

Example:
  camgallery prune
  camgallery prune --archive-max-age 168h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("archive-max-age") {
				cfg.Retention.ArchiveMaxAge = archiveMaxAge
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.Images.Prune()
			if err != nil {
				return fmt.Errorf("image cleanup failed: %w", err)
			}
			fmt.Printf("Deleted %d images\n", deleted)

			if a.DB != nil {
				rows, err := a.Weather.PruneArchive(cmd.Context(), time.Now().Add(-cfg.Retention.ArchiveMaxAge))
				if err != nil {
					return fmt.Errorf("archive cleanup failed: %w", err)
				}
				fmt.Printf("Deleted %d archived weather records\n", rows)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&archiveMaxAge, "archive-max-age", 0, "Override ARCHIVE_MAX_AGE")
	return cmd
}

func newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the weather log to EXPORT_DIR as csv, json or xlsx",
		Example: `  camgallery export --format csv
  camgallery export -f xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(config.Load())
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.Weather.Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv, json or xlsx")
	return cmd
}

func runServe() error {
	cfg := config.Load()

	_, logCloser, err := logging.Setup(logging.Config(cfg.Log))
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()

	log.Println("=== ESP32 Camera Gallery Starting ===")

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	router, err := a.Router()
	if err != nil {
		return err
	}

	go a.Scheduler.Start()
	defer a.Scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
		// uploads from the camera over wifi can be slow
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://0.0.0.0:%s", cfg.App.Port)
		log.Printf("Images: %s (max %d), weather log: %s", cfg.Images.Dir, cfg.Images.MaxImages, cfg.Weather.DataFile)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited properly")
	return nil
}
