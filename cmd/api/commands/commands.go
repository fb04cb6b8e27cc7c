package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studypal/core/internal/adapters/repository"
	"github.com/studypal/core/internal/infrastructure/config"
	"github.com/studypal/core/internal/infrastructure/logger"
	"github.com/studypal/core/internal/infrastructure/server"
	"github.com/studypal/core/internal/infrastructure/storage"
	"github.com/studypal/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the StudyPal API server",
		Long:  "Start the StudyPal API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all courses and tasks as JSON",
		Long:  "Write a snapshot of every stored course and task to a file or stdout",
		Run: func(cmd *cobra.Command, args []string) {
			out, _ := cmd.Flags().GetString("out")
			runExport(out)
		},
	}

	exportCmd.Flags().String("out", "", "Output file (defaults to stdout)")
	return exportCmd
}

// NewClearCommand creates the clear command
func NewClearCommand() *cobra.Command {
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored courses and tasks",
		Long:  "Remove every stored course and task. Refuses to run without --yes.",
		Run: func(cmd *cobra.Command, args []string) {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				log.Fatal("Refusing to clear all data without --yes")
			}
			runClear()
		},
	}

	clearCmd.Flags().Bool("yes", false, "Confirm deletion of all data")
	return clearCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print StudyPal version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("StudyPal Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	kv, err := openStore(cfg)
	if err != nil {
		appLogger.Fatalw("Failed to open store", "error", err)
	}
	defer kv.Close()

	srv, err := server.New(cfg, kv, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting StudyPal API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Backend,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Infow("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatalw("Server shutdown failed", "error", err)
	}
}

func runExport(out string) {
	kv, snapshots := mustOpenSnapshots()
	defer kv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := snapshots.Export(ctx)
	if err != nil {
		log.Fatalf("Failed to export data: %v", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode snapshot: %v", err)
	}

	if out == "" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	fmt.Printf("Exported %d courses and %d tasks to %s\n", len(snapshot.Courses), len(snapshot.Tasks), out)
}

func runClear() {
	kv, snapshots := mustOpenSnapshots()
	defer kv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := snapshots.Clear(ctx); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	fmt.Println("All courses and tasks deleted")
}

func mustOpenSnapshots() (ports.KeyValue, ports.SnapshotRepository) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	kv, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	nop := logger.Nop()
	courses := repository.NewCourseStore(kv, cfg.Storage.CourseKey(), nop)
	tasks := repository.NewTaskStore(kv, cfg.Storage.TaskKey(), nop)
	snapshots := repository.NewSnapshotStore(kv, cfg.Storage.CourseKey(), cfg.Storage.TaskKey(), courses, tasks, nop)

	return kv, snapshots
}

func openStore(cfg *config.Config) (ports.KeyValue, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedis(cfg.Storage.Redis)
	default:
		return storage.NewFile(cfg.Storage.FilePath)
	}
}
