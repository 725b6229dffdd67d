package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpadapter "resume-renderer/internal/adapter/http"
	repo "resume-renderer/internal/adapter/repository"
	"resume-renderer/internal/infrastructure/config"
	"resume-renderer/internal/infrastructure/logger"
	"resume-renderer/internal/infrastructure/migration"
	"resume-renderer/internal/layout"
	"resume-renderer/internal/usecase"
	"resume-renderer/pkg/fonts"
	infra "resume-renderer/pkg/infrastructure"
	"resume-renderer/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	defer log.Sync()
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fam, err := fonts.Load(cfg.Render.FontFamily, cfg.Render.FontDir)
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	log.Info("fonts loaded", zap.String("family", fam.Name))

	printer := infra.NewChromedpRenderer(infra.ChromedpOptions{
		ExecPath:  cfg.Chrome.ExecPath,
		Timeout:   cfg.Chrome.Timeout,
		NoSandbox: cfg.Chrome.NoSandbox,
		Logger:    log.Named("chrome"),
	})
	canvases := infra.NewCanvasFactory(fam, printer)

	var jobs usecase.JobsRepo
	if cfg.Database.URL != "" {
		pool, err := infra.NewJobsPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			log.Warn("jobs database not available, job tracking disabled", zap.Error(err))
		} else {
			defer pool.Close()
			if cfg.Database.Migrate {
				if err := migration.RunMigrations(ctx, pool, log); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
			}
			jobs = repo.NewJobsRepo(pool)
		}
	}

	archive, err := newArchive(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	processor := usecase.NewProcessor(layout.NewEngine(cfg.Render.Creator), canvases, jobs, archive, log)
	handler := httpadapter.NewHandler(processor, cfg.Render.Backend)
	app := httpadapter.NewApp(handler, httpadapter.ServerOptions{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", cfg.Addr()),
			zap.String("backend", cfg.Render.Backend),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("jobs", jobs != nil),
		)
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}

// newArchive returns the configured document archive, or nil when archiving
// is off.
func newArchive(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (usecase.Archive, error) {
	switch cfg.Driver {
	case "fs":
		fs, err := storage.NewFileSystemStorage(cfg.Path, log)
		if err != nil {
			return nil, fmt.Errorf("init file storage: %w", err)
		}
		return fs, nil
	case "s3":
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:     cfg.Endpoint,
			Region:       cfg.Region,
			Bucket:       cfg.Bucket,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			Prefix:       cfg.Prefix,
			UseSSL:       cfg.UseSSL,
			UsePathStyle: cfg.UsePathStyle,
		}, storage.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("ensure bucket", zap.Error(err))
		}
		return s3, nil
	default:
		return nil, nil
	}
}
