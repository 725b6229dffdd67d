// Command render lays out one resume JSON file as a PDF without starting the
// HTTP service.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"resume-renderer/internal/infrastructure/config"
	"resume-renderer/internal/infrastructure/logger"
	"resume-renderer/internal/layout"
	"resume-renderer/internal/model"
	"resume-renderer/pkg/fonts"
	infra "resume-renderer/pkg/infrastructure"
)

func main() {
	in := flag.String("in", "resume.json", "resume JSON file")
	out := flag.String("out", "resume.pdf", "output PDF path")
	backend := flag.String("backend", "", "canvas back-end: fpdf, html or vector (default from config)")
	fontDir := flag.String("font-dir", "", "directory holding <family>-Regular.ttf and <family>-Bold.ttf")
	fontFamily := flag.String("font-family", "", "font family name looked up in -font-dir")
	cfgPath := flag.String("config", "", "config file (optional)")
	flag.Parse()

	if err := run(*in, *out, *backend, *fontDir, *fontFamily, *cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out, backend, fontDir, fontFamily, cfgPath string) error {
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		return err
	}
	if backend == "" {
		backend = cfg.Render.Backend
	}
	if fontFamily != "" {
		cfg.Render.FontFamily = fontFamily
	}
	if fontDir != "" {
		cfg.Render.FontDir = fontDir
		if cfg.Render.FontFamily == "" {
			cfg.Render.FontFamily = "Montserrat"
		}
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	defer log.Sync()

	body, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	resume, err := model.Decode(body)
	if err != nil {
		return err
	}

	fam, err := fonts.Load(cfg.Render.FontFamily, cfg.Render.FontDir)
	if err != nil {
		return err
	}
	printer := infra.NewChromedpRenderer(infra.ChromedpOptions{
		ExecPath:  cfg.Chrome.ExecPath,
		Timeout:   cfg.Chrome.Timeout,
		NoSandbox: cfg.Chrome.NoSandbox,
		Logger:    log.Named("chrome"),
	})
	canvas, err := infra.NewCanvasFactory(fam, printer).New(context.Background(), backend)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := layout.NewEngine(cfg.Render.Creator).Render(resume, canvas, &buf); err != nil {
		return err
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info("wrote resume",
		zap.String("out", out),
		zap.String("backend", backend),
		zap.String("font", fam.Name),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}
