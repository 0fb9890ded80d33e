package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"sentiment/internal/app"
	"sentiment/internal/config"
	"sentiment/internal/domain"
	"sentiment/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, review string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/review-sentiment/config.yaml if not provided)")
	flag.StringVar(&review, "review", "", "Analyze this review and print the result instead of starting the TUI")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	buildCtx, cancelBuild := context.WithTimeout(context.Background(), 30*time.Second)
	svc, err := app.Build(buildCtx, cfg)
	cancelBuild()
	if err != nil {
		var initErr *app.InitError
		if errors.As(err, &initErr) {
			log.Fatalf("cannot start, %s unavailable: %v", initErr.Component, initErr.Err)
		}
		log.Fatal(err)
	}

	timeout := 30 * time.Second
	if cfg.Model.Serving != nil && cfg.Model.Serving.TimeoutSecs > 0 {
		// leave room for retries on top of the per-request timeout
		timeout = time.Duration(cfg.Model.Serving.TimeoutSecs*(cfg.Model.Serving.Retries()+1)) * time.Second
	}

	if review != "" {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a, err := svc.Analyze(ctx, review)
		if err != nil {
			log.Fatalf("analysis failed: %v", err)
		}
		printAnalysis(os.Stdout, a)
		return
	}

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "review-sentiment")
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := tui.New(svc, timeout)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		log.Fatal(err)
	}
}

func printAnalysis(w io.Writer, a domain.Analysis) {
	fmt.Fprintf(w, "Sentiment: %s\n", a.Sentiment)
	fmt.Fprintf(w, "Score: %.4f\n", a.Score)
	fmt.Fprintf(w, "Confidence: %.2f%%\n", a.Confidence*100)
	fmt.Fprintf(w, "Word count: %d\n", a.Stats.Words)
	fmt.Fprintf(w, "Unknown words: %d\n", a.Stats.Unknown)
}
