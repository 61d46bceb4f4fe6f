package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"character-chat/internal/api"
	"character-chat/internal/chat"
	"character-chat/internal/config"
	"character-chat/internal/logger"
	"character-chat/internal/terminal"
	"character-chat/internal/tui"
	"character-chat/internal/ui"
)

func main() {
	// Set the GetEnv function for config
	config.GetEnv = os.Getenv

	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Full-screen mode needs a terminal on both ends
	plain := cfg.Plain || !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout)

	log, err := newLogger(cfg, plain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout).WithLogger(log)
	log.Info("starting", "base_url", client.BaseURL(), "plain", plain)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if plain {
		err = runPlain(ctx, cfg, client, log)
	} else {
		err = tui.Run(ctx, client, tui.Options{Style: cfg.Style, Logger: log})
	}
	if err != nil {
		log.LogError(err, "exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the dotenv file, the environment and flags
func loadConfig(args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	fs := flag.NewFlagSet("character-chat", flag.ContinueOnError)
	envFile := fs.String("env-file", ".env", "dotenv file to load before reading the environment")
	baseURL := fs.String("api-url", "", "chat backend base URL (default "+config.DefaultBaseURL+")")
	timeout := fs.Duration("timeout", 0, "per-request timeout, 0 for none")
	plain := fs.Bool("plain", false, "use line mode instead of the full-screen UI")
	style := fs.String("style", cfg.Style, "markdown style: auto, dark, light, notty, ascii")
	logFile := fs.String("log-file", "", "write logs to this file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	logJSON := fs.Bool("log-json", false, "write logs as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.LoadEnv(*envFile); err != nil {
		return nil, err
	}

	// Explicit flags win over the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-url":
			cfg.BaseURL = *baseURL
		case "timeout":
			cfg.RequestTimeout = *timeout
		case "log-file":
			cfg.LogFile = *logFile
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	cfg.Plain = *plain
	cfg.Style = *style
	cfg.LogJSON = *logJSON

	return cfg, nil
}

// newLogger keeps the full-screen UI clean: without a log file nothing is
// written there, while line mode falls back to stderr for warnings
func newLogger(cfg *config.Config, plain bool) (*logger.Logger, error) {
	if cfg.LogFile != "" || !plain {
		return logger.NewFile(cfg.LogFile, cfg.LogLevel, cfg.LogJSON)
	}
	level := cfg.LogLevel
	if level == "info" {
		level = "warn"
	}
	return logger.New(logger.Config{Level: level, JSON: cfg.LogJSON, Output: os.Stderr}), nil
}

func runPlain(ctx context.Context, cfg *config.Config, client *api.Client, log *logger.Logger) error {
	width, _ := ui.TerminalSize()
	renderer, err := ui.NewRenderer(cfg.Style, width)
	if err != nil {
		return err
	}

	color := ui.IsTerminal(os.Stdout)
	display := terminal.NewDisplay(os.Stdout, renderer, color)
	ctrl := chat.NewController(client, log)

	// Reading stdin cannot be interrupted, so leave directly on a signal
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			display.PrintGoodbye()
			log.Info("interrupted")
			os.Exit(130)
		case <-done:
		}
	}()

	start := time.Now()
	defer func() {
		log.Debug("session ended", "duration", time.Since(start).String())
	}()

	return terminal.NewLoop(ctrl, display, os.Stdin, cfg.BaseURL).Run(ctx)
}
