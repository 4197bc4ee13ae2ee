package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"docsearch/internal/config"
	"docsearch/internal/eventbus"
	"docsearch/internal/logging"
	"docsearch/internal/searchclient"
	"docsearch/internal/ui"
)

func main() {
	app := &cli.Command{
		Name:     "docsearch",
		Usage:    "Query a document search service from the terminal",
		Flags:    rootFlags(),
		Action:   runUI,
		Commands: []*cli.Command{
			initCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Configuration file path",
			Value: config.DefaultPath(),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "Base address of the search service",
			Sources: cli.EnvVars("DOCSEARCH_ENDPOINT"),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout, 0 disables it",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-highlight",
			Usage: "Show snippets without emphasis",
		},
	}
}

func runUI(ctx context.Context, c *cli.Command) error {
	configSvc := config.NewConfigServiceAt(c.String("config"))
	cfg, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	bus := eventbus.New(logger.Named("bus"))
	defer bus.Close()
	subscribeEventLog(bus, logger.Named("events"))
	bus.Publish(eventbus.ConfigLoadedEvent{Path: configSvc.Path(), Endpoint: cfg.Endpoint})

	client, err := searchclient.New(cfg.Endpoint, searchclient.WithLogger(logger.Named("client")))
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGTERM; ctrl+c arrives as a key press
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	model := ui.NewModel(bus, cfg, client, ui.WithLogger(logger.Named("ui")))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	logger.Info("starting UI", zap.String("endpoint", client.Endpoint()), zap.Duration("timeout", cfg.Timeout.Duration))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("error running program", zap.Error(err))
		return fmt.Errorf("running program: %w", err)
	}
	logger.Info("UI exited normally")
	return nil
}

// applyFlags lets command line flags and the environment override the file
func applyFlags(c *cli.Command, cfg *config.Config) error {
	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = config.Duration{Duration: c.Duration("timeout")}
	}
	if c.Bool("debug") {
		cfg.Log.Level = "debug"
	}
	if c.Bool("no-highlight") {
		cfg.UISettings.Highlight = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a configuration file with default settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"), c.Bool("force"))
		},
	}
}

// initConfig writes the default configuration to path
func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	bus := eventbus.New(nil)
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigSavedEvent); ok {
			fmt.Printf("Configuration initialized at %s\n", event.Path)
		}
	})
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(path, bus)
	if err := configSvc.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
