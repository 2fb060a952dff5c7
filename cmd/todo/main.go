package main

import (
	"flag"
	"fmt"
	"os"

	"littletodo/internal/config"
	"littletodo/internal/logging"
	"littletodo/internal/storage"
	"littletodo/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to config.toml")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}

	fail := func(msg string, err error) {
		logger.Error(msg, "err", err)
		if cfg.Log.File != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		}
		closeLog()
		os.Exit(1)
	}

	backend := cfg.OpenBackend()
	logger.Debug("starting", "config", *configPath, "backend", backend.Name(), "interface", cfg.Interface)

	store := storage.New(backend, logger)
	if err := store.Load(); err != nil {
		fail("failed to load todos", err)
	}

	if cfg.Interface == config.InterfaceTUI {
		err = ui.RunTUI(store, logger)
	} else {
		err = ui.RunMenu(store, os.Stdin, os.Stdout, logger)
	}
	if err != nil {
		fail("todo stopped", err)
	}
	closeLog()
}
