package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/rail44/userlist/internal/config"
	"github.com/rail44/userlist/internal/log"
	"github.com/rail44/userlist/internal/store"
	"github.com/rail44/userlist/internal/users"
)

// loadConfig reads the config file, then lets flags and USERLIST_* env vars override it
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if viper.IsSet("endpoint") && viper.GetString("endpoint") != "" {
		cfg.Endpoint = viper.GetString("endpoint")
	}
	if viper.IsSet("store") && viper.GetString("store") != "" {
		cfg.StorePath = viper.GetString("store")
	}
	if viper.IsSet("log-level") && viper.GetString("log-level") != "" {
		cfg.LogLevel = viper.GetString("log-level")
	}
	if viper.IsSet("log-file") && viper.GetString("log-file") != "" {
		cfg.LogFile = viper.GetString("log-file")
	}
	cfg.Ephemeral = viper.GetBool("ephemeral")
	cfg.Verbose = viper.GetBool("verbose")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mustLoadConfig loads configuration and sets up logging, exiting on failure
func mustLoadConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		log.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	setupLogging(cfg)

	if cfg.Source != "" {
		log.Debug("using config file", slog.String("path", cfg.Source))
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Error("invalid log level", slog.String("level", logLevel))
		os.Exit(1)
	}
	if err := log.SetLevel(level); err != nil {
		log.Error("failed to set log level", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Error("failed to open log file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.SetOutput(f)
	}
}

// silenceStderrLogs keeps log lines from tearing the TUI when no log file is set
func silenceStderrLogs(cfg *config.Config) {
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
	}
}

func storePath(cfg *config.Config) (string, error) {
	if cfg.StorePath != "" {
		return cfg.StorePath, nil
	}
	return store.DefaultPath()
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Ephemeral {
		return store.NewMemStore(nil), nil
	}
	path, err := storePath(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to locate store: %w", err)
	}
	log.Debug("using store", slog.String("path", path))
	return store.NewFileStore(path, log.Logger()), nil
}

func newUsersClient(cfg *config.Config, logger *slog.Logger) *users.Client {
	return users.NewClient(users.ClientOptions{
		Endpoint: cfg.Endpoint,
		Logger:   logger,
	})
}
