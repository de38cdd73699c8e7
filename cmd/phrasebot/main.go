package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"phrasebot/internal/bot"
	"phrasebot/internal/config"
	"phrasebot/internal/dispatch"
	"phrasebot/internal/domain"
	"phrasebot/internal/journal"
	"phrasebot/internal/morph"
	"phrasebot/internal/phrase"
	"phrasebot/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// .env is optional; it usually carries PHRASEBOT_TOKEN.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("cannot load .env", "err", err)
	}

	root := &cobra.Command{
		Use:   "phrasebot",
		Short: "phrasebot: a Telegram chat bot that talks back with your own verbs",
		Long: `phrasebot long-polls Telegram, answers trigger phrases right away and,
every few messages per chat, replies with a phrase built around a verb
taken from the last message.

Run without a subcommand to start the bot.`,
		Args:          cobra.NoArgs,
		RunE:          runBot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.phrasebot/config.json)")

	root.AddCommand(runCmd())
	root.AddCommand(initCmd())
	root.AddCommand(configCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(journalCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		logger.Error("phrasebot failed", "err", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot (same as running phrasebot without a subcommand)",
		Args:  cobra.NoArgs,
		RunE:  runBot,
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists at %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file, falling back to defaults when it does
// not exist.
func loadConfig() (*config.Config, error) {
	cfgPath := resolveConfigPath()
	cfg, found, err := config.LoadOrDefaults(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !found {
		logger.Warn("config not found, using defaults", "path", cfgPath)
	}
	return cfg, nil
}

// setupLogger replaces the global logger according to cfg. The returned
// func closes the log file, if any.
func setupLogger(cfg config.GeneralConfig) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closeFn = func() { f.Close() }
	}

	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return closeFn, nil
}

// newRand returns the bot's random source. A zero seed is taken from the clock.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := setupLogger(cfg.General)
	if err != nil {
		return err
	}
	defer closeLog()

	if !cfg.Telegram.HasToken() {
		return errors.New("telegram token is not set: use telegram.token in the config or PHRASEBOT_TOKEN")
	}

	book, err := phrase.LoadPhrasebook(cfg.Phrasebook.Path, logger)
	if err != nil {
		return err
	}
	analyzer, err := morph.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("morphology: %w", err)
	}

	rng := newRand(cfg.General.Seed)
	dispatcher := dispatch.New(dispatch.Config{
		Interval:  cfg.Schedule.Interval,
		Presets:   book.Presets,
		Generator: phrase.NewGenerator(book, analyzer, rng),
		Rand:      rng,
		Logger:    logger,
	})

	// Graceful shutdown on signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		APIEndpoint: cfg.Telegram.APIEndpoint,
		PollTimeout: cfg.Telegram.PollTimeoutDuration(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	var replies domain.ReplyJournal
	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.Journal.DBPath, logger)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		defer store.Close()
		replies = store
		logger.Info("journal enabled", "path", cfg.Journal.DBPath, "run_id", store.RunID())
	}

	loop := bot.NewLoop(bot.LoopConfig{
		Transport:        client,
		Decider:          dispatcher,
		Journal:          replies,
		Logger:           logger,
		SkipBacklog:      cfg.Loop.SkipBacklog,
		InitialSyncDelay: time.Duration(cfg.Loop.InitialSyncDelayMs) * time.Millisecond,
		RetryDelay:       time.Duration(cfg.Loop.RetryDelayMs) * time.Millisecond,
		SendDelay:        time.Duration(cfg.Loop.SendDelayMs) * time.Millisecond,
	})

	logger.Info("phrasebot started. Press Ctrl+C to stop.",
		"version", version,
		"bot", client.Username(),
		"interval", cfg.Schedule.Interval,
	)
	if err := loop.Run(ctx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. schedule.interval)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(config.Sanitize(cfg), args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(val, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. schedule.interval 20)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			err := config.Update(cfgPath, func(cfg *config.Config) error {
				return config.SetByPath(cfg, args[0], args[1])
			})
			if err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			value := args[1]
			if args[0] == "telegram.token" {
				value = "***"
			}
			logger.Info("config updated", "path", args[0], "value", value, "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			data, _ := json.MarshalIndent(config.Sanitize(cfg), "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), resolveConfigPath())
		},
	})

	return cmd
}
