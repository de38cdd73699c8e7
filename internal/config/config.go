package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Config is the root configuration for phrasebot.
type Config struct {
	General    GeneralConfig    `json:"general"`
	Telegram   TelegramConfig   `json:"telegram"`
	Schedule   ScheduleConfig   `json:"schedule"`
	Loop       LoopConfig       `json:"loop"`
	Phrasebook PhrasebookConfig `json:"phrasebook"`
	Journal    JournalConfig    `json:"journal"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile,omitempty"` // optional, in addition to stderr
	Seed     uint64 `json:"seed,omitempty"`    // 0 = seeded from the clock
}

type TelegramConfig struct {
	Token       string `json:"token"`
	APIEndpoint string `json:"apiEndpoint,omitempty"` // e.g. https://api.telegram.org/bot%s/%s
	PollTimeout int    `json:"pollTimeout"`           // seconds
}

// HasToken reports whether a token is set, i.e. not empty and not an
// unresolved ${VAR} reference.
func (t TelegramConfig) HasToken() bool {
	tok := strings.TrimSpace(t.Token)
	return tok != "" && !envVarPattern.MatchString(tok)
}

// PollTimeoutDuration returns PollTimeout as a time.Duration.
func (t TelegramConfig) PollTimeoutDuration() time.Duration {
	return time.Duration(t.PollTimeout) * time.Second
}

type ScheduleConfig struct {
	// Interval is the counter value at which a chat gets a generated phrase.
	// Counters restart at 1, so there are Interval-1 messages between posts.
	Interval int `json:"interval"`
}

type LoopConfig struct {
	SkipBacklog        bool `json:"skipBacklog"`
	InitialSyncDelayMs int  `json:"initialSyncDelayMs"`
	RetryDelayMs       int  `json:"retryDelayMs"`
	SendDelayMs        int  `json:"sendDelayMs"`
}

type PhrasebookConfig struct {
	Path string `json:"path,omitempty"` // "" = bundled phrasebook
}

type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	DBPath  string `json:"dbPath"`
}

// DefaultConfigDir returns the default config directory (~/.phrasebot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".phrasebot"
	}
	return filepath.Join(home, ".phrasebot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads the config file, resolves ${VAR} references and ~ paths, and
// validates the result.
func Load(path string) (*Config, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Resolve(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadRaw reads the config file as written: ${VAR} references and ~ paths
// are left alone. Fields missing from the file keep their defaults.
func LoadRaw(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns a copy of cfg with environment variables substituted,
// ${VAR} and ${VAR:-default}, and ~ expanded in file paths.
func Resolve(cfg *Config) (*Config, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal config: %w", err)
	}
	data = []byte(ExpandEnvVars(string(data)))

	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cannot resolve environment variables: %w", err)
	}
	out.General.LogFile = ExpandPath(out.General.LogFile)
	out.Phrasebook.Path = ExpandPath(out.Phrasebook.Path)
	out.Journal.DBPath = ExpandPath(out.Journal.DBPath)
	return &out, nil
}

// Update edits the config file in place. fn gets the file as written, so
// ${VAR} references such as the token placeholder are saved back unexpanded;
// only a resolved copy is validated.
func Update(path string, fn func(*Config) error) error {
	raw, err := LoadRaw(path)
	if err != nil {
		return err
	}
	if err := fn(raw); err != nil {
		return err
	}
	resolved, err := Resolve(raw)
	if err != nil {
		return err
	}
	if err := Validate(resolved); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return Save(ExpandPath(path), raw)
}

// LoadOrDefaults is Load, except that a missing file yields the defaults
// and found=false.
func LoadOrDefaults(path string) (cfg *Config, found bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Resolve(Defaults())
		if err != nil {
			return nil, false, err
		}
		return cfg, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	// 0600: the file usually holds the bot token.
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Telegram.PollTimeout < 0 || cfg.Telegram.PollTimeout > 600 {
		errs = append(errs, "telegram.pollTimeout must be between 0 and 600")
	}
	if ep := cfg.Telegram.APIEndpoint; ep != "" && strings.Count(ep, "%s") != 2 {
		errs = append(errs, "telegram.apiEndpoint must contain two %s verbs (token, method)")
	}

	if cfg.Schedule.Interval < 1 {
		errs = append(errs, "schedule.interval must be >= 1")
	}

	if cfg.Loop.InitialSyncDelayMs < 1 {
		errs = append(errs, "loop.initialSyncDelayMs must be >= 1")
	}
	if cfg.Loop.RetryDelayMs < 1 {
		errs = append(errs, "loop.retryDelayMs must be >= 1")
	}
	if cfg.Loop.SendDelayMs < 1 {
		errs = append(errs, "loop.sendDelayMs must be >= 1")
	}

	if cfg.Journal.Enabled && cfg.Journal.DBPath == "" {
		errs = append(errs, "journal.dbPath is required when the journal is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
