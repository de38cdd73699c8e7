package main

import (
	"fmt"
	"os"
	"path/filepath"

	"phrasebot/internal/config"
	"phrasebot/internal/journal"
	"phrasebot/internal/morph"
	"phrasebot/internal/phrase"
	"phrasebot/internal/telegram"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your phrasebot installation",
		Long: `Verifies that the configuration, phrasebook, journal database and
Telegram token are usable. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("phrasebot doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file
			cfg, found, err := config.LoadOrDefaults(cfgPath)
			switch {
			case err != nil:
				printFail("Config", err.Error())
				fmt.Printf("\nFix the config file or run 'phrasebot init' to start over.\n")
				return fmt.Errorf("config is invalid")
			case !found:
				printWarn("Config", fmt.Sprintf("not found at %s, using defaults", cfgPath))
				warned++
			default:
				printPass("Config", cfgPath)
				passed++
			}

			// 2. Phrasebook
			book, err := phrase.LoadPhrasebook(cfg.Phrasebook.Path, logger)
			if err != nil {
				printFail("Phrasebook", err.Error())
				failed++
			} else {
				source := cfg.Phrasebook.Path
				if source == "" {
					source = "bundled"
				}
				printPass("Phrasebook", fmt.Sprintf("%s (%d templates, %d presets)", source, len(book.Templates), len(book.Presets)))
				passed++
			}

			// 3. Lexicon
			if _, err := morph.NewAnalyzer(); err != nil {
				printFail("Lexicon", err.Error())
				failed++
			} else {
				printPass("Lexicon", "bundled")
				passed++
			}

			// 4. Journal database writable
			if cfg.Journal.Enabled {
				if store, err := journal.Open(cfg.Journal.DBPath, logger); err != nil {
					printFail("Journal", err.Error())
					failed++
				} else {
					store.Close()
					printPass("Journal", cfg.Journal.DBPath)
					passed++
				}
			} else {
				printWarn("Journal", "disabled")
				warned++
			}

			// 5. Log file directory
			if cfg.General.LogFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
					printWarn("Log file", fmt.Sprintf("cannot create log directory: %v", err))
					warned++
				} else {
					printPass("Log file", cfg.General.LogFile)
					passed++
				}
			}

			// 6. Telegram token
			if !cfg.Telegram.HasToken() {
				printFail("Telegram", "token not set (telegram.token or PHRASEBOT_TOKEN)")
				failed++
			} else if client, err := telegram.New(telegram.Config{
				Token:       cfg.Telegram.Token,
				APIEndpoint: cfg.Telegram.APIEndpoint,
				PollTimeout: cfg.Telegram.PollTimeoutDuration(),
				Logger:      logger,
			}); err != nil {
				printFail("Telegram", err.Error())
				failed++
			} else {
				printPass("Telegram", "@"+client.Username())
				passed++
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running phrasebot.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\nphrasebot should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! phrasebot is ready to run.\n")
			}
			return nil
		},
	}
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-12s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-12s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-12s %s\n", check, detail)
}
