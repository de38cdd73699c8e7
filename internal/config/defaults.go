package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Telegram: TelegramConfig{
			Token:       "${PHRASEBOT_TOKEN}",
			PollTimeout: 30,
		},
		Schedule: ScheduleConfig{
			Interval: 10,
		},
		Loop: LoopConfig{
			SkipBacklog:        true,
			InitialSyncDelayMs: 2000,
			RetryDelayMs:       1000,
			SendDelayMs:        1000,
		},
		Journal: JournalConfig{
			Enabled: true,
			DBPath:  "~/.phrasebot/journal.db",
		},
	}
}
