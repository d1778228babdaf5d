package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Store
		Twitter
		Firefly
		OpenAI
		Import
		Tasks
		Refresh
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Store struct {
		Dir string // Root directory holding one content store per persona
	}
	Twitter struct {
		APIKey string // RapidAPI key for the twitter241 API
	}
	Firefly struct {
		AuthToken string // Bearer credential for the Firefly timeline API
	}
	OpenAI struct {
		APIKey    string
		ChatModel string
	}
	Import struct {
		MaxPages  int           // Page budget per platform pipeline
		PageSize  int           // Posts requested per page
		RateDelay time.Duration // Fixed delay between page requests (rate limit, not backoff)
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Refresh struct {
		Enabled  bool
		Schedule string // Cron format: "0 4 * * *" = daily at 04:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("store_dir", DefaultStoreDir)
	v.SetDefault("openai_chat_model", "gpt-4.1")

	// Import pipeline defaults
	v.SetDefault("import_max_pages", 50)
	v.SetDefault("import_page_size", 20)
	v.SetDefault("import_rate_delay", "1s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_timeout", "30m")
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Scheduled refresh defaults
	v.SetDefault("refresh_enabled", false)
	v.SetDefault("refresh_schedule", "0 4 * * *") // Daily at 04:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Store: Store{
			Dir: v.GetString("STORE_DIR"),
		},
		Twitter: Twitter{
			APIKey: v.GetString("RAPID_API_KEY"),
		},
		Firefly: Firefly{
			AuthToken: v.GetString("FARCASTER_AUTH_TOKEN"),
		},
		OpenAI: OpenAI{
			APIKey:    v.GetString("OPENAI_API_KEY"),
			ChatModel: v.GetString("OPENAI_CHAT_MODEL"),
		},
		Import: Import{
			MaxPages:  v.GetInt("IMPORT_MAX_PAGES"),
			PageSize:  v.GetInt("IMPORT_PAGE_SIZE"),
			RateDelay: v.GetDuration("IMPORT_RATE_DELAY"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Refresh: Refresh{
			Enabled:  v.GetBool("REFRESH_ENABLED"),
			Schedule: v.GetString("REFRESH_SCHEDULE"),
		},
	}
}
