package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultAPIBaseURL = "http://localhost:8000"

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
	// AllowedHosts are extra Host header values the web console answers to, besides
	// Host and loopback.
	AllowedHosts []string
}

type APICfg struct {
	BaseURL string
	Timeout time.Duration
	// ReadRetries applies to list/history reads only.
	ReadRetries int
}

type SupabaseCfg struct {
	URL     string
	AnonKey string
}

type UserConfigCfg struct {
	// Backend is "postgrest" (Supabase REST, row-level security) or "postgres" (direct DSN).
	Backend string
	Table   string
}

type DatabaseCfg struct {
	DSN       string
	MaxOpen   int
	MaxIdle   int
	EnableTLS bool
}

type LogCfg struct {
	Level string
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string
	SampleRatio  float64
}

type SessionCfg struct {
	File          string
	RefreshMargin time.Duration
}

type Config struct {
	App        AppCfg
	API        APICfg
	Supabase   SupabaseCfg
	UserConfig UserConfigCfg
	Database   DatabaseCfg
	Log        LogCfg
	Telemetry  TelemetryCfg
	Session    SessionCfg
}

// File is the config file used by Load. Empty means ~/.rag-engine/config.yaml when present.
var File string

func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rag-engine"
	}
	return filepath.Join(home, ".rag-engine")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rag-engine")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.host", "127.0.0.1")
	v.SetDefault("app.port", 5173)
	v.SetDefault("app.allowedHosts", []string{})

	v.SetDefault("api.baseURL", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", 5*time.Minute)
	v.SetDefault("api.readRetries", 1)

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.anonKey", "")

	v.SetDefault("userConfig.backend", "postgrest")
	v.SetDefault("userConfig.table", "user_configs")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxOpen", 5)
	v.SetDefault("database.maxIdle", 2)
	v.SetDefault("database.enableTLS", false)

	v.SetDefault("log.level", "info")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlpEndpoint", "")
	v.SetDefault("telemetry.sampleRatio", 1.0)

	v.SetDefault("session.file", filepath.Join(HomeDir(), "session.yaml"))
	v.SetDefault("session.refreshMargin", time.Minute)
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RAG_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// VITE_API_URL is honoured so one .env serves both the web client and this console.
	if u := os.Getenv("VITE_API_URL"); u != "" {
		v.SetDefault("api.baseURL", u)
	}
	if u := os.Getenv("SUPABASE_URL"); u != "" {
		v.SetDefault("supabase.url", u)
	}
	if k := os.Getenv("SUPABASE_ANON_KEY"); k != "" {
		v.SetDefault("supabase.anonKey", k)
	}

	if File != "" {
		v.SetConfigFile(File)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(HomeDir())
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIBaseURL
	}
	cfg.Supabase.URL = strings.TrimRight(cfg.Supabase.URL, "/")
	return cfg, nil
}
