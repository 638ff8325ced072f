package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the bot needs. Loaded once at startup and passed to
// constructors; nothing in this package is mutated after Load returns.
type Config struct {
	Chat struct {
		Username    string   `yaml:"username"`
		Password    string   `yaml:"password"`
		AltUsername string   `yaml:"alt_username,omitempty"` // secondary identity, never gets link previews
		Rooms       []string `yaml:"rooms"`
		HomeRoom    string   `yaml:"home_room"` // only room allowed to post direct command responses
	} `yaml:"chat"`

	Moderation struct {
		IgnoredUsers    []string `yaml:"ignored_users,omitempty"`
		IgnoredIPs      []string `yaml:"ignored_ips,omitempty"`
		SpecialUsers    []string `yaml:"special_users,omitempty"`
		MetricUsers     []string `yaml:"metric_users,omitempty"`
		MetricRooms     []string `yaml:"metric_rooms,omitempty"` // rooms reported in metric units regardless of sender
		PlaceholderURL  string   `yaml:"placeholder_url"`
		TrademarkSuffix string   `yaml:"trademark_suffix,omitempty"` // marketing suffix answered with ™
		BannedPattern   string   `yaml:"banned_pattern,omitempty"`   // regex of slurs to delete on sight
		Sentinels       []string `yaml:"sentinels,omitempty"`        // exact broken-bot strings to delete silently
	} `yaml:"moderation"`

	PostgreSQL struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DbName   string `yaml:"dbname"`
	} `yaml:"postgresql"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password,omitempty"`
		DB       int    `yaml:"db,omitempty"`
	} `yaml:"redis"`

	Bucket struct {
		Name      string `yaml:"name"`
		BaseURL   string `yaml:"base_url"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key,omitempty"`
		SecretKey string `yaml:"secret_key,omitempty"`
	} `yaml:"bucket"`

	ApiKeys struct {
		Giphy          string `yaml:"giphy,omitempty"`
		Weatherstack   string `yaml:"weatherstack,omitempty"`
		IEX            string `yaml:"iex,omitempty"`
		CoinMarketCap  string `yaml:"coinmarketcap,omitempty"`
		RapidAPI       string `yaml:"rapid_api,omitempty"`
		OMDB           string `yaml:"omdb,omitempty"`
		TwitchClientID string `yaml:"twitch_client_id,omitempty"`
		TwitchSecret   string `yaml:"twitch_secret,omitempty"`
		Footy          string `yaml:"footy,omitempty"`
		LyricsGenius   string `yaml:"lyrics_genius,omitempty"`
		PSN            string `yaml:"psn,omitempty"`
		SleeperLeague  string `yaml:"sleeper_league,omitempty"`
		SMSGateway     string `yaml:"sms_gateway,omitempty"`
		SMSSender      string `yaml:"sms_sender,omitempty"`
	} `yaml:"api_keys"`

	Tuner struct {
		Host        string            `yaml:"host,omitempty"`
		ChannelFile string            `yaml:"channel_file,omitempty"`
		Headers     map[string]string `yaml:"headers,omitempty"`
	} `yaml:"tuner,omitempty"`

	Persistence struct {
		ChatLogs bool `yaml:"chat_logs"`
		UserData bool `yaml:"user_data"`
	} `yaml:"persistence"`

	// HTTPTimeoutSecs bounds every outbound API call; HTTPTimeout is the
	// parsed form the rest of the code consumes.
	HTTPTimeoutSecs int           `yaml:"http_timeout_seconds,omitempty"`
	HTTPTimeout     time.Duration `yaml:"-"`
}

// Load reads a yaml config file and fills defaults for anything omitted.
// Secrets may be supplied through the environment instead of the file; env
// values win so deployments never need credentials on disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyEnv()

	if cfg.Chat.Username == "" {
		return nil, fmt.Errorf("chat.username is required")
	}
	if len(cfg.Chat.Rooms) == 0 {
		return nil, fmt.Errorf("chat.rooms must list at least one room")
	}
	if cfg.Chat.HomeRoom == "" {
		cfg.Chat.HomeRoom = cfg.Chat.Rooms[0]
	}

	if cfg.PostgreSQL.Host == "" {
		cfg.PostgreSQL.Host = "127.0.0.1"
	}
	if cfg.PostgreSQL.Port == 0 {
		cfg.PostgreSQL.Port = 5432
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.Moderation.PlaceholderURL == "" {
		cfg.Moderation.PlaceholderURL = "https://i.imgur.com/bQJxsBV.png"
	}
	if cfg.Bucket.Region == "" {
		cfg.Bucket.Region = "us-east-1"
	}
	cfg.HTTPTimeout = 40 * time.Second
	if cfg.HTTPTimeoutSecs > 0 {
		cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	}

	return &cfg, nil
}

// applyEnv overlays secret-bearing fields from the environment.
func (cfg *Config) applyEnv() {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&cfg.Chat.Username, "CHAT_BOT_USERNAME")
	overlay(&cfg.Chat.Password, "CHAT_BOT_PASSWORD")
	overlay(&cfg.PostgreSQL.Password, "POSTGRES_PASSWORD")
	overlay(&cfg.Redis.Password, "REDIS_PASSWORD")
	overlay(&cfg.Bucket.AccessKey, "BUCKET_ACCESS_KEY")
	overlay(&cfg.Bucket.SecretKey, "BUCKET_SECRET_KEY")
	overlay(&cfg.ApiKeys.Giphy, "GIPHY_API_KEY")
	overlay(&cfg.ApiKeys.Weatherstack, "WEATHERSTACK_API_KEY")
	overlay(&cfg.ApiKeys.IEX, "IEX_API_TOKEN")
	overlay(&cfg.ApiKeys.CoinMarketCap, "COINMARKETCAP_API_KEY")
	overlay(&cfg.ApiKeys.RapidAPI, "RAPID_API_KEY")
	overlay(&cfg.ApiKeys.OMDB, "OMDB_API_KEY")
	overlay(&cfg.ApiKeys.TwitchClientID, "TWITCH_CLIENT_ID")
	overlay(&cfg.ApiKeys.TwitchSecret, "TWITCH_CLIENT_SECRET")
	overlay(&cfg.ApiKeys.Footy, "FOOTY_API_KEY")
	overlay(&cfg.ApiKeys.LyricsGenius, "GENIUS_ACCESS_TOKEN")
	overlay(&cfg.ApiKeys.PSN, "PSN_NPSSO_TOKEN")

	if v := os.Getenv("CHAT_IGNORED_USERS"); v != "" {
		cfg.Moderation.IgnoredUsers = splitList(v)
	}
	if v := os.Getenv("CHAT_IGNORED_IPS"); v != "" {
		cfg.Moderation.IgnoredIPs = splitList(v)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN builds the Postgres connection string in the form gorm's driver expects.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.PostgreSQL.Host,
		cfg.PostgreSQL.Port,
		cfg.PostgreSQL.User,
		cfg.PostgreSQL.Password,
		cfg.PostgreSQL.DbName,
	)
}
