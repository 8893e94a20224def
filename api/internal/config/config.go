package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	Engine       string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIURL    string

	AnalysisTimeout time.Duration
	DoctorTimeout   time.Duration
	MaxUploadBytes  int64
	NormalizeImages bool

	HistoryBackend string
	HistoryDir     string
	DatabaseURL    string
	RedisAddr      string
	RedisDB        int

	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	SessionIdleTTL time.Duration
	MaxSessions    int

	LogLevel  string
	LogFormat string

	TelegramBotToken string
	WebhookURL       string
	DefaultLang      string
}

func mustEnv(k string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// plain numbers are seconds
		if n, nerr := strconv.Atoi(v); nerr == nil {
			return time.Duration(n) * time.Second
		}
		log.Printf("config: bad duration %s=%q, using %v", k, v, def)
		return def
	}
	return d
}

func getInt(k string, def int) int {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: bad integer %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func getFloat(k string, def float64) float64 {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: bad number %s=%q, using %v", k, v, def)
		return def
	}
	return f
}

func getBool(k string, def bool) bool {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: bad bool %s=%q, using %v", k, v, def)
		return def
	}
	return b
}

// Load reads .env (when present) and the environment. Missing credentials for the selected
// engine are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		Engine:       strings.ToLower(getEnv("AI_ENGINE", "gemini")),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		AnalysisTimeout: getDuration("ANALYSIS_TIMEOUT", 120*time.Second),
		DoctorTimeout:   getDuration("DOCTOR_TIMEOUT", 60*time.Second),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_BYTES", 20<<20)),
		NormalizeImages: getBool("NORMALIZE_IMAGES", true),

		HistoryBackend: strings.ToLower(getEnv("HISTORY_BACKEND", "file")),
		HistoryDir:     getEnv("HISTORY_DIR", "data/history"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getInt("REDIS_DB", 0),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 5),
		TrustProxy:     getBool("TRUST_PROXY", false),

		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 2*time.Hour),
		MaxSessions:    getInt("MAX_SESSIONS", 10000),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		DefaultLang:      getEnv("DEFAULT_LANG", "hi"),
	}
	if cfg.HistoryBackend == "postgres" {
		cfg.DatabaseURL = ResolveDSN()
	}

	switch cfg.Engine {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Fatal("missing required env GEMINI_API_KEY (or API_KEY) for AI_ENGINE=gemini")
		}
	case "openai":
		cfg.OpenAIAPIKey = mustEnv("OPENAI_API_KEY")
	case "stub":
	default:
		log.Fatalf("unknown AI_ENGINE %q (gemini|openai|stub)", cfg.Engine)
	}
	return cfg
}

// RequireTelegram returns the bot token or exits.
func (c *Config) RequireTelegram() string {
	if c.TelegramBotToken == "" {
		c.TelegramBotToken = mustEnv("TELEGRAM_BOT_TOKEN")
	}
	return c.TelegramBotToken
}

// ResolveDSN prefers DATABASE_URL and otherwise builds a DSN from POSTGRES_* / PG* vars.
func ResolveDSN() string {
	if v := getEnv("DATABASE_URL", ""); v != "" {
		return v
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "diagnosmart"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     net.JoinHostPort(getEnv("PGHOST", "db"), getEnv("PGPORT", "5432")),
		Path:     "/" + getEnv("POSTGRES_DB", "diagnosmart"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SafeDSNSummary describes dsn without its password, for logs.
func SafeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	host, port := u.Host, ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return "host=" + host + " db=" + db + " user=" + u.User.Username()
	}
	return "host=" + host + " port=" + port + " db=" + db + " user=" + u.User.Username()
}
