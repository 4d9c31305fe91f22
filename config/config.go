package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved runtime configuration for one process
type Config struct {
	// Source API
	XBearerToken  string
	XClientID     string
	XRefreshToken string
	XUserID       string
	XBaseURL      string

	// Judge model
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIBase   string

	// Fetch fallbacks
	GitHubToken      string
	SearchAPIKey     string
	SearchEngineID   string
	BrowserDebugAddr string
	ChromePath       string

	// Embeddings
	CohereAPIKey string
	CohereModel  string

	// Persistence
	DataDir      string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	RedisSeenKey string

	// Publication
	KafkaBrokers      []string
	KafkaTopic        string
	KafkaTriggerTopic string
	KafkaGroupID      string
	S3Bucket          string
	S3Region          string
	S3Profile         string
	S3Prefix          string
	S3UsePathStyle    bool

	// Run shape
	BudgetCap         float64
	UnitCost          float64
	BatchSize         int
	TargetDiscoveries int
	MaxBatches        int
	MaxPicks          int
	MinPicks          int
	BatchDelay        time.Duration
	QueryCacheTTL     time.Duration
	SeenCap           int

	QueriesFile string
	ServeAddr   string
	LogLevel    string
	LogJSON     bool
}

// Load reads .env (if present) and the environment into a Config
func Load() Config {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	dataDir := GetEnvOrDefault("TOOLSCOUT_DATA_DIR", DataDir)

	return Config{
		XBearerToken:  strings.TrimSpace(os.Getenv("X_BEARER_TOKEN")),
		XClientID:     strings.TrimSpace(os.Getenv("X_CLIENT_ID")),
		XRefreshToken: strings.TrimSpace(os.Getenv("X_REFRESH_TOKEN")),
		XUserID:       strings.TrimSpace(os.Getenv("X_USER_ID")),
		XBaseURL:      GetEnvOrDefault("X_API_BASE", "https://api.x.com/2"),

		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  GetEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:  GetEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBase:   GetEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		GitHubToken:      strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		SearchAPIKey:     strings.TrimSpace(os.Getenv("SEARCH_API_KEY")),
		SearchEngineID:   strings.TrimSpace(os.Getenv("SEARCH_ENGINE_ID")),
		BrowserDebugAddr: GetEnvOrDefault("BROWSER_DEBUG_ADDR", "127.0.0.1:9222"),
		ChromePath:       strings.TrimSpace(os.Getenv("CHROME_PATH")),

		CohereAPIKey: strings.TrimSpace(os.Getenv("COHERE_API_KEY")),
		CohereModel:  GetEnvOrDefault("COHERE_EMBED_MODEL", "embed-english-v3.0"),

		DataDir:      dataDir,
		RedisAddr:    strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisSeenKey: GetEnvOrDefault("REDIS_SEEN_KEY", "toolscout:seen"),

		KafkaBrokers:      splitList(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
		KafkaTopic:        GetEnvOrDefault("KAFKA_TOPIC", "toolscout-discoveries"),
		KafkaTriggerTopic: strings.TrimSpace(os.Getenv("KAFKA_TRIGGER_TOPIC")),
		KafkaGroupID:      GetEnvOrDefault("KAFKA_GROUP_ID", "toolscout"),
		S3Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:         strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3Prefix:          normalizePrefix(os.Getenv("S3_PREFIX")),
		S3UsePathStyle:    strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),

		BudgetCap:         getEnvFloat("TOOLSCOUT_BUDGET", BudgetCap),
		UnitCost:          getEnvFloat("TOOLSCOUT_UNIT_COST", UnitCost),
		BatchSize:         getEnvInt("TOOLSCOUT_BATCH_SIZE", BatchSize),
		TargetDiscoveries: getEnvInt("TOOLSCOUT_TARGET", TargetDiscoveries),
		MaxBatches:        getEnvInt("TOOLSCOUT_MAX_BATCHES", MaxBatches),
		MaxPicks:          getEnvInt("TOOLSCOUT_MAX_PICKS", MaxPicks),
		MinPicks:          getEnvInt("TOOLSCOUT_MIN_PICKS", MinPicks),
		BatchDelay:        getEnvDuration("TOOLSCOUT_BATCH_DELAY", BatchDelay),
		QueryCacheTTL:     getEnvDuration("TOOLSCOUT_QUERY_CACHE_TTL", QueryCacheTTL),
		SeenCap:           getEnvInt("TOOLSCOUT_SEEN_CAP", SeenCap),

		QueriesFile: GetEnvOrDefault("TOOLSCOUT_QUERIES", "queries.yaml"),
		ServeAddr:   GetEnvOrDefault("TOOLSCOUT_ADDR", ":8080"),
		LogLevel:    GetEnvOrDefault("LOG_LEVEL", "info"),
		LogJSON:     strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
	}
}

// HasSource reports whether the feed/search provider can be called
func (c Config) HasSource() bool {
	return c.XBearerToken != "" || (c.XClientID != "" && c.XRefreshToken != "")
}

// HasJudge reports whether a language model is configured
func (c Config) HasJudge() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}

// HasSearch reports whether the web-search fallback is configured
func (c Config) HasSearch() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

// HasEmbeddings reports whether semantic duplicate collapse is available
func (c Config) HasEmbeddings() bool {
	return c.CohereAPIKey != "" || c.OpenAIAPIKey != ""
}

// SeenFile is the on-disk location of the seen set
func (c Config) SeenFile() string {
	return filepath.Join(c.DataDir, "seen.json")
}

// QueryCacheFile is the on-disk location of the search cache
func (c Config) QueryCacheFile() string {
	return filepath.Join(c.DataDir, "search_cache.json")
}

// GetEnvOrDefault returns the trimmed env value or the fallback when unset
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f >= 0 {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePrefix(raw string) string {
	prefix := strings.TrimSpace(raw)
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}
