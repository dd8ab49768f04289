package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default configuration values. Environment variables override each one.
const (
	DefaultCollectionName       = "news_articles"
	DefaultChunkSize            = 512
	DefaultTopK                 = 3
	DefaultSessionTTL           = 24 * time.Hour
	DefaultGenerationTimeout    = 30 * time.Second
	DefaultFeedTimeout          = 10 * time.Second
	DefaultMaxArticlesPerSource = 50
	DefaultHistoryWindow        = 5
	DefaultExtractionWorkers    = 5
)

// FeedPresets maps friendly names to RSS feed URLs.
var FeedPresets = map[string]string{
	"aj":  "https://www.aljazeera.com/xml/rss/all.xml",
	"cnn": "http://rss.cnn.com/rss/edition.rss",
	"hn":  "https://hnrss.org/newest",
	"tr":  "https://www.technologyreview.com/feed/",
}

// ResolveFeedURL resolves a feed identifier to a URL. Preset names map to
// their URL; anything else is returned as-is and assumed to be a direct URL.
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[feedInput]; exists {
		return url
	}
	return feedInput
}

// Config carries all runtime settings for the pipeline and the API server.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ChromaHost     string
	ChromaPort     int
	CollectionName string

	ChunkSize      int
	ChunkerPolicy  string // "sentence" or "fixed"
	TopK           int
	HistoryWindow  int
	SessionTTL     time.Duration
	GenerationTimeout time.Duration

	Sources              []string
	FeedTimeout          time.Duration
	MaxArticlesPerSource int

	// Optional S3 archive of raw article JSON; disabled when Bucket is empty.
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3UsePathStyle bool
}

// Load builds a Config from the environment. Callers are expected to have
// run godotenv.Load() beforehand (non-fatal when .env is missing).
func Load() Config {
	cfg := Config{
		RedisAddr:      GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASS"),
		RedisDB:        getEnvIntOrDefault("REDIS_DB", 0),
		ChromaHost:     GetEnvOrDefault("CHROMA_HOST", "localhost"),
		ChromaPort:     getEnvIntOrDefault("CHROMA_PORT", 8000),
		CollectionName: GetEnvOrDefault("CHROMA_COLLECTION", DefaultCollectionName),

		ChunkSize:         getEnvIntOrDefault("CHUNK_SIZE", DefaultChunkSize),
		ChunkerPolicy:     GetEnvOrDefault("CHUNKER_POLICY", "sentence"),
		TopK:              getEnvIntOrDefault("RETRIEVAL_TOP_K", DefaultTopK),
		HistoryWindow:     getEnvIntOrDefault("HISTORY_WINDOW", DefaultHistoryWindow),
		SessionTTL:        getEnvDurationSecs("SESSION_TTL_SECONDS", DefaultSessionTTL),
		GenerationTimeout: getEnvDurationSecs("GENERATION_TIMEOUT_SECONDS", DefaultGenerationTimeout),

		FeedTimeout:          getEnvDurationSecs("FEED_TIMEOUT_SECONDS", DefaultFeedTimeout),
		MaxArticlesPerSource: getEnvIntOrDefault("MAX_ARTICLES_PER_SOURCE", DefaultMaxArticlesPerSource),

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:       strings.TrimSpace(os.Getenv("S3_PREFIX")),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}

	if v := os.Getenv("NEWS_SOURCES"); v != "" {
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				cfg.Sources = append(cfg.Sources, ResolveFeedURL(s))
			}
		}
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{FeedPresets["aj"], FeedPresets["cnn"]}
	}

	return cfg
}

// GetEnvOrDefault returns the value of the environment variable or a default.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDurationSecs(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
