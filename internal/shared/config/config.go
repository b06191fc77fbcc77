package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port                  string
	CORSAllowOrigin       []string
	DatabaseURL           string
	Env                   string
	LLMProvider           string
	LLMModel              string
	DetectionInterval     int // minutes between scheduled passes
	DetectionPassTimeout  int // seconds; budget for one full pass
	DetectionSampleLimit  int // records per collection in the AI digest
	DedupSuppressStatuses []string
	SchedulerAutoStart    bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		CORSAllowOrigin:       splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:           dbURL,
		Env:                   env,
		LLMProvider:           getEnv("LLM_PROVIDER", "openai"),
		LLMModel:              getEnv("LLM_MODEL", ""),
		DetectionInterval:     getEnvInt("DETECTION_INTERVAL_MINUTES", 15),
		DetectionPassTimeout:  getEnvInt("DETECTION_PASS_TIMEOUT_SECONDS", 120),
		DetectionSampleLimit:  getEnvInt("DETECTION_SAMPLE_LIMIT", 5),
		DedupSuppressStatuses: splitAndTrim(getEnv("DEDUP_SUPPRESS_STATUSES", "active")),
		SchedulerAutoStart:    getEnvBool("DETECTION_SCHEDULER_AUTOSTART", true),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q; using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config %s invalid bool %q; using %t", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
