package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries all runtime settings, sourced from the environment.
type Config struct {
	Env  string
	Port string

	CorpusDir        string
	OfficialFilename string

	GeminiAPIKey           string
	EmbeddingModel         string
	AnalyzerModel          string
	SynthesisModel         string
	AnalyzerTemperature    float64
	SynthesisTemperature   float64
	SuggestionsTemperature float64
	MaxOutputTokens        int
	EmbedRatePerSecond     float64

	SearchK      int
	SearchFetchK int
	MMRLambda    float64

	CorpusCacheSize int
	CorpusCacheTTL  int // minutes
	IndexCacheSize  int
	IndexCacheTTL   int // minutes

	WarmupProducts []string
	PersonaNames   map[string]string
	AnswerLanguage string
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		CorpusDir:        getEnv("CORPUS_DIR", "data"),
		OfficialFilename: getEnv("CORPUS_OFFICIAL_FILENAME", "info_oficial.csv"),

		GeminiAPIKey:           getSecret("GEMINI_API_KEY", "GEMINI_API_KEY_FILE", ""),
		EmbeddingModel:         getEnv("EMBEDDING_MODEL", "models/embedding-001"),
		AnalyzerModel:          getEnv("ANALYZER_MODEL", "gemini-1.5-flash"),
		SynthesisModel:         getEnv("SYNTHESIS_MODEL", "gemini-1.5-pro-latest"),
		AnalyzerTemperature:    getEnvFloat("ANALYZER_TEMPERATURE", 0.0),
		SynthesisTemperature:   getEnvFloat("SYNTHESIS_TEMPERATURE", 0.5),
		SuggestionsTemperature: getEnvFloat("SUGGESTIONS_TEMPERATURE", 0.5),
		MaxOutputTokens:        getEnvInt("MAX_OUTPUT_TOKENS", 1024),
		EmbedRatePerSecond:     getEnvFloat("EMBED_RATE_PER_SECOND", 5),

		SearchK:      getEnvInt("SEARCH_K", 8),
		SearchFetchK: getEnvInt("SEARCH_FETCH_K", 25),
		MMRLambda:    getEnvFloat("SEARCH_MMR_LAMBDA", 0.5),

		CorpusCacheSize: getEnvInt("CORPUS_CACHE_SIZE", 4),
		CorpusCacheTTL:  getEnvInt("CORPUS_CACHE_TTL_MIN", 0),
		IndexCacheSize:  getEnvInt("INDEX_CACHE_SIZE", 8),
		IndexCacheTTL:   getEnvInt("INDEX_CACHE_TTL_MIN", 0),

		WarmupProducts: splitList(getEnv("WARMUP_PRODUCTS", "")),
		PersonaNames: parsePairs(getEnv("PERSONA_NAMES",
			"Product Management=Mariana;UX Design=Bia;Data Analytics=Caio")),
		AnswerLanguage: getEnv("ANSWER_LANGUAGE", "Brazilian Portuguese"),
	}
}

// PersonaFor resolves the persona display name for a product.
func (c *Config) PersonaFor(product string) string {
	for name, persona := range c.PersonaNames {
		if strings.EqualFold(name, product) {
			return persona
		}
	}
	return getEnv("PERSONA_DEFAULT_NAME", "Alex")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parsePairs parses "key=value;key=value" maps.
func parsePairs(raw string) map[string]string {
	pairs := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if key != "" && value != "" {
			pairs[key] = value
		}
	}
	return pairs
}
