package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-orchestrator/internal/infra/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "CORPUS_DIR", "SEARCH_K", "SEARCH_FETCH_K", "SEARCH_MMR_LAMBDA"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := config.Load()
	assert.Equal(t, "9020", cfg.Port)
	assert.Equal(t, "data", cfg.CorpusDir)
	assert.Equal(t, "info_oficial.csv", cfg.OfficialFilename)
	assert.Equal(t, 8, cfg.SearchK)
	assert.Equal(t, 25, cfg.SearchFetchK)
	assert.InDelta(t, 0.5, cfg.MMRLambda, 1e-9)
	assert.Equal(t, "gemini-1.5-flash", cfg.AnalyzerModel)
	assert.Equal(t, "gemini-1.5-pro-latest", cfg.SynthesisModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SEARCH_K", "4")
	t.Setenv("SEARCH_MMR_LAMBDA", "0.7")
	t.Setenv("WARMUP_PRODUCTS", "UX Design, Data Analytics ,")

	cfg := config.Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4, cfg.SearchK)
	assert.InDelta(t, 0.7, cfg.MMRLambda, 1e-9)
	assert.Equal(t, []string{"UX Design", "Data Analytics"}, cfg.WarmupProducts)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SEARCH_K", "not-a-number")
	t.Setenv("SEARCH_MMR_LAMBDA", "nope")

	cfg := config.Load()
	assert.Equal(t, 8, cfg.SearchK)
	assert.InDelta(t, 0.5, cfg.MMRLambda, 1e-9)
}

func TestLoad_SecretFromFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))

	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("secret-value\n"), 0o600))
	t.Setenv("GEMINI_API_KEY_FILE", path)

	cfg := config.Load()
	assert.Equal(t, "secret-value", cfg.GeminiAPIKey)
}

func TestPersonaFor(t *testing.T) {
	t.Setenv("PERSONA_NAMES", "Product Management=Mariana;UX Design=Bia")

	cfg := config.Load()
	assert.Equal(t, "Mariana", cfg.PersonaFor("product management"))
	assert.Equal(t, "Bia", cfg.PersonaFor("UX Design"))
	assert.Equal(t, "Alex", cfg.PersonaFor("Cooking"))
}
