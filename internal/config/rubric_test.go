package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/internal/config"
)

func TestLoadRubric_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()
	r, err := config.LoadRubric("")
	require.NoError(t, err)
	assert.Equal(t, 0.7, r.MatcherWeights["skills"])
	assert.Equal(t, 0.3, r.MatcherWeights["experience"])
	assert.Equal(t, 0.2, r.FinalWeights["interview"])
	assert.Len(t, r.FallbackQuestions, 5)
}

func TestLoadRubric_FileOverridesSections(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matcher_weights:
  skills: 0.6
  experience: 0.4
`), 0o600))

	r, err := config.LoadRubric(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, r.MatcherWeights["skills"])
	// Unspecified sections keep the defaults.
	assert.Equal(t, 0.5, r.FinalWeights["skills"])
	assert.Len(t, r.FallbackQuestions, 5)
}

func TestLoadRubric_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.LoadRubric("/does/not/exist.yaml")
	require.Error(t, err)
}

func TestLoadRubric_MalformedYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher_weights: [not a map"), 0o600))

	_, err := config.LoadRubric(path)
	require.Error(t, err)
}
