package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/config"
	"github.com/centavo-dev/centavo/internal/gitops"
	"github.com/centavo-dev/centavo/internal/rules"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(dir, "household"))

	for _, d := range []string{"inbox", "data/processed", "rules", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "household", cfg.Project.Name)

	data, err := os.ReadFile(filepath.Join(dir, cfg.Paths.Rules))
	require.NoError(t, err)
	assert.Equal(t, rules.Header+"\n", string(data))

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "inbox/")

	assert.True(t, gitops.IsRepo(dir))
}

func TestRunInit_EmptyRulesAreLoadable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "household"))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	compiled, err := rules.Load(filepath.Join(dir, cfg.Paths.Rules), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, compiled)
}
