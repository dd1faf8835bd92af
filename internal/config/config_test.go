package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
db_path: /var/lib/hubstash/hubstash.db
target_chunk_chars: 400
search_limit: 10
ingest_workers: 4
watch_dirs:
  /srv/inbox/health: health
  /srv/inbox/papers: papers
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/hubstash/hubstash.db", cfg.DBPath)
	assert.Equal(t, 400, cfg.TargetChunkChars)
	assert.Equal(t, 10, cfg.SearchLimit)
	assert.Equal(t, 4, cfg.IngestWorkers)
	assert.Equal(t, "health", cfg.WatchDirs["/srv/inbox/health"])
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: custom.db\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, Default().TargetChunkChars, cfg.TargetChunkChars)
	assert.Equal(t, Default().SearchLimit, cfg.SearchLimit)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t not yaml ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
