package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePoolFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWordPools(t *testing.T) {
	path := writePoolFile(t, `
word_pools:
  en: [one, two, three, four, five, six, seven, eight, nine, ten]
  fr: [un, deux, trois, quatre, cinq, six, sept, huit, neuf, dix]
`)
	pools, err := LoadWordPools(path)
	require.NoError(t, err)
	assert.Len(t, pools, 2)
	assert.Len(t, pools["fr"], 10)
}

func TestLoadWordPoolsRequiresEnglish(t *testing.T) {
	path := writePoolFile(t, `
word_pools:
  fr: [un, deux, trois, quatre, cinq, six, sept, huit, neuf, dix]
`)
	_, err := LoadWordPools(path)
	assert.ErrorContains(t, err, "'en' pool")
}

func TestLoadWordPoolsRejectsShortPool(t *testing.T) {
	path := writePoolFile(t, `
word_pools:
  en: [one, two, three]
`)
	_, err := LoadWordPools(path)
	assert.ErrorContains(t, err, "at least 10")
}

func TestLoadWordPoolsMissingFile(t *testing.T) {
	_, err := LoadWordPools(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
