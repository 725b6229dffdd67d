package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	fam, err := Load("ignored", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultFamily, fam.Name)
	assert.NotEmpty(t, fam.Regular)
	assert.NotEmpty(t, fam.Bold)
	assert.NotEqual(t, fam.Regular, fam.Bold)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Montserrat-Regular.ttf"), []byte("regular"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Montserrat-Bold.ttf"), []byte("bold"), 0o644))

	fam, err := Load("Montserrat", dir)
	require.NoError(t, err)
	assert.Equal(t, "Montserrat", fam.Name)
	assert.Equal(t, []byte("regular"), fam.Regular)
	assert.Equal(t, []byte("bold"), fam.Bold)
}

func TestLoadMissingBold(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Montserrat-Regular.ttf"), []byte("regular"), 0o644))

	_, err := Load("Montserrat", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bold")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRequiresName(t *testing.T) {
	_, err := Load("", t.TempDir())
	assert.Error(t, err)
}
