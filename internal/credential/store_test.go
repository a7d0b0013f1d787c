package credential

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/image-finder/internal/model"
)

func testPath() string {
	return filepath.Join("/home/user", DirName, FileName)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs(), testPath())

	key, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, testPath())

	require.NoError(t, store.Save("12345-abcdef"))

	exists, err := afero.DirExists(fs, filepath.Dir(testPath()))
	require.NoError(t, err)
	assert.True(t, exists, "settings directory should be created")

	key, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "12345-abcdef", key)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs(), testPath())

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	key, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", key)
}

func TestFileStore_LoadPlainScalar(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Files written by other YAML dumpers end with a document marker
	require.NoError(t, afero.WriteFile(fs, testPath(), []byte("abc123\n...\n"), 0o600))

	key, err := NewFileStore(fs, testPath()).Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
}

func TestFileStore_LoadMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath(), []byte("key: [unterminated"), 0o600))

	_, err := NewFileStore(fs, testPath()).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestFileStore_SaveReadOnly(t *testing.T) {
	store := NewFileStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), testPath())

	err := store.Save("key")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", "/tmp/home-test")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/home-test", DirName, FileName), path)
}

func TestMask(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"12345678", "********"},
		{"1234abcdef5678", "1234******5678"},
		{"ключ-ключ-ключ", "ключ******ключ"},
		{"ab€€€€€€€cd", "ab€€***€€cd"},
	}

	for _, tt := range tests {
		got := Mask(tt.key)
		assert.Equal(t, tt.want, got, tt.key)
		assert.True(t, utf8.ValidString(got), tt.key)
	}
}
