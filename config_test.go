package glove

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)
	require.Equal(t, DefaultVectorSize, cfg.VectorSize)
	require.Equal(t, DefaultThreads, cfg.Threads)
	require.True(t, cfg.ForcingEnabled)
	require.NoError(t, Validate(cfg))
}

func TestValidateNilConfig(t *testing.T) {
	err := Validate(nil)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestValidateRejectsNonPositiveVectorSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VectorSize = 0
	require.ErrorIs(t, Validate(cfg), ErrInvalidConfiguration)
}

func TestValidateRejectsBadBinaryMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseBinary = 3
	require.ErrorIs(t, Validate(cfg), ErrInvalidConfiguration)
}

func TestValidateRequiresInitFileUnlessRandom(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitFile = ""
	cfg.RandomInit = false
	require.Error(t, Validate(cfg))

	cfg.RandomInit = true
	require.NoError(t, Validate(cfg))
}

func TestValidateRequiresForcingFilesWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForcingEnabled = true
	cfg.DimsFile = ""
	require.Error(t, Validate(cfg))
}

func TestDecodeCoercesModelOutsideZeroOne(t *testing.T) {
	cfg, err := LoadFromFileBytes(t, `model: 7`)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Model)
}

// LoadFromFileBytes writes content to a temp YAML file and loads it,
// as a shorthand for the handful of decode-path tests that only care
// about one or two overridden keys.
func LoadFromFileBytes(t *testing.T, content string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/config.yaml"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return LoadFromFile(path)
}
