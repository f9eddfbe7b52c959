package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOS(t *testing.T) {
	assert.Equal(t, SupportedOS(runtime.GOOS), GetOS())
}

func TestValidateSupport(t *testing.T) {
	if IsSupported() {
		assert.NoError(t, ValidateSupport())
	} else {
		assert.Error(t, ValidateSupport())
	}
}

func TestHasHwmon(t *testing.T) {
	root := t.TempDir()
	assert.False(t, HasHwmon(root))

	class := filepath.Join(root, "class", "hwmon")
	require.NoError(t, os.MkdirAll(class, 0o755))
	assert.False(t, HasHwmon(root))

	require.NoError(t, os.WriteFile(filepath.Join(class, "README"), nil, 0o644))
	assert.False(t, HasHwmon(root))

	require.NoError(t, os.Mkdir(filepath.Join(class, "hwmon0"), 0o755))
	assert.True(t, HasHwmon(root))
}
