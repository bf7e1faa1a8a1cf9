package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
)

func writeContainerFixture(t *testing.T, dir string) string {
	t.Helper()
	reg := resource.NewRegistry()
	require.NoError(t, reg.Add(resource.New("ship", 128, "Light Freighter"), []byte{0x00, 0x03, 0xFF, 0xFF}))
	require.NoError(t, reg.Add(resource.New("snd", 5, "Hum"), []byte{0xAA}))

	path := filepath.Join(dir, "out.kdat")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, resource.WriteContainer(f, reg))
	return path
}

func TestRunShow(t *testing.T) {
	path := writeContainerFixture(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	code := RunShow([]string{path}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, "stderr: %s", stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "2 records")
	assert.Contains(t, out, "ship")
	assert.Contains(t, out, "#128")
	assert.Contains(t, out, `"Light Freighter"`)
	assert.Contains(t, out, "4 bytes")
	assert.NotContains(t, out, "00000000", "hex dump off by default")
}

func TestRunShow_Hex(t *testing.T) {
	path := writeContainerFixture(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	code := RunShow([]string{"--hex", path}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code)

	out := stdout.String()
	assert.Contains(t, out, "00 03 ff ff")
	assert.Contains(t, out, "aa")
}

func TestRunShow_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := RunShow([]string{filepath.Join(dir, "absent.kdat")}, &stdout, &stderr)
		assert.Equal(t, exitCommandError, code)
	})

	t.Run("no argument", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := RunShow(nil, &stdout, &stderr)
		assert.Equal(t, exitCommandError, code)
		assert.Contains(t, stderr.String(), "Usage: kdk-build show")
	})

	t.Run("corrupt container", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.kdat")
		require.NoError(t, os.WriteFile(path, []byte{'s', 'h'}, 0644))
		var stdout, stderr bytes.Buffer
		code := RunShow([]string{path}, &stdout, &stderr)
		assert.Equal(t, exitCommandError, code)
	})
}
