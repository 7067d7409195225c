package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHostProberReadAddressFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "eth0", "address"), "a4:5e:60:c2:19:7b\n")

	hp := NewHostProber(root)

	content, err := hp.ReadAddressFile("eth0")
	require.NoError(t, err)
	assert.Equal(t, "a4:5e:60:c2:19:7b", content)

	_, err = hp.ReadAddressFile("eth9")
	assert.Error(t, err)
}

func TestHostProberPlatformUniqueID(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus")
	valid := filepath.Join(dir, "machine-id")
	writeFile(t, bogus, "uninitialized\n")
	writeFile(t, valid, "4c4c4544004d3510804cb4c04f4d4332\n")

	hp := NewHostProber("")
	hp.MachineIDPaths = []string{filepath.Join(dir, "missing"), bogus, valid}

	id, err := hp.PlatformUniqueID()
	require.NoError(t, err)
	assert.Equal(t, "4c4c4544004d3510804cb4c04f4d4332", id)

	hp.MachineIDPaths = []string{bogus}
	_, err = hp.PlatformUniqueID()
	assert.ErrorIs(t, err, ErrNoUniqueID)
}

func TestHostProberDeviceName(t *testing.T) {
	hp := NewHostProber("")
	hp.Hostname = func() (string, error) { return "room-1003", nil }

	name, err := hp.PlatformDeviceName()
	require.NoError(t, err)
	assert.Equal(t, "room-1003", name)

	hp.Hostname = func() (string, error) { return "", errors.New("no hostname") }
	_, err = hp.PlatformDeviceName()
	assert.Error(t, err)
}

func TestHostProberHardwareAddressOfUnknownInterface(t *testing.T) {
	_, err := NewHostProber("").HardwareAddressOf("otrmtv-does-not-exist0")
	assert.Error(t, err)
}

func TestHostProberResolveNeverEmpty(t *testing.T) {
	hp := NewHostProber(t.TempDir())
	hp.MachineIDPaths = nil
	hp.Hostname = func() (string, error) { return "", nil }

	id := NewResolver(hp).Resolve()

	assert.NotEmpty(t, id.Normalized)
}
