package flash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverPort(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"usb-Arduino_Nano-if00-port0",
		"usb-Devantech_Ltd._iceFUN_FPGA_board-if00",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	p, ok := DiscoverPort(dir, "iceFUN")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "usb-Devantech_Ltd._iceFUN_FPGA_board-if00"), p)

	_, ok = DiscoverPort(dir, "iceWerx")
	assert.False(t, ok)
}

func TestDiscoverPortMissingDir(t *testing.T) {
	_, ok := DiscoverPort(filepath.Join(t.TempDir(), "nope"), "iceFUN")
	assert.False(t, ok)
}

func TestFindTTYFallback(t *testing.T) {
	old := DefaultPortDir
	DefaultPortDir = filepath.Join(t.TempDir(), "by-id")
	defer func() { DefaultPortDir = old }()

	assert.Equal(t, DefaultTTY, FindTTY())
}
