package flash

import (
	"os"
	"path/filepath"
	"strings"
)

var DefaultPortDir = "/dev/serial/by-id/"
var DefaultPortMatch = "iceFUN"

// DiscoverPort will look through dir for the first serial device whose name
// contains match. It reports false when the directory cannot be read or
// nothing matches.
func DiscoverPort(dir, match string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, e := range entries {
		if strings.Contains(e.Name(), match) {
			return filepath.Join(dir, e.Name()), true
		}
	}

	return "", false
}

// FindTTY will return the discovered board port or DefaultTTY
func FindTTY() string {
	if p, ok := DiscoverPort(DefaultPortDir, DefaultPortMatch); ok {
		return p
	}
	return DefaultTTY
}
