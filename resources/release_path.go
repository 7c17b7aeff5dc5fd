//go:build release

package resources

import (
	"os"
	"path/filepath"
)

const configDir = "testsdi"

// resourcePath returns the path where resources will be loaded from and saved
// to. release builds use the user's config directory.
func resourcePath() (string, error) {
	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cnf, configDir), nil
}
