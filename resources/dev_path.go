//go:build !release

package resources

const configDir = ".testsdi"

// resourcePath returns the path where resources will be loaded from and saved
// to. non-release builds use a dot directory relative to the working
// directory, keeping development files away from the user's real config.
func resourcePath() (string, error) {
	return configDir, nil
}
