// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir during tests. os.UserHomeDir does not
// follow the HOME environment variable on every platform, so tests point the
// lookup at a temp directory instead of faking a home.
var configDirOverride string

// SetConfigDirOverride points ConfigDir at dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}
