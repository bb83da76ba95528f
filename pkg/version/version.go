package version

import (
	"fmt"

	semver "github.com/blang/semver/v4"
)

// SetcoverVersion indicates what version of setcover the binary belongs to
var SetcoverVersion string

// GitCommit indicates which git commit the binary was built from
var GitCommit string

// devVersion is reported by builds that were not stamped with a version.
const devVersion = "0.0.0-dev"

// String returns a pretty string concatenation of SetcoverVersion and GitCommit
func String() string {
	return fmt.Sprintf("setcover version: %s\n      git commit: %s\n", full(), GitCommit)
}

func full() string {
	if SetcoverVersion == "" {
		return devVersion
	}
	return SetcoverVersion
}

// Semver parses SetcoverVersion, accepting a leading "v".
func Semver() (semver.Version, error) {
	v, err := semver.ParseTolerant(full())
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid version %q: %w", full(), err)
	}
	return v, nil
}
