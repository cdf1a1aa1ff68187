package bundo

import "golang.org/x/mod/semver"

// Semver is the version of bundo. Meant to be
// overridden at build time with ldflags.
var Semver = "0.1.0"

// SemVer returns the semantic version of bundo
// as built into the binary.
func SemVer() string {
	if v := "v" + Semver; semver.IsValid(v) {
		return semver.Canonical(v)
	}

	return Semver
}
