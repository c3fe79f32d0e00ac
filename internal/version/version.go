// Package version holds the build version, set with
// -ldflags "-X EnigmaNetz/Enigma-Capture-Console/internal/version.Version=...".
package version

var Version = "dev"
