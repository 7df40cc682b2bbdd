// Package version exposes the library's build version information.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/runkit/version.Version=1.0.0"
//
// When ldflags are absent the values fall back to the VCS stamp
// embedded by the Go toolchain.
package version
