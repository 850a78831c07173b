// Package version holds the shapenet release version.
package version

// Version is the shapenet release, overridable at build time with
// -ldflags "-X github.com/shapenet-ml/shapenet/internal/version.Version=...".
var Version = "0.1.0"
