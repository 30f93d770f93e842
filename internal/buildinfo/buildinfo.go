// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

// Populated by -ldflags "-X github.com/go-ports/catalog-launcher/internal/buildinfo.Version=..."; defaults used for local dev.
var (
	Version   = "dev"
	GitCommit = "unknown"
)
