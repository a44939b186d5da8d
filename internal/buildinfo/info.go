package buildinfo

// Set via -ldflags "-X github.com/dkb2homebank/dkb2homebank/internal/buildinfo.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
