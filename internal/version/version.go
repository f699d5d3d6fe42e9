package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/dfm/yawms/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/dfm/yawms/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/dfm/yawms/internal/version.Date={{.Date}}
)
