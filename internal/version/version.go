package version

// 构建信息，通过 -ldflags "-X .../internal/version.Version=..." 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders version, commit and build time on one line.
func String() string {
	return Version + " (" + GitCommit + ", " + BuildTime + ")"
}
