// Package buildinfo holds the trajview version, injected at link time:
//
//	go build -ldflags "-X github.com/watchfire-io/trajview/internal/buildinfo.Version=v0.2.0"
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Short returns the version with its codename when one was set.
func Short() string {
	if Codename == "" || Codename == "unknown" {
		return Version
	}
	return Version + " (" + Codename + ")"
}
