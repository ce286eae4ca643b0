package version

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Repository URL for notefolio
	RepoUrl = "https://github.com/redjax/notefolio"
)

type PackageInfo struct {
	PackageName        string
	RepoUrl            string
	RepoUser           string
	RepoName           string
	PackageVersion     string
	PackageCommit      string
	PackageReleaseDate string
	GoVersion          string
	Platform           string
}

// GetPackageInfo returns a struct with information about the current package
func GetPackageInfo() PackageInfo {
	exePath, err := os.Executable()
	binName := "<unknown>"

	if err == nil {
		binName = filepath.Base(exePath)
	}

	repoUser, repoName := parseRepoUrl()

	return PackageInfo{
		PackageName:        binName,
		RepoUrl:            RepoUrl,
		RepoUser:           repoUser,
		RepoName:           repoName,
		PackageVersion:     resolvedVersion(),
		PackageCommit:      Commit,
		PackageReleaseDate: Date,
		GoVersion:          runtime.Version(),
		Platform:           runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// resolvedVersion falls back to the module version when installed with
// `go install` and no ldflags were set.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// parseRepoUrl extracts the user/org and repo name from the repository URL
func parseRepoUrl() (user, repo string) {
	u, err := url.Parse(RepoUrl)
	if err != nil {
		return "<unknown>", "<unknown>"
	}

	path := strings.Trim(u.Path, "/")
	parts := strings.Split(path, "/")

	if len(parts) >= 2 {
		return parts[0], parts[1]
	}

	return "<unknown>", "<unknown>"
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("notefolio version:%s commit:%s date:%s", resolvedVersion(), Commit, Date)
}

// GetShortVersion returns just the version number
func GetShortVersion() string {
	return resolvedVersion()
}

// UserAgent is sent with every backend request
func UserAgent() string {
	return fmt.Sprintf("notefolio/%s (%s/%s)", resolvedVersion(), runtime.GOOS, runtime.GOARCH)
}
