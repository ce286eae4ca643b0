package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetPackageInfo(t *testing.T) {
	info := GetPackageInfo()

	// Test that basic fields are populated
	if info.PackageName == "" {
		t.Error("PackageName should not be empty")
	}

	if info.RepoUrl != RepoUrl {
		t.Errorf("RepoUrl mismatch: got %s, want %s", info.RepoUrl, RepoUrl)
	}

	if info.PackageVersion == "" {
		t.Error("PackageVersion should not be empty")
	}

	if info.PackageCommit == "" {
		t.Error("PackageCommit should not be empty")
	}

	if info.PackageReleaseDate == "" {
		t.Error("PackageReleaseDate should not be empty")
	}

	// Verify repo user and name are extracted
	if info.RepoUser == "" || info.RepoUser == "<unknown>" {
		t.Error("RepoUser should be extracted from RepoUrl")
	}

	if info.RepoName == "" || info.RepoName == "<unknown>" {
		t.Error("RepoName should be extracted from RepoUrl")
	}
}

func TestGetVersionString(t *testing.T) {
	versionStr := GetVersionString()

	// Should contain expected components
	if !strings.Contains(versionStr, "notefolio") {
		t.Error("Version string should contain 'notefolio'")
	}

	if !strings.Contains(versionStr, "version:") {
		t.Error("Version string should contain 'version:'")
	}

	if !strings.Contains(versionStr, "commit:") {
		t.Error("Version string should contain 'commit:'")
	}

	if !strings.Contains(versionStr, "date:") {
		t.Error("Version string should contain 'date:'")
	}
}

func TestGetShortVersion(t *testing.T) {
	shortVer := GetShortVersion()

	if shortVer == "" {
		t.Error("Short version should not be empty")
	}

	// Should equal the Version variable
	if Version != "dev" && shortVer != Version {
		t.Errorf("Short version mismatch: got %s, want %s", shortVer, Version)
	}
}

func TestParseRepoUrl(t *testing.T) {
	user, repo := parseRepoUrl()

	expectedUser := "redjax"
	expectedRepo := "notefolio"

	if user != expectedUser {
		t.Errorf("Repo user mismatch: got %s, want %s", user, expectedUser)
	}

	if repo != expectedRepo {
		t.Errorf("Repo name mismatch: got %s, want %s", repo, expectedRepo)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()

	if !strings.HasPrefix(ua, "notefolio/") {
		t.Errorf("UserAgent should start with notefolio/, got %s", ua)
	}
}

func TestVersionCommandShort(t *testing.T) {
	cmd := NewVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != GetShortVersion() {
		t.Errorf("short version output mismatch: got %s, want %s", got, GetShortVersion())
	}
}

func TestInfoCommandExtraLines(t *testing.T) {
	cmd := NewInfoCommand(func() [][2]string {
		return [][2]string{{"Server", "http://127.0.0.1:5000"}}
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("info command failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Repository: notefolio") {
		t.Error("info output should contain the repository name")
	}
	if !strings.Contains(text, "Server: http://127.0.0.1:5000") {
		t.Error("info output should contain the extra lines")
	}
}
