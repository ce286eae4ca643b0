package utils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	atotto "github.com/atotto/clipboard"
	"golang.design/x/clipboard"
)

var (
	clipboardOnce    sync.Once
	clipboardInitErr error
)

// Clipboard writes text to the system clipboard
type Clipboard struct{}

func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Copy tries the native clipboard first, then WSL's clip.exe, then the
// xclip/xsel/pbcopy helpers.
func (c *Clipboard) Copy(text string) error {
	clipboardOnce.Do(func() {
		clipboardInitErr = clipboard.Init()
	})
	if clipboardInitErr == nil {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}

	if isRunningInWSL() {
		if err := copyWithCommand(exec.Command("clip.exe"), text); err == nil {
			return nil
		}
	}

	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w\n\n%s", errors.Join(clipboardInitErr, err), getClipboardHelp())
	}
	return nil
}

func copyWithCommand(cmd *exec.Cmd, text string) error {
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard command failed: %v", err)
	}
	return nil
}

// isRunningInWSL detects if we're running in Windows Subsystem for Linux
func isRunningInWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	// Check for WSL environment variables
	if os.Getenv("WSL_DISTRO_NAME") != "" || os.Getenv("WSLENV") != "" {
		return true
	}

	// Check /proc/version for Microsoft signature
	if data, err := os.ReadFile("/proc/version"); err == nil {
		version := strings.ToLower(string(data))
		if strings.Contains(version, "microsoft") || strings.Contains(version, "wsl") {
			return true
		}
	}

	return false
}

// getClipboardHelp returns platform-specific help for clipboard issues
func getClipboardHelp() string {
	switch runtime.GOOS {
	case "linux":
		return `On Linux, clipboard support requires an X11 or Wayland session and a clipboard utility:
  - xclip or xsel for X11
  - wl-clipboard for Wayland`
	case "darwin":
		return "On macOS, clipboard support should work out of the box."
	case "windows":
		return "On Windows, clipboard support should work out of the box."
	default:
		return fmt.Sprintf("Clipboard support may not be available on %s", runtime.GOOS)
	}
}
