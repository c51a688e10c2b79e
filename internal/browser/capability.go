// internal/browser/capability.go
package browser

import (
	"os"
	"os/exec"
	"sync"
)

// Executable names probed when no explicit path is configured.
var chromeCandidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

var detectChrome = sync.OnceValue(func() string {
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
})

// FindExecPath returns execPath if it points at a file, otherwise the first
// Chrome-like executable found on this machine. The probe runs once.
func FindExecPath(execPath string) string {
	if execPath != "" {
		if info, err := os.Stat(execPath); err == nil && !info.IsDir() {
			return execPath
		}
		return ""
	}
	return detectChrome()
}

// Available reports whether UI automation can run here.
func Available(execPath string) bool {
	return FindExecPath(execPath) != ""
}
