package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// start launches the command; replaced in tests.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens an http(s) URL in the user's default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("browser.Open: refusing non-http url %q", rawURL)
	}
	switch runtime.GOOS {
	case "darwin":
		return start("open", rawURL)
	case "linux":
		return start("xdg-open", rawURL)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
