package prompt

import "strings"

// Platform classifies where the page is running for banner selection.
type Platform int

const (
	// PlatformOther covers desktop and Android browsers, which may fire a
	// native install prompt.
	PlatformOther Platform = iota

	// PlatformIOS never fires a native prompt; the banner can only show
	// manual install instructions.
	PlatformIOS

	// PlatformStandalone means the app is already installed and running
	// from the home screen; no banner is ever shown.
	PlatformStandalone
)

// String returns the platform name for logging.
func (p Platform) String() string {
	switch p {
	case PlatformIOS:
		return "ios"
	case PlatformStandalone:
		return "standalone"
	default:
		return "other"
	}
}

// DetectPlatform classifies the runtime from the user agent string and the
// display-mode standalone signal. Standalone wins over everything else.
func DetectPlatform(userAgent string, standalone bool) Platform {
	if standalone {
		return PlatformStandalone
	}
	for _, device := range []string{"iPhone", "iPad", "iPod"} {
		if strings.Contains(userAgent, device) {
			return PlatformIOS
		}
	}
	return PlatformOther
}
