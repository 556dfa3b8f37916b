// Package common implements WebDriver sessions and tabs on top of the wire
// protocol layer.
package common

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/driverkit/webdriver/wire"
)

// Browser selects which browser a session drives.
type Browser int

const (
	// BrowserFirefox drives Firefox through geckodriver.
	BrowserFirefox Browser = iota
	// BrowserChrome drives Chrome through chromedriver.
	BrowserChrome
)

// String returns the W3C browserName for the browser.
func (b Browser) String() string {
	if b == BrowserChrome {
		return "chrome"
	}
	return "firefox"
}

// DriverExecutable returns the driver binary launched by the session-creation
// fallback when no server is listening.
func (b Browser) DriverExecutable() string {
	if b == BrowserChrome {
		return "chromedriver"
	}
	return "geckodriver"
}

// DriverArgs returns the arguments the fallback launch passes to the driver.
// geckodriver listens on 4444 by default; chromedriver must be told to.
func (b Browser) DriverArgs() []string {
	if b == BrowserChrome {
		return []string{"--port=4444"}
	}
	return nil
}

// vendorOptionsKey is the capabilities key carrying browser-specific options
// such as headless arguments.
func (b Browser) vendorOptionsKey() string {
	if b == BrowserChrome {
		return "goog:chromeOptions"
	}
	return "moz:firefoxOptions"
}

// Platform is a W3C platformName value.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformMac     Platform = "mac"
	PlatformWindows Platform = "windows"
)

// CurrentPlatform identifies the local platform. An unrecognized platform is
// rejected here, before any network call is attempted.
func CurrentPlatform() (Platform, error) {
	return platformFromGOOS(runtime.GOOS)
}

func platformFromGOOS(goos string) (Platform, error) {
	switch goos {
	case "linux":
		return PlatformLinux, nil
	case "darwin":
		return PlatformMac, nil
	case "windows":
		return PlatformWindows, nil
	default:
		return "", errors.Wrap(wire.UnsupportedPlatform, goos)
	}
}

// canLaunchDriver reports whether the fallback driver launch is available.
// Only Unix-like platforms auto-launch; on Windows the driver must be started
// manually before creating a session.
func canLaunchDriver() bool {
	return runtime.GOOS != "windows"
}
