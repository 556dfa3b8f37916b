// Package chromium provides WebDriver sessions driving Chrome through
// chromedriver.
package chromium

import (
	"github.com/driverkit/webdriver/common"
	"github.com/driverkit/webdriver/log"
)

// NewSession creates a Chrome session. See common.NewSession for the
// fallback-launch behavior when no chromedriver is listening.
func NewSession(cfg common.Config, logger *log.Logger) (*common.Session, error) {
	return common.NewSession(common.BrowserChrome, cfg, logger)
}
