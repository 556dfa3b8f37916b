// Package firefox provides WebDriver sessions driving Firefox through
// geckodriver.
package firefox

import (
	"github.com/driverkit/webdriver/common"
	"github.com/driverkit/webdriver/log"
)

// NewSession creates a Firefox session. See common.NewSession for the
// fallback-launch behavior when no geckodriver is listening.
func NewSession(cfg common.Config, logger *log.Logger) (*common.Session, error) {
	return common.NewSession(common.BrowserFirefox, cfg, logger)
}
