// Command wdcli drives a local browser over the WebDriver protocol.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/guregu/null.v3"

	"github.com/driverkit/webdriver/chromium"
	"github.com/driverkit/webdriver/common"
	"github.com/driverkit/webdriver/firefox"
	"github.com/driverkit/webdriver/log"
)

type options struct {
	browser  string
	url      string
	logLevel string
	headless bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "wdcli",
		Short:        "Drive a local browser over the WebDriver protocol",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.browser, "browser", "firefox", "browser to drive (firefox or chrome)")
	root.PersistentFlags().StringVar(&opts.url, "url", "", "WebDriver endpoint (default http://localhost:4444)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.headless, "headless", true, "run the browser headless")

	root.AddCommand(newTitleCommand(opts))
	root.AddCommand(newExecCommand(opts))
	return root
}

func newTitleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "title <page-url>",
		Short: "Navigate to a page and print its title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, tab, err := opts.openTab(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			title, err := tab.Title()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(title))
			return nil
		},
	}
}

func newExecCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <page-url> <script>",
		Short: "Navigate to a page and run a synchronous script in it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, tab, err := opts.openTab(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			return tab.ExecuteScript(args[1], nil)
		},
	}
}

// openTab creates a session and navigates its selected tab to pageURL.
func (o *options) openTab(pageURL string) (*common.Session, *common.Tab, error) {
	logger, err := o.newLogger()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := common.NewConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}
	cfg = cfg.Apply(common.Config{
		URL:      null.NewString(o.url, o.url != ""),
		Headless: null.BoolFrom(o.headless),
	})

	var session *common.Session
	switch o.browser {
	case "firefox":
		session, err = firefox.NewSession(cfg, logger)
	case "chrome":
		session, err = chromium.NewSession(cfg, logger)
	default:
		return nil, nil, fmt.Errorf("unknown browser %q", o.browser)
	}
	if err != nil {
		return nil, nil, err
	}

	tab, err := session.SelectedTab()
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	if err := tab.Navigate(pageURL); err != nil {
		session.Close()
		return nil, nil, err
	}
	return session, tab, nil
}

func (o *options) newLogger() (*log.Logger, error) {
	ll := logrus.New()
	ll.SetOutput(os.Stderr)
	logger := log.New(ll)
	if err := logger.SetLevel(o.logLevel); err != nil {
		return nil, err
	}
	return logger, nil
}
