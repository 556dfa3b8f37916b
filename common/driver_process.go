package common

import (
	"os/exec"

	"github.com/pkg/errors"

	"github.com/driverkit/webdriver/log"
)

// DriverProcess is a WebDriver server launched by the session-creation
// fallback. It is owned exclusively by the Session that spawned it; only
// session teardown may terminate it.
type DriverProcess struct {
	cmd  *exec.Cmd
	done chan struct{}

	logger *log.Logger
}

// startDriverProcess spawns the driver executable detached from our stdio.
// Stdout and stderr are suppressed, matching how the drivers are meant to run
// in the background.
func startDriverProcess(path string, args []string, logger *log.Logger) (*DriverProcess, error) {
	cmd := exec.Command(path, args...)
	// cmd.Stdout and cmd.Stderr stay nil: output goes to the null device.

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", path)
	}

	p := &DriverProcess{
		cmd:    cmd,
		done:   make(chan struct{}),
		logger: logger,
	}

	go func() {
		defer close(p.done)
		if err := cmd.Wait(); err != nil {
			p.logger.Debugf("driver", "process with PID %d ended: %v", cmd.Process.Pid, err)
		}
	}()

	return p, nil
}

// Pid returns the driver process ID.
func (p *DriverProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Terminate kills the driver process. Best effort: a failed kill is logged
// and never surfaced, so session teardown cannot fail or block on it.
func (p *DriverProcess) Terminate() {
	p.logger.Warnf("driver", "killing driver process with PID %d (may fail silently)", p.Pid())
	if err := p.cmd.Process.Kill(); err != nil {
		p.logger.Warnf("driver", "killing driver process: %v", err)
	}
}

// Done is closed once the process has been reaped.
func (p *DriverProcess) Done() <-chan struct{} {
	return p.done
}
