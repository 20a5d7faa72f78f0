// Package control holds the process lifecycle primitives behind the
// dashboard's stop/restart/launch surface: terminate by PID, wait for exit
// with a deadline, and spawn a shell command in the background.
package control

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrStopTimeout reports that a terminated process was still alive when the
// wait deadline expired.
var ErrStopTimeout = errors.New("process did not exit before deadline")

const pollInterval = 200 * time.Millisecond

// Provider abstracts the OS calls so the wait loop is testable.
type Provider interface {
	Terminate(pid int32) error
	Alive(pid int32) bool
}

type gopsProvider struct{}

func (gopsProvider) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		// Already gone; stopping an absent process is not an error.
		return nil
	}
	return p.Terminate()
}

func (gopsProvider) Alive(pid int32) bool {
	exists, err := process.PidExists(pid)
	if err != nil {
		return false
	}
	return exists
}

// Controller issues stop and stop-and-wait operations against a Provider.
type Controller struct {
	provider Provider
}

// New returns a Controller backed by the OS process table.
func New() *Controller {
	return &Controller{provider: gopsProvider{}}
}

// Stop sends a termination signal to pid. A vanished process is success.
func (c *Controller) Stop(pid int32) error {
	return c.provider.Terminate(pid)
}

// StopAndWait terminates pid and polls until it exits or the timeout
// elapses, returning ErrStopTimeout in the latter case.
func (c *Controller) StopAndWait(ctx context.Context, pid int32, timeout time.Duration) error {
	if err := c.provider.Terminate(pid); err != nil {
		return err
	}
	if !c.provider.Alive(pid) {
		return nil
	}

	deadline := time.After(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrStopTimeout
		case <-ticker.C:
			if !c.provider.Alive(pid) {
				return nil
			}
		}
	}
}

// Launch starts cmdline through the shell, detached from the caller. The
// command is reaped in the background; its exit status is not reported.
func Launch(cmdline string) error {
	cmd := exec.Command("/bin/sh", "-c", cmdline)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
