package execute

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/entities"
	"golang.org/x/sys/unix"
)

// EXIT_STATUS_NOT_LAUNCHED follows the POSIX convention for a command that
// could not be found or started at all.
const EXIT_STATUS_NOT_LAUNCHED = 127

// Execute runs the configured command with its stdout and stderr redirected
// to two temporary files and blocks until it terminates. A command that
// cannot be launched does not produce an error: it is absorbed into a
// synthetic report carrying EXIT_STATUS_NOT_LAUNCHED and the launch error
// text as the stderr tail.
func Execute(ctx context.Context, config *entities.Config) (*entities.ExecutionReport, error) {
	stdOutFile, err := os.CreateTemp("", "cron-sentry-stdout-")
	if err != nil {
		return nil, fmt.Errorf("Error creating the stdout capture file: %w", err)
	}
	defer func() {
		_ = stdOutFile.Close()
		_ = os.Remove(stdOutFile.Name())
	}()

	stdErrFile, err := os.CreateTemp("", "cron-sentry-stderr-")
	if err != nil {
		return nil, fmt.Errorf("Error creating the stderr capture file: %w", err)
	}
	defer func() {
		_ = stdErrFile.Close()
		_ = os.Remove(stdErrFile.Name())
	}()

	cmd := exec.CommandContext(ctx, config.Command[0], config.Command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdOutFile
	cmd.Stderr = stdErrFile

	wallTimeBegin := time.Now()
	runErr := cmd.Run()
	wallTime := time.Since(wallTimeBegin)

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		logrus.WithError(runErr).Debug("Failed to launch the command")
		return &entities.ExecutionReport{
			ExitStatus:   EXIT_STATUS_NOT_LAUNCHED,
			StderrTail:   runErr.Error(),
			WallTimeMs:   wallTime.Milliseconds(),
			LaunchFailed: true,
		}, nil
	}

	exitStatus, signal := resolveExitStatus(cmd.ProcessState)

	stdoutTail, err := lastLines(stdOutFile, config.StringMaxLength)
	if err != nil {
		return nil, fmt.Errorf("Error reading the stdout tail: %w", err)
	}

	stderrTail, err := lastLines(stdErrFile, config.StringMaxLength)
	if err != nil {
		return nil, fmt.Errorf("Error reading the stderr tail: %w", err)
	}

	return &entities.ExecutionReport{
		ExitStatus: exitStatus,
		StdoutTail: stdoutTail,
		StderrTail: stderrTail,
		WallTimeMs: wallTime.Milliseconds(),
		Signal:     signal,
	}, nil
}

// A child killed or stopped by a signal reports the status a POSIX shell
// would, 128 plus the signal number.
func resolveExitStatus(state *os.ProcessState) (int, string) {
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return state.ExitCode(), ""
	}

	switch {
	case status.Exited():
		return status.ExitStatus(), ""
	case status.Signaled():
		s := status.Signal()
		return 128 + int(s), unix.SignalName(unix.Signal(s))
	case status.Stopped():
		s := status.StopSignal()
		return 128 + int(s), unix.SignalName(unix.Signal(s))
	default:
		return state.ExitCode(), ""
	}
}
