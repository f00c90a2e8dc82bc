package run

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/entities"
	"github.com/yipit/cron-sentry/cmd/cron-sentry/execute"
)

// FailureReporter receives the execution report of a command that exited
// nonzero. Implemented by report.Reporter.
type FailureReporter interface {
	ReportFailure(ctx context.Context, command []string, report *entities.ExecutionReport) error
}

// Run executes the configured command, reports a nonzero outcome, and
// echoes the captured tails to the given writers unless quiet. The returned
// status is the one the wrapper process must exit with: the child's own
// exit status, or 127 when the child could not be launched. A delivery
// error is returned alongside the status and never changes it.
func Run(ctx context.Context, config *entities.Config, reporter FailureReporter, stdout, stderr io.Writer) (int, error) {
	report, err := execute.Execute(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("Error executing the command: %w", err)
	}

	var reportErr error
	if report.ExitStatus != 0 {
		reportErr = reporter.ReportFailure(ctx, config.Command, report)
	}

	if !config.Quiet {
		_, _ = io.WriteString(stdout, report.StdoutTail)
		_, _ = io.WriteString(stderr, report.StderrTail)
	}

	logrus.WithFields(logrus.Fields{
		"exit_status":  report.ExitStatus,
		"wall_time_ms": report.WallTimeMs,
	}).Debug("Command finished")

	return report.ExitStatus, reportErr
}
